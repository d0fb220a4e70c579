package config

import "os"

type Config struct {
	// HTTP server
	Port string

	// Store
	DataBackend   string // "mongo" or "memory"
	MongoURI      string
	MongoDatabase string

	// Auth
	JWTSecret string

	// Goal images
	UploadsDir string

	// Logging
	LogLevel string
	DevMode  bool
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DataBackend:   getEnv("DATA_BACKEND", "mongo"),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "fintrack"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		UploadsDir:    getEnv("UPLOADS_DIR", "./uploads"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnv("APP_ENV", "production") == "development",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
