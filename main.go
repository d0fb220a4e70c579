package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fintrack/api/config"
	"fintrack/api/handlers"
	"fintrack/api/ledger"
	"fintrack/api/logger"
	"fintrack/api/middleware"
	"fintrack/api/reports"
	"fintrack/api/store"
	"fintrack/api/store/memory"
	mongostore "fintrack/api/store/mongo"
	"fintrack/api/uploads"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := config.Load()

	if err := logger.Init(cfg.DevMode, logger.LogLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Get().Fatal("JWT_SECRET environment variable not set")
	}

	st, cleanup, err := openStore(cfg)
	if err != nil {
		logger.Get().Fatal("failed to open store", zap.Error(err))
	}
	defer cleanup()

	uploadStore, err := uploads.New(cfg.UploadsDir)
	if err != nil {
		logger.Get().Fatal("failed to prepare uploads dir", zap.Error(err))
	}

	api := &handlers.API{
		Engine:   ledger.New(st, st),
		Reporter: reports.New(st),
		Store:    st,
		Uploads:  uploadStore,
	}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})
	router.Use(middleware.CORS)
	router.Static("/uploads", uploadStore.Dir())

	group := router.Group("/api")
	group.GET("/", func(c *gin.Context) {
		c.String(200, "FinTrack API running")
	})

	protected := group.Group("")
	protected.Use(middleware.Auth(cfg.JWTSecret))
	{
		protected.POST("/salary", api.CreateSalary)
		protected.GET("/salary", api.ListSalaries)
		protected.GET("/salary/:month/:year", api.GetSalaryByMonthYear)

		protected.POST("/expense", api.CreateExpense)
		protected.GET("/expense", api.ListExpenses)
		protected.GET("/expense/aggregate", api.AggregateMonthly)
		protected.GET("/expense/:id", api.GetExpenseByID)
		protected.DELETE("/expense/:id", api.DeleteExpense)

		protected.POST("/goal", api.CreateGoal)
		protected.GET("/goal", api.ListGoals)
		protected.PUT("/goal/:id", api.UpdateGoal)
		protected.DELETE("/goal/:id", api.DeleteGoal)

		protected.GET("/dashboard/overview", api.Overview)
		protected.GET("/dashboard/history", api.History)
	}

	logger.Get().Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Get().Fatal("failed to start server", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.DataBackend {
	case "memory":
		logger.Get().Warn("using in-memory store, data will not survive restarts")
		return memory.New(), func() {}, nil
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, nil, fmt.Errorf("MONGO_URI environment variable not set")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			st.Close(ctx)
		}
		return st, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}
}
