package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims are the JWT claims carried by every bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// Caller identifies the authenticated request principal. It is passed
// explicitly into every core operation; there is no ambient role state.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
