package models

import "time"

// SalaryPeriod is one month's salary for one user. At most one document
// exists per (user, month, year); the store enforces this with a unique
// index. Remaining starts equal to Amount and only moves through the
// ledger engine's conditional decrement and restore operations.
type SalaryPeriod struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Month     int       `json:"month" bson:"month"`
	Year      int       `json:"year" bson:"year"`
	Amount    float64   `json:"amount" bson:"amount"`
	Remaining float64   `json:"remaining" bson:"remaining"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
