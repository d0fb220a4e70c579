package models

import "time"

// Expense draws from exactly one SalaryPeriod. SalaryRef is fixed at
// creation time and never changes afterwards.
type Expense struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Amount    float64   `json:"amount" bson:"amount"`
	Category  string    `json:"category" bson:"category"`
	Date      time.Time `json:"date" bson:"date"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	SalaryRef string    `json:"salaryRef" bson:"salary_ref"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// CategoryTotal is one row of a per-category expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category" bson:"category"`
	Total    float64 `json:"total" bson:"total"`
}
