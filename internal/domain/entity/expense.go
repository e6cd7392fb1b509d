// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Known expense categories. Category is free text at the edges; anything
// absent or blank is normalized to CategoryOthers.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills"
	CategoryHealth        = "Health"
	CategoryOthers        = "Others"
)

// Expense represents a single expense record in the SmartExpense system.
type Expense struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Amount    decimal.Decimal // Always non-negative
	Category  string
	Date      *time.Time // Optional, EffectiveDate falls back to CreatedAt
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewExpense creates a new Expense entity with server-assigned id and timestamps.
func NewExpense(
	userID uuid.UUID,
	title string,
	amount decimal.Decimal,
	category string,
	date *time.Time,
) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Amount:    NormalizeAmount(amount),
		Category:  NormalizeCategory(category),
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EffectiveDate returns the date used for time-based grouping: the explicit
// expense date when present, the creation timestamp otherwise.
func (e *Expense) EffectiveDate() time.Time {
	if e.Date != nil {
		return *e.Date
	}
	return e.CreatedAt
}

// NormalizeCategory maps a blank category to CategoryOthers.
func NormalizeCategory(category string) string {
	if category == "" {
		return CategoryOthers
	}
	return category
}

// NormalizeAmount clamps negative or uninitialized amounts to zero.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
