// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/smart-expense/backend/internal/domain/entity"
)

// CreateExpenseRequest represents the request body for expense creation.
type CreateExpenseRequest struct {
	Title    string  `json:"title" binding:"required,max=255"`
	Amount   string  `json:"amount" binding:"required"`
	Category string  `json:"category"`
	Date     *string `json:"date"` // "2006-01-02"
}

// UpdateExpenseRequest represents the request body for expense update.
// Absent fields are left unchanged.
type UpdateExpenseRequest struct {
	Title    *string `json:"title"`
	Amount   *string `json:"amount"`
	Category *string `json:"category"`
	Date     *string `json:"date"` // "2006-01-02"
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    string    `json:"amount"`
	Category  string    `json:"category"`
	Date      *string   `json:"date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpenseListResponse represents the response for expense listing.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    int               `json:"total"`
}

// ToExpenseResponse converts a domain Expense entity to an ExpenseResponse DTO.
func ToExpenseResponse(expense *entity.Expense) ExpenseResponse {
	var date *string
	if expense.Date != nil {
		formatted := expense.Date.Format("2006-01-02")
		date = &formatted
	}

	return ExpenseResponse{
		ID:        expense.ID.String(),
		Title:     expense.Title,
		Amount:    expense.Amount.StringFixed(2),
		Category:  expense.Category,
		Date:      date,
		CreatedAt: expense.CreatedAt,
		UpdatedAt: expense.UpdatedAt,
	}
}

// ToExpenseListResponse converts a slice of expenses to an ExpenseListResponse DTO.
func ToExpenseListResponse(expenses []*entity.Expense) ExpenseListResponse {
	items := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		items[i] = ToExpenseResponse(expense)
	}
	return ExpenseListResponse{
		Expenses: items,
		Total:    len(items),
	}
}
