// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smart-expense/backend/internal/application/adapter"
	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

// MaxTitleLength is the maximum allowed length for expense titles.
const MaxTitleLength = 255

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID   uuid.UUID
	Title    string
	Amount   decimal.Decimal
	Category string
	Date     *time.Time
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *entity.Expense
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(expenseRepo adapter.ExpenseRepository) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute performs the expense creation.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	// Validate title
	if input.Title == "" {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseMissingFields,
			"title is required",
			nil,
		)
	}
	if len(input.Title) > MaxTitleLength {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseMissingFields,
			fmt.Sprintf("title must not exceed %d characters", MaxTitleLength),
			nil,
		)
	}

	// Create expense entity; category and amount are normalized there
	expense := entity.NewExpense(
		input.UserID,
		input.Title,
		input.Amount,
		input.Category,
		input.Date,
	)

	// Save expense to database
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreateExpenseOutput{Expense: expense}, nil
}
