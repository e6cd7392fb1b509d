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

// UpdateExpenseInput represents the input for expense update.
// Nil fields are left unchanged.
type UpdateExpenseInput struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Title    *string
	Amount   *decimal.Decimal
	Category *string
	Date     *time.Time
}

// UpdateExpenseOutput represents the output of expense update.
type UpdateExpenseOutput struct {
	Expense *entity.Expense
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(expenseRepo adapter.ExpenseRepository) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute performs the expense update with ownership check.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	expense, err := uc.expenseRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseNotFound,
			"expense not found",
			domainerror.ErrExpenseNotFound,
		)
	}

	// Verify ownership
	if expense.UserID != input.UserID {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeExpenseNotOwned,
			"expense does not belong to user",
			domainerror.ErrExpenseNotOwned,
		)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseMissingFields,
				"title is required",
				nil,
			)
		}
		expense.Title = *input.Title
	}
	if input.Amount != nil {
		expense.Amount = entity.NormalizeAmount(*input.Amount)
	}
	if input.Category != nil {
		expense.Category = entity.NormalizeCategory(*input.Category)
	}
	if input.Date != nil {
		expense.Date = input.Date
	}
	expense.UpdatedAt = time.Now().UTC()

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return &UpdateExpenseOutput{Expense: expense}, nil
}
