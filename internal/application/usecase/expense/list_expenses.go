// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smart-expense/backend/internal/application/adapter"
	"github.com/smart-expense/backend/internal/domain/entity"
)

// ListExpensesInput represents the input for expense listing.
type ListExpensesInput struct {
	UserID uuid.UUID
}

// ListExpensesOutput represents the output of expense listing.
type ListExpensesOutput struct {
	Expenses []*entity.Expense
}

// ListExpensesUseCase handles expense listing logic.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository) *ListExpensesUseCase {
	return &ListExpensesUseCase{expenseRepo: expenseRepo}
}

// Execute lists the user's expenses, newest first. A failed read is logged
// and yields an empty list so the caller renders an empty state instead of
// an error page.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	expenses, err := uc.expenseRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		slog.Error("Failed to list expenses",
			"userID", input.UserID,
			"error", err,
		)
		return &ListExpensesOutput{Expenses: []*entity.Expense{}}, nil
	}

	return &ListExpensesOutput{Expenses: expenses}, nil
}
