// Package summary contains the aggregation engine and its use case.
package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smart-expense/backend/internal/application/adapter"
)

// GetSummaryInput represents the input for the summary computation.
type GetSummaryInput struct {
	UserID uuid.UUID
	// Now anchors the this-month filter; the zero value means time.Now().
	Now time.Time
}

// GetSummaryOutput carries every derived view model in one pass over the
// user's records.
type GetSummaryOutput struct {
	Totals         Totals
	ThisMonthTotal decimal.Decimal
	ThisMonthCount int
	CategoryTotals []CategoryTotal
	Breakdown      []BreakdownItem
	MonthlySeries  []MonthBucket
}

// GetSummaryUseCase assembles the dashboard view models for one user.
type GetSummaryUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(expenseRepo adapter.ExpenseRepository) *GetSummaryUseCase {
	return &GetSummaryUseCase{expenseRepo: expenseRepo}
}

// Execute fetches the user's records and runs the aggregation pass over
// them. A failed read is logged and aggregation runs over an empty set, so
// the dashboard renders zeros instead of an error page.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	records, err := uc.expenseRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		slog.Error("Failed to load expenses for summary",
			"userID", input.UserID,
			"error", err,
		)
		records = nil
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	thisMonth := FilterMonth(records, now)
	thisMonthTotals := ComputeTotals(thisMonth)

	return &GetSummaryOutput{
		Totals:         ComputeTotals(records),
		ThisMonthTotal: thisMonthTotals.Total,
		ThisMonthCount: thisMonthTotals.Count,
		CategoryTotals: ComputeCategoryTotals(records),
		Breakdown:      ComputeCategoryBreakdown(records),
		MonthlySeries:  ComputeMonthlySeries(records),
	}, nil
}
