// Package summary contains the aggregation engine and its use case.
package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smart-expense/backend/internal/domain/entity"
)

func newRecord(title string, amount float64, category string, date time.Time) *entity.Expense {
	d := date
	return &entity.Expense{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     title,
		Amount:    decimal.NewFromFloat(amount),
		Category:  category,
		Date:      &d,
		CreatedAt: date,
		UpdatedAt: date,
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("empty set yields zero totals and zero average", func(t *testing.T) {
		totals := ComputeTotals(nil)

		if !totals.Total.IsZero() {
			t.Errorf("expected zero total, got %s", totals.Total)
		}
		if totals.Count != 0 {
			t.Errorf("expected count 0, got %d", totals.Count)
		}
		if !totals.Average.IsZero() {
			t.Errorf("expected zero average, got %s", totals.Average)
		}
	})

	t.Run("sums and averages with rounding", func(t *testing.T) {
		now := time.Now()
		records := []*entity.Expense{
			newRecord("a", 10, entity.CategoryFood, now),
			newRecord("b", 10, entity.CategoryFood, now),
			newRecord("c", 10.01, entity.CategoryFood, now),
		}

		totals := ComputeTotals(records)

		if !totals.Total.Equal(decimal.NewFromFloat(30.01)) {
			t.Errorf("expected total 30.01, got %s", totals.Total)
		}
		if totals.Count != 3 {
			t.Errorf("expected count 3, got %d", totals.Count)
		}
		if !totals.Average.Equal(decimal.NewFromFloat(10.00)) {
			t.Errorf("expected average 10.00, got %s", totals.Average)
		}
	})

	t.Run("negative amounts count as zero", func(t *testing.T) {
		now := time.Now()
		records := []*entity.Expense{
			newRecord("a", 10, entity.CategoryFood, now),
			newRecord("b", -5, entity.CategoryFood, now),
		}

		totals := ComputeTotals(records)

		if !totals.Total.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected total 10, got %s", totals.Total)
		}
		if totals.Count != 2 {
			t.Errorf("expected count 2, got %d", totals.Count)
		}
	})
}

func TestFilterMonth(t *testing.T) {
	ref := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)

	t.Run("matches on calendar month not elapsed time", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("same month", 1, entity.CategoryFood, time.Date(2026, time.January, 31, 23, 0, 0, 0, time.Local)),
			newRecord("previous month", 2, entity.CategoryFood, time.Date(2025, time.December, 3, 0, 0, 0, 0, time.Local)),
			newRecord("same month next year", 3, entity.CategoryFood, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.Local)),
		}

		filtered := FilterMonth(records, ref)

		if len(filtered) != 1 {
			t.Fatalf("expected 1 record, got %d", len(filtered))
		}
		if filtered[0].Title != "same month" {
			t.Errorf("expected record 'same month', got %q", filtered[0].Title)
		}
	})

	t.Run("missing date falls back to created_at", func(t *testing.T) {
		record := newRecord("no date", 1, entity.CategoryFood, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.Local))
		record.Date = nil

		filtered := FilterMonth([]*entity.Expense{record}, ref)

		if len(filtered) != 1 {
			t.Fatalf("expected 1 record via created_at fallback, got %d", len(filtered))
		}
	})

	t.Run("empty input yields empty non-nil slice", func(t *testing.T) {
		filtered := FilterMonth(nil, ref)
		if filtered == nil || len(filtered) != 0 {
			t.Errorf("expected empty slice, got %v", filtered)
		}
	})
}

func TestComputeCategoryTotals(t *testing.T) {
	now := time.Now()

	t.Run("accumulates in first-occurrence order", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 10, entity.CategoryTransport, now),
			newRecord("b", 5, entity.CategoryFood, now),
			newRecord("c", 7, entity.CategoryTransport, now),
		}

		totals := ComputeCategoryTotals(records)

		if len(totals) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(totals))
		}
		if totals[0].Category != entity.CategoryTransport || !totals[0].Amount.Equal(decimal.NewFromInt(17)) {
			t.Errorf("expected Transport 17 first, got %s %s", totals[0].Category, totals[0].Amount)
		}
		if totals[1].Category != entity.CategoryFood || !totals[1].Amount.Equal(decimal.NewFromInt(5)) {
			t.Errorf("expected Food 5 second, got %s %s", totals[1].Category, totals[1].Amount)
		}
	})

	t.Run("blank category falls into Others", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 3, "", now),
			newRecord("b", 4, entity.CategoryOthers, now),
		}

		totals := ComputeCategoryTotals(records)

		if len(totals) != 1 {
			t.Fatalf("expected 1 category, got %d", len(totals))
		}
		if totals[0].Category != entity.CategoryOthers || !totals[0].Amount.Equal(decimal.NewFromInt(7)) {
			t.Errorf("expected Others 7, got %s %s", totals[0].Category, totals[0].Amount)
		}
	})
}

func TestComputeCategoryBreakdown(t *testing.T) {
	now := time.Now()

	t.Run("sorts by amount descending with percentages", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 25, entity.CategoryFood, now),
			newRecord("b", 75, entity.CategoryBills, now),
		}

		items := ComputeCategoryBreakdown(records)

		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Category != entity.CategoryBills || items[0].Percentage != 75 {
			t.Errorf("expected Bills at 75%%, got %s at %v", items[0].Category, items[0].Percentage)
		}
		if items[1].Category != entity.CategoryFood || items[1].Percentage != 25 {
			t.Errorf("expected Food at 25%%, got %s at %v", items[1].Category, items[1].Percentage)
		}
	})

	t.Run("ties keep first-occurrence order", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 10, entity.CategoryHealth, now),
			newRecord("b", 10, entity.CategoryShopping, now),
		}

		items := ComputeCategoryBreakdown(records)

		if items[0].Category != entity.CategoryHealth || items[1].Category != entity.CategoryShopping {
			t.Errorf("expected Health then Shopping, got %s then %s", items[0].Category, items[1].Category)
		}
	})

	t.Run("zero total yields zero percentages", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 0, entity.CategoryFood, now),
		}

		items := ComputeCategoryBreakdown(records)

		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Percentage != 0 {
			t.Errorf("expected zero percentage, got %v", items[0].Percentage)
		}
	})

	t.Run("percentages are rounded to two decimals", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("a", 1, entity.CategoryFood, now),
			newRecord("b", 2, entity.CategoryBills, now),
		}

		items := ComputeCategoryBreakdown(records)

		if items[0].Percentage != 66.67 {
			t.Errorf("expected 66.67, got %v", items[0].Percentage)
		}
		if items[1].Percentage != 33.33 {
			t.Errorf("expected 33.33, got %v", items[1].Percentage)
		}
	})
}

func TestComputeMonthlySeries(t *testing.T) {
	t.Run("buckets are chronological with month labels", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("feb", 20, entity.CategoryFood, time.Date(2026, time.February, 5, 0, 0, 0, 0, time.Local)),
			newRecord("jan", 10, entity.CategoryFood, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.Local)),
			newRecord("jan again", 5, entity.CategoryFood, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.Local)),
		}

		series := ComputeMonthlySeries(records)

		if len(series) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(series))
		}
		if series[0].Label != "Jan 2026" || !series[0].Amount.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected Jan 2026 with 15, got %s with %s", series[0].Label, series[0].Amount)
		}
		if series[1].Label != "Feb 2026" || !series[1].Amount.Equal(decimal.NewFromInt(20)) {
			t.Errorf("expected Feb 2026 with 20, got %s with %s", series[1].Label, series[1].Amount)
		}
	})

	t.Run("keeps only the most recent six buckets", func(t *testing.T) {
		records := make([]*entity.Expense, 0, 8)
		for m := time.January; m <= time.August; m++ {
			records = append(records, newRecord("r", 1, entity.CategoryFood, time.Date(2026, m, 10, 0, 0, 0, 0, time.Local)))
		}

		series := ComputeMonthlySeries(records)

		if len(series) != MaxMonthlyBuckets {
			t.Fatalf("expected %d buckets, got %d", MaxMonthlyBuckets, len(series))
		}
		if series[0].Label != "Mar 2026" {
			t.Errorf("expected oldest kept bucket Mar 2026, got %s", series[0].Label)
		}
		if series[len(series)-1].Label != "Aug 2026" {
			t.Errorf("expected newest bucket Aug 2026, got %s", series[len(series)-1].Label)
		}
	})

	t.Run("months without records do not appear", func(t *testing.T) {
		records := []*entity.Expense{
			newRecord("jan", 1, entity.CategoryFood, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)),
			newRecord("mar", 1, entity.CategoryFood, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)),
		}

		series := ComputeMonthlySeries(records)

		if len(series) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(series))
		}
		if series[0].Label != "Jan 2026" || series[1].Label != "Mar 2026" {
			t.Errorf("expected Jan and Mar only, got %s and %s", series[0].Label, series[1].Label)
		}
	})

	t.Run("empty input yields empty series", func(t *testing.T) {
		if series := ComputeMonthlySeries(nil); len(series) != 0 {
			t.Errorf("expected empty series, got %d buckets", len(series))
		}
	})
}

// failingExpenseRepo always fails reads, to exercise the degraded path.
type failingExpenseRepo struct{}

func (r *failingExpenseRepo) Create(context.Context, *entity.Expense) error { return nil }
func (r *failingExpenseRepo) FindByID(context.Context, uuid.UUID) (*entity.Expense, error) {
	return nil, errors.New("connection refused")
}
func (r *failingExpenseRepo) FindByUser(context.Context, uuid.UUID) ([]*entity.Expense, error) {
	return nil, errors.New("connection refused")
}
func (r *failingExpenseRepo) Update(context.Context, *entity.Expense) error { return nil }
func (r *failingExpenseRepo) Delete(context.Context, uuid.UUID) error       { return nil }

func TestGetSummaryUseCase_Execute(t *testing.T) {
	t.Run("read failure degrades to an empty summary", func(t *testing.T) {
		uc := NewGetSummaryUseCase(&failingExpenseRepo{})

		out, err := uc.Execute(context.Background(), GetSummaryInput{UserID: uuid.New()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Totals.Count != 0 || !out.Totals.Total.IsZero() {
			t.Errorf("expected empty totals, got count %d total %s", out.Totals.Count, out.Totals.Total)
		}
		if len(out.Breakdown) != 0 || len(out.MonthlySeries) != 0 {
			t.Error("expected empty derived models")
		}
	})
}
