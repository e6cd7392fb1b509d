// Package summary contains the aggregation engine that turns a user's raw
// expense records into the derived view models shown on the dashboard.
// All functions here are pure: no I/O, no errors, deterministic for a given
// input. Malformed records degrade instead of failing (negative amounts
// count as zero, blank categories fall into Others, a missing date falls
// back to the record's creation time).
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smart-expense/backend/internal/domain/entity"
)

// monthLabelLayout renders bucket labels like "Jan 2026".
const monthLabelLayout = "Jan 2006"

// MaxMonthlyBuckets bounds the monthly series to the most recent months.
const MaxMonthlyBuckets = 6

// Totals aggregates a record set into total, count and average.
type Totals struct {
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
}

// CategoryTotal is one category's accumulated amount.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// BreakdownItem is one category's share of overall spending.
type BreakdownItem struct {
	Category   string
	Amount     decimal.Decimal
	Percentage float64
}

// MonthBucket is one month's accumulated spending.
type MonthBucket struct {
	Label  string // e.g. "Jan 2026"
	Year   int
	Month  time.Month
	Amount decimal.Decimal
}

// ComputeTotals sums the records and derives the average, rounded to two
// decimal places. An empty set yields a zero average, not a division error.
func ComputeTotals(records []*entity.Expense) Totals {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(entity.NormalizeAmount(record.Amount))
	}

	count := len(records)
	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	return Totals{
		Total:   total,
		Count:   count,
		Average: average,
	}
}

// FilterMonth returns the records whose effective date falls in the same
// calendar month as ref, compared on local calendar fields rather than
// elapsed time. A January 31 record and a January 1 ref are the same month;
// a record 29 days ago in the previous month is not.
func FilterMonth(records []*entity.Expense, ref time.Time) []*entity.Expense {
	filtered := make([]*entity.Expense, 0)
	for _, record := range records {
		date := record.EffectiveDate()
		if date.Year() == ref.Year() && date.Month() == ref.Month() {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// ComputeCategoryTotals accumulates per-category amounts, ordered by the
// first occurrence of each category in the input. Blank categories fall
// into Others.
func ComputeCategoryTotals(records []*entity.Expense) []CategoryTotal {
	index := make(map[string]int)
	totals := make([]CategoryTotal, 0)

	for _, record := range records {
		category := entity.NormalizeCategory(record.Category)
		amount := entity.NormalizeAmount(record.Amount)

		if i, ok := index[category]; ok {
			totals[i].Amount = totals[i].Amount.Add(amount)
			continue
		}
		index[category] = len(totals)
		totals = append(totals, CategoryTotal{Category: category, Amount: amount})
	}

	return totals
}

// ComputeCategoryBreakdown derives each category's share of the overall
// total, sorted by amount descending. Ties keep the category-totals order,
// so the result is stable for a given input. When the overall total is zero
// every percentage is zero.
func ComputeCategoryBreakdown(records []*entity.Expense) []BreakdownItem {
	categoryTotals := ComputeCategoryTotals(records)

	total := decimal.Zero
	for _, ct := range categoryTotals {
		total = total.Add(ct.Amount)
	}

	items := make([]BreakdownItem, 0, len(categoryTotals))
	for _, ct := range categoryTotals {
		var percentage float64
		if !total.IsZero() {
			pct := ct.Amount.Mul(decimal.NewFromInt(100)).Div(total)
			percentage, _ = pct.Round(2).Float64()
		}
		items = append(items, BreakdownItem{
			Category:   ct.Category,
			Amount:     ct.Amount,
			Percentage: percentage,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount.GreaterThan(items[j].Amount)
	})

	return items
}

// ComputeMonthlySeries buckets spending by the calendar month of each
// record's effective date and returns the most recent MaxMonthlyBuckets
// months that have at least one record, in chronological order. Months
// without records do not appear as zero buckets.
func ComputeMonthlySeries(records []*entity.Expense) []MonthBucket {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make(map[monthKey]decimal.Decimal)
	for _, record := range records {
		date := record.EffectiveDate()
		key := monthKey{year: date.Year(), month: date.Month()}
		buckets[key] = buckets[key].Add(entity.NormalizeAmount(record.Amount))
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	if len(keys) > MaxMonthlyBuckets {
		keys = keys[len(keys)-MaxMonthlyBuckets:]
	}

	series := make([]MonthBucket, 0, len(keys))
	for _, key := range keys {
		label := time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.Local).Format(monthLabelLayout)
		series = append(series, MonthBucket{
			Label:  label,
			Year:   key.year,
			Month:  key.month,
			Amount: buckets[key],
		})
	}

	return series
}
