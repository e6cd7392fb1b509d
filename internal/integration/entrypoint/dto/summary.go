// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/smart-expense/backend/internal/application/usecase/summary"
)

// SummaryResponse represents the full derived view model for the dashboard.
type SummaryResponse struct {
	Total          string                  `json:"total"`
	Count          int                     `json:"count"`
	Average        string                  `json:"average"`
	ThisMonthTotal string                  `json:"this_month_total"`
	ThisMonthCount int                     `json:"this_month_count"`
	CategoryTotals []CategoryTotalResponse `json:"category_totals"`
	Breakdown      []BreakdownItemResponse `json:"breakdown"`
	MonthlySeries  []MonthBucketResponse   `json:"monthly_series"`
}

// CategoryTotalResponse represents one category's accumulated amount.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// BreakdownItemResponse represents one category's share of spending.
type BreakdownItemResponse struct {
	Category   string  `json:"category"`
	Amount     string  `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// MonthBucketResponse represents one month's accumulated spending.
type MonthBucketResponse struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// ToSummaryResponse converts the summary use case output to a SummaryResponse DTO.
func ToSummaryResponse(output *summary.GetSummaryOutput) SummaryResponse {
	categoryTotals := make([]CategoryTotalResponse, len(output.CategoryTotals))
	for i, ct := range output.CategoryTotals {
		categoryTotals[i] = CategoryTotalResponse{
			Category: ct.Category,
			Amount:   ct.Amount.StringFixed(2),
		}
	}

	breakdown := make([]BreakdownItemResponse, len(output.Breakdown))
	for i, item := range output.Breakdown {
		breakdown[i] = BreakdownItemResponse{
			Category:   item.Category,
			Amount:     item.Amount.StringFixed(2),
			Percentage: item.Percentage,
		}
	}

	series := make([]MonthBucketResponse, len(output.MonthlySeries))
	for i, bucket := range output.MonthlySeries {
		series[i] = MonthBucketResponse{
			Label:  bucket.Label,
			Amount: bucket.Amount.StringFixed(2),
		}
	}

	return SummaryResponse{
		Total:          output.Totals.Total.StringFixed(2),
		Count:          output.Totals.Count,
		Average:        output.Totals.Average.StringFixed(2),
		ThisMonthTotal: output.ThisMonthTotal.StringFixed(2),
		ThisMonthCount: output.ThisMonthCount,
		CategoryTotals: categoryTotals,
		Breakdown:      breakdown,
		MonthlySeries:  series,
	}
}
