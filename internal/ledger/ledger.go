// Package ledger derives running totals and display amounts from the
// expense collection.
package ledger

import (
	"github.com/dustin/go-humanize"

	"github.com/khuan/tripmate/internal/models"
)

// CategoryAmount is an amount aggregated under one expense category.
type CategoryAmount struct {
	Category models.ExpenseCategory
	Amount   int64
}

// Summary is the ledger rollup: the running total plus per-category
// amounts in category display order. Categories with no spend are omitted.
type Summary struct {
	Total      int64
	ByCategory []CategoryAmount
}

// Total sums the amounts of all current expenses. It always walks the full
// collection: an incremental counter would drift after deletes.
func Total(expenses []models.Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// Summarize computes the total and the per-category breakdown.
func Summarize(expenses []models.Expense) Summary {
	byCategory := make(map[models.ExpenseCategory]int64)
	var total int64
	for _, e := range expenses {
		total += e.Amount
		byCategory[e.Category] += e.Amount
	}

	summary := Summary{Total: total}
	for _, c := range models.ExpenseCategories() {
		if amount, ok := byCategory[c]; ok {
			summary.ByCategory = append(summary.ByCategory, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return summary
}

// Format renders a whole-unit amount with thousands separators.
// Zero renders as the empty string; amounts are never negative or
// fractional by construction, so a negative input also renders empty.
func Format(amount int64) string {
	if amount <= 0 {
		return ""
	}
	return humanize.Comma(amount)
}

// FormatPtr renders a nullable amount; nil renders as the empty string.
func FormatPtr(amount *int64) string {
	if amount == nil {
		return ""
	}
	return Format(*amount)
}
