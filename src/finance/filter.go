package finance

import (
	"strings"
	"time"

	"github.com/username/bitbudget/backend/src/model"
)

// Filters narrows a transaction list by attribute. Nil or zero fields are
// ignored; set fields combine with AND semantics.
type Filters struct {
	// SearchText matches the title, case-insensitive substring.
	SearchText string
	// Category matches the transaction's category key exactly.
	Category string
	// MinValue and MaxValue bound the amount, inclusive.
	MinValue *float64
	MaxValue *float64
	// StartDate and EndDate bound the date, inclusive, at day granularity.
	StartDate *time.Time
	EndDate   *time.Time
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Apply returns the transactions matching every set filter. The input is not
// modified; order is preserved.
func (f Filters) Apply(transactions []model.Transaction) []model.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.SearchText))

	filtered := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if f.Category != "" && t.CategoryKey != f.Category {
			continue
		}
		if f.MinValue != nil && t.Amount < *f.MinValue {
			continue
		}
		if f.MaxValue != nil && t.Amount > *f.MaxValue {
			continue
		}
		if f.StartDate != nil && startOfDay(t.Date).Before(startOfDay(*f.StartDate)) {
			continue
		}
		if f.EndDate != nil && startOfDay(t.Date).After(startOfDay(*f.EndDate)) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}
