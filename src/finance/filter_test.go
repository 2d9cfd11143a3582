package finance

import (
	"testing"
	"time"

	"github.com/username/bitbudget/backend/src/model"
)

func float64Ptr(v float64) *float64  { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		tx(time.Date(2024, time.March, 2, 9, 0, 0, 0, time.Local), "Weekly Groceries", 85.50, "food", true),
		tx(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local), "Rent March", 1200, "rent", true),
		tx(time.Date(2024, time.March, 10, 14, 0, 0, 0, time.Local), "Cinema tickets", 24, "entertainment", true),
		tx(time.Date(2024, time.March, 25, 0, 0, 0, 0, time.Local), "Salary", 3200, "salary", false),
	}
}

func TestFiltersApply(t *testing.T) {
	transactions := sampleTransactions()

	tests := []struct {
		name       string
		filters    Filters
		wantTitles []string
	}{
		{
			name:       "zero filters keep everything",
			filters:    Filters{},
			wantTitles: []string{"Weekly Groceries", "Rent March", "Cinema tickets", "Salary"},
		},
		{
			name:       "search is case-insensitive substring",
			filters:    Filters{SearchText: "gROCer"},
			wantTitles: []string{"Weekly Groceries"},
		},
		{
			name:       "category exact match",
			filters:    Filters{Category: "rent"},
			wantTitles: []string{"Rent March"},
		},
		{
			name:       "min value inclusive",
			filters:    Filters{MinValue: float64Ptr(1200)},
			wantTitles: []string{"Rent March", "Salary"},
		},
		{
			name:       "max value inclusive",
			filters:    Filters{MaxValue: float64Ptr(85.50)},
			wantTitles: []string{"Weekly Groceries", "Cinema tickets"},
		},
		{
			name: "date range normalized to days",
			filters: Filters{
				StartDate: timePtr(time.Date(2024, time.March, 5, 23, 0, 0, 0, time.Local)),
				EndDate:   timePtr(time.Date(2024, time.March, 10, 1, 0, 0, 0, time.Local)),
			},
			wantTitles: []string{"Rent March", "Cinema tickets"},
		},
		{
			name: "filters combine with AND",
			filters: Filters{
				SearchText: "r",
				MinValue:   float64Ptr(100),
			},
			wantTitles: []string{"Rent March", "Salary"},
		},
		{
			name:       "no match yields empty",
			filters:    Filters{Category: "health"},
			wantTitles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filters.Apply(transactions)
			if len(got) != len(tt.wantTitles) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantTitles))
			}
			for i, want := range tt.wantTitles {
				if got[i].Title != want {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Title, want)
				}
			}
		})
	}
}

// Adding a filter never grows the result set.
func TestFiltersMonotonic(t *testing.T) {
	transactions := sampleTransactions()

	base := Filters{SearchText: "r"}
	narrowed := Filters{SearchText: "r", MinValue: float64Ptr(1000)}

	baseResult := base.Apply(transactions)
	narrowedResult := narrowed.Apply(transactions)

	if len(narrowedResult) > len(baseResult) {
		t.Fatalf("narrowed filters returned more results (%d) than base (%d)", len(narrowedResult), len(baseResult))
	}
	for _, n := range narrowedResult {
		found := false
		for _, b := range baseResult {
			if b.Title == n.Title {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("narrowed result %q not in base result", n.Title)
		}
	}
}

// Text search reads the title only; a hit in the description must not
// pull a transaction in.
func TestFiltersSearchIgnoresDescription(t *testing.T) {
	transactions := []model.Transaction{
		{Title: "Rent", Description: "monthly groceries budget", CategoryKey: "rent",
			Category: &model.Category{Key: "rent", IsExpense: true}, Amount: 1200,
			Date: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.Local)},
		{Title: "Weekly Groceries", Description: "", CategoryKey: "food",
			Category: &model.Category{Key: "food", IsExpense: true}, Amount: 85.50,
			Date: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local)},
	}

	got := Filters{SearchText: "groceries"}.Apply(transactions)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1 title match", len(got))
	}
	if got[0].Title != "Weekly Groceries" {
		t.Errorf("matched %q via its description", got[0].Title)
	}
}
