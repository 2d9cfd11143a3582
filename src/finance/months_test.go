package finance

import (
	"testing"
	"time"

	"github.com/username/bitbudget/backend/src/model"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Month
		wantErr bool
	}{
		{name: "unpadded", input: "2024-3", want: Month{2024, time.March}},
		{name: "padded", input: "2024-03", want: Month{2024, time.March}},
		{name: "december", input: "2023-12", want: Month{2023, time.December}},
		{name: "month zero", input: "2024-0", wantErr: true},
		{name: "month thirteen", input: "2024-13", wantErr: true},
		{name: "missing month", input: "2024", wantErr: true},
		{name: "garbage", input: "march-2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonth(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMonth(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMonthString(t *testing.T) {
	m := Month{2024, time.March}
	if got := m.String(); got != "2024-3" {
		t.Errorf("String() = %q, want %q", got, "2024-3")
	}
}

func TestMonthNavigation(t *testing.T) {
	tests := []struct {
		name  string
		start string
		prev  string
		next  string
	}{
		{name: "mid year", start: "2024-6", prev: "2024-5", next: "2024-7"},
		{name: "january rolls back", start: "2024-1", prev: "2023-12", next: "2024-2"},
		{name: "december rolls forward", start: "2024-12", prev: "2024-11", next: "2025-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMonth(tt.start)
			if err != nil {
				t.Fatalf("ParseMonth(%q): %v", tt.start, err)
			}
			if got := m.Prev().String(); got != tt.prev {
				t.Errorf("Prev() = %q, want %q", got, tt.prev)
			}
			if got := m.Next().String(); got != tt.next {
				t.Errorf("Next() = %q, want %q", got, tt.next)
			}
		})
	}
}

func TestMonthContainsBoundaries(t *testing.T) {
	m := Month{2024, time.February}

	first := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local)
	lastInstant := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.Local)
	nextFirst := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)

	if !m.Contains(first) {
		t.Error("first instant of the month should be contained")
	}
	if !m.Contains(lastInstant) {
		t.Error("last instant of the month should be contained")
	}
	if m.Contains(nextFirst) {
		t.Error("first instant of the next month should not be contained")
	}
}

func tx(date time.Time, title string, amount float64, key string, isExpense bool) model.Transaction {
	return model.Transaction{
		Title:       title,
		Amount:      amount,
		Date:        date,
		CategoryKey: key,
		Category:    &model.Category{Key: key, Title: key, IsExpense: isExpense},
	}
}

func TestFilterByMonth(t *testing.T) {
	transactions := []model.Transaction{
		tx(time.Date(2024, time.January, 31, 12, 0, 0, 0, time.Local), "Groceries", 80, "food", true),
		tx(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local), "Rent", 1200, "rent", true),
		tx(time.Date(2024, time.February, 29, 18, 30, 0, 0, time.Local), "Salary", 3000, "salary", false),
		tx(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local), "Bus pass", 40, "transport", true),
	}

	filtered := FilterByMonth(transactions, Month{2024, time.February})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 transactions in February, got %d", len(filtered))
	}
	if filtered[0].Title != "Rent" || filtered[1].Title != "Salary" {
		t.Errorf("unexpected selection or order: %q, %q", filtered[0].Title, filtered[1].Title)
	}

	// Result is always a subset of the input.
	for _, f := range filtered {
		found := false
		for _, orig := range transactions {
			if orig.Title == f.Title {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("filtered transaction %q not present in input", f.Title)
		}
	}

	if got := FilterByMonth(nil, Month{2024, time.February}); len(got) != 0 {
		t.Errorf("filtering nil input should yield empty, got %d", len(got))
	}
}
