package services

import (
	"strings"
	"testing"

	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/model"
)

func fixedPicker(index int) func(n int) int {
	return func(n int) int { return index % n }
}

func snapshotFor(income, expenses float64, byCategory map[string]float64) finance.Snapshot {
	s := finance.Snapshot{
		TotalIncome:       income,
		TotalExpenses:     expenses,
		Balance:           income - expenses,
		ExpenseByCategory: byCategory,
	}
	if income > 0 {
		s.SavingsRate = s.Balance / income * 100
	}
	if s.ExpenseByCategory == nil {
		s.ExpenseByCategory = map[string]float64{}
	}
	return s
}

func TestAdviseDecisionTable(t *testing.T) {
	registry := finance.Registry{
		"food": {Title: "Food", IsExpense: true},
		"rent": {Title: "Rent", IsExpense: true},
	}

	tests := []struct {
		name        string
		income      float64
		expenses    float64
		wantType    string
		wantContent string
	}{
		{
			name:     "balanced budget",
			income:   5000,
			expenses: 4000,
			wantType: model.RecommendationTypeGeneral,
			// 20% savings rate lands in the balanced bracket
			wantContent: "20.0%",
		},
		{
			name:        "overspending mentions deficit",
			income:      1000,
			expenses:    1500,
			wantType:    model.RecommendationTypeBudget,
			wantContent: "$500.00",
		},
		{
			name:        "low savings rate",
			income:      1000,
			expenses:    950,
			wantType:    model.RecommendationTypeSaving,
			wantContent: "5.0%",
		},
		{
			name:        "high savings rate suggests investing",
			income:      1000,
			expenses:    300,
			wantType:    model.RecommendationTypeInvestment,
			wantContent: "70.0%",
		},
	}

	advisor := NewAdvisorServiceWithPicker(3, fixedPicker(0))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := snapshotFor(tt.income, tt.expenses, map[string]float64{
				"food": tt.expenses * 0.3,
				"rent": tt.expenses * 0.7,
			})

			advice := advisor.Advise(snapshot, registry)

			if advice.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", advice.Type, tt.wantType)
			}
			if advice.Title == "" {
				t.Error("Title should not be empty")
			}
			if !strings.Contains(advice.Content, tt.wantContent) {
				t.Errorf("Content %q does not mention %q", advice.Content, tt.wantContent)
			}
		})
	}
}

func TestAdviseTopCategoryEnrichment(t *testing.T) {
	registry := finance.Registry{
		"food": {Title: "Food", IsExpense: true},
		"rent": {Title: "Rent", IsExpense: true},
	}
	advisor := NewAdvisorServiceWithPicker(3, fixedPicker(0))

	// Rent is 75% of expenses, well above the 40% threshold.
	dominated := snapshotFor(5000, 2000, map[string]float64{"rent": 1500, "food": 500})
	advice := advisor.Advise(dominated, registry)
	if !strings.Contains(advice.Content, "Rent") || !strings.Contains(advice.Content, "75.0%") {
		t.Errorf("expected enrichment naming Rent at 75.0%%, got %q", advice.Content)
	}

	// An even split stays below the threshold; no category is singled out.
	balanced := snapshotFor(5000, 2000, map[string]float64{"rent": 800, "food": 800, "transport": 400})
	advice = advisor.Advise(balanced, registry)
	if strings.Contains(advice.Content, "accounts for") {
		t.Errorf("no enrichment expected for balanced spending, got %q", advice.Content)
	}
}

func TestAdviseAlwaysAppendsTip(t *testing.T) {
	registry := finance.Registry{"food": {Title: "Food", IsExpense: true}}

	for i := range advisorTips {
		advisor := NewAdvisorServiceWithPicker(3, fixedPicker(i))
		advice := advisor.Advise(snapshotFor(1000, 500, nil), registry)
		if !strings.Contains(advice.Content, "Tip: "+advisorTips[i]) {
			t.Errorf("picker index %d: content missing tip %q", i, advisorTips[i])
		}
	}
}
