package finance

import (
	"math"
	"testing"
)

func testRegistry() Registry {
	return Registry{
		"food":   {Title: "Food", IsExpense: true},
		"rent":   {Title: "Rent", IsExpense: true},
		"salary": {Title: "Salary", IsExpense: false},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	registry := testRegistry()
	views := []TransactionView{
		{CategoryKey: "salary", Amount: 3000},
		{CategoryKey: "food", Amount: 400},
		{CategoryKey: "rent", Amount: 1100},
	}

	snapshot := Aggregate(views, registry)

	if !almostEqual(snapshot.TotalIncome, 3000) {
		t.Errorf("TotalIncome = %v, want 3000", snapshot.TotalIncome)
	}
	if !almostEqual(snapshot.TotalExpenses, 1500) {
		t.Errorf("TotalExpenses = %v, want 1500", snapshot.TotalExpenses)
	}
	if !almostEqual(snapshot.Balance, 1500) {
		t.Errorf("Balance = %v, want 1500", snapshot.Balance)
	}
	if !almostEqual(snapshot.SavingsRate, 50) {
		t.Errorf("SavingsRate = %v, want 50", snapshot.SavingsRate)
	}
	if !almostEqual(snapshot.ExpenseByCategory["food"], 400) {
		t.Errorf("ExpenseByCategory[food] = %v, want 400", snapshot.ExpenseByCategory["food"])
	}
}

func TestAggregateOrderInvariant(t *testing.T) {
	registry := testRegistry()
	views := []TransactionView{
		{CategoryKey: "salary", Amount: 3000},
		{CategoryKey: "food", Amount: 400},
		{CategoryKey: "rent", Amount: 1100},
		{CategoryKey: "food", Amount: 55.25},
	}
	reversed := make([]TransactionView, len(views))
	for i, v := range views {
		reversed[len(views)-1-i] = v
	}

	a := Aggregate(views, registry)
	b := Aggregate(reversed, registry)

	if !almostEqual(a.TotalIncome, b.TotalIncome) ||
		!almostEqual(a.TotalExpenses, b.TotalExpenses) ||
		!almostEqual(a.SavingsRate, b.SavingsRate) {
		t.Errorf("aggregation depends on input order: %+v vs %+v", a, b)
	}
	for key := range a.ExpenseByCategory {
		if !almostEqual(a.ExpenseByCategory[key], b.ExpenseByCategory[key]) {
			t.Errorf("ExpenseByCategory[%s] differs between orders", key)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	registry := testRegistry()
	snapshot := Aggregate(nil, registry)

	if snapshot.TotalIncome != 0 || snapshot.TotalExpenses != 0 || snapshot.Balance != 0 {
		t.Errorf("empty aggregate should have zero totals: %+v", snapshot)
	}
	if snapshot.SavingsRate != 0 {
		t.Errorf("SavingsRate = %v, want 0 for empty input", snapshot.SavingsRate)
	}

	// Every expense category appears, zero-valued; income categories do not.
	if v, ok := snapshot.ExpenseByCategory["food"]; !ok || v != 0 {
		t.Errorf("ExpenseByCategory[food] = %v (present=%v), want 0 present", v, ok)
	}
	if v, ok := snapshot.ExpenseByCategory["rent"]; !ok || v != 0 {
		t.Errorf("ExpenseByCategory[rent] = %v (present=%v), want 0 present", v, ok)
	}
	if _, ok := snapshot.ExpenseByCategory["salary"]; ok {
		t.Error("income category salary should not appear in ExpenseByCategory")
	}
}

func TestAggregateZeroIncomeSavingsRate(t *testing.T) {
	registry := testRegistry()
	snapshot := Aggregate([]TransactionView{{CategoryKey: "food", Amount: 100}}, registry)

	if math.IsNaN(snapshot.SavingsRate) || math.IsInf(snapshot.SavingsRate, 0) {
		t.Fatalf("SavingsRate must be finite with zero income, got %v", snapshot.SavingsRate)
	}
	if snapshot.SavingsRate != 0 {
		t.Errorf("SavingsRate = %v, want 0", snapshot.SavingsRate)
	}
}

func TestTopExpenseCategory(t *testing.T) {
	registry := testRegistry()

	snapshot := Aggregate([]TransactionView{
		{CategoryKey: "rent", Amount: 900},
		{CategoryKey: "food", Amount: 100},
	}, registry)

	key, share, ok := snapshot.TopExpenseCategory()
	if !ok {
		t.Fatal("expected a top expense category")
	}
	if key != "rent" {
		t.Errorf("top category = %q, want rent", key)
	}
	if !almostEqual(share, 90) {
		t.Errorf("share = %v, want 90", share)
	}

	empty := Aggregate(nil, registry)
	if _, _, ok := empty.TopExpenseCategory(); ok {
		t.Error("empty snapshot should not report a top category")
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()
	if len(registry) != 12 {
		t.Fatalf("default registry has %d keys, want 12", len(registry))
	}

	if _, err := registry.Lookup("food"); err != nil {
		t.Errorf("Lookup(food) failed: %v", err)
	}
	if _, err := registry.Lookup("unknown_key"); err == nil {
		t.Error("Lookup of an unknown key should fail")
	}

	salary, err := registry.Lookup("salary")
	if err != nil {
		t.Fatalf("Lookup(salary) failed: %v", err)
	}
	if salary.IsExpense {
		t.Error("salary should be an income category")
	}
}
