package finance

import "github.com/username/bitbudget/backend/src/model"

// Snapshot summarizes a slice of transactions: income and expense totals,
// the resulting balance and savings rate, and per-category expense totals.
type Snapshot struct {
	TotalIncome       float64            `json:"totalIncome"`
	TotalExpenses     float64            `json:"totalExpenses"`
	Balance           float64            `json:"balance"`
	SavingsRate       float64            `json:"savingsRate"`
	ExpenseByCategory map[string]float64 `json:"expenseByCategory"`
}

// Aggregate folds transactions into a Snapshot using the registry to decide
// which side of the ledger each entry lands on. Every expense category in the
// registry appears in ExpenseByCategory, zero-valued when unused, so the
// totals are independent of which categories happen to have activity.
// Unknown category keys fall back to the transaction's own direction via the
// embedded category when present, and are counted as expenses otherwise.
func Aggregate(transactions []TransactionView, registry Registry) Snapshot {
	snapshot := Snapshot{ExpenseByCategory: make(map[string]float64)}
	for key, c := range registry {
		if c.IsExpense {
			snapshot.ExpenseByCategory[key] = 0
		}
	}

	for _, t := range transactions {
		c, err := registry.Lookup(t.CategoryKey)
		isExpense := t.IsExpense
		if err == nil {
			isExpense = c.IsExpense
		}
		if isExpense {
			snapshot.TotalExpenses += t.Amount
			snapshot.ExpenseByCategory[t.CategoryKey] += t.Amount
		} else {
			snapshot.TotalIncome += t.Amount
		}
	}

	snapshot.Balance = snapshot.TotalIncome - snapshot.TotalExpenses
	if snapshot.TotalIncome > 0 {
		snapshot.SavingsRate = snapshot.Balance / snapshot.TotalIncome * 100
	}
	return snapshot
}

// TransactionView is the minimal shape Aggregate needs. It decouples the
// pipeline from the storage model.
type TransactionView struct {
	CategoryKey string
	Amount      float64
	IsExpense   bool
}

// Views projects stored transactions onto the shape Aggregate consumes,
// carrying each transaction's own expense flag as the fallback direction.
func Views(transactions []model.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		v := TransactionView{CategoryKey: t.CategoryKey, Amount: t.Amount}
		if t.Category != nil {
			v.IsExpense = t.Category.IsExpense
		}
		views = append(views, v)
	}
	return views
}

// TopExpenseCategory returns the expense category with the largest total and
// its share of total expenses as a percentage. ok is false when there are no
// expenses. Ties resolve to the lexicographically smallest key so the result
// does not depend on map iteration order.
func (s Snapshot) TopExpenseCategory() (key string, share float64, ok bool) {
	if s.TotalExpenses <= 0 {
		return "", 0, false
	}
	var best string
	var bestAmount float64
	for k, amount := range s.ExpenseByCategory {
		if amount > bestAmount || (amount == bestAmount && amount > 0 && (best == "" || k < best)) {
			best = k
			bestAmount = amount
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestAmount / s.TotalExpenses * 100, true
}
