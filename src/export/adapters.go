package export

import (
	"github.com/username/bitbudget/backend/src/finance"
	"github.com/username/bitbudget/backend/src/model"
)

// TransactionRows flattens transactions for export. The registry supplies the
// display title and the expense/income direction for each category key.
func TransactionRows(transactions []model.Transaction, registry finance.Registry) []Row {
	rows := make([]Row, 0, len(transactions))
	for _, t := range transactions {
		categoryTitle := t.CategoryKey
		direction := "Expense"
		if c, err := registry.Lookup(t.CategoryKey); err == nil {
			categoryTitle = c.Title
			if !c.IsExpense {
				direction = "Income"
			}
		} else if t.Category != nil && !t.Category.IsExpense {
			direction = "Income"
		}
		rows = append(rows, Row{
			{Key: "date", Value: t.Date},
			{Key: "title", Value: t.Title},
			{Key: "category", Value: categoryTitle},
			{Key: "type", Value: direction},
			{Key: "amount", Value: t.Amount},
			{Key: "description", Value: t.Description},
		})
	}
	return rows
}

// AssetRows flattens synced web3 assets for export.
func AssetRows(assets []model.Web3Asset) []Row {
	rows := make([]Row, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, Row{
			{Key: "name", Value: a.Name},
			{Key: "symbol", Value: a.Symbol},
			{Key: "balance", Value: a.Balance},
			{Key: "tokenType", Value: a.TokenType},
			{Key: "network", Value: a.Network},
			{Key: "lastUpdated", Value: a.LastUpdated},
		})
	}
	return rows
}

// RecommendationRows flattens stored recommendations for export.
func RecommendationRows(recommendations []model.AiRecommendation) []Row {
	rows := make([]Row, 0, len(recommendations))
	for _, r := range recommendations {
		rows = append(rows, Row{
			{Key: "date", Value: r.CreatedAt},
			{Key: "type", Value: r.Type},
			{Key: "title", Value: r.Title},
			{Key: "content", Value: r.Content},
			{Key: "read", Value: r.IsRead},
		})
	}
	return rows
}
