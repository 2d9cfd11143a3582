package model

import (
	"database/sql"
	"time"
)

type Transaction struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	CategoryID  int64     `json:"category_id"`
	CategoryKey string    `json:"category"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Category carries the joined category attributes on reads, mirroring
	// the API responses the web client consumes.
	Category *Category `json:"Category,omitempty"`
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
// Month and Year must be provided together; Type is "expense" or "income".
type TransactionFilter struct {
	Month int
	Year  int
	Type  string
}

func CreateTransaction(db *sql.DB, t *Transaction) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := db.Exec(`
	INSERT INTO transactions (user_id, category_id, title, amount, date, description, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, t.Title, t.Amount, t.Date, t.Description, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, t.title, t.amount, t.date, t.description,
	       t.created_at, t.updated_at,
	       c.id, c.user_id, c.name, c.title, c.color, c.is_expense, c.created_at, c.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

func scanTransactionRows(rows *sql.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var c Category
		var description sql.NullString
		err := rows.Scan(
			&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Amount, &t.Date, &description,
			&t.CreatedAt, &t.UpdatedAt,
			&c.ID, &c.UserID, &c.Key, &c.Title, &c.Color, &c.IsExpense, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Description = description.String
		t.CategoryKey = c.Key
		t.Category = &c
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []Transaction{}
	}
	return transactions, nil
}

// ListTransactions returns the user's transactions newest-first, optionally
// narrowed to a calendar month and/or a transaction type.
func ListTransactions(db *sql.DB, userID int64, filter TransactionFilter) ([]Transaction, error) {
	query := transactionSelect + ` WHERE t.user_id = ?`
	args := []interface{}{userID}

	if filter.Month >= 1 && filter.Month <= 12 && filter.Year > 0 {
		start := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0)
		query += ` AND t.date >= ? AND t.date < ?`
		args = append(args, start, end)
	}

	switch filter.Type {
	case "expense":
		query += ` AND c.is_expense = TRUE`
	case "income":
		query += ` AND c.is_expense = FALSE`
	}

	query += ` ORDER BY t.date DESC, t.id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

// ListTransactionsSince returns the user's transactions dated on or after the
// given instant, newest-first. Used by the advisor aggregation window.
func ListTransactionsSince(db *sql.DB, userID int64, since time.Time) ([]Transaction, error) {
	rows, err := db.Query(
		transactionSelect+` WHERE t.user_id = ? AND t.date >= ? ORDER BY t.date DESC, t.id DESC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

func GetTransactionByID(db *sql.DB, id, userID int64) (*Transaction, error) {
	rows, err := db.Query(transactionSelect+` WHERE t.id = ? AND t.user_id = ?`, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := scanTransactionRows(rows)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, sql.ErrNoRows
	}
	return &transactions[0], nil
}

func (t *Transaction) Update(db *sql.DB) error {
	t.UpdatedAt = time.Now()
	res, err := db.Exec(`
	UPDATE transactions
	SET category_id = ?, title = ?, amount = ?, date = ?, description = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`,
		t.CategoryID, t.Title, t.Amount, t.Date, t.Description, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteTransaction(db *sql.DB, id, userID int64) error {
	res, err := db.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MonthlySummary is one row of the yearly income/expense overview.
type MonthlySummary struct {
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// SummarizeYear computes income and expense totals for each month of the year
// in a single grouped query.
func SummarizeYear(db *sql.DB, userID int64, year int) ([]MonthlySummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	rows, err := db.Query(`
	SELECT CAST(strftime('%m', t.date) AS INTEGER) AS month,
	       COALESCE(SUM(CASE WHEN c.is_expense THEN 0 ELSE t.amount END), 0) AS income,
	       COALESCE(SUM(CASE WHEN c.is_expense THEN t.amount ELSE 0 END), 0) AS expenses
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = ? AND t.date >= ? AND t.date < ?
	GROUP BY month`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMonth := make(map[int]MonthlySummary)
	for rows.Next() {
		var s MonthlySummary
		if err := rows.Scan(&s.Month, &s.Income, &s.Expenses); err != nil {
			return nil, err
		}
		s.Balance = s.Income - s.Expenses
		byMonth[s.Month] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Months with no activity still appear with zero totals.
	summary := make([]MonthlySummary, 0, 12)
	for month := 1; month <= 12; month++ {
		s, ok := byMonth[month]
		if !ok {
			s = MonthlySummary{Month: month}
		}
		summary = append(summary, s)
	}
	return summary, nil
}
