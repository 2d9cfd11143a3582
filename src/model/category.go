package model

import (
	"database/sql"
	"errors"
	"time"
)

// ErrCategoryInUse is returned when deleting a category that still has
// transactions referencing it.
var ErrCategoryInUse = errors.New("category has transactions and cannot be deleted")

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Key       string    `json:"name"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	IsExpense bool      `json:"isExpense"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func CreateCategory(db *sql.DB, c *Category) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := db.Exec(`
	INSERT INTO categories (user_id, name, title, color, is_expense, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Key, c.Title, c.Color, c.IsExpense, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

const categoryColumns = `id, user_id, name, title, color, is_expense, created_at, updated_at`

func scanCategory(row *sql.Row) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.UserID, &c.Key, &c.Title, &c.Color, &c.IsExpense, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetCategoryByID(db *sql.DB, id, userID int64) (*Category, error) {
	return scanCategory(db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`, id, userID))
}

func GetCategoryByKey(db *sql.DB, key string, userID int64) (*Category, error) {
	return scanCategory(db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE name = ? AND user_id = ?`, key, userID))
}

func ListCategories(db *sql.DB, userID int64) ([]Category, error) {
	rows, err := db.Query(
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Key, &c.Title, &c.Color, &c.IsExpense, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

func (c *Category) Update(db *sql.DB) error {
	c.UpdatedAt = time.Now()
	_, err := db.Exec(`
	UPDATE categories
	SET name = ?, title = ?, color = ?, is_expense = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`,
		c.Key, c.Title, c.Color, c.IsExpense, c.UpdatedAt, c.ID, c.UserID)
	return err
}

// DeleteCategory removes a category owned by the user. A category that still
// has transactions referencing it is not deleted; ErrCategoryInUse is returned
// so the handler can surface a conflict instead of orphaning transactions.
func DeleteCategory(db *sql.DB, id, userID int64) error {
	var txCount int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE category_id = ? AND user_id = ?`, id, userID).Scan(&txCount)
	if err != nil {
		return err
	}
	if txCount > 0 {
		return ErrCategoryInUse
	}

	res, err := db.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
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

// DefaultCategories is the starter registry created for every new user.
var DefaultCategories = []Category{
	{Key: "food", Title: "Food", Color: "#FF6961", IsExpense: true},
	{Key: "rent", Title: "Rent", Color: "#8884FF", IsExpense: true},
	{Key: "salary", Title: "Salary", Color: "#4CAF50", IsExpense: false},
	{Key: "transport", Title: "Transport", Color: "#FFC107", IsExpense: true},
	{Key: "utilities", Title: "Utilities", Color: "#03A9F4", IsExpense: true},
	{Key: "entertainment", Title: "Entertainment", Color: "#9C27B0", IsExpense: true},
	{Key: "health", Title: "Health", Color: "#E91E63", IsExpense: true},
	{Key: "education", Title: "Education", Color: "#3F51B5", IsExpense: true},
	{Key: "investment", Title: "Investment", Color: "#009688", IsExpense: false},
	{Key: "other", Title: "Other", Color: "#607D8B", IsExpense: true},
	{Key: "freelance", Title: "Freelance", Color: "#8BC34A", IsExpense: false},
	{Key: "gift", Title: "Gift", Color: "#FF9800", IsExpense: false},
}

// SeedDefaultCategories inserts the starter categories for a new user.
func SeedDefaultCategories(db *sql.DB, userID int64) error {
	for _, c := range DefaultCategories {
		c.UserID = userID
		if err := CreateCategory(db, &c); err != nil {
			return err
		}
	}
	return nil
}
