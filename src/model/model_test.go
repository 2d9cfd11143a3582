package model

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    wallet_address TEXT,
    is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
    email_verification_token TEXT,
    email_verification_token_expires_at TIMESTAMP,
    password_reset_token TEXT,
    password_reset_token_expires_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    title TEXT NOT NULL,
    color TEXT,
    is_expense BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (user_id, name)
);
CREATE TABLE transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    category_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    amount REAL NOT NULL,
    date TIMESTAMP NOT NULL,
    description TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT
);
`

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create test schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username, email string) *User {
	t.Helper()
	user := &User{Username: username, Email: email, Password: "hashed"}
	if err := user.CreateUser(db); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestUpdateProfile(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	if err := user.UpdateProfile(db, "alice2", "alice2@example.com"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	reloaded, err := GetUserByID(db, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if reloaded.Username != "alice2" {
		t.Errorf("username = %q, want alice2", reloaded.Username)
	}
	if reloaded.Email != "alice2@example.com" {
		t.Errorf("email = %q, want alice2@example.com", reloaded.Email)
	}
}

func TestGetCategoryByIDScopedToOwner(t *testing.T) {
	db := testDB(t)
	owner := createTestUser(t, db, "owner", "owner@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	category := &Category{UserID: owner.ID, Key: "food", Title: "Food", Color: "#FF6961", IsExpense: true}
	if err := CreateCategory(db, category); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	got, err := GetCategoryByID(db, category.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetCategoryByID as owner: %v", err)
	}
	if got.Key != "food" {
		t.Errorf("key = %q, want food", got.Key)
	}

	if _, err := GetCategoryByID(db, category.ID, other.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("fetch as non-owner: error = %v, want sql.ErrNoRows", err)
	}
}

func TestGetTransactionByIDScopedToOwner(t *testing.T) {
	db := testDB(t)
	owner := createTestUser(t, db, "owner", "owner@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	category := &Category{UserID: owner.ID, Key: "rent", Title: "Rent", Color: "#8884FF", IsExpense: true}
	if err := CreateCategory(db, category); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	transaction := &Transaction{
		UserID:     owner.ID,
		CategoryID: category.ID,
		Title:      "Rent March",
		Amount:     1200,
		Date:       time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local),
	}
	if err := CreateTransaction(db, transaction); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := GetTransactionByID(db, transaction.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTransactionByID as owner: %v", err)
	}
	if got.CategoryKey != "rent" {
		t.Errorf("category key = %q, want rent", got.CategoryKey)
	}
	if got.Category == nil || !got.Category.IsExpense {
		t.Error("joined category not populated as expense")
	}

	if _, err := GetTransactionByID(db, transaction.ID, other.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("fetch as non-owner: error = %v, want sql.ErrNoRows", err)
	}
}
