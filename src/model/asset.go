package model

import (
	"database/sql"
	"time"
)

type Web3Asset struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Balance     string    `json:"balance"`
	TokenType   string    `json:"tokenType"`
	Network     string    `json:"network"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// UpsertAsset overwrites the stored balance for (user, symbol, tokenType,
// network), inserting the row on first sync. Balances are replaced wholesale;
// there is no incremental update.
func UpsertAsset(db *sql.DB, a *Web3Asset) error {
	a.LastUpdated = time.Now()

	res, err := db.Exec(`
	UPDATE web3_assets
	SET name = ?, balance = ?, last_updated = ?
	WHERE user_id = ? AND symbol = ? AND token_type = ? AND network = ?`,
		a.Name, a.Balance, a.LastUpdated, a.UserID, a.Symbol, a.TokenType, a.Network)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insert, err := db.Exec(`
	INSERT INTO web3_assets (user_id, name, symbol, balance, token_type, network, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Symbol, a.Balance, a.TokenType, a.Network, a.LastUpdated)
	if err != nil {
		return err
	}
	id, err := insert.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// ListAssets returns the user's synced assets, most recently updated first.
func ListAssets(db *sql.DB, userID int64) ([]Web3Asset, error) {
	rows, err := db.Query(`
	SELECT id, user_id, name, symbol, balance, token_type, network, last_updated
	FROM web3_assets
	WHERE user_id = ?
	ORDER BY last_updated DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Web3Asset
	for rows.Next() {
		var a Web3Asset
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Symbol, &a.Balance, &a.TokenType, &a.Network, &a.LastUpdated); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []Web3Asset{}
	}
	return assets, nil
}
