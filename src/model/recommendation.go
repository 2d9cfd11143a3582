package model

import (
	"database/sql"
	"time"
)

// Recommendation types produced by the advisor rule engine.
const (
	RecommendationTypeSaving     = "SAVING"
	RecommendationTypeInvestment = "INVESTMENT"
	RecommendationTypeBudget     = "BUDGET"
	RecommendationTypeGeneral    = "GENERAL"
)

type AiRecommendation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func CreateRecommendation(db *sql.DB, r *AiRecommendation) error {
	r.CreatedAt = time.Now()
	res, err := db.Exec(`
	INSERT INTO ai_recommendations (user_id, title, content, type, is_read, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Title, r.Content, r.Type, r.IsRead, r.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// ListRecommendations returns the user's recommendations newest-first,
// capped at limit.
func ListRecommendations(db *sql.DB, userID int64, limit int) ([]AiRecommendation, error) {
	rows, err := db.Query(`
	SELECT id, user_id, title, content, type, is_read, created_at
	FROM ai_recommendations
	WHERE user_id = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recommendations []AiRecommendation
	for rows.Next() {
		var r AiRecommendation
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.Type, &r.IsRead, &r.CreatedAt); err != nil {
			return nil, err
		}
		recommendations = append(recommendations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if recommendations == nil {
		recommendations = []AiRecommendation{}
	}
	return recommendations, nil
}

// MarkRecommendationRead flips is_read on a recommendation owned by the user.
func MarkRecommendationRead(db *sql.DB, id, userID int64) error {
	res, err := db.Exec(
		`UPDATE ai_recommendations SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
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
