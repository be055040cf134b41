package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/model"
)

type SuggestionRepository interface {
	Create(suggestion *model.Suggestion) error
	ForUser(toUserID string) ([]model.Suggestion, error)
	Exists(toUserID, ofUserID string) (bool, error)
	UpdateStatus(id string, status model.SuggestionStatus) error
}

type suggestionRepository struct {
	db *sqlx.DB
}

func NewSuggestionRepository(db *sqlx.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(suggestion *model.Suggestion) error {
	if _, err := model.ParseSuggestionStatus(string(suggestion.Status)); err != nil {
		return err
	}

	if suggestion.ID == "" {
		suggestion.ID = uuid.New().String()
	}
	now := time.Now()
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = now
	}
	suggestion.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO suggestions (id, to_user_id, of_user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, suggestion.ID, suggestion.ToUserID, suggestion.OfUserID, suggestion.Status,
		suggestion.CreatedAt, suggestion.UpdatedAt)

	return err
}

func (r *suggestionRepository) ForUser(toUserID string) ([]model.Suggestion, error) {
	var suggestions []model.Suggestion
	err := r.db.Select(&suggestions, `
		SELECT * FROM suggestions WHERE to_user_id = $1 ORDER BY created_at DESC
	`, toUserID)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (r *suggestionRepository) Exists(toUserID, ofUserID string) (bool, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*) FROM suggestions WHERE to_user_id = $1 AND of_user_id = $2
	`, toUserID, ofUserID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *suggestionRepository) UpdateStatus(id string, status model.SuggestionStatus) error {
	if _, err := model.ParseSuggestionStatus(string(status)); err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE suggestions SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err == sql.ErrNoRows || (err == nil && rows == 0) {
		return ErrSuggestionNotFound
	}
	return err
}
