package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/model"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByUserID(userID string) (*model.Profile, error)
	ListByStatus(status model.ProfileStatus) ([]model.Profile, error)
	Update(profile *model.Profile) error
	UpdateStage(userID string, status model.ProfileStatus, stage model.MatchStage) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if _, err := model.ParseProfileStatus(string(profile.Status)); err != nil {
		return err
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, age, gender, photo_path, height, industry,
			education, linkedin_url, phone, status, match_stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, profile.ID, profile.UserID, profile.Name, profile.Age, profile.Gender, profile.PhotoPath,
		profile.Height, profile.Industry, profile.Education, profile.LinkedIn, profile.Phone,
		profile.Status, profile.MatchStage, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListByStatus(status model.ProfileStatus) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.Select(&profiles, `SELECT * FROM profiles WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	if _, err := model.ParseProfileStatus(string(profile.Status)); err != nil {
		return err
	}
	if _, err := model.ParseMatchStage(string(profile.MatchStage)); err != nil {
		return err
	}

	profile.UpdatedAt = time.Now()
	result, err := r.db.Exec(`
		UPDATE profiles
		SET name = $1, age = $2, gender = $3, photo_path = $4, height = $5, industry = $6,
			education = $7, linkedin_url = $8, phone = $9, status = $10, match_stage = $11,
			updated_at = $12
		WHERE user_id = $13
	`, profile.Name, profile.Age, profile.Gender, profile.PhotoPath, profile.Height,
		profile.Industry, profile.Education, profile.LinkedIn, profile.Phone,
		profile.Status, profile.MatchStage, profile.UpdatedAt, profile.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateStage moves a profile through the matchmaking pipeline without
// touching the onboarding fields.
func (r *profileRepository) UpdateStage(userID string, status model.ProfileStatus, stage model.MatchStage) error {
	if _, err := model.ParseProfileStatus(string(status)); err != nil {
		return err
	}
	if _, err := model.ParseMatchStage(string(stage)); err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE profiles SET status = $1, match_stage = $2, updated_at = $3 WHERE user_id = $4
	`, status, stage, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}
