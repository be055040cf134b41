package model

import (
	"fmt"
	"time"
)

// ProfileStatus tracks where a profile sits in the matchmaking pipeline.
type ProfileStatus string

const (
	StatusAvailable  ProfileStatus = "available"
	StatusInterested ProfileStatus = "interested"
	StatusMatched    ProfileStatus = "matched"
)

func ParseProfileStatus(s string) (ProfileStatus, error) {
	switch ProfileStatus(s) {
	case StatusAvailable, StatusInterested, StatusMatched:
		return ProfileStatus(s), nil
	}
	return "", fmt.Errorf("unknown profile status %q", s)
}

// MatchStage is the founder-managed progression of an active match.
type MatchStage string

const (
	StageNone         MatchStage = ""
	StageRequested    MatchStage = "requested"
	StageDate         MatchStage = "date"
	StageRelationship MatchStage = "relationship"
	StageEngaged      MatchStage = "engaged"
	StageMarried      MatchStage = "married"
)

func ParseMatchStage(s string) (MatchStage, error) {
	switch MatchStage(s) {
	case StageNone, StageRequested, StageDate, StageRelationship, StageEngaged, StageMarried:
		return MatchStage(s), nil
	}
	return "", fmt.Errorf("unknown match stage %q", s)
}

type Profile struct {
	ID         string        `db:"id" json:"id"`
	UserID     string        `db:"user_id" json:"user_id"`
	Name       string        `db:"name" json:"name"`
	Age        int           `db:"age" json:"age"`
	Gender     string        `db:"gender" json:"gender"`
	PhotoPath  string        `db:"photo_path" json:"-"`
	Height     string        `db:"height" json:"height,omitempty"`
	Industry   string        `db:"industry" json:"industry,omitempty"`
	Education  string        `db:"education" json:"education,omitempty"`
	LinkedIn   string        `db:"linkedin_url" json:"linkedin_url,omitempty"`
	Phone      string        `db:"phone" json:"phone,omitempty"`
	Status     ProfileStatus `db:"status" json:"status"`
	MatchStage MatchStage    `db:"match_stage" json:"match_stage,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`

	// Populated from storage, not persisted.
	PhotoURL string `db:"-" json:"photo_url,omitempty"`
}

// Complete reports whether the required onboarding fields are populated.
// Matching features are gated on this; it is a pure function of the record.
func (p *Profile) Complete() bool {
	return p.Name != "" && p.Age > 0 && p.Gender != ""
}
