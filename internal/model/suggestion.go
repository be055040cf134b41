package model

import (
	"fmt"
	"time"
)

// SuggestionStatus tracks a user's response to a founder suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionDeclined SuggestionStatus = "declined"
)

func ParseSuggestionStatus(s string) (SuggestionStatus, error) {
	switch SuggestionStatus(s) {
	case SuggestionPending, SuggestionAccepted, SuggestionDeclined:
		return SuggestionStatus(s), nil
	}
	return "", fmt.Errorf("unknown suggestion status %q", s)
}

// Suggestion is a founder-curated introduction: profile OfUserID shown to ToUserID.
type Suggestion struct {
	ID        string           `db:"id" json:"id"`
	ToUserID  string           `db:"to_user_id" json:"to_user_id"`
	OfUserID  string           `db:"of_user_id" json:"of_user_id"`
	Status    SuggestionStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
