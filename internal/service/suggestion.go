package service

import (
	"fmt"
	"log/slog"

	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
)

// SuggestedProfile pairs a suggestion with the profile it points at, ready
// for the member's suggestion list.
type SuggestedProfile struct {
	Suggestion model.Suggestion `json:"suggestion"`
	Profile    model.Profile    `json:"profile"`
}

type SuggestionService struct {
	suggestionRepo repository.SuggestionRepository
	profileRepo    repository.ProfileRepository
}

func NewSuggestionService(suggestionRepo repository.SuggestionRepository, profileRepo repository.ProfileRepository) *SuggestionService {
	return &SuggestionService{
		suggestionRepo: suggestionRepo,
		profileRepo:    profileRepo,
	}
}

// Suggest creates a founder-curated introduction. Duplicate introductions
// for the same pair are rejected, and only complete profiles can be put in
// front of a member.
func (s *SuggestionService) Suggest(toUserID, ofUserID string) (*model.Suggestion, error) {
	if toUserID == ofUserID {
		return nil, fmt.Errorf("cannot suggest a member to themselves")
	}

	profile, err := s.profileRepo.ByUserID(ofUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested profile: %w", err)
	}
	if !profile.Complete() {
		return nil, fmt.Errorf("suggested profile is not complete")
	}

	exists, err := s.suggestionRepo.Exists(toUserID, ofUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing suggestion: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("suggestion already exists for this pair")
	}

	suggestion := &model.Suggestion{
		ToUserID: toUserID,
		OfUserID: ofUserID,
		Status:   model.SuggestionPending,
	}
	err = s.suggestionRepo.Create(suggestion)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}

	slog.Info("suggestion created", "to", toUserID, "of", ofUserID)
	return suggestion, nil
}

// ForUser returns the member's suggestions with the underlying profiles.
// Suggestions whose profile has since vanished are skipped, not fatal.
func (s *SuggestionService) ForUser(userID string) ([]SuggestedProfile, error) {
	suggestions, err := s.suggestionRepo.ForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	result := make([]SuggestedProfile, 0, len(suggestions))
	for _, sg := range suggestions {
		profile, err := s.profileRepo.ByUserID(sg.OfUserID)
		if err != nil {
			slog.Warn("suggestion references missing profile", "suggestion_id", sg.ID, "of_user_id", sg.OfUserID)
			continue
		}
		result = append(result, SuggestedProfile{Suggestion: sg, Profile: *profile})
	}
	return result, nil
}

// Respond records the member's accept/decline on one of their own
// suggestions.
func (s *SuggestionService) Respond(userID, suggestionID string, status model.SuggestionStatus) error {
	if status != model.SuggestionAccepted && status != model.SuggestionDeclined {
		return fmt.Errorf("invalid response %q", status)
	}

	suggestions, err := s.suggestionRepo.ForUser(userID)
	if err != nil {
		return fmt.Errorf("failed to list suggestions: %w", err)
	}

	for _, sg := range suggestions {
		if sg.ID == suggestionID {
			return s.suggestionRepo.UpdateStatus(suggestionID, status)
		}
	}
	return repository.ErrSuggestionNotFound
}
