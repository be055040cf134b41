package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
)

// fakeSuggestionRepo is an in-memory SuggestionRepository.
type fakeSuggestionRepo struct {
	suggestions []*model.Suggestion
}

func (f *fakeSuggestionRepo) Create(sg *model.Suggestion) error {
	if sg.ID == "" {
		sg.ID = uuid.New().String()
	}
	clone := *sg
	f.suggestions = append(f.suggestions, &clone)
	return nil
}

func (f *fakeSuggestionRepo) ForUser(toUserID string) ([]model.Suggestion, error) {
	var out []model.Suggestion
	for _, sg := range f.suggestions {
		if sg.ToUserID == toUserID {
			out = append(out, *sg)
		}
	}
	return out, nil
}

func (f *fakeSuggestionRepo) Exists(toUserID, ofUserID string) (bool, error) {
	for _, sg := range f.suggestions {
		if sg.ToUserID == toUserID && sg.OfUserID == ofUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(id string, status model.SuggestionStatus) error {
	for _, sg := range f.suggestions {
		if sg.ID == id {
			sg.Status = status
			return nil
		}
	}
	return repository.ErrSuggestionNotFound
}

func newTestSuggestionService(t *testing.T) (*SuggestionService, *fakeProfileRepo) {
	t.Helper()
	profiles := newFakeProfileRepo()
	svc := NewSuggestionService(&fakeSuggestionRepo{}, profiles)
	return svc, profiles
}

func TestSuggestAndList(t *testing.T) {
	svc, profiles := newTestSuggestionService(t)
	seedProfile(t, profiles, "member", true)
	seedProfile(t, profiles, "candidate", true)

	sg, err := svc.Suggest("member", "candidate")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if sg.Status != model.SuggestionPending {
		t.Errorf("status = %q, want pending", sg.Status)
	}

	list, err := svc.ForUser("member")
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v, want one suggestion", list)
	}
	if list[0].Profile.UserID != "candidate" {
		t.Errorf("suggested profile = %q, want candidate", list[0].Profile.UserID)
	}

	// The other member's list stays empty
	other, err := svc.ForUser("candidate")
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other list = %+v, want empty", other)
	}
}

func TestSuggestRejectsBadPairs(t *testing.T) {
	svc, profiles := newTestSuggestionService(t)
	seedProfile(t, profiles, "member", true)
	seedProfile(t, profiles, "candidate", true)
	seedProfile(t, profiles, "incomplete", false)

	if _, err := svc.Suggest("member", "member"); err == nil {
		t.Error("expected self-suggestion to be rejected")
	}
	if _, err := svc.Suggest("member", "incomplete"); err == nil {
		t.Error("expected incomplete profile to be rejected")
	}
	if _, err := svc.Suggest("member", "missing"); err == nil {
		t.Error("expected missing profile to be rejected")
	}

	_, err := svc.Suggest("member", "candidate")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if _, err := svc.Suggest("member", "candidate"); err == nil {
		t.Error("expected duplicate pair to be rejected")
	}
}

func TestRespondOwnershipCheck(t *testing.T) {
	svc, profiles := newTestSuggestionService(t)
	seedProfile(t, profiles, "member", true)
	seedProfile(t, profiles, "candidate", true)
	seedProfile(t, profiles, "stranger", true)

	sg, err := svc.Suggest("member", "candidate")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	// A stranger cannot answer someone else's suggestion
	err = svc.Respond("stranger", sg.ID, model.SuggestionAccepted)
	if !errors.Is(err, repository.ErrSuggestionNotFound) {
		t.Fatalf("err = %v, want ErrSuggestionNotFound", err)
	}

	err = svc.Respond("member", sg.ID, model.SuggestionAccepted)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	list, _ := svc.ForUser("member")
	if list[0].Suggestion.Status != model.SuggestionAccepted {
		t.Errorf("status = %q, want accepted", list[0].Suggestion.Status)
	}

	if err := svc.Respond("member", sg.ID, model.SuggestionPending); err == nil {
		t.Error("expected pending to be rejected as a response")
	}
}
