package service

import (
	"testing"

	"github.com/tingleshq/tingles/internal/model"
)

func newTestProfileService() (*ProfileService, *fakeProfileRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	// Dev-mode email service logs instead of sending
	emails := NewEmailService("", "noreply@test", "founder@test", "Tingles", true)
	svc := NewProfileService(profiles, users, nil, emails)
	return svc, profiles
}

func seedProfile(t *testing.T, profiles *fakeProfileRepo, userID string, complete bool) *model.Profile {
	t.Helper()
	p := &model.Profile{UserID: userID, Status: model.StatusAvailable}
	if complete {
		p.Name = "Member " + userID
		p.Age = 30
		p.Gender = "female"
	}
	err := profiles.Create(p)
	if err != nil {
		t.Fatalf("seeding profile: %v", err)
	}
	return p
}

func TestCompleteOnboarding(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "u1", false)

	err := svc.CompleteOnboarding("u1", "  Asha  ", 29, "Female")
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}

	got, _ := profiles.ByUserID("u1")
	if got.Name != "Asha" {
		t.Errorf("name = %q, want trimmed Asha", got.Name)
	}
	if got.Gender != "female" {
		t.Errorf("gender = %q, want folded female", got.Gender)
	}
	if !got.Complete() {
		t.Error("expected profile to be complete after onboarding")
	}
}

func TestCompleteOnboardingValidation(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "u1", false)

	if err := svc.CompleteOnboarding("u1", "", 29, "female"); err == nil {
		t.Error("expected empty name to be rejected")
	}
	if err := svc.CompleteOnboarding("u1", "Asha", 15, "female"); err == nil {
		t.Error("expected underage to be rejected")
	}
	if err := svc.CompleteOnboarding("u1", "Asha", 29, "martian"); err == nil {
		t.Error("expected unknown gender to be rejected")
	}

	got, _ := profiles.ByUserID("u1")
	if got.Complete() {
		t.Error("rejected input must not have been applied")
	}
}

func TestGalleryHidesIncompleteProfiles(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "complete", true)
	seedProfile(t, profiles, "incomplete", false)

	gallery, err := svc.Gallery()
	if err != nil {
		t.Fatalf("Gallery: %v", err)
	}
	if len(gallery) != 1 || gallery[0].UserID != "complete" {
		t.Fatalf("gallery = %+v, want only the complete profile", gallery)
	}
}

func TestExpressInterest(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "from", true)
	seedProfile(t, profiles, "target", true)

	err := svc.ExpressInterest("from", "target")
	if err != nil {
		t.Fatalf("ExpressInterest: %v", err)
	}

	got, _ := profiles.ByUserID("target")
	if got.Status != model.StatusInterested {
		t.Errorf("status = %q, want interested", got.Status)
	}
	if got.MatchStage != model.StageRequested {
		t.Errorf("stage = %q, want requested", got.MatchStage)
	}

	if err := svc.ExpressInterest("from", "from"); err == nil {
		t.Error("expected self-interest to be rejected")
	}
	if err := svc.ExpressInterest("from", "missing"); err == nil {
		t.Error("expected missing target to be rejected")
	}
}

func TestUpdateMatchStageDerivesStatus(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "m", true)

	cases := []struct {
		stage  model.MatchStage
		status model.ProfileStatus
	}{
		{model.StageRequested, model.StatusInterested},
		{model.StageDate, model.StatusInterested},
		{model.StageRelationship, model.StatusMatched},
		{model.StageEngaged, model.StatusMatched},
		{model.StageMarried, model.StatusMatched},
		{model.StageNone, model.StatusAvailable},
	}
	for _, tc := range cases {
		err := svc.UpdateMatchStage("m", tc.stage)
		if err != nil {
			t.Fatalf("UpdateMatchStage(%q): %v", tc.stage, err)
		}
		got, _ := profiles.ByUserID("m")
		if got.Status != tc.status {
			t.Errorf("stage %q: status = %q, want %q", tc.stage, got.Status, tc.status)
		}
		if got.MatchStage != tc.stage {
			t.Errorf("stage = %q, want %q", got.MatchStage, tc.stage)
		}
	}
}

func TestListInterested(t *testing.T) {
	svc, profiles := newTestProfileService()
	seedProfile(t, profiles, "a", true)
	seedProfile(t, profiles, "b", true)

	err := svc.ExpressInterest("a", "b")
	if err != nil {
		t.Fatalf("ExpressInterest: %v", err)
	}

	queue, err := svc.ListInterested()
	if err != nil {
		t.Fatalf("ListInterested: %v", err)
	}
	if len(queue) != 1 || queue[0].UserID != "b" {
		t.Fatalf("queue = %+v, want only b", queue)
	}
}
