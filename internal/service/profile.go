package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/validation"
)

type ProfileService struct {
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	photoService *PhotoService
	emailService *EmailService
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	photoService *PhotoService,
	emailService *EmailService,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		photoService: photoService,
		emailService: emailService,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	s.attachPhotoURL(profile)
	return profile, nil
}

// CompleteOnboarding fills in the gating fields. Everything else on the
// profile is optional and editable later.
func (s *ProfileService) CompleteOnboarding(userID, name string, age int, gender string) error {
	name = strings.TrimSpace(name)
	gender = strings.TrimSpace(strings.ToLower(gender))

	err := validation.ValidateName(name)
	if err != nil {
		return err
	}
	err = validation.ValidateAge(age)
	if err != nil {
		return err
	}
	err = validation.ValidateGender(gender)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Name = name
	profile.Age = age
	profile.Gender = gender

	err = s.profileRepo.Update(profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("onboarding completed", "user_id", userID)
	return nil
}

// UpdateDetails lets a member (or the founder, on any member's behalf) edit
// the optional matchmaking fields.
func (s *ProfileService) UpdateDetails(userID, height, industry, education, linkedinURL, phone string) error {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Height = strings.TrimSpace(height)
	profile.Industry = strings.TrimSpace(industry)
	profile.Education = strings.TrimSpace(education)
	profile.LinkedIn = strings.TrimSpace(linkedinURL)
	profile.Phone = strings.TrimSpace(phone)

	return s.profileRepo.Update(profile)
}

// Gallery returns the browsable profiles: available and fully onboarded.
// Incomplete profiles never surface to other members.
func (s *ProfileService) Gallery() ([]model.Profile, error) {
	profiles, err := s.profileRepo.ListByStatus(model.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	visible := profiles[:0]
	for _, p := range profiles {
		if p.Complete() {
			s.attachPhotoURL(&p)
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// ExpressInterest marks the target profile and notifies the founder, who
// brokers every introduction by hand.
func (s *ProfileService) ExpressInterest(fromUserID, targetUserID string) error {
	if fromUserID == targetUserID {
		return fmt.Errorf("cannot express interest in your own profile")
	}

	target, err := s.profileRepo.ByUserID(targetUserID)
	if err != nil {
		return fmt.Errorf("failed to get target profile: %w", err)
	}

	err = s.profileRepo.UpdateStage(target.UserID, model.StatusInterested, model.StageRequested)
	if err != nil {
		return fmt.Errorf("failed to record interest: %w", err)
	}

	from, err := s.profileRepo.ByUserID(fromUserID)
	fromName := ""
	if err == nil {
		fromName = from.Name
	}

	err = s.emailService.SendInterestNotification(fromName, target.Name)
	if err != nil {
		// Notification failure must not undo the recorded interest.
		slog.Warn("failed to notify founder of interest", "error", err)
	}

	slog.Info("interest recorded", "from", fromUserID, "target", targetUserID)
	return nil
}

// ListInterested is the founder's work queue.
func (s *ProfileService) ListInterested() ([]model.Profile, error) {
	profiles, err := s.profileRepo.ListByStatus(model.StatusInterested)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		s.attachPhotoURL(&profiles[i])
	}
	return profiles, nil
}

// UpdateMatchStage moves a member through the pipeline. Founder only.
func (s *ProfileService) UpdateMatchStage(userID string, stage model.MatchStage) error {
	status := model.StatusInterested
	if stage == model.StageNone {
		status = model.StatusAvailable
	}
	if stage == model.StageRelationship || stage == model.StageEngaged || stage == model.StageMarried {
		status = model.StatusMatched
	}

	err := s.profileRepo.UpdateStage(userID, status, stage)
	if err != nil {
		return err
	}

	slog.Info("match stage updated", "user_id", userID, "stage", stage)
	return nil
}

// SetPhoto stores an uploaded photo and records its path.
func (s *ProfileService) SetPhoto(userID, path string) error {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}

	profile.PhotoPath = path
	return s.profileRepo.Update(profile)
}

func (s *ProfileService) attachPhotoURL(p *model.Profile) {
	if p.PhotoPath == "" || s.photoService == nil {
		return
	}
	p.PhotoURL = s.photoService.URL(p.PhotoPath)
}
