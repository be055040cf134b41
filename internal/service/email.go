package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService sends the founder's operational notifications through Resend.
// In development it logs instead of sending, so local flows need no API key.
type EmailService struct {
	client       *resend.Client
	fromEmail    string
	founderEmail string
	appName      string
	isDev        bool
}

func NewEmailService(apiKey, fromEmail, founderEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:       client,
		fromEmail:    fromEmail,
		founderEmail: founderEmail,
		appName:      appName,
		isDev:        isDev,
	}
}

// SendInterestNotification tells the founder a member expressed interest in
// another profile.
func (s *EmailService) SendInterestNotification(fromName, targetName string) error {
	subject := fmt.Sprintf("%s: interest recorded", s.appName)
	body := fmt.Sprintf(
		"%s has expressed interest in %s.\n\nReview the pair in founder tools and move the match stage when ready.\n",
		orUnknown(fromName), orUnknown(targetName),
	)
	return s.sendToFounder("interest", subject, body)
}

// SendSignupNotification tells the founder a new member joined.
func (s *EmailService) SendSignupNotification(email, provider string) error {
	subject := fmt.Sprintf("%s: new member", s.appName)
	body := fmt.Sprintf("A new member signed up with %s: %s\n", provider, email)
	return s.sendToFounder("signup", subject, body)
}

func (s *EmailService) sendToFounder(kind, subject, body string) error {
	if s.founderEmail == "" {
		slog.Warn("founder notification skipped, no founder email configured", "type", kind)
		return nil
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", s.founderEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.founderEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", s.founderEmail)
	}
	return err
}

func orUnknown(name string) string {
	if name == "" {
		return "A member"
	}
	return name
}
