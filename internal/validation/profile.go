package validation

import (
	"errors"
	"strings"
)

// ValidateName validates the profile display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateAge bounds the onboarding age field.
func ValidateAge(age int) error {
	if age < 18 {
		return errors.New("members must be at least 18")
	}
	if age > 120 {
		return errors.New("invalid age")
	}
	return nil
}

// ValidateGender accepts the onboarding gender options.
func ValidateGender(gender string) error {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "female", "male", "non-binary", "other":
		return nil
	}
	return errors.New("gender must be one of: female, male, non-binary, other")
}
