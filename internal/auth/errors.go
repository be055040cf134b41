package auth

import "errors"

// Every authentication failure maps to exactly one of these. All are terminal
// for the current attempt; ErrProvider is the only one worth retrying after a
// delay, everything else needs a different user action. Handlers translate
// them into generic messages that do not reveal whether an email exists.
var (
	ErrNotFound          = errors.New("account not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrProviderMismatch  = errors.New("account uses a different login method")
	ErrProviderConflict  = errors.New("email already linked to another oauth provider")
	ErrStateMismatch     = errors.New("oauth state token missing, expired, or already used")
	ErrProvider          = errors.New("oauth provider request failed")
	ErrIncompleteProfile = errors.New("oauth provider did not return an email address")
	ErrProviderDisabled  = errors.New("oauth provider is not configured")
)
