package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tingleshq/tingles/internal/model"
	"golang.org/x/oauth2"
)

// fakeProvider stands in for Google or LinkedIn: a token endpoint and a
// userinfo endpoint backed by canned responses.
type fakeProvider struct {
	server       *httptest.Server
	userinfo     map[string]any
	userinfoCode int
	tokenCalls   int
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	fp := &fakeProvider{userinfoCode: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		fp.tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
		if err != nil {
			t.Errorf("failed to encode token response: %v", err)
		}
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if fp.userinfoCode != http.StatusOK {
			w.WriteHeader(fp.userinfoCode)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(fp.userinfo)
		if err != nil {
			t.Errorf("failed to encode userinfo response: %v", err)
		}
	})

	fp.server = httptest.NewServer(mux)
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   fp.server.URL + "/authorize",
		TokenURL:  fp.server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func newTestExchange(t *testing.T, provider model.AuthProvider, fp *fakeProvider) (*Exchange, *StateStore) {
	t.Helper()

	states := NewStateStore(10 * time.Minute)
	creds := ClientCredentials{ClientID: "client-id", ClientSecret: "client-secret"}

	var google, linkedin ClientCredentials
	switch provider {
	case model.ProviderGoogle:
		google = creds
	case model.ProviderLinkedIn:
		linkedin = creds
	}

	exchange := NewExchange(states, "http://localhost/auth/callback", google, linkedin,
		WithHTTPClient(fp.server.Client()),
		WithProviderEndpoint(provider, fp.endpoint(), fp.server.URL+"/userinfo"),
	)
	return exchange, states
}

func TestExchangeCompleteGoogle(t *testing.T) {
	fp := newFakeProvider(t)
	// Google's v2 userinfo keys the subject as "id"
	fp.userinfo = map[string]any{
		"id":      "google-subject-123",
		"email":   "Priya@Example.com",
		"name":    "Priya",
		"picture": "https://example.com/p.jpg",
	}

	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, state, err := exchange.Begin(model.ProviderGoogle)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	identity, err := exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", state)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if identity.Provider != model.ProviderGoogle {
		t.Errorf("provider = %q, want google", identity.Provider)
	}
	if identity.SubjectID != "google-subject-123" {
		t.Errorf("subject = %q, want google-subject-123", identity.SubjectID)
	}
	if identity.Email != "priya@example.com" {
		t.Errorf("email = %q, want lowercased priya@example.com", identity.Email)
	}
	if identity.Name != "Priya" {
		t.Errorf("name = %q, want Priya", identity.Name)
	}
}

func TestExchangeCompleteLinkedIn(t *testing.T) {
	fp := newFakeProvider(t)
	// LinkedIn's OIDC userinfo keys the subject as "sub"
	fp.userinfo = map[string]any{
		"sub":   "linkedin-subject-9",
		"email": "dev@example.com",
		"name":  "Dev",
	}

	exchange, _ := newTestExchange(t, model.ProviderLinkedIn, fp)

	_, state, err := exchange.Begin(model.ProviderLinkedIn)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	identity, err := exchange.Complete(context.Background(), model.ProviderLinkedIn, "auth-code", state)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if identity.SubjectID != "linkedin-subject-9" {
		t.Errorf("subject = %q, want linkedin-subject-9", identity.SubjectID)
	}
}

func TestExchangeStateMismatchShortCircuits(t *testing.T) {
	fp := newFakeProvider(t)
	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, err := exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", "forged-state")
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("err = %v, want ErrStateMismatch", err)
	}
	if fp.tokenCalls != 0 {
		t.Fatalf("token endpoint called %d times for a forged state, want 0", fp.tokenCalls)
	}
}

func TestExchangeStateSingleUse(t *testing.T) {
	fp := newFakeProvider(t)
	fp.userinfo = map[string]any{"id": "sub-1", "email": "a@example.com"}

	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, state, err := exchange.Begin(model.ProviderGoogle)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", state)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", state)
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("replayed state: err = %v, want ErrStateMismatch", err)
	}
}

func TestExchangeMissingCode(t *testing.T) {
	fp := newFakeProvider(t)
	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, state, err := exchange.Begin(model.ProviderGoogle)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderGoogle, "", state)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestExchangeUserinfoFailure(t *testing.T) {
	fp := newFakeProvider(t)
	fp.userinfoCode = http.StatusInternalServerError

	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, state, err := exchange.Begin(model.ProviderGoogle)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", state)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestExchangeMissingEmail(t *testing.T) {
	fp := newFakeProvider(t)
	fp.userinfo = map[string]any{"id": "sub-1", "name": "No Email"}

	exchange, _ := newTestExchange(t, model.ProviderGoogle, fp)

	_, state, err := exchange.Begin(model.ProviderGoogle)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderGoogle, "auth-code", state)
	if !errors.Is(err, ErrIncompleteProfile) {
		t.Fatalf("err = %v, want ErrIncompleteProfile", err)
	}
}

func TestExchangeDisabledProvider(t *testing.T) {
	states := NewStateStore(10 * time.Minute)
	// No credentials configured at all
	exchange := NewExchange(states, "http://localhost/auth/callback", ClientCredentials{}, ClientCredentials{})

	if exchange.Enabled(model.ProviderGoogle) || exchange.Enabled(model.ProviderLinkedIn) {
		t.Fatal("expected both providers to be disabled")
	}

	_, _, err := exchange.Begin(model.ProviderGoogle)
	if !errors.Is(err, ErrProviderDisabled) {
		t.Fatalf("Begin err = %v, want ErrProviderDisabled", err)
	}

	_, err = exchange.Complete(context.Background(), model.ProviderLinkedIn, "code", "state")
	if !errors.Is(err, ErrProviderDisabled) {
		t.Fatalf("Complete err = %v, want ErrProviderDisabled", err)
	}
}
