package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tingleshq/tingles/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

const (
	googleUserinfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	linkedinUserinfoURL = "https://api.linkedin.com/v2/userinfo"

	defaultHTTPTimeout = 10 * time.Second
)

// VerifiedIdentity is the outcome of a completed OAuth handshake: a
// provider-attested identity the resolver can act on.
type VerifiedIdentity struct {
	Provider  model.AuthProvider
	SubjectID string
	Email     string
	Name      string
	Picture   string
}

// ClientCredentials configures one provider. A provider with an empty client
// id or secret is disabled entirely: Begin refuses to start a flow for it.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

func (c ClientCredentials) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type providerSettings struct {
	config      *oauth2.Config
	userinfoURL string
	authParams  []oauth2.AuthCodeOption
}

// Exchange runs the authorization-code flow against Google and LinkedIn:
// Begin issues the redirect URL with a single-use state token, Complete
// verifies the state, trades the code for an access token server-side, and
// fetches the user's profile.
type Exchange struct {
	states    *StateStore
	providers map[model.AuthProvider]*providerSettings
	client    *http.Client
}

type ExchangeOption func(*Exchange)

// WithHTTPClient replaces the client used for token exchange and userinfo
// requests. Tests point it at a local server.
func WithHTTPClient(c *http.Client) ExchangeOption {
	return func(e *Exchange) { e.client = c }
}

// WithProviderEndpoint overrides a provider's OAuth endpoint and userinfo
// URL. Tests use it to target httptest servers.
func WithProviderEndpoint(p model.AuthProvider, endpoint oauth2.Endpoint, userinfoURL string) ExchangeOption {
	return func(e *Exchange) {
		if ps, ok := e.providers[p]; ok {
			ps.config.Endpoint = endpoint
			ps.userinfoURL = userinfoURL
		}
	}
}

// NewExchange wires the configured providers. The redirect URL is passed to
// the provider exactly as configured; it must byte-for-byte match the one
// registered in the provider console, trailing slash included.
func NewExchange(states *StateStore, redirectURL string, googleCreds, linkedinCreds ClientCredentials, opts ...ExchangeOption) *Exchange {
	e := &Exchange{
		states:    states,
		providers: make(map[model.AuthProvider]*providerSettings),
		client:    &http.Client{Timeout: defaultHTTPTimeout},
	}

	if googleCreds.configured() {
		e.providers[model.ProviderGoogle] = &providerSettings{
			config: &oauth2.Config{
				ClientID:     googleCreds.ClientID,
				ClientSecret: googleCreds.ClientSecret,
				RedirectURL:  redirectURL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			userinfoURL: googleUserinfoURL,
			authParams: []oauth2.AuthCodeOption{
				oauth2.AccessTypeOnline,
				oauth2.SetAuthURLParam("prompt", "select_account"),
			},
		}
	}

	if linkedinCreds.configured() {
		e.providers[model.ProviderLinkedIn] = &providerSettings{
			config: &oauth2.Config{
				ClientID:     linkedinCreds.ClientID,
				ClientSecret: linkedinCreds.ClientSecret,
				RedirectURL:  redirectURL,
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     linkedin.Endpoint,
			},
			userinfoURL: linkedinUserinfoURL,
		}
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether credentials for the provider are configured.
func (e *Exchange) Enabled(provider model.AuthProvider) bool {
	_, ok := e.providers[provider]
	return ok
}

// Begin starts a flow: it registers a pending state token and returns the
// provider's authorization URL carrying it.
func (e *Exchange) Begin(provider model.AuthProvider) (authURL, state string, err error) {
	ps, ok := e.providers[provider]
	if !ok {
		return "", "", fmt.Errorf("begin %s: %w", provider, ErrProviderDisabled)
	}

	state = e.states.Issue(provider)
	return ps.config.AuthCodeURL(state, ps.authParams...), state, nil
}

// Complete finishes a flow. The state check runs first and short-circuits
// before any network call; a consumed, expired, or forged state fails with
// ErrStateMismatch. Network or provider-side failures map to ErrProvider, a
// profile without an email to ErrIncompleteProfile.
func (e *Exchange) Complete(ctx context.Context, provider model.AuthProvider, code, state string) (*VerifiedIdentity, error) {
	ps, ok := e.providers[provider]
	if !ok {
		return nil, fmt.Errorf("complete %s: %w", provider, ErrProviderDisabled)
	}

	if !e.states.Consume(state, provider) {
		return nil, ErrStateMismatch
	}

	if code == "" {
		return nil, fmt.Errorf("missing authorization code: %w", ErrProvider)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)

	token, err := ps.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange with %s failed: %w", provider, ErrProvider)
	}

	info, err := e.fetchUserinfo(ctx, ps, token)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" {
		return nil, fmt.Errorf("%s userinfo: %w", provider, ErrIncompleteProfile)
	}

	subject := info.Sub
	if subject == "" {
		subject = info.ID
	}
	if subject == "" {
		return nil, fmt.Errorf("%s userinfo missing subject id: %w", provider, ErrIncompleteProfile)
	}

	return &VerifiedIdentity{
		Provider:  provider,
		SubjectID: subject,
		Email:     email,
		Name:      info.Name,
		Picture:   info.Picture,
	}, nil
}

// userinfo covers both shapes we see in the wild: LinkedIn's OIDC endpoint
// returns "sub", Google's v2 userinfo returns "id".
type userinfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (e *Exchange) fetchUserinfo(ctx context.Context, ps *providerSettings, token *oauth2.Token) (*userinfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ps.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", ErrProvider)
	}
	token.SetAuthHeader(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch failed: %w", ErrProvider)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close userinfo response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d: %w", resp.StatusCode, ErrProvider)
	}

	var info userinfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("userinfo decode failed: %w", ErrProvider)
	}

	return &info, nil
}
