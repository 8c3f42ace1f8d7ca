package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/pkg/logger"

	"golang.org/x/oauth2"
)

// tokenLifetime is how long a subscription key is reused before logging in again
const tokenLifetime = 6 * time.Hour

// loginResponse mirrors the JSON reply of the login endpoint
type loginResponse struct {
	Success  bool   `json:"success"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	UserData *struct {
		SubscriptionKey string `json:"subscriptionKey"`
		AccessToken     string `json:"accessToken"`
	} `json:"userData"`
}

// loginSource logs into the provider and yields its subscription key as a bearer token
type loginSource struct {
	ctx      context.Context
	client   fetch.Doer
	loginURL string
	email    string
	password string
	now      func() time.Time
}

// Token implements oauth2.TokenSource
func (s *loginSource) Token() (*oauth2.Token, error) {
	resp, err := s.client.Fetch(s.ctx, fetch.Request{
		Method: http.MethodPost,
		URL:    s.loginURL,
		Form: url.Values{
			"email":    {s.email},
			"password": {s.password},
			"remember": {"true"},
			"type":     {"web"},
		},
		FollowRedirects: true,
		// bad credentials are not worth retrying
		FinalStatuses: []int{http.StatusUnauthorized, http.StatusForbidden},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: login request: %w", entity.ErrAuthentication, err)
	}

	var login loginResponse
	if err := json.Unmarshal(resp.Body, &login); err != nil {
		return nil, fmt.Errorf("%w: failed to decode login response: %v", entity.ErrAuthentication, err)
	}
	if !login.Success || login.UserData == nil || login.UserData.SubscriptionKey == "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrAuthentication, login.Message)
	}

	return &oauth2.Token{
		AccessToken: login.UserData.SubscriptionKey,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(tokenLifetime),
	}, nil
}

// Provider hands out the session used by every collector of a run
type Provider struct {
	source oauth2.TokenSource
	logger logger.Logger
}

// NewProvider creates a session provider. Empty credentials give an anonymous session.
func NewProvider(ctx context.Context, client fetch.Doer, loginURL, email, password string, logger logger.Logger) *Provider {
	p := &Provider{logger: logger}
	if email == "" || password == "" {
		return p
	}

	src := &loginSource{
		ctx:      ctx,
		client:   client,
		loginURL: loginURL,
		email:    email,
		password: password,
		now:      time.Now,
	}
	p.source = oauth2.ReuseTokenSource(nil, src)
	return p
}

// NewStaticProvider serves a fixed token, e.g. one printed by cmd/token
func NewStaticProvider(token string, logger logger.Logger) *Provider {
	return &Provider{
		source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		logger: logger,
	}
}

// Session returns the current session. Errors are run-fatal and wrap entity.ErrAuthentication.
func (p *Provider) Session() (entity.Session, error) {
	if p.source == nil {
		p.logger.Warn("No provider credentials configured, collecting anonymously")
		return entity.Session{}, nil
	}

	token, err := p.source.Token()
	if err != nil {
		return entity.Session{}, err
	}
	return entity.Session{Token: token.AccessToken}, nil
}
