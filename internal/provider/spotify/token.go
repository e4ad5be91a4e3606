package spotify

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// Credentials holds the app client pair and a long-lived user refresh token
// obtained out of band through the authorization-code flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides the accounts endpoint in tests.
	TokenURL string
}

// Configured reports whether the credentials are complete enough to mint
// access tokens.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// TokenSource returns a cached token source that exchanges the refresh token
// for access tokens as they expire. When Spotify rotates the refresh token,
// onRotate is invoked with the replacement so it can be persisted; a nil
// onRotate skips the notification.
func (c Credentials) TokenSource(ctx context.Context, onRotate func(refreshToken string)) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: c.tokenURL()},
	}
	base := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})
	return oauth2.ReuseTokenSource(nil, &rotationSource{
		base:     base,
		current:  c.RefreshToken,
		onRotate: onRotate,
	})
}

func (c Credentials) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return defaultTokenURL
}

// rotationSource watches refreshed tokens for a replaced refresh token.
type rotationSource struct {
	base     oauth2.TokenSource
	onRotate func(refreshToken string)

	mu      sync.Mutex
	current string
}

func (s *rotationSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	rotated := tok.RefreshToken != "" && tok.RefreshToken != s.current
	if rotated {
		s.current = tok.RefreshToken
	}
	s.mu.Unlock()

	if rotated && s.onRotate != nil {
		s.onRotate(tok.RefreshToken)
	}
	return tok, nil
}
