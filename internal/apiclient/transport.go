package apiclient

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/events"
)

// ExpiryChecker reports whether a token is no longer usable.
type ExpiryChecker interface {
	IsExpired(token string) bool
}

// Authenticator is an http.RoundTripper that attaches the session's bearer
// token and logs the session out when the back office answers 401.
// The expiry check is not atomic with the request; a token that lapses in
// flight is caught by the server's 401.
type Authenticator struct {
	next      http.RoundTripper
	validator ExpiryChecker
	logger    *zap.Logger
}

// NewAuthenticator wraps next. A nil next uses http.DefaultTransport.
func NewAuthenticator(next http.RoundTripper, validator ExpiryChecker, logger *zap.Logger) *Authenticator {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{next: next, validator: validator, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	session, hasSession := SessionFrom(ctx)

	out := req
	if hasSession {
		if token, err := session.Token(ctx); err == nil && token != "" && !a.validator.IsExpired(token) {
			out = req.Clone(ctx)
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.next.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && hasSession {
		location := LocationFrom(ctx)
		if err := session.ForceLogout(ctx, events.ReasonUpstream401, location); err != nil {
			a.logger.Warn("logout after upstream 401 failed", zap.Error(err))
		}
	}
	return resp, nil
}

// LoginRedirect builds the login location carrying returnURL.
func LoginRedirect(loginPath, returnURL string) string {
	if returnURL == "" {
		return loginPath
	}
	return loginPath + "?" + url.Values{"returnUrl": {returnURL}}.Encode()
}
