package auth

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenValidator decides whether a bearer credential is still usable.
// It only decodes the token; signatures are the back office's concern.
type TokenValidator struct {
	parser *jwt.Parser
	now    func() time.Time
}

// ValidatorOption configures TokenValidator behavior.
type ValidatorOption func(*TokenValidator)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *TokenValidator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewTokenValidator builds a validator.
func NewTokenValidator(opts ...ValidatorOption) *TokenValidator {
	v := &TokenValidator{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsExpired reports whether the token must be treated as expired.
// Empty input, any decode failure and a missing exp claim all count as expired.
// A token is expired from the exact second of its exp claim onwards.
func (v *TokenValidator) IsExpired(token string) bool {
	expiresAt, ok := v.ExpiresAt(token)
	if !ok {
		return true
	}
	return !v.now().Before(expiresAt)
}

// ExpiresAt decodes the exp claim without verifying the signature.
func (v *TokenValidator) ExpiresAt(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
