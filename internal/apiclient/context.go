package apiclient

import "context"

// Session is the part of a session store the client needs.
type Session interface {
	Token(ctx context.Context) (string, error)
	ForceLogout(ctx context.Context, reason, returnURL string) error
}

type sessionKey struct{}

type locationKey struct{}

// WithSession attaches the caller's session to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached to ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}

// WithLocation records the page the user is on, used as the login return target.
func WithLocation(ctx context.Context, location string) context.Context {
	return context.WithValue(ctx, locationKey{}, location)
}

// LocationFrom returns the recorded location, empty when unknown.
func LocationFrom(ctx context.Context) string {
	loc, _ := ctx.Value(locationKey{}).(string)
	return loc
}
