package session

import "context"

type scopeKey struct{}

// NewContext returns a copy of ctx carrying the browser-profile scope.
func NewContext(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope stored by NewContext.
func ScopeFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(scopeKey{}).(string)
	return s, ok && s != ""
}
