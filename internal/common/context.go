package common

import "context"

// UserContext carries the authenticated caller's identity through a request.
type UserContext struct {
	UserID   uint64
	Username string
}

type userContextKey struct{}

// WithUserContext returns a context carrying the user context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFrom extracts the user context, or nil if unauthenticated.
func UserContextFrom(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey{}).(*UserContext)
	return uc
}
