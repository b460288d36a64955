package auth

import "context"

type contextKey struct{}

// AuthContext is the verified identity attached to a request.
type AuthContext struct {
	UserID  string
	TokenID string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// WithUser is WithAuth for callers that only know the user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return WithAuth(ctx, AuthContext{UserID: userID})
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// UserID returns the authenticated user, or "" when the request carries none.
func UserID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.UserID
}
