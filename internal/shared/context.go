package shared

import "context"

// UserView is the subset of a user record safe to hand to callers. It never
// carries the password hash.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, user *UserView) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) *UserView {
	user, _ := ctx.Value(userContextKey{}).(*UserView)
	return user
}
