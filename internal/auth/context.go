package auth

import (
	"context"

	"messbook/internal/model"
)

type contextKey struct{}

// AuthContext identifies the authenticated user and the mess their
// session is scoped to.
type AuthContext struct {
	UserID    int64
	MessID    int64
	Role      string
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func MessID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.MessID
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// IsSuperAdmin reports whether the session role is super_admin. Write
// gates still consult the membership table; this shortcut only shapes
// read responses.
func IsSuperAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleSuperAdmin
}
