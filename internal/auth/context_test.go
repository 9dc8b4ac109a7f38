package auth

import (
	"context"
	"testing"

	"messbook/internal/model"
)

func TestAuthContextRoundTrip(t *testing.T) {
	ac := AuthContext{UserID: 7, MessID: 3, Role: model.RoleSuperAdmin, SessionID: 99}
	ctx := WithAuth(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("FromContext should find the auth context")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
	if MessID(ctx) != 3 || UserID(ctx) != 7 {
		t.Errorf("accessors = mess %d user %d, want 3 and 7", MessID(ctx), UserID(ctx))
	}
	if !IsSuperAdmin(ctx) {
		t.Error("super_admin role should report as super admin")
	}
}

func TestAuthContextMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Error("empty context should have no auth")
	}
	if MessID(ctx) != 0 || UserID(ctx) != 0 {
		t.Error("accessors should return zero on empty context")
	}
	if IsSuperAdmin(ctx) {
		t.Error("empty context is never super admin")
	}
}

func TestIsSuperAdminOtherRoles(t *testing.T) {
	for _, role := range []string{model.RoleManager, model.RoleMember, ""} {
		ctx := WithAuth(context.Background(), AuthContext{UserID: 1, MessID: 1, Role: role})
		if IsSuperAdmin(ctx) {
			t.Errorf("role %q should not be super admin", role)
		}
	}
}
