package shared

import (
	"context"
	"strings"
)

type roleContextKey struct{}

// ContextWithRole stores the caller's role name in context.
func ContextWithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleContextKey{}, strings.TrimSpace(role))
}

// RoleFromContext extracts the caller's role name from context.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, _ := ctx.Value(roleContextKey{}).(string)
	return role, role != ""
}
