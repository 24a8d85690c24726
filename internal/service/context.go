package service

import (
	"context"

	"github.com/nghiakieran/ute-shop-sub000/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userKey contextKey = "user"
const roleKey contextKey = "role"

// RoleAdmin is the role claim value that unlocks the admin surface.
const RoleAdmin = "admin"

// WithUser places the authenticated user and role in the context. The auth
// middleware calls this once per request.
func WithUser(ctx context.Context, user *models.User, role string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, roleKey, role)
}

// UserFromContext retrieves the authenticated user. It returns false when the
// request was not authenticated.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// RoleFromContext retrieves the role claim of the authenticated user.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
