package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// AuthUser is the authenticated principal attached to a request context.
// CustomerID is zero for staff accounts with no customer profile.
type AuthUser struct {
	UserID     int64
	CustomerID int64
	Username   string
	Role       string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx. It returns nil if
// ctx is nil, if no user is stored, or if the stored value has a different
// type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// RequireRole checks that the context carries an authenticated user with the
// given role.
func RequireRole(ctx context.Context, role string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if user.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireCustomer returns the caller's customer id, or an error when the
// request is unauthenticated or the account has no customer profile.
func RequireCustomer(ctx context.Context) (int64, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return 0, ErrUnauthenticated
	}
	if user.CustomerID == 0 {
		return 0, ErrForbidden
	}
	return user.CustomerID, nil
}
