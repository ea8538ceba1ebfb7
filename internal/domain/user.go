package domain

import (
	"context"
	"errors"
)

// User is the authenticated principal behind a request.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin approves investments and loans, adjusts funds and issues codes
	RoleAdmin Role = "admin"

	// RoleInvestor reads its own account and redeems its own codes
	RoleInvestor Role = "investor"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleInvestor: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanActFor reports whether the user may operate on accountID.
func (u *User) CanActFor(accountID string) bool {
	return u.Role == RoleAdmin || u.ID == accountID
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user on ctx.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// ActorFromContext returns the user id recorded on ledger changes.
func ActorFromContext(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return "system"
}
