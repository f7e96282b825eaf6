package auth

import (
	"fmt"
	"strings"
)

// RoleAdmin is the role string the backend assigns to reviewers.
const RoleAdmin = "admin"

// TokenSource yields the raw token of the current session.
type TokenSource interface {
	Token() (string, error)
}

// AdminCheckerInterface reports whether the current session belongs to an admin.
type AdminCheckerInterface interface {
	IsAdmin() (bool, error)
}

// AdminChecker derives admin status from the role claim of the stored token.
type AdminChecker struct {
	tokens TokenSource
}

// NewAdminChecker creates a new AdminChecker. It requires a non-nil token source.
func NewAdminChecker(tokens TokenSource) (*AdminChecker, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}
	return &AdminChecker{tokens: tokens}, nil
}

// IsAdmin reads the stored token and checks its role claim. A token without
// a role claim is simply not an admin; a missing token is an error.
func (ac *AdminChecker) IsAdmin() (bool, error) {
	token, err := ac.tokens.Token()
	if err != nil {
		return false, fmt.Errorf("failed to read token: %w", err)
	}
	role, ok := RoleFromToken(token)
	if !ok {
		return false, nil
	}
	return IsAdminRole(role), nil
}

// IsAdminRole reports whether role names the admin role (case-insensitive).
func IsAdminRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdmin)
}
