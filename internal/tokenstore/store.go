// Package tokenstore persists the session's bearer token in local
// key-value preferences.
package tokenstore

import (
	"errors"
	"strings"

	"thinktank/internal/auth"
)

// TokenKey is the preference key holding the raw, un-prefixed token.
const TokenKey = "auth_token"

var (
	// ErrNoToken is returned when no token has been saved.
	ErrNoToken = errors.New("no authentication token stored")
	// ErrEmptyToken is returned when saving a blank token.
	ErrEmptyToken = errors.New("token is empty")
)

// Store persists a single bearer token.
type Store interface {
	// Save stores token, removing any "Bearer " prefix first.
	Save(token string) error
	// Token returns the raw token or ErrNoToken.
	Token() (string, error)
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// FormattedToken returns the stored token as an Authorization header value.
func FormattedToken(s Store) (string, error) {
	token, err := s.Token()
	if err != nil {
		return "", err
	}
	return auth.BearerPrefix + token, nil
}

// Role returns the role claim of the stored token.
func Role(s Store) (string, bool) {
	token, err := s.Token()
	if err != nil {
		return "", false
	}
	return auth.RoleFromToken(token)
}

// UserID returns the user id claim of the stored token.
func UserID(s Store) (int, bool) {
	token, err := s.Token()
	if err != nil {
		return 0, false
	}
	return auth.UserIDFromToken(token)
}

func cleanToken(token string) (string, error) {
	clean := auth.StripBearer(token)
	if strings.TrimSpace(clean) == "" {
		return "", ErrEmptyToken
	}
	return clean, nil
}

