package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// BearerPrefix is the scheme prefix used in the Authorization header.
const BearerPrefix = "Bearer "

var (
	// ErrMalformedToken is returned when a token does not have exactly three
	// dot-separated segments or its payload cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")
	// ErrClaimMissing is returned when a requested claim is absent or empty.
	ErrClaimMissing = errors.New("claim missing")
)

// roleClaimKeys are tried in order; the first non-empty string wins.
var roleClaimKeys = []string{"role", "userRole", "user_role"}

// userIDClaimKeys are tried in order; the first positive integer wins.
var userIDClaimKeys = []string{"sub", "id"}

// segmentParser only decodes segments. Signatures are never verified on
// the client; the server is the authority for every claim.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims holds the decoded, unverified payload of a bearer token.
type Claims struct {
	payload jwt.MapClaims
}

// StripBearer removes an optional "Bearer " prefix and surrounding space.
// A bare "Bearer" is empty.
func StripBearer(token string) string {
	token = strings.TrimSpace(token)
	if token == strings.TrimSpace(BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(token, BearerPrefix))
}

// ParseClaims decodes the payload segment of token without checking its
// signature.
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(StripBearer(token), ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not base64url: %v", ErrMalformedToken, err)
	}

	payload := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object: %v", ErrMalformedToken, err)
	}
	return Claims{payload: payload}, nil
}

// Role returns the role claim, trying "role", "userRole" and "user_role".
func (c Claims) Role() (string, bool) {
	for _, key := range roleClaimKeys {
		if s, ok := c.payload[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// UserID returns the numeric user id from "sub", falling back to "id".
func (c Claims) UserID() (int, bool) {
	for _, key := range userIDClaimKeys {
		if id, ok := positiveInt(c.payload[key]); ok {
			return id, true
		}
	}
	return 0, false
}

// Get returns a raw claim value.
func (c Claims) Get(key string) (interface{}, bool) {
	v, ok := c.payload[key]
	return v, ok
}

func positiveInt(v interface{}) (int, bool) {
	var s string
	switch val := v.(type) {
	case json.Number:
		s = val.String()
	case string:
		s = strings.TrimSpace(val)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// RoleFromToken extracts the role claim from token. Any parse failure
// yields ("", false).
func RoleFromToken(token string) (string, bool) {
	claims, err := ParseClaims(token)
	if err != nil {
		log.Printf("[Claims] Cannot read role: %v", err)
		return "", false
	}
	return claims.Role()
}

// UserIDFromToken extracts the user id claim from token. Any parse failure
// yields (0, false).
func UserIDFromToken(token string) (int, bool) {
	claims, err := ParseClaims(token)
	if err != nil {
		log.Printf("[Claims] Cannot read user id: %v", err)
		return 0, false
	}
	return claims.UserID()
}
