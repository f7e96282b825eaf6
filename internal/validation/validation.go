// Package validation checks form input before anything is sent to the API.
package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	MinTitleLength       = 3
	MinDescriptionLength = 10
	MinTagLength         = 2
)

// Message IDs, resolved through the locales bundle.
const (
	MsgTitleEmpty          = "ValidationTitleEmpty"
	MsgTitleTooShort       = "ValidationTitleTooShort"
	MsgDescriptionEmpty    = "ValidationDescriptionEmpty"
	MsgDescriptionTooShort = "ValidationDescriptionTooShort"
	MsgTagTooShort         = "ValidationTagTooShort"
	MsgEmailRequired       = "ValidationEmailRequired"
	MsgPasswordRequired    = "ValidationPasswordRequired"
	MsgFieldsRequired      = "ValidationFieldsRequired"
)

var defaultMessages = map[string]string{
	MsgTitleEmpty:          "Title cannot be empty",
	MsgTitleTooShort:       "Title must be at least 3 characters long",
	MsgDescriptionEmpty:    "Description cannot be empty",
	MsgDescriptionTooShort: "Description must be at least 10 characters long",
	MsgTagTooShort:         "Each tag must be at least 2 characters long",
	MsgEmailRequired:       "Email is required",
	MsgPasswordRequired:    "Password is required",
	MsgFieldsRequired:      "All fields are required",
}

// Error is a failed client-side check. MessageID names the localized text.
type Error struct {
	Field     string
	MessageID string
}

func (e *Error) Error() string {
	if msg, ok := defaultMessages[e.MessageID]; ok {
		return msg
	}
	return e.MessageID
}

// ValidationFailure marks Error for error classification.
func (e *Error) ValidationFailure() bool { return true }

func fail(field, msgID string) error {
	return &Error{Field: field, MessageID: msgID}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// ValidateIdea checks an idea form. The first failing rule is returned;
// rules run title, description, then tags.
func ValidateIdea(title, description, tags string) error {
	switch n := runeLen(title); {
	case n == 0:
		return fail("title", MsgTitleEmpty)
	case n < MinTitleLength:
		return fail("title", MsgTitleTooShort)
	}

	switch n := runeLen(description); {
	case n == 0:
		return fail("description", MsgDescriptionEmpty)
	case n < MinDescriptionLength:
		return fail("description", MsgDescriptionTooShort)
	}

	if strings.TrimSpace(tags) != "" {
		for _, tag := range strings.Split(tags, ",") {
			if runeLen(tag) < MinTagLength {
				return fail("tags", MsgTagTooShort)
			}
		}
	}
	return nil
}

// ParseTags splits a comma-separated tag string, trimming and dropping blanks.
func ParseTags(tags string) []string {
	out := []string{}
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ValidateLogin requires both credentials.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fail("email", MsgEmailRequired)
	}
	if password == "" {
		return fail("password", MsgPasswordRequired)
	}
	return nil
}

// ValidateRegistration requires every field.
func ValidateRegistration(firstName, lastName, email, password string) error {
	for _, v := range []string{firstName, lastName, email} {
		if strings.TrimSpace(v) == "" {
			return fail("", MsgFieldsRequired)
		}
	}
	if password == "" {
		return fail("", MsgFieldsRequired)
	}
	return nil
}
