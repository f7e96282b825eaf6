package models

import "strings"

// User is a ThinkTank account.
type User struct {
	ID        int      `json:"id" bson:"id"`
	FirstName string   `json:"firstName" bson:"first_name"`
	LastName  string   `json:"lastName" bson:"last_name"`
	Email     string   `json:"email" bson:"email"`
	Role      string   `json:"role" bson:"role"`
	Profile   *Profile `json:"profile,omitempty" bson:"profile,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Profile is the 1:1 public profile of a user.
type Profile struct {
	ID             int     `json:"id" bson:"id"`
	FullName       string  `json:"fullName" bson:"full_name"`
	Email          string  `json:"email" bson:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty" bson:"profile_picture,omitempty"`
	Bio            *string `json:"bio,omitempty" bson:"bio,omitempty"`
	Ideas          []Idea  `json:"ideas,omitempty" bson:"ideas,omitempty"`
}

// UserStatus is the account-level status pushed from the profile screen.
type UserStatus string

const (
	UserApproved UserStatus = "Approved"
	UserRejected UserStatus = "Rejected"
	UserPending  UserStatus = "Pending"
)

// ParseUserStatus accepts the display names case-insensitively.
func ParseUserStatus(value string) (UserStatus, bool) {
	for _, s := range []UserStatus{UserApproved, UserRejected, UserPending} {
		if strings.EqualFold(string(s), strings.TrimSpace(value)) {
			return s, true
		}
	}
	return "", false
}

// UpdateUserStatusRequest is the body of PUT /users/status.
type UpdateUserStatusRequest struct {
	Status UserStatus `json:"status"`
}

// UpdateUserRequest is the body of PUT /users/{id}.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// CreateProfileRequest is the body of POST /profiles.
type CreateProfileRequest struct {
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Bio            *string `json:"bio,omitempty"`
}

// UpdateProfileRequest is the body of PATCH /profiles/{id}.
type UpdateProfileRequest struct {
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Bio            *string `json:"bio,omitempty"`
}
