// Package models defines the client-side view of the attendance backend's
// payloads: the authenticated identity and the DTOs exchanged by the typed API.
package models

import "strings"

// Role is the authorization role of a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// Identity is the profile returned by GET /api/auth/me. It is never persisted;
// it is re-derived from the credential on every start.
type Identity struct {
	// ID is the backend user id.
	ID int64 `json:"id"`

	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`

	// Department is set for faculty and students.
	Department string `json:"department,omitempty"`
	// RollNumber is set for students only.
	RollNumber string `json:"roll_number,omitempty"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Message is the body of endpoints that only acknowledge an action.
type Message struct {
	Message string `json:"message"`
}
