package domain

import "time"

// Role is the access level assigned to an account at registration.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string against the enumerated set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// Account is the stored credential record. PasswordHash is an opaque salted
// digest; the plaintext is never persisted.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated principal derived from a verified token.
// It lives only for the duration of the request that carried the token.
type Identity struct {
	Subject string
	Role    Role
}
