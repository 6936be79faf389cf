package domain

import "time"

// RoleUser is granted to every account at registration. RoleAdmin bypasses
// all authorization gates and is only ever assigned out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultRoles returns the role set for a freshly registered user.
func DefaultRoles() []string {
	return []string{RoleUser}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt encoded
	Roles        []string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}
