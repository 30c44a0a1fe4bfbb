package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User models an authenticatable principal. Role is assigned once at
// registration and determines every authorization outcome afterwards.
type User struct {
	ID           string    `json:"id"`
	UUID         string    `json:"uuid"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Username is the token subject: first and last name concatenated.
func (u *User) Username() string {
	return u.FirstName + u.LastName
}
