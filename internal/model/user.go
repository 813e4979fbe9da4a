package model

import "time"

// Role is the platform-wide principal role. The set is closed: every
// authorization decision switches over it exhaustively and denies by default.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleLawyer Role = "LAWYER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. Role is immutable after registration;
// IsActive is toggled by administrative action (soft delete).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the resolved, authenticated actor attached to a request.
// It is the only shape the authorization engine ever sees; credential
// material never crosses that boundary.
type Principal struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// AsPrincipal converts a stored user into the resolved principal shape.
func (u *User) AsPrincipal() Principal {
	return Principal{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
