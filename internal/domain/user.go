package domain

import "time"

// Role is the user's function in the donation workflow.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleAdmin     Role = "admin"
)

// Roles lists every role.
var Roles = []Role{RoleDonor, RoleRecipient, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRecipient, RoleAdmin:
		return true
	}
	return false
}

// Location is a free-text address with optional coordinates.
type Location struct {
	Address string
	Lat     *float64
	Lng     *float64
}

// User is a registered donor, recipient or admin.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Age          *int
	BloodGroup   BloodGroup
	Role         Role
	Location     Location
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetAdmin toggles the admin flag. Promotion forces the admin role; demotion
// leaves the role untouched.
func (u *User) SetAdmin(isAdmin bool) {
	u.IsAdmin = isAdmin
	if isAdmin {
		u.Role = RoleAdmin
	}
}
