package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        string    `json:"id" db:"id" example:"5f0c6a1e-8a43-4d8e-9f57-1c2b3d4e5f60"`
	Name      string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" db:"email" example:"ada@club.edu"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      RoleType  `json:"role" db:"role" example:"user"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
