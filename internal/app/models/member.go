package models

import "time"

// Member is a club board or team member shown on the members page
type Member struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Image     string    `json:"image" db:"image"`
	Bio       string    `json:"bio" db:"bio"`
	LinkedIn  string    `json:"linkedin" db:"linkedin"`
	GitHub    string    `json:"github" db:"github"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
