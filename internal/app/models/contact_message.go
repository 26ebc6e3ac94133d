package models

import "time"

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Message   string        `json:"message" db:"message"`
	Status    MessageStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}
