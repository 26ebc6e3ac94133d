package models

// RoleType defines the user role type
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PreviewType decides which CTF field carries the preview
type PreviewType string

const (
	PreviewImage PreviewType = "image"
	PreviewVideo PreviewType = "video"
	PreviewLink  PreviewType = "link"
)

// Valid reports whether p is one of the known preview types
func (p PreviewType) Valid() bool {
	switch p {
	case PreviewImage, PreviewVideo, PreviewLink:
		return true
	}
	return false
}

// MessageStatus tracks admin handling of a contact message
type MessageStatus string

const (
	MessageNew     MessageStatus = "new"
	MessageRead    MessageStatus = "read"
	MessageReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known statuses
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageNew, MessageRead, MessageReplied:
		return true
	}
	return false
}
