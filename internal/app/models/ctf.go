package models

import "time"

// CTF is a capture-the-flag writeup preview
type CTF struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Author      string      `json:"author" db:"author"`
	Preview     string      `json:"preview" db:"preview"`
	PreviewType PreviewType `json:"previewType" db:"preview_type"`
	VideoLink   string      `json:"videoLink" db:"video_link"`
	Description string      `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}

// PreviewSource returns whichever of Preview or VideoLink the preview type
// makes authoritative.
func (c *CTF) PreviewSource() string {
	if c.PreviewType == PreviewLink {
		return c.VideoLink
	}
	return c.Preview
}
