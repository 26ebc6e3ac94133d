package models

import "time"

// ContentLink is an external resource attached to a class
type ContentLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Class is a workshop session. ContentLinks keeps display order.
type Class struct {
	ID           string        `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	Instructor   string        `json:"instructor" db:"instructor"`
	Date         time.Time     `json:"date" db:"date"`
	Time         string        `json:"time" db:"time"`
	Location     string        `json:"location" db:"location"`
	Capacity     *int          `json:"capacity,omitempty" db:"capacity"`
	ContentFile  string        `json:"contentFile" db:"content_file"`
	ContentLinks []ContentLink `json:"contentLinks" db:"content_links"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
}
