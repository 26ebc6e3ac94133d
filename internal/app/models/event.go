package models

import "time"

// Event is a club meetup, talk or competition.
type Event struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// EventPeriod partitions events relative to the current time
type EventPeriod string

const (
	PeriodAll      EventPeriod = ""
	PeriodUpcoming EventPeriod = "upcoming"
	PeriodPast     EventPeriod = "past"
)

// IsUpcoming reports whether the event has not started yet at now.
// An event happening exactly now counts as upcoming.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(now)
}
