package models

import "time"

// Post is a news item on the club feed. Likes always equals len(LikedBy).
type Post struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Image     string    `json:"image" db:"image"`
	Likes     int       `json:"likes" db:"likes"`
	LikedBy   []string  `json:"likedBy" db:"liked_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LikedByUser reports whether userID is in LikedBy
func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
