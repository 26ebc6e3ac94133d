package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func scanClass(row pgx.Row) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Date, &c.Time, &c.Location,
		&c.Capacity, &c.ContentFile, &c.ContentLinks, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.ContentLinks == nil {
		c.ContentLinks = []models.ContentLink{}
	}
	return c, nil
}

// NewClassRepository creates the class repository. content_links is a JSONB
// array so link order survives round trips.
func NewClassRepository(db DBTX) *CrudRepository[models.Class] {
	return NewCrudRepository(db, Table[models.Class]{
		Name: "classes",
		Columns: []string{"id", "title", "description", "instructor", "date", "time", "location",
			"capacity", "content_file", "content_links", "created_at"},
		OrderBy: "date DESC",
		Scan:    scanClass,
		Values: func(c *models.Class) map[string]any {
			links := c.ContentLinks
			if links == nil {
				links = []models.ContentLink{}
			}
			return map[string]any{
				"title":         c.Title,
				"description":   c.Description,
				"instructor":    c.Instructor,
				"date":          c.Date,
				"time":          c.Time,
				"location":      c.Location,
				"capacity":      c.Capacity,
				"content_file":  c.ContentFile,
				"content_links": links,
			}
		},
		NotFound: apperrors.ErrClassNotFound,
	})
}
