package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func scanCTF(row pgx.Row) (*models.CTF, error) {
	c := &models.CTF{}
	if err := row.Scan(&c.ID, &c.Title, &c.Author, &c.Preview, &c.PreviewType, &c.VideoLink, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// NewCTFRepository creates the CTF repository
func NewCTFRepository(db DBTX) *CrudRepository[models.CTF] {
	return NewCrudRepository(db, Table[models.CTF]{
		Name:    "ctfs",
		Columns: []string{"id", "title", "author", "preview", "preview_type", "video_link", "description", "created_at"},
		OrderBy: "created_at DESC",
		Scan:    scanCTF,
		Values: func(c *models.CTF) map[string]any {
			return map[string]any{
				"title":        c.Title,
				"author":       c.Author,
				"preview":      c.Preview,
				"preview_type": c.PreviewType,
				"video_link":   c.VideoLink,
				"description":  c.Description,
			}
		},
		NotFound: apperrors.ErrCTFNotFound,
	})
}
