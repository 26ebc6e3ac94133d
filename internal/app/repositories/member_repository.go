package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func scanMember(row pgx.Row) (*models.Member, error) {
	m := &models.Member{}
	if err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Image, &m.Bio, &m.LinkedIn, &m.GitHub, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMemberRepository creates the member repository
func NewMemberRepository(db DBTX) *CrudRepository[models.Member] {
	return NewCrudRepository(db, Table[models.Member]{
		Name:    "members",
		Columns: []string{"id", "name", "role", "image", "bio", "linkedin", "github", "created_at"},
		OrderBy: "created_at DESC",
		Scan:    scanMember,
		Values: func(m *models.Member) map[string]any {
			return map[string]any{
				"name":     m.Name,
				"role":     m.Role,
				"image":    m.Image,
				"bio":      m.Bio,
				"linkedin": m.LinkedIn,
				"github":   m.GitHub,
			}
		},
		NotFound: apperrors.ErrMemberNotFound,
	})
}
