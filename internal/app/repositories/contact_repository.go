package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func scanContactMessage(row pgx.Row) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// NewContactRepository creates the contact message repository
func NewContactRepository(db DBTX) *CrudRepository[models.ContactMessage] {
	return NewCrudRepository(db, Table[models.ContactMessage]{
		Name:    "contact_messages",
		Columns: []string{"id", "name", "email", "message", "status", "created_at"},
		OrderBy: "created_at DESC",
		Scan:    scanContactMessage,
		Values: func(m *models.ContactMessage) map[string]any {
			return map[string]any{
				"name":    m.Name,
				"email":   m.Email,
				"message": m.Message,
				"status":  m.Status,
			}
		},
		NotFound: apperrors.ErrMessageNotFound,
	})
}
