package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Image, &e.CreatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// EventRepository handles event database operations
type EventRepository struct {
	*CrudRepository[models.Event]
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{NewCrudRepository(db, Table[models.Event]{
		Name:    "events",
		Columns: []string{"id", "title", "description", "date", "location", "image", "created_at"},
		OrderBy: "date DESC",
		Scan:    scanEvent,
		Values: func(e *models.Event) map[string]any {
			return map[string]any{
				"title":       e.Title,
				"description": e.Description,
				"date":        e.Date,
				"location":    e.Location,
				"image":       e.Image,
			}
		},
		NotFound: apperrors.ErrEventNotFound,
	})}
}

// ListByPeriod lists events on one side of now. Upcoming events come soonest
// first, past events most recent first.
func (r *EventRepository) ListByPeriod(ctx context.Context, period models.EventPeriod, now time.Time) ([]*models.Event, error) {
	switch period {
	case models.PeriodUpcoming:
		return r.listOrdered(ctx, squirrel.GtOrEq{"date": now}, "date ASC")
	case models.PeriodPast:
		return r.listOrdered(ctx, squirrel.Lt{"date": now}, "date DESC")
	default:
		return r.List(ctx)
	}
}

func (r *EventRepository) listOrdered(ctx context.Context, pred squirrel.Sqlizer, orderBy string) ([]*models.Event, error) {
	scoped := *r.CrudRepository
	scoped.table.OrderBy = orderBy
	return scoped.listWhere(ctx, pred)
}
