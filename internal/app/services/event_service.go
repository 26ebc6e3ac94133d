package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// EventStore adds period filtering to the shared store
type EventStore interface {
	Store[models.Event]
	ListByPeriod(ctx context.Context, period models.EventPeriod, now time.Time) ([]*models.Event, error)
}

// EventService handles events
type EventService struct {
	*ContentService[models.Event, dto.EventInput]
	events EventStore
	now    func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(store EventStore, uploader Uploader, logger zerolog.Logger) *EventService {
	return &EventService{
		ContentService: NewContentService(store, uploader, EventDefinition(), logger),
		events:         store,
		now:            time.Now,
	}
}

// ParsePeriod validates the ?when= filter
func ParsePeriod(s string) (models.EventPeriod, error) {
	switch p := models.EventPeriod(s); p {
	case models.PeriodAll, models.PeriodUpcoming, models.PeriodPast:
		return p, nil
	}
	return "", apperrors.NewFieldValidationError("when", "when must be upcoming or past")
}

// ListByPeriod lists upcoming or past events relative to the current time
func (s *EventService) ListByPeriod(ctx context.Context, period models.EventPeriod) ([]*models.Event, error) {
	if period == models.PeriodAll {
		return s.List(ctx)
	}
	return s.events.ListByPeriod(ctx, period, s.now())
}
