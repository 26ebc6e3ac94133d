package testutil

import (
	"context"
	"slices"
	"time"

	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

func newestFirst[T any](created func(*T) time.Time) func(a, b *T) bool {
	return func(a, b *T) bool { return created(a).After(created(b)) }
}

// PostStore is an in-memory post repository
type PostStore struct {
	*MemStore[models.Post]
}

// NewPostStore creates an empty PostStore
func NewPostStore() *PostStore {
	return &PostStore{NewMemStore(apperrors.ErrPostNotFound, newestFirst(func(p *models.Post) time.Time { return p.CreatedAt }))}
}

// Create keeps likes consistent with likedBy
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	c := *p
	c.LikedBy = []string{}
	c.Likes = 0
	return s.MemStore.Create(ctx, &c)
}

// ToggleLike flips userID's like under the store lock
func (s *PostStore) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return s.Mutate(postID, func(p *models.Post) error {
		if i := slices.Index(p.LikedBy, userID); i >= 0 {
			p.LikedBy = slices.Delete(slices.Clone(p.LikedBy), i, i+1)
		} else {
			p.LikedBy = append(slices.Clone(p.LikedBy), userID)
		}
		p.Likes = len(p.LikedBy)
		return nil
	})
}

// EventStore is an in-memory event repository
type EventStore struct {
	*MemStore[models.Event]
}

// NewEventStore creates an empty EventStore
func NewEventStore() *EventStore {
	return &EventStore{NewMemStore(apperrors.ErrEventNotFound, newestFirst(func(e *models.Event) time.Time { return e.Date }))}
}

// ListByPeriod filters on the event date relative to now
func (s *EventStore) ListByPeriod(ctx context.Context, period models.EventPeriod, now time.Time) ([]*models.Event, error) {
	events, err := s.Filter(ctx, func(e *models.Event) bool {
		switch period {
		case models.PeriodUpcoming:
			return e.IsUpcoming(now)
		case models.PeriodPast:
			return !e.IsUpcoming(now)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if period == models.PeriodUpcoming {
		slices.Reverse(events)
	}
	return events, nil
}

// NewMemberStore creates an in-memory member repository
func NewMemberStore() *MemStore[models.Member] {
	return NewMemStore(apperrors.ErrMemberNotFound, newestFirst(func(m *models.Member) time.Time { return m.CreatedAt }))
}

// NewClassStore creates an in-memory class repository
func NewClassStore() *MemStore[models.Class] {
	return NewMemStore(apperrors.ErrClassNotFound, newestFirst(func(c *models.Class) time.Time { return c.Date }))
}

// NewCTFStore creates an in-memory CTF repository
func NewCTFStore() *MemStore[models.CTF] {
	return NewMemStore(apperrors.ErrCTFNotFound, newestFirst(func(c *models.CTF) time.Time { return c.CreatedAt }))
}

// NewContactStore creates an in-memory contact message repository
func NewContactStore() *MemStore[models.ContactMessage] {
	return NewMemStore(apperrors.ErrMessageNotFound, newestFirst(func(m *models.ContactMessage) time.Time { return m.CreatedAt }))
}

// UserStore is an in-memory user repository with a unique email index
type UserStore struct {
	*MemStore[models.User]
}

// NewUserStore creates an empty UserStore
func NewUserStore() *UserStore {
	return &UserStore{NewMemStore(apperrors.ErrUserNotFound, newestFirst(func(u *models.User) time.Time { return u.CreatedAt }))}
}

// Create rejects duplicate emails like the unique index does
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, taken := s.Find(func(existing *models.User) bool { return existing.Email == u.Email }); taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	return s.MemStore.Create(ctx, u)
}

// GetByEmail finds a user by exact email
func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.Find(func(u *models.User) bool { return u.Email == email })
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

// EmailExists reports whether email is taken
func (s *UserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := s.Find(func(u *models.User) bool { return u.Email == email })
	return ok, nil
}

// SetRole changes a user's role
func (s *UserStore) SetRole(ctx context.Context, id string, role models.RoleType) (*models.User, error) {
	return s.Update(ctx, id, map[string]any{"role": role})
}
