// Package testutil provides in-memory stand-ins for the PostgreSQL
// repositories so services and handlers can be tested without a database.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore keeps entities in memory and maps update columns onto struct
// fields through their db tags, like the SQL repositories do.
type MemStore[T any] struct {
	mu       sync.Mutex
	items    map[string]*T
	seq      map[string]int
	next     int
	notFound error
	less     func(a, b *T) bool
	now      func() time.Time

	// CreateErr, when set, is returned by the next Create instead of storing
	CreateErr error
}

// NewMemStore creates a store. less orders List results; ties and a nil
// less fall back to most recently inserted first.
func NewMemStore[T any](notFound error, less func(a, b *T) bool) *MemStore[T] {
	return &MemStore[T]{
		items:    map[string]*T{},
		seq:      map[string]int{},
		notFound: notFound,
		less:     less,
		now:      time.Now,
	}
}

// SetClock fixes the creation timestamps handed out by Create
func (s *MemStore[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List returns copies of every stored entity
func (s *MemStore[T]) List(ctx context.Context) ([]*T, error) {
	return s.Filter(ctx, nil)
}

// Filter is List restricted to entities keep accepts
func (s *MemStore[T]) Filter(_ context.Context, keep func(*T) bool) ([]*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for id, item := range s.items {
		if keep == nil || keep(item) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.items[ids[i]], s.items[ids[j]]
		if s.less != nil {
			if s.less(a, b) {
				return true
			}
			if s.less(b, a) {
				return false
			}
		}
		return s.seq[ids[i]] > s.seq[ids[j]]
	})

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(s.items[id]))
	}
	return out, nil
}

// GetByID returns a copy of one entity
func (s *MemStore[T]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, s.notFound
	}
	return clone(item), nil
}

// Find returns the first entity match accepts
func (s *MemStore[T]) Find(match func(*T) bool) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if match(item) {
			return clone(item), true
		}
	}
	return nil, false
}

// Create stores a copy of entity with a fresh id and creation time
func (s *MemStore[T]) Create(_ context.Context, entity *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		err := s.CreateErr
		s.CreateErr = nil
		return nil, err
	}

	item := clone(entity)
	id := uuid.NewString()
	if err := setColumns(item, map[string]any{"id": id, "created_at": s.now().UTC()}); err != nil {
		return nil, err
	}

	s.items[id] = item
	s.next++
	s.seq[id] = s.next
	return clone(item), nil
}

// Update applies changes by column name
func (s *MemStore[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	return s.Mutate(id, func(item *T) error {
		return setColumns(item, changes)
	})
}

// Mutate runs fn on the stored entity under the store lock
func (s *MemStore[T]) Mutate(id string, fn func(*T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, s.notFound
	}
	updated := clone(item)
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.items[id] = updated
	return clone(updated), nil
}

// Delete removes an entity and returns it
func (s *MemStore[T]) Delete(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, s.notFound
	}
	delete(s.items, id)
	delete(s.seq, id)
	return item, nil
}

// Len returns the number of stored entities
func (s *MemStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func setColumns[T any](item *T, changes map[string]any) error {
	v := reflect.ValueOf(item).Elem()
	t := v.Type()

	for column, value := range changes {
		found := false
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Tag.Get("db") != column {
				continue
			}
			if err := assign(v.Field(i), value); err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			found = true
			break
		}
		if !found {
			return fmt.Errorf("unknown column %q on %s", column, t.Name())
		}
	}
	return nil
}

func assign(field reflect.Value, value any) error {
	rv := reflect.ValueOf(value)
	switch {
	case !rv.IsValid():
		field.Set(reflect.Zero(field.Type()))
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case field.Kind() == reflect.Pointer && rv.Type().ConvertibleTo(field.Type().Elem()):
		p := reflect.New(field.Type().Elem())
		p.Elem().Set(rv.Convert(field.Type().Elem()))
		field.Set(p)
	case rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", rv.Type(), field.Type())
	}
	return nil
}
