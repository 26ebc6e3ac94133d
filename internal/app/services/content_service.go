package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
)

// Store is the persistence contract every content type shares
type Store[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, changes map[string]any) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// Uploader accepts one uploaded file per request. *filestorage.Acceptor
// implements it.
type Uploader interface {
	Accept(fh *multipart.FileHeader, category filestorage.Category) (string, error)
	Discard(ref string)
	Owns(ref string) bool
}

// ReferenceFinder reports whether any stored row, of any content type, still
// points at an upload. *repositories.UploadRepository implements it.
type ReferenceFinder interface {
	UploadReferenced(ctx context.Context, ref string) (bool, error)
}

// UploadSpec describes the optional file a content type carries
type UploadSpec[T any] struct {
	Category filestorage.Category
	// Column receives the reference on update
	Column string
	Set    func(entity *T, ref string)
	// Get returns the stored reference, used to clean up replaced or
	// deleted files
	Get func(entity *T) string
}

// Definition holds the per-type rules the generic service applies
type Definition[T any, In any] struct {
	Name string
	// New validates create input and builds the entity. Required fields are
	// checked here.
	New func(in *In) (*T, error)
	// Changes validates update input and returns only the supplied columns
	Changes func(in *In) (map[string]any, error)
	Upload  *UploadSpec[T]
}

// ContentService implements the shared create/read/update/delete flow:
// validate, accept the upload, persist, and undo the upload if persisting
// fails.
type ContentService[T any, In any] struct {
	store    Store[T]
	uploader Uploader
	def      Definition[T, In]
	// refs guards shared uploads; nil falls back to scanning store
	refs   ReferenceFinder
	logger zerolog.Logger
}

// NewContentService creates a new ContentService
func NewContentService[T any, In any](store Store[T], uploader Uploader, def Definition[T, In], logger zerolog.Logger) *ContentService[T, In] {
	return &ContentService[T, In]{
		store:    store,
		uploader: uploader,
		def:      def,
		logger:   logger.With().Str("content", def.Name).Logger(),
	}
}

func (s *ContentService[T, In]) setReferences(refs ReferenceFinder) {
	s.refs = refs
}

// UploadCategory returns the file category this content accepts, if any
func (s *ContentService[T, In]) UploadCategory() (filestorage.Category, bool) {
	if s.def.Upload == nil {
		return "", false
	}
	return s.def.Upload.Category, true
}

// List returns every item
func (s *ContentService[T, In]) List(ctx context.Context) ([]*T, error) {
	return s.store.List(ctx)
}

// Get returns one item
func (s *ContentService[T, In]) Get(ctx context.Context, id string) (*T, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates in, stores file if given, and persists the new item. An
// accepted file overrides the reference string in in.
func (s *ContentService[T, In]) Create(ctx context.Context, in *In, file *multipart.FileHeader) (*T, error) {
	entity, err := s.def.New(in)
	if err != nil {
		return nil, err
	}

	ref, err := s.accept(file)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		s.def.Upload.Set(entity, ref)
	}

	created, err := s.store.Create(ctx, entity)
	if err != nil {
		s.discardNew(ref)
		return nil, err
	}

	s.logger.Info().Msg("Content created")
	return created, nil
}

// Update applies the supplied fields of in, plus file if given, in one write.
// A file replaced by an upload is removed afterwards.
func (s *ContentService[T, In]) Update(ctx context.Context, id string, in *In, file *multipart.FileHeader) (*T, error) {
	changes, err := s.def.Changes(in)
	if err != nil {
		return nil, err
	}

	var previous string
	if file != nil && s.def.Upload != nil {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		previous = s.def.Upload.Get(current)
	}

	ref, err := s.accept(file)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		if changes == nil {
			changes = map[string]any{}
		}
		changes[s.def.Upload.Column] = ref
	}

	updated, err := s.store.Update(ctx, id, changes)
	if err != nil {
		s.discardNew(ref)
		return nil, err
	}

	if ref != "" && previous != ref {
		s.release(ctx, previous)
	}
	return updated, nil
}

// Delete removes an item and, best-effort, the upload it referenced unless
// another row still references it
func (s *ContentService[T, In]) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	if s.def.Upload != nil {
		s.release(ctx, s.def.Upload.Get(deleted))
	}
	s.logger.Info().Str("id", id).Msg("Content deleted")
	return nil
}

func (s *ContentService[T, In]) accept(file *multipart.FileHeader) (string, error) {
	if file == nil || s.def.Upload == nil || s.uploader == nil {
		return "", nil
	}
	return s.uploader.Accept(file, s.def.Upload.Category)
}

// discardNew removes a file this request just wrote and nothing references
func (s *ContentService[T, In]) discardNew(ref string) {
	if ref == "" || s.uploader == nil {
		return
	}
	s.uploader.Discard(ref)
}

// release removes a replaced or deleted upload once no row points at it.
// Caller-supplied references may name another item's upload.
func (s *ContentService[T, In]) release(ctx context.Context, ref string) {
	if ref == "" || s.uploader == nil || !s.uploader.Owns(ref) {
		return
	}
	inUse, err := s.referenced(ctx, ref)
	if err != nil {
		s.logger.Warn().Err(err).Str("ref", ref).Msg("Keeping upload, reference check failed")
		return
	}
	if inUse {
		s.logger.Debug().Str("ref", ref).Msg("Keeping upload still referenced")
		return
	}
	s.uploader.Discard(ref)
}

func (s *ContentService[T, In]) referenced(ctx context.Context, ref string) (bool, error) {
	if s.refs != nil {
		return s.refs.UploadReferenced(ctx, ref)
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if s.def.Upload.Get(item) == ref {
			return true, nil
		}
	}
	return false, nil
}
