package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/email"
	"github.com/yigit/cyberclub/internal/pkg/validation"
)

// ContactService handles contact form messages. Submission is public,
// everything else is for admins.
type ContactService struct {
	store    Store[models.ContactMessage]
	notifier email.EmailService
	logger   zerolog.Logger
	pending  sync.WaitGroup
}

// NewContactService creates a new ContactService. notifier may be nil.
func NewContactService(store Store[models.ContactMessage], notifier email.EmailService, logger zerolog.Logger) *ContactService {
	return &ContactService{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("content", "contact").Logger(),
	}
}

// Submit stores a new message with status new and notifies the admins in the
// background.
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   validation.NormalizeEmail(req.Email),
		Message: strings.TrimSpace(req.Message),
		Status:  models.MessageNew,
	}
	switch {
	case msg.Name == "":
		return nil, requiredError("name")
	case msg.Message == "":
		return nil, requiredError("message")
	}
	if err := validation.ValidateEmail(msg.Email); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Msg("Contact message received")
	s.notify(created)
	return created, nil
}

func (s *ContactService) notify(msg *models.ContactMessage) {
	if s.notifier == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notifier.SendContactNotification(msg); err != nil {
			s.logger.Warn().Err(err).Str("id", msg.ID).Msg("Contact notification failed")
		}
	}()
}

// Wait blocks until queued notifications have been sent
func (s *ContactService) Wait() {
	s.pending.Wait()
}

// List returns every message, newest first
func (s *ContactService) List(ctx context.Context) ([]*models.ContactMessage, error) {
	return s.store.List(ctx)
}

// Get returns one message
func (s *ContactService) Get(ctx context.Context, id string) (*models.ContactMessage, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus moves a message to status
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status models.MessageStatus) (*models.ContactMessage, error) {
	if !status.Valid() {
		return nil, apperrors.NewFieldValidationError("status", "status must be one of new, read, replied")
	}
	return s.store.Update(ctx, id, map[string]any{"status": status})
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, id string) error {
	_, err := s.store.Delete(ctx, id)
	return err
}
