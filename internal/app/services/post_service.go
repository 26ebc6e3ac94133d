package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
)

// PostStore adds the atomic like toggle to the shared store
type PostStore interface {
	Store[models.Post]
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
}

// PostService handles posts
type PostService struct {
	*ContentService[models.Post, dto.PostInput]
	posts PostStore
}

// NewPostService creates a new PostService
func NewPostService(store PostStore, uploader Uploader, logger zerolog.Logger) *PostService {
	return &PostService{
		ContentService: NewContentService(store, uploader, PostDefinition(), logger),
		posts:          store,
	}
}

// ToggleLike likes the post for userID, or unlikes it if already liked
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.posts.ToggleLike(ctx, postID, userID)
}
