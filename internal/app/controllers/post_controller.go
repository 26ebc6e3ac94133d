package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/middleware"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// PostController handles the post feed
type PostController struct {
	*ContentController[models.Post, dto.PostInput]
	posts *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, fileField string, logger zerolog.Logger) *PostController {
	return &PostController{
		ContentController: NewContentController[models.Post, dto.PostInput](posts, "Post", fileField, logger),
		posts:             posts,
	}
}

// Like toggles the caller's like on a post
// @Summary Like or unlike a post
// @Description Likes the post for the caller, or removes the like if it is already there. Likes always equals the length of likedBy.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/like [post]
func (pc *PostController) Like(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrUnauthorized)
		return
	}

	post, err := pc.posts.ToggleLike(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	pc.logger.Debug().Str("postID", post.ID).Bool("liked", post.LikedByUser(identity.UserID)).Msg("Like toggled")
	c.JSON(http.StatusOK, post)
}

// List returns every post
// @Summary List posts
// @Description Newest first.
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts [get]
func (pc *PostController) List(c *gin.Context) {
	pc.ContentController.List(c)
}

// Get returns one post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (pc *PostController) Get(c *gin.Context) {
	pc.ContentController.Get(c)
}

// Create stores a new post
// @Summary Create post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostInput true "Request body"
// @Param image formData file false "Optional upload, replaces the image reference"
// @Success 201 {object} models.Post
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /posts [post]
func (pc *PostController) Create(c *gin.Context) {
	pc.ContentController.Create(c)
}

// Update changes the supplied fields of a post
// @Summary Update post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param request body dto.PostInput true "Request body"
// @Param image formData file false "Optional upload, replaces the image reference"
// @Success 200 {object} models.Post
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /posts/{id} [put]
func (pc *PostController) Update(c *gin.Context) {
	pc.ContentController.Update(c)
}

// Delete removes a post
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [delete]
func (pc *PostController) Delete(c *gin.Context) {
	pc.ContentController.Delete(c)
}
