// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/middleware"
)

// ContentHandler is the service surface a ContentController drives.
// *services.ContentService implements it.
type ContentHandler[T any, In any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in *In, file *multipart.FileHeader) (*T, error)
	Update(ctx context.Context, id string, in *In, file *multipart.FileHeader) (*T, error)
	Delete(ctx context.Context, id string) error
}

// multipartBinder lets an input read form values the generic form binding
// cannot, such as JSON encoded arrays.
type multipartBinder interface {
	BindMultipart(c *gin.Context) error
}

// uploadRefSetter is an input whose upload field may also arrive as a plain
// text reference under the same form key.
type uploadRefSetter interface {
	SetUploadRef(ref string)
}

// ContentController serves list/get/create/update/delete for one content type
type ContentController[T any, In any] struct {
	service ContentHandler[T, In]
	// label is the display name used in messages, e.g. "Post"
	label string
	// fileField is the multipart field carrying the upload, empty if none
	fileField string
	logger    zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController[T any, In any](service ContentHandler[T, In], label, fileField string, logger zerolog.Logger) *ContentController[T, In] {
	return &ContentController[T, In]{
		service:   service,
		label:     label,
		fileField: fileField,
		logger:    logger,
	}
}

// List returns every item, newest first
func (cc *ContentController[T, In]) List(c *gin.Context) {
	items, err := cc.service.List(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respondList(c, items)
}

// Get returns one item
func (cc *ContentController[T, In]) Get(c *gin.Context) {
	item, err := cc.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create stores a new item from a JSON or multipart body
func (cc *ContentController[T, In]) Create(c *gin.Context) {
	in, file, err := cc.bind(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	item, err := cc.service.Create(c.Request.Context(), in, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update changes the supplied fields of an item
func (cc *ContentController[T, In]) Update(c *gin.Context) {
	in, file, err := cc.bind(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	item, err := cc.service.Update(c.Request.Context(), c.Param("id"), in, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item
func (cc *ContentController[T, In]) Delete(c *gin.Context) {
	if err := cc.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: cc.label + " deleted successfully"})
}

// bind reads the input from a multipart form (with the optional file) or a
// JSON body. An empty JSON body is an empty input.
func (cc *ContentController[T, In]) bind(c *gin.Context) (*In, *multipart.FileHeader, error) {
	in := new(In)

	if !isMultipart(c) {
		if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, middleware.BindError(err)
		}
		return in, nil, nil
	}

	if err := c.ShouldBindWith(in, binding.FormMultipart); err != nil {
		return nil, nil, middleware.BindError(err)
	}
	if mb, ok := any(in).(multipartBinder); ok {
		if err := mb.BindMultipart(c); err != nil {
			return nil, nil, middleware.BindError(err)
		}
	}

	if cc.fileField == "" {
		return in, nil, nil
	}
	file, err := c.FormFile(cc.fileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return cc.bindUploadRef(c, in)
	case err != nil:
		return nil, nil, middleware.BindError(err)
	}
	return in, file, nil
}

// bindUploadRef takes the text value of the file field as the reference
func (cc *ContentController[T, In]) bindUploadRef(c *gin.Context, in *In) (*In, *multipart.FileHeader, error) {
	ref, ok := c.GetPostForm(cc.fileField)
	setter, settable := any(in).(uploadRefSetter)
	if !ok || !settable {
		return in, nil, nil
	}
	setter.SetUploadRef(ref)
	if err := binding.Validator.ValidateStruct(in); err != nil {
		return nil, nil, middleware.BindError(err)
	}
	return in, nil, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func respondList[T any](c *gin.Context, items []*T) {
	if items == nil {
		items = []*T{}
	}
	c.JSON(http.StatusOK, items)
}
