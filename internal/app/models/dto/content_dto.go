package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// Content inputs use pointer fields: nil means "not supplied", which lets one
// type serve both create (required fields checked by the service) and partial
// update. The form tags bind multipart bodies, the json tags JSON bodies.
// Fields sharing their form key with an upload are form:"-"; the controller
// fills them through SetUploadRef when no file arrives under that key.

// PostInput creates or updates a post
type PostInput struct {
	Title   *string `json:"title" form:"title" binding:"omitempty,max=200"`
	Content *string `json:"content" form:"content"`
	Image   *string `json:"image" form:"-" binding:"omitempty,max=2048"`
}

// SetUploadRef sets the image reference sent as plain text in a form
func (in *PostInput) SetUploadRef(ref string) { in.Image = &ref }

// EventInput creates or updates an event
type EventInput struct {
	Title       *string `json:"title" form:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" form:"description"`
	Date        *string `json:"date" form:"date" example:"2024-11-02T18:00:00Z"`
	Location    *string `json:"location" form:"location" binding:"omitempty,max=200"`
	Image       *string `json:"image" form:"-" binding:"omitempty,max=2048"`
}

// SetUploadRef sets the image reference sent as plain text in a form
func (in *EventInput) SetUploadRef(ref string) { in.Image = &ref }

// MemberInput creates or updates a member profile
type MemberInput struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,max=100"`
	Role     *string `json:"role" form:"role" binding:"omitempty,max=100"`
	Image    *string `json:"image" form:"image" binding:"omitempty,max=2048"`
	Bio      *string `json:"bio" form:"bio"`
	LinkedIn *string `json:"linkedin" form:"linkedin" binding:"omitempty,max=2048"`
	GitHub   *string `json:"github" form:"github" binding:"omitempty,max=2048"`
}

// ClassInput creates or updates a class
type ClassInput struct {
	Title        *string       `json:"title" form:"title" binding:"omitempty,max=200"`
	Description  *string       `json:"description" form:"description"`
	Instructor   *string       `json:"instructor" form:"instructor" binding:"omitempty,max=100"`
	Date         *string       `json:"date" form:"date" example:"2024-11-02"`
	Time         *string       `json:"time" form:"time" binding:"omitempty,max=50" example:"18:00"`
	Location     *string       `json:"location" form:"location" binding:"omitempty,max=200"`
	Capacity     *int          `json:"capacity" form:"capacity"`
	ContentFile  *string       `json:"contentFile" form:"-" binding:"omitempty,max=2048"`
	ContentLinks *ContentLinks `json:"contentLinks" form:"-" swaggertype:"array,object"`
}

// SetUploadRef sets the content file reference sent as plain text in a form
func (in *ClassInput) SetUploadRef(ref string) { in.ContentFile = &ref }

// BindMultipart reads the JSON encoded contentLinks form value
func (in *ClassInput) BindMultipart(c *gin.Context) error {
	raw, ok := c.GetPostForm("contentLinks")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	links, err := ParseContentLinks(raw)
	if err != nil {
		return err
	}
	in.ContentLinks = &links
	return nil
}

// CTFInput creates or updates a CTF writeup
type CTFInput struct {
	Title       *string `json:"title" form:"title" binding:"omitempty,max=200"`
	Author      *string `json:"author" form:"author" binding:"omitempty,max=100"`
	Preview     *string `json:"preview" form:"-" binding:"omitempty,max=2048"`
	PreviewType *string `json:"previewType" form:"previewType" example:"image"`
	VideoLink   *string `json:"videoLink" form:"videoLink" binding:"omitempty,max=2048"`
	Description *string `json:"description" form:"description"`
}

// SetUploadRef sets the preview reference sent as plain text in a form
func (in *CTFInput) SetUploadRef(ref string) { in.Preview = &ref }

// ContentLinks accepts either a JSON array of links or a string holding one
type ContentLinks []models.ContentLink

// UnmarshalJSON implements json.Unmarshaler
func (l *ContentLinks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		links, err := ParseContentLinks(encoded)
		if err != nil {
			return err
		}
		*l = links
		return nil
	}

	var links []models.ContentLink
	if err := json.Unmarshal(data, &links); err != nil {
		return errMalformedLinks(err)
	}
	*l = links
	return nil
}

func errMalformedLinks(cause error) error {
	return &apperrors.CustomError{
		Err:     apperrors.ErrValidationFailed,
		Message: "contentLinks must be a JSON array of {label, url}",
		Field:   "contentLinks",
		Details: map[string]interface{}{"reason": cause.Error()},
	}
}

// ParseContentLinks decodes a JSON encoded array of links
func ParseContentLinks(raw string) (ContentLinks, error) {
	var links []models.ContentLink
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, errMalformedLinks(err)
	}
	return links, nil
}
