package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/pkg/helpers"
	"github.com/yigit/cyberclub/internal/pkg/validation"
)

func requiredError(field string) error {
	return apperrors.NewFieldValidationError(field, fmt.Sprintf("%s is required", field))
}

func requiredText(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", requiredError(field)
	}
	return strings.TrimSpace(*v), nil
}

func optionalText(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func parseDate(field string, v *string) (time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return time.Time{}, requiredError(field)
	}
	t, err := helpers.ParseDate(*v)
	if err != nil {
		return time.Time{}, apperrors.NewFieldValidationError(field, fmt.Sprintf("%s must be an ISO 8601 date", field))
	}
	return t, nil
}

// changeSet collects the supplied fields of an update. The first validation
// failure sticks.
type changeSet struct {
	changes map[string]any
	err     error
}

func newChangeSet() *changeSet {
	return &changeSet{changes: map[string]any{}}
}

// text records v under column. Required columns may be omitted but not blanked.
func (c *changeSet) text(column, field string, v *string, required bool) {
	if v == nil || c.err != nil {
		return
	}
	value := strings.TrimSpace(*v)
	if required && value == "" {
		c.err = requiredError(field)
		return
	}
	c.changes[column] = value
}

func (c *changeSet) date(column, field string, v *string) {
	if v == nil || c.err != nil {
		return
	}
	t, err := parseDate(field, v)
	if err != nil {
		c.err = err
		return
	}
	c.changes[column] = t
}

func (c *changeSet) set(column string, value any) {
	if c.err == nil {
		c.changes[column] = value
	}
}

func (c *changeSet) check(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func (c *changeSet) result() (map[string]any, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.changes, nil
}

// PostDefinition describes posts
func PostDefinition() Definition[models.Post, dto.PostInput] {
	return Definition[models.Post, dto.PostInput]{
		Name: "post",
		New: func(in *dto.PostInput) (*models.Post, error) {
			title, err := requiredText("title", in.Title)
			if err != nil {
				return nil, err
			}
			content, err := requiredText("content", in.Content)
			if err != nil {
				return nil, err
			}
			return &models.Post{
				Title:   title,
				Content: content,
				Image:   optionalText(in.Image),
				LikedBy: []string{},
			}, nil
		},
		Changes: func(in *dto.PostInput) (map[string]any, error) {
			c := newChangeSet()
			c.text("title", "title", in.Title, true)
			c.text("content", "content", in.Content, true)
			c.text("image", "image", in.Image, false)
			return c.result()
		},
		Upload: &UploadSpec[models.Post]{
			Category: filestorage.CategoryPostImage,
			Column:   "image",
			Set:      func(p *models.Post, ref string) { p.Image = ref },
			Get:      func(p *models.Post) string { return p.Image },
		},
	}
}

// EventDefinition describes events
func EventDefinition() Definition[models.Event, dto.EventInput] {
	return Definition[models.Event, dto.EventInput]{
		Name: "event",
		New: func(in *dto.EventInput) (*models.Event, error) {
			title, err := requiredText("title", in.Title)
			if err != nil {
				return nil, err
			}
			description, err := requiredText("description", in.Description)
			if err != nil {
				return nil, err
			}
			date, err := parseDate("date", in.Date)
			if err != nil {
				return nil, err
			}
			location, err := requiredText("location", in.Location)
			if err != nil {
				return nil, err
			}
			return &models.Event{
				Title:       title,
				Description: description,
				Date:        date,
				Location:    location,
				Image:       optionalText(in.Image),
			}, nil
		},
		Changes: func(in *dto.EventInput) (map[string]any, error) {
			c := newChangeSet()
			c.text("title", "title", in.Title, true)
			c.text("description", "description", in.Description, true)
			c.date("date", "date", in.Date)
			c.text("location", "location", in.Location, true)
			c.text("image", "image", in.Image, false)
			return c.result()
		},
		Upload: &UploadSpec[models.Event]{
			Category: filestorage.CategoryEventImage,
			Column:   "image",
			Set:      func(e *models.Event, ref string) { e.Image = ref },
			Get:      func(e *models.Event) string { return e.Image },
		},
	}
}

// MemberDefinition describes member profiles. Members carry no upload; image
// is always a caller supplied URL.
func MemberDefinition() Definition[models.Member, dto.MemberInput] {
	return Definition[models.Member, dto.MemberInput]{
		Name: "member",
		New: func(in *dto.MemberInput) (*models.Member, error) {
			name, err := requiredText("name", in.Name)
			if err != nil {
				return nil, err
			}
			role, err := requiredText("role", in.Role)
			if err != nil {
				return nil, err
			}
			return &models.Member{
				Name:     name,
				Role:     role,
				Image:    optionalText(in.Image),
				Bio:      optionalText(in.Bio),
				LinkedIn: optionalText(in.LinkedIn),
				GitHub:   optionalText(in.GitHub),
			}, nil
		},
		Changes: func(in *dto.MemberInput) (map[string]any, error) {
			c := newChangeSet()
			c.text("name", "name", in.Name, true)
			c.text("role", "role", in.Role, true)
			c.text("image", "image", in.Image, false)
			c.text("bio", "bio", in.Bio, false)
			c.text("linkedin", "linkedin", in.LinkedIn, false)
			c.text("github", "github", in.GitHub, false)
			return c.result()
		},
	}
}

func validateLinks(links dto.ContentLinks) ([]models.ContentLink, error) {
	out := make([]models.ContentLink, 0, len(links))
	for i, l := range links {
		label, url := strings.TrimSpace(l.Label), strings.TrimSpace(l.URL)
		if label == "" || url == "" {
			return nil, apperrors.NewFieldValidationError("contentLinks",
				fmt.Sprintf("contentLinks[%d] needs both label and url", i))
		}
		out = append(out, models.ContentLink{Label: label, URL: url})
	}
	return out, nil
}

// ClassDefinition describes classes
func ClassDefinition() Definition[models.Class, dto.ClassInput] {
	return Definition[models.Class, dto.ClassInput]{
		Name: "class",
		New: func(in *dto.ClassInput) (*models.Class, error) {
			title, err := requiredText("title", in.Title)
			if err != nil {
				return nil, err
			}
			description, err := requiredText("description", in.Description)
			if err != nil {
				return nil, err
			}
			date, err := parseDate("date", in.Date)
			if err != nil {
				return nil, err
			}
			classTime, err := requiredText("time", in.Time)
			if err != nil {
				return nil, err
			}
			if err := validation.ValidateCapacity(in.Capacity); err != nil {
				return nil, err
			}
			links := []models.ContentLink{}
			if in.ContentLinks != nil {
				if links, err = validateLinks(*in.ContentLinks); err != nil {
					return nil, err
				}
			}
			return &models.Class{
				Title:        title,
				Description:  description,
				Instructor:   optionalText(in.Instructor),
				Date:         date,
				Time:         classTime,
				Location:     optionalText(in.Location),
				Capacity:     in.Capacity,
				ContentFile:  optionalText(in.ContentFile),
				ContentLinks: links,
			}, nil
		},
		Changes: func(in *dto.ClassInput) (map[string]any, error) {
			c := newChangeSet()
			c.text("title", "title", in.Title, true)
			c.text("description", "description", in.Description, true)
			c.text("instructor", "instructor", in.Instructor, false)
			c.date("date", "date", in.Date)
			c.text("time", "time", in.Time, true)
			c.text("location", "location", in.Location, false)
			if in.Capacity != nil {
				c.check(validation.ValidateCapacity(in.Capacity))
				c.set("capacity", *in.Capacity)
			}
			c.text("content_file", "contentFile", in.ContentFile, false)
			if in.ContentLinks != nil {
				links, err := validateLinks(*in.ContentLinks)
				c.check(err)
				c.set("content_links", links)
			}
			return c.result()
		},
		Upload: &UploadSpec[models.Class]{
			Category: filestorage.CategoryClassContent,
			Column:   "content_file",
			Set:      func(c *models.Class, ref string) { c.ContentFile = ref },
			Get:      func(c *models.Class) string { return c.ContentFile },
		},
	}
}

func parsePreviewType(v *string) (models.PreviewType, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return models.PreviewImage, nil
	}
	pt := models.PreviewType(strings.ToLower(strings.TrimSpace(*v)))
	if !pt.Valid() {
		return "", apperrors.NewFieldValidationError("previewType", "previewType must be one of image, video, link")
	}
	return pt, nil
}

// CTFDefinition describes CTF writeups
func CTFDefinition() Definition[models.CTF, dto.CTFInput] {
	return Definition[models.CTF, dto.CTFInput]{
		Name: "ctf",
		New: func(in *dto.CTFInput) (*models.CTF, error) {
			title, err := requiredText("title", in.Title)
			if err != nil {
				return nil, err
			}
			author, err := requiredText("author", in.Author)
			if err != nil {
				return nil, err
			}
			previewType, err := parsePreviewType(in.PreviewType)
			if err != nil {
				return nil, err
			}
			return &models.CTF{
				Title:       title,
				Author:      author,
				Preview:     optionalText(in.Preview),
				PreviewType: previewType,
				VideoLink:   optionalText(in.VideoLink),
				Description: optionalText(in.Description),
			}, nil
		},
		Changes: func(in *dto.CTFInput) (map[string]any, error) {
			c := newChangeSet()
			c.text("title", "title", in.Title, true)
			c.text("author", "author", in.Author, true)
			c.text("preview", "preview", in.Preview, false)
			if in.PreviewType != nil {
				pt, err := parsePreviewType(in.PreviewType)
				c.check(err)
				c.set("preview_type", pt)
			}
			c.text("video_link", "videoLink", in.VideoLink, false)
			c.text("description", "description", in.Description, false)
			return c.result()
		},
		Upload: &UploadSpec[models.CTF]{
			Category: filestorage.CategoryCTFPreview,
			Column:   "preview",
			Set:      func(c *models.CTF, ref string) { c.Preview = ref },
			Get:      func(c *models.CTF) string { return c.Preview },
		},
	}
}
