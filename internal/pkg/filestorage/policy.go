package filestorage

import (
	"slices"
	"strings"
)

// Category names the kind of upload a request carries. The value doubles as
// the stored file name prefix.
type Category string

const (
	CategoryPostImage    Category = "post"
	CategoryEventImage   Category = "event"
	CategoryCTFPreview   Category = "ctf"
	CategoryClassContent Category = "class"
)

const mb = 1 << 20

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	videoExtensions = []string{".mp4", ".mov", ".avi"}

	imageMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	videoMIMEs = []string{"video/mp4", "video/quicktime", "video/x-msvideo"}
)

// Policy is the acceptance rule set for one category
type Policy struct {
	Field      string
	Extensions []string
	// MIMEs lists the sniffed content types accepted. Empty disables sniffing.
	MIMEs    []string
	MaxBytes int64
}

// AllowsExtension reports whether ext (with leading dot, any case) is allowed
func (p Policy) AllowsExtension(ext string) bool {
	return slices.Contains(p.Extensions, strings.ToLower(ext))
}

// DefaultPolicies returns the upload rules for every category
func DefaultPolicies() map[Category]Policy {
	return map[Category]Policy{
		CategoryPostImage: {
			Field:      "image",
			Extensions: imageExtensions,
			MIMEs:      imageMIMEs,
			MaxBytes:   5 * mb,
		},
		CategoryEventImage: {
			Field:      "image",
			Extensions: imageExtensions,
			MIMEs:      imageMIMEs,
			MaxBytes:   5 * mb,
		},
		CategoryCTFPreview: {
			Field:      "preview",
			Extensions: slices.Concat(imageExtensions, videoExtensions),
			MIMEs:      slices.Concat(imageMIMEs, videoMIMEs),
			MaxBytes:   10 * mb,
		},
		CategoryClassContent: {
			Field:      "contentFile",
			Extensions: []string{".pptx", ".ppt", ".pdf"},
			MaxBytes:   20 * mb,
		},
	}
}
