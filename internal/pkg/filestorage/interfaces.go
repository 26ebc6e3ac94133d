package filestorage

import (
	"io"
)

// URLPrefix is the public path under which stored uploads are served
const URLPrefix = "/uploads"

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes r under name with exclusive create and returns the reference
	// path clients use to fetch it. It fails with fs.ErrExist if name is taken.
	Save(name string, r io.Reader) (string, error)

	// Delete removes a previously returned reference. References the storage
	// does not own are ignored.
	Delete(ref string) error

	// Owns reports whether ref points into this storage
	Owns(ref string) bool
}
