package filestorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yigit/cyberclub/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	urlBase  string // Prefix of returned references, URLPrefix by default
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath,
// creating the directory when missing.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		urlBase:  URLPrefix,
	}, nil
}

// BasePath returns the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes r to basePath/name. The file is created with O_EXCL so two
// uploads can never overwrite each other; a partial file is removed on error.
func (ls *LocalStorage) Save(name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	dstPath := filepath.Join(ls.basePath, name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		}
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err = dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	ref := ls.urlBase + "/" + name
	logger.Debug().Str("path", dstPath).Str("ref", ref).Msg("File saved")
	return ref, nil
}

// Owns reports whether ref is a reference this storage produced
func (ls *LocalStorage) Owns(ref string) bool {
	_, ok := ls.fileName(ref)
	return ok
}

// Delete removes the file behind ref. Missing files and foreign references
// (e.g. absolute URLs) are not errors.
func (ls *LocalStorage) Delete(ref string) error {
	name, ok := ls.fileName(ref)
	if !ok {
		return nil
	}

	physicalPath := filepath.Join(ls.basePath, name)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// fileName extracts the bare file name from ref, rejecting anything that
// would escape basePath.
func (ls *LocalStorage) fileName(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, ls.urlBase+"/")
	if !ok || rest == "" {
		return "", false
	}
	if rest != path.Base(rest) || rest == "." || rest == ".." || strings.Contains(rest, `\`) {
		return "", false
	}
	return rest, true
}
