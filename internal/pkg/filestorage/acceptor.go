package filestorage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

// sniffLen matches mimetype's default read limit
const sniffLen = 3072

const maxNameAttempts = 3

var errTooLarge = errors.New("upload exceeds size limit")

// Acceptor validates uploaded files against their category policy and hands
// the accepted bytes to a FileStorage.
type Acceptor struct {
	storage  FileStorage
	policies map[Category]Policy
	now      func() time.Time
}

// NewAcceptor creates an Acceptor using DefaultPolicies
func NewAcceptor(storage FileStorage) *Acceptor {
	return &Acceptor{
		storage:  storage,
		policies: DefaultPolicies(),
		now:      time.Now,
	}
}

// Policy returns the rules for category
func (a *Acceptor) Policy(category Category) (Policy, bool) {
	p, ok := a.policies[category]
	return p, ok
}

// Accept validates fh and persists it, returning the reference path. A nil
// header yields an empty reference and no error. Nothing is stored when
// validation fails.
func (a *Acceptor) Accept(fh *multipart.FileHeader, category Category) (string, error) {
	if fh == nil {
		return "", nil
	}

	policy, ok := a.policies[category]
	if !ok {
		return "", fmt.Errorf("unknown upload category %q", category)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !policy.AllowsExtension(ext) {
		return "", apperrors.NewUnsupportedMediaTypeError(
			fmt.Sprintf("File type %q is not allowed, expected one of %s", ext, strings.Join(policy.Extensions, ", ")))
	}
	if fh.Size > policy.MaxBytes {
		return "", tooLarge(policy)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	var body io.Reader = file
	if len(policy.MIMEs) > 0 {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read uploaded file: %w", err)
		}
		head = head[:n]

		detected := mimetype.Detect(head)
		if !mimeAllowed(detected, policy.MIMEs) {
			return "", apperrors.NewUnsupportedMediaTypeError(
				fmt.Sprintf("File content %q is not allowed for %s uploads", detected.String(), category))
		}
		body = io.MultiReader(bytes.NewReader(head), file)
	}

	ref, err := a.store(category, ext, &limitReader{r: body, remaining: policy.MaxBytes})
	if errors.Is(err, errTooLarge) {
		return "", tooLarge(policy)
	}
	if err != nil {
		return "", err
	}

	logger.Info().Str("category", string(category)).Str("filename", fh.Filename).Str("ref", ref).Msg("Upload accepted")
	return ref, nil
}

// Discard removes a reference returned by Accept, best-effort. Used when the
// database write that should have referenced the file fails.
func (a *Acceptor) Discard(ref string) {
	if ref == "" || !a.storage.Owns(ref) {
		return
	}
	if err := a.storage.Delete(ref); err != nil {
		logger.Warn().Err(err).Str("ref", ref).Msg("Failed to discard upload")
	}
}

// Owns reports whether ref is a locally stored upload
func (a *Acceptor) Owns(ref string) bool {
	return ref != "" && a.storage.Owns(ref)
}

func (a *Acceptor) store(category Category, ext string, r io.Reader) (string, error) {
	var lastErr error
	for range maxNameAttempts {
		name := fmt.Sprintf("%s-%d-%09d%s", category, a.now().UnixMilli(), rand.IntN(1_000_000_000), ext)
		ref, err := a.storage.Save(name, r)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("could not allocate a unique file name: %w", lastErr)
}

func mimeAllowed(detected *mimetype.MIME, allowed []string) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

func tooLarge(p Policy) error {
	return apperrors.NewPayloadTooLargeError(fmt.Sprintf("File exceeds the %d MB limit", p.MaxBytes/mb))
}

// limitReader fails with errTooLarge once more than remaining bytes are read
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}
