// Package client is a typed consumer of the CyberClub HTTP API. Callers hold
// an AuthContext and pass it into every guarded call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// DefaultBaseURL is the API root of a locally running server
const DefaultBaseURL = "http://localhost:5000/api"

// Client calls the API rooted at baseURL
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client. baseURL includes the /api prefix.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthContext is the caller's identity: the bearer token and the user it
// was issued for. The zero value is anonymous.
type AuthContext struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Authenticated reports whether a token is held
func (a AuthContext) Authenticated() bool {
	return a.Token != ""
}

// IsAdmin reports whether the held identity is an admin
func (a AuthContext) IsAdmin() bool {
	return a.User != nil && a.User.IsAdmin()
}

// Expired reports whether the token is past its expiry at now
func (a AuthContext) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// APIError is a non-2xx response decoded from the server's error body
type APIError struct {
	Status  int
	Code    dto.ErrorCode
	Message string
	Field   string
	Cause   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if e.Field != "" {
		msg += " (field " + e.Field + ")"
	}
	if e.Cause != "" {
		msg += ": " + e.Cause
	}
	return msg
}

// Unwrap maps the status onto the shared error sentinels so callers can use
// errors.Is(err, apperrors.ErrResourceNotFound) and friends.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return apperrors.ErrValidationFailed
	case http.StatusUnauthorized:
		if e.Code == dto.ErrorCodeExpiredToken {
			return apperrors.ErrTokenExpired
		}
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrPermissionDenied
	case http.StatusNotFound:
		return apperrors.ErrResourceNotFound
	case http.StatusConflict:
		return apperrors.ErrConflict
	case http.StatusRequestEntityTooLarge:
		return apperrors.ErrPayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return apperrors.ErrUnsupportedMediaType
	case http.StatusTooManyRequests:
		return apperrors.ErrTooManyRequests
	}
	return nil
}

// ErrNotAuthenticated is returned before any request when a guarded call is
// made with an anonymous AuthContext.
var ErrNotAuthenticated = errors.New("not logged in")

// request is one API call
type request struct {
	method string
	path   string
	auth   *AuthContext
	body   *Payload
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if r.body != nil {
		var err error
		body, contentType, err = r.body.encode()
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.auth != nil {
		if !r.auth.Authenticated() {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+r.auth.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("requestID", resp.Header.Get("X-Request-ID")).
		Msg("API call")

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Message,
		Field:   body.Field,
		Cause:   body.Error,
	}
}

// jsonPayload wraps a value that is sent as a JSON body as-is
func jsonPayload(v any) *Payload {
	return &Payload{raw: v}
}

// compactJSON is used for form values that carry structured data
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
