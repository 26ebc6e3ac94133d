package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/ratelimit"
)

const testUserID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
}

func authRouter(jwtService *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwtService)
	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"userID": identity.UserID, "role": identity.Role})
	})
	r.GET("/admin", append(m.AdminOnly(), func(c *gin.Context) { c.Status(http.StatusNoContent) })...)
	return r
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwtService := newJWT()
	r := authRouter(jwtService)
	token, _, err := jwtService.GenerateToken(&models.User{ID: testUserID, Role: models.RoleUser})
	require.NoError(t, err)

	w := request(r, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testUserID)

	w = request(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Code)

	w = request(r, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Code)
}

func TestJWTAuthExpiredTokenHasDistinctCode(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: -time.Minute, TokenIssuer: "test"})
	token, _, err := expired.GenerateToken(&models.User{ID: testUserID, Role: models.RoleUser})
	require.NoError(t, err)

	w := request(authRouter(newJWT()), http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, w).Code)
}

func TestAdminOnly(t *testing.T) {
	jwtService := newJWT()
	r := authRouter(jwtService)
	userToken, _, _ := jwtService.GenerateToken(&models.User{ID: testUserID, Role: models.RoleUser})
	adminToken, _, _ := jwtService.GenerateToken(&models.User{ID: testUserID, Role: models.RoleAdmin})

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/admin", "").Code)

	w := request(r, http.MethodGet, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Code)

	assert.Equal(t, http.StatusNoContent, request(r, http.MethodGet, "/admin", adminToken).Code)
}

func TestErrorResponseFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
		msg    string
	}{
		{apperrors.ErrPostNotFound, 404, dto.ErrorCodeResourceNotFound, "Post not found"},
		{apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{apperrors.NewFieldValidationError("title", "title is required"), 400, dto.ErrorCodeValidationFailed, "title is required"},
		{apperrors.NewUnsupportedMediaTypeError("nope"), 415, dto.ErrorCodeUnsupportedMediaType, "nope"},
		{apperrors.NewPayloadTooLargeError("big"), 413, dto.ErrorCodePayloadTooLarge, "big"},
		{apperrors.ErrTooManyRequests, 429, dto.ErrorCodeTooManyRequests, "Too many requests, please slow down"},
		{&http.MaxBytesError{Limit: 10}, 413, dto.ErrorCodePayloadTooLarge, "Request body exceeds 10 bytes"},
	}
	for _, tt := range tests {
		status, resp := ErrorResponseFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, resp.Code)
		assert.Equal(t, tt.msg, resp.Message)
		assert.Empty(t, resp.Error)
	}

	status, resp := ErrorResponseFor(apperrors.NewFieldValidationError("title", "title is required"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "title", resp.Field)
}

func TestInternalErrorsCarryCause(t *testing.T) {
	status, resp := ErrorResponseFor(errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorCodeInternalServer, resp.Code)
	assert.Equal(t, "connection refused", resp.Error)
}

func TestBindError(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required,max=5"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleAPIError(c, BindError(err))
			return
		}
		c.Status(http.StatusOK)
	})

	for _, payload := range []string{`{}`, `{"name":"toolong"}`, `{"name":`, `{"name":5}`} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, "name", decodeError(t, w).Field)
}

func TestRequestIDAndLogger(t *testing.T) {
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.New(&logs)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := request(r, http.MethodGet, "/ping", "")
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Contains(t, logs.String(), id)
	assert.Contains(t, logs.String(), `"path":"/ping"`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRequestTimeoutSurvivesClientCancel(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(time.Second))
	var deadline bool
	var ctxErr error
	r.GET("/", func(c *gin.Context) {
		_, deadline = c.Request.Context().Deadline()
		ctxErr = c.Request.Context().Err()
		c.Status(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, deadline)
	assert.NoError(t, ctxErr)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			HandleAPIError(c, BindError(err))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(ratelimit.NewIPRateLimiter(0.001, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/", "").Code)

	w := request(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrorCodeTooManyRequests, decodeError(t, w).Code)
}

func TestSecurityHeadersAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), SecurityHeaders())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := request(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, decodeError(t, w).Error, "kaboom")
}
