package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: the first matching target wins.
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMediaType, "Unsupported media type"},
	{apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "Payload too large"},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many requests, please slow down"},
}

// HandleAPIError writes the JSON error response for err. It is the only place
// errors are translated to HTTP statuses.
func HandleAPIError(c *gin.Context, err error) {
	status, resp := ErrorResponseFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("requestID", c.GetString(ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.JSON(status, resp)
}

// ErrorResponseFor maps err to a status and response body
func ErrorResponseFor(err error) (int, *dto.ErrorResponse) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		msg := fmt.Sprintf("Request body exceeds %d bytes", maxBytes.Limit)
		return http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrorCodePayloadTooLarge, msg)
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := dto.NewErrorResponse(m.code, apperrors.Message(err, m.message))
		var ce *apperrors.CustomError
		if errors.As(err, &ce) {
			resp.WithField(ce.Field)
			if len(ce.Details) > 0 {
				resp.WithDetails(ce.Details)
			}
		}
		return m.status, resp
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Request timed out").WithCause(err)
	}

	return http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error").WithCause(err)
}

func abortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
