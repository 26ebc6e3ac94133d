package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// TokenVerifier turns a bearer token into an identity. *auth.JWTService
// implements it.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// JWTAuth requires a valid bearer token and stores the caller's identity in
// the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, apperrors.NewCustomError(apperrors.ErrUnauthorized, "Authorization header missing"))
			return
		}

		token, err := auth.ExtractBearerToken(header)
		if err != nil {
			abortWithError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token format"))
			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextRole, identity.Role)
		c.Next()
	}
}

// RoleRequired rejects callers without role. It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		if identity.Role != role {
			abortWithError(c, apperrors.NewForbiddenError("You don't have sufficient permissions for this operation"))
			return
		}
		c.Next()
	}
}

// AdminOnly is JWTAuth followed by RoleRequired(admin)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.JWTAuth(), m.RoleRequired(models.RoleAdmin)}
}

// CurrentIdentity returns the identity JWTAuth stored, if any
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		return auth.Identity{}, false
	}
	role, _ := c.Get(ContextRole)
	roleType, _ := role.(models.RoleType)
	return auth.Identity{UserID: userID, Role: roleType}, true
}
