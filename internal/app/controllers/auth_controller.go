package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/middleware"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account with the user role. No token is issued; log in afterwards.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.HandleAPIError(c, middleware.BindError(err))
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindError(err))
		return
	}

	resp, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := ac.authService.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns every user
// @Summary List users
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /auth/users [get]
func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.authService.ListUsers(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respondList(c, users)
}

// SetRole changes a user's role
// @Summary Change a user's role
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.RoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/users/{id}/role [put]
func (ac *AuthController) SetRole(c *gin.Context) {
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindError(err))
		return
	}

	user, err := ac.authService.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user
// @Summary Delete a user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/users/{id} [delete]
func (ac *AuthController) DeleteUser(c *gin.Context) {
	if err := ac.authService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
