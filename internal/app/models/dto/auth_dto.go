package dto

import "github.com/yigit/cyberclub/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Ada Lovelace"`
	Email    string `json:"email" binding:"required" example:"ada@club.edu"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@club.edu"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
	ExpiresIn int64        `json:"expiresIn" example:"604800"`
	User      *models.User `json:"user"`
}

// RoleRequest changes a user's role
type RoleRequest struct {
	Role models.RoleType `json:"role" binding:"required" example:"admin"`
}
