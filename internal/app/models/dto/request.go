package dto

import "github.com/yigit/cyberclub/internal/app/models"

// ContactRequest is the public contact form submission
type ContactRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=100" example:"Grace Hopper"`
	Email   string `json:"email" form:"email" binding:"required,email,max=254" example:"grace@example.com"`
	Message string `json:"message" form:"message" binding:"required,max=5000" example:"Do you run beginner CTF nights?"`
}

// StatusRequest moves a contact message to another status
type StatusRequest struct {
	Status models.MessageStatus `json:"status" binding:"required" example:"read"`
}
