package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/middleware"
)

// ContactController handles the contact form and the admin inbox
type ContactController struct {
	contactService *services.ContactService
	logger         zerolog.Logger
}

// NewContactController creates a new ContactController
func NewContactController(contactService *services.ContactService, logger zerolog.Logger) *ContactController {
	return &ContactController{
		contactService: contactService,
		logger:         logger,
	}
}

// Submit stores a contact form message
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /contact [post]
func (cc *ContactController) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindError(err))
		return
	}

	msg, err := cc.contactService.Submit(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List returns the inbox, newest first
// @Summary List contact messages
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ContactMessage
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /contact [get]
func (cc *ContactController) List(c *gin.Context) {
	msgs, err := cc.contactService.List(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respondList(c, msgs)
}

// Get returns one message
// @Summary Get a contact message
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.ContactMessage
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /contact/{id} [get]
func (cc *ContactController) Get(c *gin.Context) {
	msg, err := cc.contactService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// UpdateStatus marks a message new, read or replied
// @Summary Change a contact message status
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body dto.StatusRequest true "New status"
// @Success 200 {object} models.ContactMessage
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /contact/{id}/status [put]
func (cc *ContactController) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, middleware.BindError(err))
		return
	}

	msg, err := cc.contactService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// Delete removes a message
// @Summary Delete a contact message
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /contact/{id} [delete]
func (cc *ContactController) Delete(c *gin.Context) {
	if err := cc.contactService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Message deleted successfully"})
}
