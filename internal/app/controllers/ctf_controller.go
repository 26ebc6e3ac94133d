package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
)

// CTFController handles CTF writeups
type CTFController struct {
	*ContentController[models.CTF, dto.CTFInput]
}

// NewCTFController creates a new CTFController
func NewCTFController(service ContentHandler[models.CTF, dto.CTFInput], fileField string, logger zerolog.Logger) *CTFController {
	return &CTFController{
		ContentController: NewContentController[models.CTF, dto.CTFInput](service, "CTF", fileField, logger),
	}
}

// List returns every ctf
// @Summary List ctfs
// @Description Newest first.
// @Tags ctfs
// @Produce json
// @Success 200 {array} models.CTF
// @Router /ctfs [get]
func (tc *CTFController) List(c *gin.Context) {
	tc.ContentController.List(c)
}

// Get returns one ctf
// @Summary Get ctf
// @Tags ctfs
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.CTF
// @Failure 404 {object} dto.ErrorResponse "CTF not found"
// @Router /ctfs/{id} [get]
func (tc *CTFController) Get(c *gin.Context) {
	tc.ContentController.Get(c)
}

// Create stores a new ctf
// @Summary Create ctf
// @Tags ctfs
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CTFInput true "Request body"
// @Param preview formData file false "Optional upload, replaces the preview reference"
// @Success 201 {object} models.CTF
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /ctfs [post]
func (tc *CTFController) Create(c *gin.Context) {
	tc.ContentController.Create(c)
}

// Update changes the supplied fields of a ctf
// @Summary Update ctf
// @Tags ctfs
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param request body dto.CTFInput true "Request body"
// @Param preview formData file false "Optional upload, replaces the preview reference"
// @Success 200 {object} models.CTF
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "CTF not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /ctfs/{id} [put]
func (tc *CTFController) Update(c *gin.Context) {
	tc.ContentController.Update(c)
}

// Delete removes a ctf
// @Summary Delete ctf
// @Tags ctfs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "CTF not found"
// @Router /ctfs/{id} [delete]
func (tc *CTFController) Delete(c *gin.Context) {
	tc.ContentController.Delete(c)
}
