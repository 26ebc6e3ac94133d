package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
)

// ClassController handles classes and their material
type ClassController struct {
	*ContentController[models.Class, dto.ClassInput]
}

// NewClassController creates a new ClassController
func NewClassController(service ContentHandler[models.Class, dto.ClassInput], fileField string, logger zerolog.Logger) *ClassController {
	return &ClassController{
		ContentController: NewContentController[models.Class, dto.ClassInput](service, "Class", fileField, logger),
	}
}

// List returns every class
// @Summary List classes
// @Description Latest date first.
// @Tags classes
// @Produce json
// @Success 200 {array} models.Class
// @Router /classes [get]
func (cc *ClassController) List(c *gin.Context) {
	cc.ContentController.List(c)
}

// Get returns one class
// @Summary Get class
// @Tags classes
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.Class
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [get]
func (cc *ClassController) Get(c *gin.Context) {
	cc.ContentController.Get(c)
}

// Create stores a new class
// @Summary Create class
// @Tags classes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClassInput true "Request body"
// @Param contentFile formData file false "Optional upload, replaces the contentFile reference"
// @Success 201 {object} models.Class
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /classes [post]
func (cc *ClassController) Create(c *gin.Context) {
	cc.ContentController.Create(c)
}

// Update changes the supplied fields of a class
// @Summary Update class
// @Tags classes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param request body dto.ClassInput true "Request body"
// @Param contentFile formData file false "Optional upload, replaces the contentFile reference"
// @Success 200 {object} models.Class
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /classes/{id} [put]
func (cc *ClassController) Update(c *gin.Context) {
	cc.ContentController.Update(c)
}

// Delete removes a class
// @Summary Delete class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [delete]
func (cc *ClassController) Delete(c *gin.Context) {
	cc.ContentController.Delete(c)
}
