package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
)

// MemberController handles club member profiles
type MemberController struct {
	*ContentController[models.Member, dto.MemberInput]
}

// NewMemberController creates a new MemberController
func NewMemberController(service ContentHandler[models.Member, dto.MemberInput], fileField string, logger zerolog.Logger) *MemberController {
	return &MemberController{
		ContentController: NewContentController[models.Member, dto.MemberInput](service, "Member", fileField, logger),
	}
}

// List returns every member
// @Summary List members
// @Description Newest first.
// @Tags members
// @Produce json
// @Success 200 {array} models.Member
// @Router /members [get]
func (mc *MemberController) List(c *gin.Context) {
	mc.ContentController.List(c)
}

// Get returns one member
// @Summary Get member
// @Tags members
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.Member
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [get]
func (mc *MemberController) Get(c *gin.Context) {
	mc.ContentController.Get(c)
}

// Create stores a new member
// @Summary Create member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MemberInput true "Request body"
// @Success 201 {object} models.Member
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /members [post]
func (mc *MemberController) Create(c *gin.Context) {
	mc.ContentController.Create(c)
}

// Update changes the supplied fields of a member
// @Summary Update member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param request body dto.MemberInput true "Request body"
// @Success 200 {object} models.Member
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [put]
func (mc *MemberController) Update(c *gin.Context) {
	mc.ContentController.Update(c)
}

// Delete removes a member
// @Summary Delete member
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id} [delete]
func (mc *MemberController) Delete(c *gin.Context) {
	mc.ContentController.Delete(c)
}
