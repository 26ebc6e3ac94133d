package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/middleware"
)

// EventController handles events
type EventController struct {
	*ContentController[models.Event, dto.EventInput]
	events *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(events *services.EventService, fileField string, logger zerolog.Logger) *EventController {
	return &EventController{
		ContentController: NewContentController[models.Event, dto.EventInput](events, "Event", fileField, logger),
		events:            events,
	}
}

// List returns events, optionally only upcoming or past ones
// @Summary List events
// @Description Without a filter all events are returned, latest date first. upcoming is sorted soonest first, past most recent first.
// @Tags events
// @Produce json
// @Param when query string false "upcoming or past"
// @Success 200 {array} models.Event
// @Failure 400 {object} dto.ErrorResponse "Unknown filter"
// @Router /events [get]
func (ec *EventController) List(c *gin.Context) {
	period, err := services.ParsePeriod(c.Query("when"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	events, err := ec.events.ListByPeriod(c.Request.Context(), period)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respondList(c, events)
}

// Get returns one event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path string true "ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (ec *EventController) Get(c *gin.Context) {
	ec.ContentController.Get(c)
}

// Create stores a new event
// @Summary Create event
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventInput true "Request body"
// @Param image formData file false "Optional upload, replaces the image reference"
// @Success 201 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /events [post]
func (ec *EventController) Create(c *gin.Context) {
	ec.ContentController.Create(c)
}

// Update changes the supplied fields of a event
// @Summary Update event
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Param request body dto.EventInput true "Request body"
// @Param image formData file false "Optional upload, replaces the image reference"
// @Success 200 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /events/{id} [put]
func (ec *EventController) Update(c *gin.Context) {
	ec.ContentController.Update(c)
}

// Delete removes a event
// @Summary Delete event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (ec *EventController) Delete(c *gin.Context) {
	ec.ContentController.Delete(c)
}
