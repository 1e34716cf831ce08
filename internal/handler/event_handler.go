package handler

import (
	"context"
	"time"

	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/service"
	apperrors "go-gin-event-booking/pkg/app_errors"
	"go-gin-event-booking/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.GET("events/:uuid/availability", h.Availability)
		router.POST("events", h.Create)
		router.PUT("events/:uuid", h.UpdateByEventID)
		router.PUT("events/:uuid/publish", h.Publish)
		router.PUT("events/:uuid/cancel", h.Cancel)
		router.PUT("events/:uuid/finish", h.Finish)
		router.DELETE("events/:uuid", h.DeleteByEventID)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	Category    string    `json:"category" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`
	City        string    `json:"city" binding:"required"`
	CapacityMax int       `json:"capacity_max" binding:"required"`
	UnitPrice   float64   `json:"unit_price"`
	OrganizerID int       `json:"organizer_id" binding:"required"`
}

// UpdateEventRequest 更新活動請求
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Venue       *string    `json:"venue"`
	City        *string    `json:"city"`
	CapacityMax *int       `json:"capacity_max"`
	UnitPrice   *float64   `json:"unit_price"`
}

func (h *EventHandler) List(c *gin.Context) {
	var (
		events []*model.Event
		err    error
	)
	if c.Query("status") == string(model.EventStatusPublished) {
		events, err = h.service.ListPublished(c)
	} else {
		events, err = h.service.List(c)
	}
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := h.parseUUID(c)
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Availability(c *gin.Context) {
	eventID, ok := h.parseUUID(c)
	if !ok {
		return
	}
	availability, err := h.service.Availability(c, eventID)
	if err != nil {
		h.handleError(c, err, "Availability")
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.EventCategory(req.Category),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		City:        req.City,
		CapacityMax: req.CapacityMax,
		UnitPrice:   req.UnitPrice,
		OrganizerID: req.OrganizerID,
	}
	created, err := h.service.Create(c, event)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	eventID, ok := h.parseUUID(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		City:        req.City,
		CapacityMax: req.CapacityMax,
		UnitPrice:   req.UnitPrice,
	}
	if req.Category != nil {
		category := model.EventCategory(*req.Category)
		params.Category = &category
	}
	updated, err := h.service.UpdateByEventID(c, eventID, params)
	if err != nil {
		h.handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Publish(c *gin.Context) {
	h.transition(c, "Publish", h.service.Publish)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	h.transition(c, "Cancel", h.service.Cancel)
}

func (h *EventHandler) Finish(c *gin.Context) {
	h.transition(c, "Finish", h.service.Finish)
}

func (h *EventHandler) transition(c *gin.Context, operation string, fn func(ctx context.Context, eventID uuid.UUID) (*model.Event, error)) {
	eventID, ok := h.parseUUID(c)
	if !ok {
		return
	}
	event, err := fn(c, eventID)
	if err != nil {
		h.handleError(c, err, operation)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteByEventID(c *gin.Context) {
	eventID, ok := h.parseUUID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteByEventID(c, eventID); err != nil {
		h.handleError(c, err, "DeleteByEventID")
		return
	}
	c.Status(http.StatusOK)
}

func (h *EventHandler) parseUUID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return uuid.Nil, false
	}
	return eventID, true
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case err == apperrors.ErrEventNotFound:
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case err == apperrors.ErrUserNotFound:
		log.Warn("Organizer not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Organizer not found"})
	case err == apperrors.ErrInvalidInput:
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case err == apperrors.ErrInvalidState:
		log.Warn("Invalid event state")
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid event state"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
