package handler

import (
	"errors"
	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/service"
	apperrors "go-gin-event-booking/pkg/app_errors"
	"go-gin-event-booking/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("reservations", h.GetReservations)
		router.GET("reservations/:id", h.GetReservation)
		router.GET("reservations/code/:code", h.GetReservationByCode)
		router.POST("reservations", h.CreateReservation)
		router.PUT("reservations/:id/confirm", h.ConfirmReservation)
		router.PUT("reservations/:id/cancel", h.CancelReservation)
		router.PUT("reservations/:id/comment", h.UpdateComment)
		router.DELETE("reservations/:id", h.DeleteReservation)

		router.GET("users/:id/reservations", h.GetUserReservations)
		router.GET("users/:id/reservations/count", h.GetUserReservationCount)

		router.GET("revenue", h.GetTotalRevenue)
		router.GET("organizers/:id/revenue", h.GetOrganizerRevenue)
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req model.CreateReservationRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateReservation(c, req)
	if err != nil {
		h.handleReservationError(c, err, "CreateReservation")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ReservationHandler) GetReservations(c *gin.Context) {
	reservations, err := h.service.List(c)
	if err != nil {
		h.handleReservationError(c, err, "GetReservations")
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	reservation, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleReservationError(c, err, "GetReservation")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) GetReservationByCode(c *gin.Context) {
	code := c.Param("code")
	reservation, err := h.service.GetByCode(c, code)
	if err != nil {
		h.handleReservationError(c, err, "GetReservationByCode")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	confirmed, err := h.service.ConfirmReservation(c, id)
	if err != nil {
		h.handleReservationError(c, err, "ConfirmReservation")
		return
	}

	c.JSON(http.StatusOK, confirmed)
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req model.CancelReservationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	cancelled, err := h.service.CancelReservation(c, id, req.Reason)
	if err != nil {
		h.handleReservationError(c, err, "CancelReservation")
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

func (h *ReservationHandler) UpdateComment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateReservationCommentRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateComment(c, id, req.Comment)
	if err != nil {
		h.handleReservationError(c, err, "UpdateComment")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteReservation(c, id); err != nil {
		h.handleReservationError(c, err, "DeleteReservation")
		return
	}

	c.Status(http.StatusOK)
}

// GetUserReservations 依 when=upcoming|past 分割，未指定時回傳全部
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	userID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var (
		reservations []*model.Reservation
		err          error
	)
	switch c.Query("when") {
	case "upcoming":
		reservations, err = h.service.UpcomingForUser(c, userID)
	case "past":
		reservations, err = h.service.PastForUser(c, userID)
	default:
		reservations, err = h.service.ListByUserID(c, userID)
	}
	if err != nil {
		h.handleReservationError(c, err, "GetUserReservations")
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) GetUserReservationCount(c *gin.Context) {
	userID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.service.CountForUser(c, userID)
	if err != nil {
		h.handleReservationError(c, err, "GetUserReservationCount")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "count": count})
}

func (h *ReservationHandler) GetTotalRevenue(c *gin.Context) {
	revenue, err := h.service.TotalRevenue(c)
	if err != nil {
		h.handleReservationError(c, err, "GetTotalRevenue")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_revenue": revenue})
}

func (h *ReservationHandler) GetOrganizerRevenue(c *gin.Context) {
	organizerID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	revenue, err := h.service.OrganizerRevenue(c, organizerID)
	if err != nil {
		h.handleReservationError(c, err, "GetOrganizerRevenue")
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizer_id": organizerID, "total_revenue": revenue})
}

// Helper functions

func (h *ReservationHandler) parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func (h *ReservationHandler) handleReservationError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, apperrors.ErrReservationNotFound):
		log.Warn("Reservation not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		log.Warn("Capacity exceeded")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Capacity exceeded",
		})
	case errors.Is(err, apperrors.ErrInvalidState):
		log.Warn("Event not bookable")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Event not bookable",
		})
	case errors.Is(err, apperrors.ErrDuplicateReservation):
		log.Warn("Duplicate reservation")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Duplicate reservation",
		})
	case errors.Is(err, apperrors.ErrCodeGenerationFailed):
		log.Error("Code generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
