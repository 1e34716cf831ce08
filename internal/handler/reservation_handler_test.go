package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/service/mocks"
	apperrors "go-gin-event-booking/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupReservationTestRouter(mockService *mocks.ReservationServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	NewReservationHandler(mockService).RegisterRoutes(router)

	return router
}

func TestCreateReservationEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(&model.Reservation{
			ID:          1,
			EventID:     1,
			UserID:      7,
			Seats:       2,
			TotalAmount: 100,
			Code:        "RSV-AAAAAAAA",
			Status:      model.ReservationStatusPending,
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", model.CreateReservationRequest{
			EventID: 1,
			UserID:  7,
			Seats:   2,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrCapacityExceeded", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, apperrors.ErrCapacityExceeded).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", model.CreateReservationRequest{
			EventID: 1, UserID: 7, Seats: 99,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - ErrDuplicateReservation", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateReservation).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", model.CreateReservationRequest{
			EventID: 1, UserID: 7, Seats: 1,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, apperrors.ErrEventNotFound).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", model.CreateReservationRequest{
			EventID: 404, UserID: 7, Seats: 1,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - event not bookable", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("CreateReservation", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidState).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", model.CreateReservationRequest{
			EventID: 1, UserID: 7, Seats: 1,
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/reservations", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateReservation")
	})
}

func TestGetReservationEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("GetByID", mock.Anything, 1).Return(&model.Reservation{ID: 1, Code: "RSV-AAAAAAAA"}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/reservations/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("GetByID", mock.Anything, 404).Return(nil, apperrors.ErrReservationNotFound).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/reservations/404", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - invalid id", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		req := createJSONHTTPRequest("GET", "/api/v1/reservations/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestGetReservationByCodeEndpoint(t *testing.T) {
	mockService := mocks.NewReservationServiceMock()
	router := setupReservationTestRouter(mockService)

	mockService.On("GetByCode", mock.Anything, "RSV-AAAAAAAA").Return(&model.Reservation{ID: 1, Code: "RSV-AAAAAAAA"}, nil).Once()

	req := createJSONHTTPRequest("GET", "/api/v1/reservations/code/RSV-AAAAAAAA", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestConfirmReservationEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("ConfirmReservation", mock.Anything, 1).Return(&model.Reservation{
			ID: 1, Status: model.ReservationStatusConfirmed,
		}, nil).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/reservations/1/confirm", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - ErrCapacityExceeded", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("ConfirmReservation", mock.Anything, 1).Return(nil, apperrors.ErrCapacityExceeded).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/reservations/1/confirm", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCancelReservationEndpoint(t *testing.T) {
	mockService := mocks.NewReservationServiceMock()
	router := setupReservationTestRouter(mockService)

	mockService.On("CancelReservation", mock.Anything, 1, "change of plans").Return(&model.Reservation{
		ID: 1, Status: model.ReservationStatusCancelled,
	}, nil).Once()

	req := createJSONHTTPRequest("PUT", "/api/v1/reservations/1/cancel", model.CancelReservationRequest{
		Reason: "change of plans",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteReservationEndpoint(t *testing.T) {
	mockService := mocks.NewReservationServiceMock()
	router := setupReservationTestRouter(mockService)

	mockService.On("DeleteReservation", mock.Anything, 1).Return(nil).Once()

	req := createJSONHTTPRequest("DELETE", "/api/v1/reservations/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetUserReservationsEndpoint(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("ListByUserID", mock.Anything, 7).Return([]*model.Reservation{{ID: 1}}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/users/7/reservations", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("upcoming", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("UpcomingForUser", mock.Anything, 7).Return([]*model.Reservation{{ID: 1}}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/users/7/reservations?when=upcoming", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertNotCalled(t, "ListByUserID")
	})

	t.Run("past", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("PastForUser", mock.Anything, 7).Return([]*model.Reservation{}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/users/7/reservations?when=past", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRevenueEndpoints(t *testing.T) {
	t.Run("total revenue", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("TotalRevenue", mock.Anything).Return(1250.5, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/revenue", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "1250.5")
	})

	t.Run("organizer revenue", func(t *testing.T) {
		mockService := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(mockService)

		mockService.On("OrganizerRevenue", mock.Anything, 9).Return(300.0, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/organizers/9/revenue", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
