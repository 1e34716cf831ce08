package service

import (
	"context"
	"testing"
	"time"

	"go-gin-event-booking/config"
	cachemocks "go-gin-event-booking/internal/cache/mocks"
	codegenmocks "go-gin-event-booking/internal/codegen/mocks"
	"go-gin-event-booking/internal/model"
	queuemocks "go-gin-event-booking/internal/queue/mocks"
	repomocks "go-gin-event-booking/internal/repository/mocks"
	apperrors "go-gin-event-booking/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reservationServiceFixture struct {
	reservationRepo *repomocks.ReservationRepositoryMock
	eventRepo       *repomocks.EventRepositoryMock
	userRepo        *repomocks.UserRepositoryMock
	codeGen         *codegenmocks.CodeGeneratorMock
	availability    *cachemocks.AvailabilityCacheMock
	queue           *queuemocks.ReservationQueueMock
	service         ReservationService
}

func newReservationServiceFixture(cfg config.BookingConfig) *reservationServiceFixture {
	f := &reservationServiceFixture{
		reservationRepo: repomocks.NewReservationRepositoryMock(),
		eventRepo:       repomocks.NewEventRepositoryMock(),
		userRepo:        repomocks.NewUserRepositoryMock(),
		codeGen:         codegenmocks.NewCodeGeneratorMock(),
		availability:    cachemocks.NewAvailabilityCacheMock(),
		queue:           queuemocks.NewReservationQueueMock(),
	}
	f.service = NewReservationService(
		f.reservationRepo, f.eventRepo, f.userRepo,
		f.codeGen, f.availability, f.queue, cfg,
	)
	return f
}

func bookableEvent() *model.Event {
	return &model.Event{
		ID:          1,
		Title:       "Concert",
		Category:    model.EventCategoryConcert,
		StartTime:   time.Now().UTC().Add(24 * time.Hour),
		EndTime:     time.Now().UTC().Add(27 * time.Hour),
		CapacityMax: 10,
		UnitPrice:   50.0,
		OrganizerID: 99,
		Status:      model.EventStatusPublished,
	}
}

func TestCreateReservation_Success(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent()

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(4, nil)
	f.reservationRepo.On("ExistsByUserAndEventAndStatusIn", mock.Anything, 7, 1, activeStatuses).Return(false, nil)
	f.codeGen.On("Generate").Return("RSV-AAAAAAAA", nil)
	f.reservationRepo.On("FindByCode", mock.Anything, "RSV-AAAAAAAA").Return(nil, apperrors.ErrReservationNotFound)
	f.reservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
		return r.EventID == 1 &&
			r.UserID == 7 &&
			r.Seats == 3 &&
			r.TotalAmount == 150.0 &&
			r.Code == "RSV-AAAAAAAA" &&
			r.Status == model.ReservationStatusPending
	})).Return(&model.Reservation{
		ID: 42, EventID: 1, UserID: 7, Seats: 3,
		TotalAmount: 150.0, Code: "RSV-AAAAAAAA",
		Status: model.ReservationStatusPending,
	}, nil)
	f.queue.On("Publish", mock.Anything, mock.MatchedBy(func(msg *model.ReservationMessage) bool {
		return msg.Type == model.ReservationMessageCreated
	})).Return(nil)

	created, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	// 價格快照：單價 50 × 3 席
	assert.Equal(t, 150.0, created.TotalAmount)
	assert.Equal(t, model.ReservationStatusPending, created.Status)
	f.reservationRepo.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestCreateReservation_EventNotFound(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(nil, apperrors.ErrEventNotFound)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 3,
	})

	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	// 存在性先於其他檢查，使用者查詢不應發生
	f.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCreateReservation_UserNotFound(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(bookableEvent(), nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(nil, apperrors.ErrUserNotFound)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 3,
	})

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCreateReservation_InvalidSeats(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(bookableEvent(), nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)

	for _, seats := range []int{0, -1} {
		_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
			EventID: 1, UserID: 7, Seats: seats,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
	f.reservationRepo.AssertNotCalled(t, "SumSeatsByEventAndStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservation_CapacityExceeded(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent() // 容量 10

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	// 已確認 8 席，只剩 2
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(8, nil)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 3,
	})

	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
}

func TestCreateReservation_PendingSeatsDoNotCount(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent() // 容量 10

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	// pending 不佔名額：只計 confirmed，10 席全部可訂
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)
	f.reservationRepo.On("ExistsByUserAndEventAndStatusIn", mock.Anything, 7, 1, activeStatuses).Return(false, nil)
	f.codeGen.On("Generate").Return("RSV-BBBBBBBB", nil)
	f.reservationRepo.On("FindByCode", mock.Anything, "RSV-BBBBBBBB").Return(nil, apperrors.ErrReservationNotFound)
	f.reservationRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Reservation{
		ID: 1, Seats: 10, Status: model.ReservationStatusPending, Code: "RSV-BBBBBBBB",
	}, nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 10,
	})

	require.NoError(t, err)
}

func TestCreateReservation_EventNotPublished(t *testing.T) {
	for _, status := range []model.EventStatus{
		model.EventStatusDraft,
		model.EventStatusCancelled,
		model.EventStatusFinished,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newReservationServiceFixture(config.BookingConfig{})
			event := bookableEvent()
			event.Status = status

			f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
			f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
			f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)

			_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
				EventID: 1, UserID: 7, Seats: 1,
			})

			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		})
	}
}

func TestCreateReservation_EventAlreadyStarted(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent()
	event.StartTime = time.Now().UTC().Add(-time.Minute)

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCreateReservation_DuplicateActiveReservation(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(bookableEvent(), nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)
	f.reservationRepo.On("ExistsByUserAndEventAndStatusIn", mock.Anything, 7, 1, activeStatuses).Return(true, nil)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateReservation)
	f.reservationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReservation_CodeCollisionRetries(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(bookableEvent(), nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)
	f.reservationRepo.On("ExistsByUserAndEventAndStatusIn", mock.Anything, 7, 1, activeStatuses).Return(false, nil)

	// 第一抽碰撞、第二抽成功
	f.codeGen.On("Generate").Return("RSV-TAKEN111", nil).Once()
	f.codeGen.On("Generate").Return("RSV-FRESH222", nil).Once()
	f.reservationRepo.On("FindByCode", mock.Anything, "RSV-TAKEN111").Return(&model.Reservation{ID: 5, Code: "RSV-TAKEN111"}, nil)
	f.reservationRepo.On("FindByCode", mock.Anything, "RSV-FRESH222").Return(nil, apperrors.ErrReservationNotFound)
	f.reservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
		return r.Code == "RSV-FRESH222"
	})).Return(&model.Reservation{ID: 6, Code: "RSV-FRESH222", Status: model.ReservationStatusPending}, nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "RSV-FRESH222", created.Code)
	f.codeGen.AssertExpectations(t)
}

func TestCreateReservation_CodeGenerationExhausted(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{CodeMaxAttempts: 3})

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(bookableEvent(), nil)
	f.userRepo.On("FindByID", mock.Anything, 7).Return(&model.User{ID: 7}, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)
	f.reservationRepo.On("ExistsByUserAndEventAndStatusIn", mock.Anything, 7, 1, activeStatuses).Return(false, nil)

	// 每一抽都碰撞
	f.codeGen.On("Generate").Return("RSV-TAKEN111", nil)
	f.reservationRepo.On("FindByCode", mock.Anything, "RSV-TAKEN111").Return(&model.Reservation{ID: 5}, nil)

	_, err := f.service.CreateReservation(context.Background(), model.CreateReservationRequest{
		EventID: 1, UserID: 7, Seats: 1,
	})

	assert.ErrorIs(t, err, apperrors.ErrCodeGenerationFailed)
	f.codeGen.AssertNumberOfCalls(t, "Generate", 3)
	f.reservationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmReservation_Success(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent() // 容量 10

	pending := &model.Reservation{ID: 42, EventID: 1, UserID: 7, Seats: 5, Status: model.ReservationStatusPending}
	confirmed := &model.Reservation{ID: 42, EventID: 1, UserID: 7, Seats: 5, Status: model.ReservationStatusConfirmed}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(pending, nil)
	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(4, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusConfirmed).Return(confirmed, nil)
	f.availability.On("AddConfirmedSeats", mock.Anything, 1, 5).Return(nil)
	f.queue.On("Publish", mock.Anything, mock.MatchedBy(func(msg *model.ReservationMessage) bool {
		return msg.Type == model.ReservationMessageConfirmed
	})).Return(nil)

	result, err := f.service.ConfirmReservation(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, result.Status)
	f.availability.AssertExpectations(t)
}

func TestConfirmReservation_CapacityRecheckRejects(t *testing.T) {
	// 預訂階段放行的 pending 在確認階段被收緊的名額檢查擋下：
	// 容量 10、已確認 6，這筆 5 席的 pending 不能確認
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent()

	pending := &model.Reservation{ID: 42, EventID: 1, Seats: 5, Status: model.ReservationStatusPending}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(pending, nil)
	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(6, nil)

	_, err := f.service.ConfirmReservation(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	f.reservationRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmReservation_ReconfirmExcludesOwnSeats(t *testing.T) {
	// 已確認的預訂再確認一次：自己的座位不重複計入，不該把自己擠掉
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent() // 容量 10

	alreadyConfirmed := &model.Reservation{ID: 42, EventID: 1, Seats: 6, Status: model.ReservationStatusConfirmed}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(alreadyConfirmed, nil)
	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	// 6 席裡含自己的 6 席
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(6, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusConfirmed).Return(alreadyConfirmed, nil)

	result, err := f.service.ConfirmReservation(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, result.Status)
	// 狀態沒變，不調整快取也不發通知
	f.availability.AssertNotCalled(t, "AddConfirmedSeats", mock.Anything, mock.Anything, mock.Anything)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmReservation_LenientAllowsCancelled(t *testing.T) {
	// 預設寬鬆：已取消的預訂也能被確認
	f := newReservationServiceFixture(config.BookingConfig{StrictConfirm: false})
	event := bookableEvent()

	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled}
	confirmed := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusConfirmed}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(cancelled, nil)
	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(0, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusConfirmed).Return(confirmed, nil)
	f.availability.On("AddConfirmedSeats", mock.Anything, 1, 2).Return(nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.ConfirmReservation(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, result.Status)
}

func TestConfirmReservation_StrictRejectsCancelled(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{StrictConfirm: true})

	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled}
	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(cancelled, nil)

	_, err := f.service.ConfirmReservation(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	f.eventRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCancelReservation_AppendsCancellationNote(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	pending := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusPending}
	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(pending, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusCancelled).Return(cancelled, nil)
	expected := "Annulation: change of plans"
	f.reservationRepo.On("UpdateComment", mock.Anything, 42, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == expected
	})).Return(&model.Reservation{ID: 42, Status: model.ReservationStatusCancelled, Comment: &expected}, nil)
	f.queue.On("Publish", mock.Anything, mock.MatchedBy(func(msg *model.ReservationMessage) bool {
		return msg.Type == model.ReservationMessageCancelled
	})).Return(nil)

	result, err := f.service.CancelReservation(context.Background(), 42, "change of plans")

	require.NoError(t, err)
	require.NotNil(t, result.Comment)
	assert.Equal(t, "Annulation: change of plans", *result.Comment)
}

func TestCancelReservation_PreservesExistingComment(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	prior := "window seat please"
	pending := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusPending, Comment: &prior}
	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled, Comment: &prior}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(pending, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusCancelled).Return(cancelled, nil)
	expected := "window seat please | Annulation: sick"
	f.reservationRepo.On("UpdateComment", mock.Anything, 42, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == expected
	})).Return(&model.Reservation{ID: 42, Status: model.ReservationStatusCancelled, Comment: &expected}, nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.CancelReservation(context.Background(), 42, "sick")

	require.NoError(t, err)
	require.NotNil(t, result.Comment)
	assert.Equal(t, expected, *result.Comment)
}

func TestCancelReservation_NoReasonLeavesCommentAlone(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	pending := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusPending}
	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(pending, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusCancelled).Return(cancelled, nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.CancelReservation(context.Background(), 42, "")

	require.NoError(t, err)
	f.reservationRepo.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelReservation_Idempotent(t *testing.T) {
	// 已取消的再取消一次也成功，但不再發通知
	f := newReservationServiceFixture(config.BookingConfig{})

	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 2, Status: model.ReservationStatusCancelled}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(cancelled, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusCancelled).Return(cancelled, nil)

	result, err := f.service.CancelReservation(context.Background(), 42, "")

	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, result.Status)
	f.queue.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.availability.AssertNotCalled(t, "AddConfirmedSeats", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelReservation_ConfirmedReleasesCachedSeats(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	confirmed := &model.Reservation{ID: 42, EventID: 1, Seats: 4, Status: model.ReservationStatusConfirmed}
	cancelled := &model.Reservation{ID: 42, EventID: 1, Seats: 4, Status: model.ReservationStatusCancelled}

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(confirmed, nil)
	f.reservationRepo.On("UpdateStatus", mock.Anything, 42, model.ReservationStatusCancelled).Return(cancelled, nil)
	f.availability.On("AddConfirmedSeats", mock.Anything, 1, -4).Return(nil)
	f.queue.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.CancelReservation(context.Background(), 42, "")

	require.NoError(t, err)
	f.availability.AssertExpectations(t)
}

func TestCancelReservation_NotFound(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.reservationRepo.On("FindByID", mock.Anything, 42).Return(nil, apperrors.ErrReservationNotFound)

	_, err := f.service.CancelReservation(context.Background(), 42, "whatever")

	assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
}

func TestDeleteReservation(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	// 無條件刪除：不檢查狀態
	f.reservationRepo.On("Delete", mock.Anything, 42).Return(nil)

	err := f.service.DeleteReservation(context.Background(), 42)

	require.NoError(t, err)
	f.reservationRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAvailableSeats(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})
	event := bookableEvent() // 容量 10

	f.eventRepo.On("FindByID", mock.Anything, 1).Return(event, nil)
	f.reservationRepo.On("SumSeatsByEventAndStatus", mock.Anything, 1, model.ReservationStatusConfirmed).Return(6, nil)

	available, err := f.service.AvailableSeats(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 4, available)
}

func TestTotalRevenue(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.reservationRepo.On("SumAmountByStatus", mock.Anything, model.ReservationStatusConfirmed).Return(1250.5, nil)

	revenue, err := f.service.TotalRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1250.5, revenue)
}

func TestOrganizerRevenue(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.reservationRepo.On("SumAmountByOrganizerAndStatus", mock.Anything, 99, model.ReservationStatusConfirmed).Return(300.0, nil)

	revenue, err := f.service.OrganizerRevenue(context.Background(), 99)

	require.NoError(t, err)
	assert.Equal(t, 300.0, revenue)
}

func TestCountForUser(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	f.reservationRepo.On("CountByUserID", mock.Anything, 7).Return(3, nil)

	count, err := f.service.CountForUser(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpcomingAndPastForUser(t *testing.T) {
	f := newReservationServiceFixture(config.BookingConfig{})

	upcoming := []*model.Reservation{{ID: 1}}
	past := []*model.Reservation{{ID: 2}, {ID: 3}}

	f.reservationRepo.On("FindUpcomingByUserID", mock.Anything, 7, mock.AnythingOfType("time.Time")).Return(upcoming, nil)
	f.reservationRepo.On("FindPastByUserID", mock.Anything, 7, mock.AnythingOfType("time.Time")).Return(past, nil)

	gotUpcoming, err := f.service.UpcomingForUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, gotUpcoming, 1)

	gotPast, err := f.service.PastForUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, gotPast, 2)
}
