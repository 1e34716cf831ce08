package service

import (
	"context"
	"errors"
	"time"

	"go-gin-event-booking/config"
	"go-gin-event-booking/internal/cache"
	"go-gin-event-booking/internal/codegen"
	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/queue"
	"go-gin-event-booking/internal/repository"
	apperrors "go-gin-event-booking/pkg/app_errors"
	"go-gin-event-booking/pkg/logger"

	"go.uber.org/zap"
)

type ReservationService interface {
	// CreateReservation 預訂許可：依序檢查存在性、座位數、名額、活動狀態、
	// 開始時間、重複預訂，成功後以當下單價計算金額並產生唯一代碼
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (*model.Reservation, error)
	List(ctx context.Context) ([]*model.Reservation, error)
	GetByID(ctx context.Context, id int) (*model.Reservation, error)
	GetByCode(ctx context.Context, code string) (*model.Reservation, error)
	ListByUserID(ctx context.Context, userID int) ([]*model.Reservation, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error)
	// ConfirmReservation 確認時重新檢查名額：pending 階段寬鬆、確認階段嚴格
	ConfirmReservation(ctx context.Context, id int) (*model.Reservation, error)
	// CancelReservation 無條件取消（冪等），reason 非空時附加到備註
	CancelReservation(ctx context.Context, id int, reason string) (*model.Reservation, error)
	UpdateComment(ctx context.Context, id int, comment string) (*model.Reservation, error)
	DeleteReservation(ctx context.Context, id int) error

	// Aggregate queries
	AvailableSeats(ctx context.Context, eventID int) (int, error)
	ConfirmedSeats(ctx context.Context, eventID int) (int, error)
	TotalRevenue(ctx context.Context) (float64, error)
	OrganizerRevenue(ctx context.Context, organizerID int) (float64, error)
	CountForUser(ctx context.Context, userID int) (int, error)
	UpcomingForUser(ctx context.Context, userID int) ([]*model.Reservation, error)
	PastForUser(ctx context.Context, userID int) ([]*model.Reservation, error)
}

type ReservationServiceImpl struct {
	repository   repository.ReservationRepository
	eventRepo    repository.EventRepository
	userRepo     repository.UserRepository
	codeGen      codegen.CodeGenerator
	availability cache.AvailabilityCache
	queue        queue.ReservationQueue
	cfg          config.BookingConfig
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	codeGen codegen.CodeGenerator,
	availability cache.AvailabilityCache,
	reservationQueue queue.ReservationQueue,
	cfg config.BookingConfig,
) ReservationService {
	return &ReservationServiceImpl{
		repository:   reservationRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		codeGen:      codeGen,
		availability: availability,
		queue:        reservationQueue,
		cfg:          cfg,
	}
}

// activeStatuses 佔用 (user, event) 配對的狀態：同一人對同一活動最多一筆
var activeStatuses = []model.ReservationStatus{
	model.ReservationStatusPending,
	model.ReservationStatusConfirmed,
}

func (s *ReservationServiceImpl) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (*model.Reservation, error) {
	// 1. 活動與使用者必須存在
	event, err := s.eventRepo.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	// 2. 座位數至少 1
	if req.Seats < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	// 3. 名額檢查：只有 confirmed 座位計入，pending 不佔名額
	//    （預訂階段刻意放寬，確認階段才收緊）
	confirmedSeats, err := s.repository.SumSeatsByEventAndStatus(ctx, event.ID, model.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if req.Seats > event.CapacityMax-confirmedSeats {
		return nil, apperrors.ErrCapacityExceeded
	}

	// 4. 活動必須已發布
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrInvalidState
	}

	// 5. 活動必須尚未開始
	if event.HasStarted(time.Now().UTC()) {
		return nil, apperrors.ErrInvalidState
	}

	// 6. 同一人對同一活動不能有第二筆未取消的預訂
	exists, err := s.repository.ExistsByUserAndEventAndStatusIn(ctx, req.UserID, event.ID, activeStatuses)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateReservation
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		EventID: event.ID,
		UserID:  req.UserID,
		Seats:   req.Seats,
		// 價格快照：之後活動單價變動不影響此筆金額
		TotalAmount: event.UnitPrice * float64(req.Seats),
		Code:        code,
		Status:      model.ReservationStatusPending,
		Comment:     req.Comment,
	}

	created, err := s.repository.Create(ctx, reservation)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.ReservationMessageCreated, created)

	return created, nil
}

// generateUniqueCode 重抽直到不與既有代碼碰撞，最多 CodeMaxAttempts 次
func (s *ReservationServiceImpl) generateUniqueCode(ctx context.Context) (string, error) {
	maxAttempts := s.cfg.CodeMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := s.codeGen.Generate()
		if err != nil {
			return "", err
		}

		_, err = s.repository.FindByCode(ctx, code)
		if errors.Is(err, apperrors.ErrReservationNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// 代碼已被使用，重抽
	}

	return "", apperrors.ErrCodeGenerationFailed
}

func (s *ReservationServiceImpl) List(ctx context.Context) ([]*model.Reservation, error) {
	return s.repository.List(ctx)
}

func (s *ReservationServiceImpl) GetByID(ctx context.Context, id int) (*model.Reservation, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *ReservationServiceImpl) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	return s.repository.FindByCode(ctx, code)
}

func (s *ReservationServiceImpl) ListByUserID(ctx context.Context, userID int) ([]*model.Reservation, error) {
	return s.repository.FindByUserID(ctx, userID)
}

func (s *ReservationServiceImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error) {
	return s.repository.FindByEventID(ctx, eventID)
}

func (s *ReservationServiceImpl) ConfirmReservation(ctx context.Context, id int) (*model.Reservation, error) {
	reservation, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// strict 模式下已取消的預訂不能再確認；lenient 模式不看先前狀態
	if s.cfg.StrictConfirm && !reservation.Status.CanTransitionTo(model.ReservationStatusConfirmed) {
		return nil, apperrors.ErrInvalidState
	}

	event, err := s.eventRepo.FindByID(ctx, reservation.EventID)
	if err != nil {
		return nil, err
	}

	confirmedSeats, err := s.repository.SumSeatsByEventAndStatus(ctx, event.ID, model.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	// 自己已確認過的座位不再計入，否則重複確認會把自己擠掉
	if reservation.Status == model.ReservationStatusConfirmed {
		confirmedSeats -= reservation.Seats
	}
	if reservation.Seats > event.CapacityMax-confirmedSeats {
		return nil, apperrors.ErrCapacityExceeded
	}

	previousStatus := reservation.Status

	updated, err := s.repository.UpdateStatus(ctx, id, model.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}

	if previousStatus != model.ReservationStatusConfirmed {
		s.adjustCachedSeats(ctx, event.ID, updated.Seats)
		s.publish(ctx, model.ReservationMessageConfirmed, updated)
	}

	return updated, nil
}

func (s *ReservationServiceImpl) CancelReservation(ctx context.Context, id int, reason string) (*model.Reservation, error) {
	reservation, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := reservation.Status

	// 無條件取消：已取消的再取消一次也成功
	updated, err := s.repository.UpdateStatus(ctx, id, model.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}

	if reason != "" {
		note := "Annulation: " + reason
		if reservation.Comment != nil && *reservation.Comment != "" {
			note = *reservation.Comment + " | " + note
		}
		updated, err = s.repository.UpdateComment(ctx, id, &note)
		if err != nil {
			return nil, err
		}
	}

	if previousStatus == model.ReservationStatusConfirmed {
		s.adjustCachedSeats(ctx, reservation.EventID, -reservation.Seats)
	}
	if previousStatus != model.ReservationStatusCancelled {
		s.publish(ctx, model.ReservationMessageCancelled, updated)
	}

	return updated, nil
}

func (s *ReservationServiceImpl) UpdateComment(ctx context.Context, id int, comment string) (*model.Reservation, error) {
	return s.repository.UpdateComment(ctx, id, &comment)
}

func (s *ReservationServiceImpl) DeleteReservation(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}

func (s *ReservationServiceImpl) AvailableSeats(ctx context.Context, eventID int) (int, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	confirmedSeats, err := s.repository.SumSeatsByEventAndStatus(ctx, eventID, model.ReservationStatusConfirmed)
	if err != nil {
		return 0, err
	}

	return event.CapacityMax - confirmedSeats, nil
}

func (s *ReservationServiceImpl) ConfirmedSeats(ctx context.Context, eventID int) (int, error) {
	return s.repository.SumSeatsByEventAndStatus(ctx, eventID, model.ReservationStatusConfirmed)
}

func (s *ReservationServiceImpl) TotalRevenue(ctx context.Context) (float64, error) {
	return s.repository.SumAmountByStatus(ctx, model.ReservationStatusConfirmed)
}

func (s *ReservationServiceImpl) OrganizerRevenue(ctx context.Context, organizerID int) (float64, error) {
	return s.repository.SumAmountByOrganizerAndStatus(ctx, organizerID, model.ReservationStatusConfirmed)
}

func (s *ReservationServiceImpl) CountForUser(ctx context.Context, userID int) (int, error) {
	return s.repository.CountByUserID(ctx, userID)
}

func (s *ReservationServiceImpl) UpcomingForUser(ctx context.Context, userID int) ([]*model.Reservation, error) {
	return s.repository.FindUpcomingByUserID(ctx, userID, time.Now().UTC())
}

func (s *ReservationServiceImpl) PastForUser(ctx context.Context, userID int) ([]*model.Reservation, error) {
	return s.repository.FindPastByUserID(ctx, userID, time.Now().UTC())
}

// publish 通知是輔助功能，失敗只記 log，不影響預訂本身
func (s *ReservationServiceImpl) publish(ctx context.Context, msgType string, reservation *model.Reservation) {
	msg := &model.ReservationMessage{Type: msgType, Reservation: reservation}
	if err := s.queue.Publish(ctx, msg); err != nil {
		logger.WithComponent("service").Warn("failed to publish reservation message",
			zap.String("type", msgType), zap.String("code", reservation.Code), zap.Error(err))
	}
}

// adjustCachedSeats 快取只服務查詢端，更新失敗不影響主流程
func (s *ReservationServiceImpl) adjustCachedSeats(ctx context.Context, eventID int, delta int) {
	if err := s.availability.AddConfirmedSeats(ctx, eventID, delta); err != nil {
		logger.WithComponent("service").Warn("failed to adjust cached seats",
			zap.Int("event_id", eventID), zap.Int("delta", delta), zap.Error(err))
	}
}
