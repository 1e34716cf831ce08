package service

import (
	"context"

	"go-gin-event-booking/internal/cache"
	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/repository"
	apperrors "go-gin-event-booking/pkg/app_errors"
	"go-gin-event-booking/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	ListPublished(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// Publish 活動發布：開放預訂並預熱名額快取
	Publish(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Cancel(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Finish(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	// Availability 查詢剩餘名額，優先走快取，miss 時回落到資料庫
	Availability(ctx context.Context, eventID uuid.UUID) (*model.EventAvailabilityResponse, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

type EventServiceImpl struct {
	repo            repository.EventRepository
	userRepo        repository.UserRepository
	reservationRepo repository.ReservationRepository
	availability    cache.AvailabilityCache
}

func NewEventService(
	repo repository.EventRepository,
	userRepo repository.UserRepository,
	reservationRepo repository.ReservationRepository,
	availability cache.AvailabilityCache,
) EventService {
	return &EventServiceImpl{
		repo:            repo,
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) ListPublished(ctx context.Context) ([]*model.Event, error) {
	return s.repo.ListByStatus(ctx, model.EventStatusPublished)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if !event.Category.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if event.EndTime.Before(event.StartTime) {
		return nil, apperrors.ErrInvalidInput
	}
	if event.CapacityMax < 1 || event.UnitPrice < 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if _, err := s.userRepo.FindByID(ctx, event.OrganizerID); err != nil {
		return nil, err
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	event.Status = model.EventStatusDraft

	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.Category != nil && !params.Category.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	if params.CapacityMax != nil && *params.CapacityMax < 1 {
		return nil, apperrors.ErrInvalidInput
	}
	if params.UnitPrice != nil && *params.UnitPrice < 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if params.StartTime != nil && params.EndTime != nil && params.EndTime.Before(*params.StartTime) {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}

	// 已發布活動的容量或單價變了就重熱快取
	if updated.Status == model.EventStatusPublished && (params.CapacityMax != nil || params.UnitPrice != nil) {
		s.warmAvailability(ctx, updated)
	}

	return updated, nil
}

func (s *EventServiceImpl) Publish(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.transition(ctx, eventID, model.EventStatusPublished)
	if err != nil {
		return nil, err
	}

	s.warmAvailability(ctx, event)

	return event, nil
}

func (s *EventServiceImpl) Cancel(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.transition(ctx, eventID, model.EventStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, event.ID)

	return event, nil
}

func (s *EventServiceImpl) Finish(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.transition(ctx, eventID, model.EventStatusFinished)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, event.ID)

	return event, nil
}

func (s *EventServiceImpl) transition(ctx context.Context, eventID uuid.UUID, target model.EventStatus) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidState
	}

	return s.repo.UpdateStatus(ctx, event.ID, target)
}

func (s *EventServiceImpl) Availability(ctx context.Context, eventID uuid.UUID) (*model.EventAvailabilityResponse, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if info, err := s.availability.Get(ctx, event.ID); err == nil {
		return &model.EventAvailabilityResponse{
			EventID:        event.EventID,
			CapacityMax:    info.Capacity,
			ConfirmedSeats: info.ConfirmedSeats,
			AvailableSeats: info.AvailableSeats(),
		}, nil
	}

	// cache miss：回落到資料庫並順便補回快取
	confirmedSeats, err := s.reservationRepo.SumSeatsByEventAndStatus(ctx, event.ID, model.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}

	if event.Status == model.EventStatusPublished {
		s.warmAvailability(ctx, event)
	}

	return &model.EventAvailabilityResponse{
		EventID:        event.EventID,
		CapacityMax:    event.CapacityMax,
		ConfirmedSeats: confirmedSeats,
		AvailableSeats: event.CapacityMax - confirmedSeats,
	}, nil
}

func (s *EventServiceImpl) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return err
	}

	s.invalidateAvailability(ctx, event.ID)

	return nil
}

func (s *EventServiceImpl) warmAvailability(ctx context.Context, event *model.Event) {
	confirmedSeats, err := s.reservationRepo.SumSeatsByEventAndStatus(ctx, event.ID, model.ReservationStatusConfirmed)
	if err != nil {
		logger.WithComponent("service").Warn("failed to load confirmed seats for warm-up",
			zap.Int("event_id", event.ID), zap.Error(err))
		return
	}
	if err := s.availability.WarmUp(ctx, event.ID, event.CapacityMax, confirmedSeats, event.UnitPrice); err != nil {
		logger.WithComponent("service").Warn("failed to warm availability cache",
			zap.Int("event_id", event.ID), zap.Error(err))
	}
}

func (s *EventServiceImpl) invalidateAvailability(ctx context.Context, eventID int) {
	if err := s.availability.Invalidate(ctx, eventID); err != nil {
		logger.WithComponent("service").Warn("failed to invalidate availability cache",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}
