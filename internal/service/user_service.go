package service

import (
	"context"
	"errors"

	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/repository"
	apperrors "go-gin-event-booking/pkg/app_errors"
)

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int, params model.UpdateUserParams) (*model.User, error)
	// Delete 有保護：使用者還有預訂或主辦的活動時拒絕刪除
	// （與預訂的無條件刪除不對稱，刻意如此）
	Delete(ctx context.Context, id int) error
}

type UserServiceImpl struct {
	repo            repository.UserRepository
	reservationRepo repository.ReservationRepository
	eventRepo       repository.EventRepository
}

func NewUserService(
	repo repository.UserRepository,
	reservationRepo repository.ReservationRepository,
	eventRepo repository.EventRepository,
) UserService {
	return &UserServiceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		eventRepo:       eventRepo,
	}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserServiceImpl) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	role := model.UserRole(req.Role)
	if !role.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
		Active:    true,
	}

	return s.repo.Create(ctx, user)
}

func (s *UserServiceImpl) Update(ctx context.Context, id int, params model.UpdateUserParams) (*model.User, error) {
	if params.Role != nil && !params.Role.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	return s.repo.Update(ctx, id, params)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	reservationCount, err := s.reservationRepo.CountByUserID(ctx, id)
	if err != nil {
		return err
	}
	if reservationCount > 0 {
		return apperrors.ErrUserHasDependencies
	}

	eventCount, err := s.eventRepo.CountByOrganizerID(ctx, id)
	if err != nil {
		return err
	}
	if eventCount > 0 {
		return apperrors.ErrUserHasDependencies
	}

	return s.repo.Delete(ctx, id)
}
