package mocks

import (
	"context"

	"go-gin-event-booking/internal/cache"

	"github.com/stretchr/testify/mock"
)

type AvailabilityCacheMock struct {
	mock.Mock
}

func NewAvailabilityCacheMock() *AvailabilityCacheMock {
	return &AvailabilityCacheMock{}
}

func (m *AvailabilityCacheMock) WarmUp(ctx context.Context, eventID int, capacity int, confirmedSeats int, unitPrice float64) error {
	args := m.Called(ctx, eventID, capacity, confirmedSeats, unitPrice)
	return args.Error(0)
}

func (m *AvailabilityCacheMock) Get(ctx context.Context, eventID int) (cache.EventAvailabilityInfo, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(cache.EventAvailabilityInfo), args.Error(1)
}

func (m *AvailabilityCacheMock) AddConfirmedSeats(ctx context.Context, eventID int, delta int) error {
	args := m.Called(ctx, eventID, delta)
	return args.Error(0)
}

func (m *AvailabilityCacheMock) Invalidate(ctx context.Context, eventID int) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
