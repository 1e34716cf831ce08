package mocks

import (
	"context"

	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/queue"

	"github.com/stretchr/testify/mock"
)

type ReservationQueueMock struct {
	mock.Mock
}

func NewReservationQueueMock() *ReservationQueueMock {
	return &ReservationQueueMock{}
}

func (m *ReservationQueueMock) Publish(ctx context.Context, msg *model.ReservationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ReservationQueueMock) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
