package queue

import (
	"context"
	"go-gin-event-booking/internal/model"
)

type Delivery struct {
	Data *model.ReservationMessage
	Ack  func()
	Nack func(requeue bool)
}

// ReservationQueue 預訂生命週期消息的隊列
type ReservationQueue interface {
	// 發送預訂消息到隊列
	Publish(ctx context.Context, msg *model.ReservationMessage) error
	// 訂閱預訂消息
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryReservationQueueImpl 用 Go channel 模擬 MQ，單機與測試用
type MemoryReservationQueueImpl struct {
	ch chan *model.ReservationMessage
}

func NewMemoryReservationQueue(bufferSize int) ReservationQueue {
	return &MemoryReservationQueueImpl{
		ch: make(chan *model.ReservationMessage, bufferSize),
	}
}

func (q *MemoryReservationQueueImpl) Publish(ctx context.Context, msg *model.ReservationMessage) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryReservationQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: msg,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- msg // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
