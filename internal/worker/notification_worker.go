package worker

import (
	"context"
	"fmt"

	"go-gin-event-booking/internal/model"
	"go-gin-event-booking/internal/queue"
	"go-gin-event-booking/pkg/logger"

	"go.uber.org/zap"
)

// Notifier 把預訂生命週期消息轉成對外通知（email、簡訊等）
type Notifier interface {
	Notify(ctx context.Context, msg *model.ReservationMessage) error
}

// LogNotifier 只寫 log 的 Notifier，尚未接上真正的寄信服務
type LogNotifier struct{}

func NewLogNotifier() Notifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, msg *model.ReservationMessage) error {
	if msg == nil || msg.Reservation == nil {
		return fmt.Errorf("empty reservation message")
	}
	logger.WithComponent("notification").Info("reservation notification",
		zap.String("type", msg.Type),
		zap.String("code", msg.Reservation.Code),
		zap.Int("event_id", msg.Reservation.EventID),
		zap.Int("user_id", msg.Reservation.UserID),
		zap.Int("seats", msg.Reservation.Seats),
		zap.String("status", string(msg.Reservation.Status)),
	)
	return nil
}

type NotificationWorker interface {
	// 訂閱預訂消息隊列
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	notifier Notifier
	queue    queue.ReservationQueue
}

func NewNotificationWorker(notifier Notifier, queue queue.ReservationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		notifier: notifier,
		queue:    queue,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.notifier.Notify(ctx, msg.Data); err != nil {
				// 通知失敗就重回隊列延遲重試
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
