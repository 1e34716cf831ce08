package model

import "time"

// ReservationStatus 預訂狀態類型
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
// pending 之後不能再回到 pending；cancelled 是終點（strict 模式下）
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
		ReservationStatusConfirmed: {ReservationStatusConfirmed, ReservationStatusCancelled},
		ReservationStatusCancelled: {ReservationStatusCancelled},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Reservation 預訂模型
// TotalAmount 與 Code 在建立時決定，之後不再重算：
// 活動單價日後變動不影響既有預訂的金額（價格快照）
type Reservation struct {
	ID          int               `json:"id" db:"id"`
	EventID     int               `json:"event_id" db:"event_id"`
	UserID      int               `json:"user_id" db:"user_id"`
	Seats       int               `json:"seats" db:"seats"`
	TotalAmount float64           `json:"total_amount" db:"total_amount"`
	Code        string            `json:"code" db:"code"`
	Status      ReservationStatus `json:"status" db:"status"`
	Comment     *string           `json:"comment,omitempty" db:"comment"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// IsActive 預訂是否仍佔用名額（pending 或 confirmed）
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// CreateReservationRequest 建立預訂請求
type CreateReservationRequest struct {
	EventID int     `json:"event_id" binding:"required"`
	UserID  int     `json:"user_id" binding:"required"`
	Seats   int     `json:"seats" binding:"required"`
	Comment *string `json:"comment"`
}

// CancelReservationRequest 取消預訂請求
type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// UpdateReservationCommentRequest 更新預訂備註請求
type UpdateReservationCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// ReservationMessage 通知隊列的預訂生命週期消息
type ReservationMessage struct {
	Type        string       `json:"type"` // created / confirmed / cancelled
	Reservation *Reservation `json:"reservation"`
}

const (
	ReservationMessageCreated   = "created"
	ReservationMessageConfirmed = "confirmed"
	ReservationMessageCancelled = "cancelled"
)
