package model

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory 活動類別
type EventCategory string

const (
	EventCategoryConcert    EventCategory = "concert"
	EventCategoryTheatre    EventCategory = "theatre"
	EventCategoryConference EventCategory = "conference"
	EventCategorySport      EventCategory = "sport"
	EventCategoryOther      EventCategory = "other"
)

// IsValid 驗證類別是否有效
func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryConcert, EventCategoryTheatre, EventCategoryConference,
		EventCategorySport, EventCategoryOther:
		return true
	}
	return false
}

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusFinished  EventStatus = "finished"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusFinished:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	transitions := map[EventStatus][]EventStatus{
		EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
		EventStatusPublished: {EventStatusCancelled, EventStatusFinished},
		EventStatusCancelled: {},
		EventStatusFinished:  {},
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

// Event 活動模型
type Event struct {
	ID          int           `json:"id" db:"id"`
	EventID     uuid.UUID     `json:"event_id" db:"event_id"`
	Title       string        `json:"title" db:"title"`
	Description *string       `json:"description,omitempty" db:"description"`
	Category    EventCategory `json:"category" db:"category"`
	StartTime   time.Time     `json:"start_time" db:"start_time"`
	EndTime     time.Time     `json:"end_time" db:"end_time"`
	Venue       string        `json:"venue" db:"venue"`
	City        string        `json:"city" db:"city"`
	CapacityMax int           `json:"capacity_max" db:"capacity_max"`
	UnitPrice   float64       `json:"unit_price" db:"unit_price"`
	OrganizerID int           `json:"organizer_id" db:"organizer_id"`
	Status      EventStatus   `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// HasStarted 活動是否已開始（start_time 不在 now 之後即視為已開始）
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartTime.After(now)
}

// IsBookable 活動是否開放預訂：已發布且尚未開始
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusPublished && !e.HasStarted(now)
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Category    *EventCategory
	StartTime   *time.Time
	EndTime     *time.Time
	Venue       *string
	City        *string
	CapacityMax *int
	UnitPrice   *float64
}

// EventAvailabilityResponse 活動剩餘名額響應
type EventAvailabilityResponse struct {
	EventID        uuid.UUID `json:"event_id"`
	CapacityMax    int       `json:"capacity_max"`
	ConfirmedSeats int       `json:"confirmed_seats"`
	AvailableSeats int       `json:"available_seats"`
}
