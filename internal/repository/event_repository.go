package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-gin-event-booking/internal/model"
	apperrors "go-gin-event-booking/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	ListByStatus(ctx context.Context, status model.EventStatus) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error)
	Delete(ctx context.Context, id int) error
	CountByOrganizerID(ctx context.Context, organizerID int) (int, error)
}

const eventColumns = `id, event_id, title, description, category, start_time, end_time,
		venue, city, capacity_max, unit_price, organizer_id, status, created_at, updated_at`

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.StartTime,
		&event.EndTime,
		&event.Venue,
		&event.City,
		&event.CapacityMax,
		&event.UnitPrice,
		&event.OrganizerID,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (event_id, title, description, category, start_time, end_time,
			venue, city, capacity_max, unit_price, organizer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, eventColumns)

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Title, event.Description, event.Category,
		event.StartTime, event.EndTime, event.Venue, event.City,
		event.CapacityMax, event.UnitPrice, event.OrganizerID, event.Status,
	))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		ORDER BY start_time ASC
	`, eventColumns)

	return r.queryEvents(ctx, query)
}

func (r *EventRepositoryImpl) ListByStatus(ctx context.Context, status model.EventStatus) ([]*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE status = $1
		ORDER BY start_time ASC
	`, eventColumns)

	return r.queryEvents(ctx, query, status)
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE event_id = $1
	`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		appendSet("title", *params.Title)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.Category != nil {
		appendSet("category", *params.Category)
	}
	if params.StartTime != nil {
		appendSet("start_time", *params.StartTime)
	}
	if params.EndTime != nil {
		appendSet("end_time", *params.EndTime)
	}
	if params.Venue != nil {
		appendSet("venue", *params.Venue)
	}
	if params.City != nil {
		appendSet("city", *params.City)
	}
	if params.CapacityMax != nil {
		appendSet("capacity_max", *params.CapacityMax)
	}
	if params.UnitPrice != nil {
		appendSet("unit_price", *params.UnitPrice)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	appendSet("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error) {
	query := fmt.Sprintf(`
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM events
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) CountByOrganizerID(ctx context.Context, organizerID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM events
		WHERE organizer_id = $1
	`

	var count int
	err := r.pool.QueryRow(ctx, query, organizerID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
