package repository

import (
	"context"
	"fmt"
	"go-gin-event-booking/internal/model"
	apperrors "go-gin-event-booking/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
	List(ctx context.Context) ([]*model.Reservation, error)
	FindByID(ctx context.Context, id int) (*model.Reservation, error)
	FindByCode(ctx context.Context, code string) (*model.Reservation, error)
	FindByUserID(ctx context.Context, userID int) ([]*model.Reservation, error)
	FindByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error)
	UpdateStatus(ctx context.Context, id int, status model.ReservationStatus) (*model.Reservation, error)
	UpdateComment(ctx context.Context, id int, comment *string) (*model.Reservation, error)
	Delete(ctx context.Context, id int) error

	// Aggregate queries
	SumSeatsByEventAndStatus(ctx context.Context, eventID int, status model.ReservationStatus) (int, error)
	SumAmountByStatus(ctx context.Context, status model.ReservationStatus) (float64, error)
	SumAmountByOrganizerAndStatus(ctx context.Context, organizerID int, status model.ReservationStatus) (float64, error)
	CountByUserID(ctx context.Context, userID int) (int, error)
	ExistsByUserAndEventAndStatusIn(ctx context.Context, userID, eventID int, statuses []model.ReservationStatus) (bool, error)
	FindUpcomingByUserID(ctx context.Context, userID int, now time.Time) ([]*model.Reservation, error)
	FindPastByUserID(ctx context.Context, userID int, now time.Time) ([]*model.Reservation, error)
}

const reservationColumns = `id, event_id, user_id, seats, total_amount, code, status, comment, created_at, updated_at`

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var reservation model.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.UserID,
		&reservation.Seats,
		&reservation.TotalAmount,
		&reservation.Code,
		&reservation.Status,
		&reservation.Comment,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	query := fmt.Sprintf(`
		INSERT INTO reservations (event_id, user_id, seats, total_amount, code, status, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, reservationColumns)

	created, err := scanReservation(r.pool.QueryRow(ctx, query,
		reservation.EventID, reservation.UserID, reservation.Seats,
		reservation.TotalAmount, reservation.Code, reservation.Status, reservation.Comment,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return created, nil
}

func (r *ReservationRepositoryImpl) List(ctx context.Context) ([]*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		ORDER BY created_at DESC
	`, reservationColumns)

	return r.queryReservations(ctx, query)
}

func (r *ReservationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE id = $1
	`, reservationColumns)

	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *ReservationRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE code = $1
	`, reservationColumns)

	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *ReservationRepositoryImpl) FindByUserID(ctx context.Context, userID int) ([]*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, reservationColumns)

	return r.queryReservations(ctx, query, userID)
}

func (r *ReservationRepositoryImpl) FindByEventID(ctx context.Context, eventID int) ([]*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`, reservationColumns)

	return r.queryReservations(ctx, query, eventID)
}

func (r *ReservationRepositoryImpl) queryReservations(ctx context.Context, query string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*model.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.ReservationStatus) (*model.Reservation, error) {
	query := fmt.Sprintf(`
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, reservationColumns)

	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	return reservation, nil
}

func (r *ReservationRepositoryImpl) UpdateComment(ctx context.Context, id int, comment *string) (*model.Reservation, error) {
	query := fmt.Sprintf(`
		UPDATE reservations
		SET comment = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, reservationColumns)

	reservation, err := scanReservation(r.pool.QueryRow(ctx, query, comment, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation comment: %w", err)
	}

	return reservation, nil
}

// Delete 硬刪除，不做任何相依檢查（與 User 的刪除保護不對稱，行為如此）
func (r *ReservationRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM reservations
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrReservationNotFound
	}

	return nil
}

func (r *ReservationRepositoryImpl) SumSeatsByEventAndStatus(ctx context.Context, eventID int, status model.ReservationStatus) (int, error) {
	query := `
		SELECT COALESCE(SUM(seats), 0)
		FROM reservations
		WHERE event_id = $1 AND status = $2
	`

	var totalSeats int
	err := r.pool.QueryRow(ctx, query, eventID, status).Scan(&totalSeats)
	if err != nil {
		return 0, err
	}

	return totalSeats, nil
}

func (r *ReservationRepositoryImpl) SumAmountByStatus(ctx context.Context, status model.ReservationStatus) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM reservations
		WHERE status = $1
	`

	var totalAmount float64
	err := r.pool.QueryRow(ctx, query, status).Scan(&totalAmount)
	if err != nil {
		return 0, err
	}

	return totalAmount, nil
}

func (r *ReservationRepositoryImpl) SumAmountByOrganizerAndStatus(ctx context.Context, organizerID int, status model.ReservationStatus) (float64, error) {
	query := `
		SELECT COALESCE(SUM(r.total_amount), 0)
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1 AND r.status = $2
	`

	var totalAmount float64
	err := r.pool.QueryRow(ctx, query, organizerID, status).Scan(&totalAmount)
	if err != nil {
		return 0, err
	}

	return totalAmount, nil
}

func (r *ReservationRepositoryImpl) CountByUserID(ctx context.Context, userID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE user_id = $1
	`

	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ReservationRepositoryImpl) ExistsByUserAndEventAndStatusIn(ctx context.Context, userID, eventID int, statuses []model.ReservationStatus) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations
			WHERE user_id = $1 AND event_id = $2 AND status = ANY($3)
		)
	`

	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, string(s))
	}

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, eventID, statusStrings).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *ReservationRepositoryImpl) FindUpcomingByUserID(ctx context.Context, userID int, now time.Time) ([]*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1 AND e.start_time > $2
		ORDER BY e.start_time ASC
	`, prefixedReservationColumns)

	return r.queryReservations(ctx, query, userID, now)
}

func (r *ReservationRepositoryImpl) FindPastByUserID(ctx context.Context, userID int, now time.Time) ([]*model.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1 AND e.start_time <= $2
		ORDER BY e.start_time DESC
	`, prefixedReservationColumns)

	return r.queryReservations(ctx, query, userID, now)
}

const prefixedReservationColumns = `r.id, r.event_id, r.user_id, r.seats, r.total_amount, r.code, r.status, r.comment, r.created_at, r.updated_at`
