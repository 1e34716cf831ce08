package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"go-gin-event-booking/config"
	"go-gin-event-booking/internal/database"
	"go-gin-event-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testDB 是測試用的資料庫連接池
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	var err error
	testDB, err = database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize test database: %v", err)
	}

	if err := testDB.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to ping test database: %v", err)
	}

	log.Println("Test database connected successfully")
	log.Println("Running repository tests...")

	code := m.Run()
	testDB.Close()
	log.Println("Test database closed")

	os.Exit(code)
}

func setupTestWithTruncate(t *testing.T) func() {
	t.Helper()
	ctx := context.Background()

	// 清空所有測試資料，保留 schema
	_, err := testDB.Exec(ctx, "TRUNCATE reservations, events, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return func() {
	}
}

func getTestDB() *pgxpool.Pool {
	if testDB == nil {
		panic("testDB is not initialized. Make sure TestMain has run.")
	}
	return testDB
}

// createTestUser 輔助函數：創建測試用的 user
func createTestUser(t *testing.T, firstName, lastName, email string) int {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO users (first_name, last_name, email, role)
		VALUES ($1, $2, $3, 'client')
		RETURNING id
	`

	var id int
	err := testDB.QueryRow(ctx, query, firstName, lastName, email).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// createTestEvent 輔助函數：創建測試用的 event，start 以現在為基準偏移
func createTestEvent(t *testing.T, title string, organizerID int, status model.EventStatus, startOffset time.Duration) int {
	t.Helper()
	ctx := context.Background()

	start := time.Now().UTC().Add(startOffset)
	query := `
		INSERT INTO events (event_id, title, category, start_time, end_time, venue, city, capacity_max, unit_price, organizer_id, status)
		VALUES ($1, $2, 'concert', $3, $4, 'Test Hall', 'Paris', 100, 50.0, $5, $6)
		RETURNING id
	`

	var id int
	err := testDB.QueryRow(ctx, query, uuid.New(), title, start, start.Add(3*time.Hour), organizerID, status).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return id
}

// createTestReservation 輔助函數：創建測試用的 reservation
func createTestReservation(t *testing.T, eventID, userID, seats int, code string, status model.ReservationStatus) int {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO reservations (event_id, user_id, seats, total_amount, code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int
	err := testDB.QueryRow(ctx, query, eventID, userID, seats, float64(seats)*50.0, code, status).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test reservation: %v", err)
	}

	return id
}
