package worker

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
)

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	w := newTestWorker(db, notifier, RetryPolicy{})

	ctx := context.Background()
	booking := seedBooking(t, db)

	if err := w.EnqueueTask(ctx, "booking_created", booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusCompleted {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected 1 notify call, got %d", notifier.calls)
	}
	if notifier.lastType != "booking_created" {
		t.Fatalf("expected task type booking_created, got %s", notifier.lastType)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{err: errors.New("boom")}
	w := newTestWorker(db, notifier, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second})

	ctx := context.Background()
	booking := seedBooking(t, db)

	if err := w.EnqueueTask(ctx, "booking_created", booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	task, ok := w.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}
	w.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusRetry {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid || nextRetry.Time.Before(time.Now()) {
		t.Fatalf("expected next_retry_at in future, got %v", nextRetry)
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{err: errors.New("fatal")}
	w := newTestWorker(db, notifier, RetryPolicy{MaxRetries: 1})

	ctx := context.Background()
	booking := seedBooking(t, db)

	if err := w.EnqueueTask(ctx, "booking_cancelled", booking); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	task, _ := w.tryLocalQueue()
	w.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusFailed {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestEnqueueTaskValidation(t *testing.T) {
	db := newTestDB(t)
	w := newTestWorker(db, &fakeNotifier{}, RetryPolicy{})

	ctx := context.Background()
	booking := seedBooking(t, db)

	t.Run("EmptyTaskType", func(t *testing.T) {
		if err := w.EnqueueTask(ctx, "", booking); err == nil {
			t.Fatalf("expected error for empty task type")
		}
	})

	t.Run("MissingBooking", func(t *testing.T) {
		if err := w.EnqueueTask(ctx, "booking_created", nil); err == nil {
			t.Fatalf("expected error for missing booking")
		}
	})
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}
	d1 := policy.NextDelay(1)
	d2 := policy.NextDelay(2)
	d3 := policy.NextDelay(5)

	if d1 != time.Second {
		t.Fatalf("attempt1 expected 1s, got %s", d1)
	}
	if d2 != 2*time.Second {
		t.Fatalf("attempt2 expected 2s, got %s", d2)
	}
	if d3 != 5*time.Second {
		t.Fatalf("attempt5 expected capped 5s, got %s", d3)
	}
}

func TestWebhookNotifier(t *testing.T) {
	var gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("X-Event-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	err := n.Notify(context.Background(), "booking_created", []byte(`{"booking_id":1}`))
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotType != "booking_created" {
		t.Fatalf("expected event type header, got %s", gotType)
	}
	if string(gotBody) != `{"booking_id":1}` {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestWebhookNotifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	if err := n.Notify(context.Background(), "booking_created", nil); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

// Helpers

type fakeNotifier struct {
	err      error
	calls    int
	lastType string
}

func (f *fakeNotifier) Notify(_ context.Context, taskType string, _ []byte) error {
	f.calls++
	f.lastType = taskType
	return f.err
}

func newTestWorker(db *database.DB, notifier *fakeNotifier, retry RetryPolicy) *NotifyWorker {
	logger := zerolog.New(io.Discard)
	return NewNotifyWorker(db, notifier, nil, retry, &logger)
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.db")
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedBooking(t *testing.T, db *database.DB) *models.Booking {
	t.Helper()
	ctx := context.Background()

	hotel := &models.Hotel{Name: "Worker Hotel", Location: "Queue"}
	if err := db.CreateHotel(ctx, hotel); err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	room := &models.Room{HotelID: hotel.ID, Name: "Standard", Price: 1000, Quantity: 1}
	if err := db.CreateRoom(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	booking := &models.Booking{
		RoomID:   room.ID,
		UserID:   1,
		DateFrom: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Reserve(ctx, booking); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	return booking
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM notify_queue WHERE id = ?`, id)
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("scan task: %v", err)
	}
	return status, retryCount, nextRetry
}
