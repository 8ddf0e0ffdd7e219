package domain

import (
	"context"
	"time"

	"innkeep/internal/models"
)

// Store is the persistence surface the services build on.
type Store interface {
	Reserve(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, dates models.DateRange) ([]*models.Booking, error)

	RoomsLeft(ctx context.Context, roomID int64, dates models.DateRange) (int64, error)
	SearchHotels(ctx context.Context, pattern string, dates models.DateRange) ([]*models.HotelWithRoomsLeft, error)
	GetHotelRooms(ctx context.Context, hotelID int64, dates models.DateRange) ([]*models.RoomWithAvailability, error)
	GetHotel(ctx context.Context, id int64) (*models.Hotel, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	SyncCatalog(ctx context.Context, hotels []models.Hotel, rooms []models.Room) error

	AddFavourite(ctx context.Context, userID, hotelID int64) error
	RemoveFavourite(ctx context.Context, userID, hotelID int64) error
	GetUserFavourites(ctx context.Context, userID int64) ([]*models.Hotel, error)
	IsFavourite(ctx context.Context, userID, hotelID int64) (bool, error)

	CreateNotifyTask(ctx context.Context, task *models.NotifyTask) error
	GetPendingNotifyTasks(ctx context.Context, limit int) ([]models.NotifyTask, error)
	UpdateNotifyTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
	GetFailedNotifyTasks(ctx context.Context) ([]models.NotifyTask, error)
}

// Cache is a byte cache with pattern invalidation. Get reports a miss as
// (nil, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotifyWorker accepts outbox tasks for asynchronous delivery.
type NotifyWorker interface {
	EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error
}

// Notifier delivers a single notification to the external channel.
type Notifier interface {
	Notify(ctx context.Context, taskType string, payload []byte) error
}
