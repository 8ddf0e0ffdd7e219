package service

import (
	"context"
	"time"

	"innkeep/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Reserve(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockStore) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockStore) DeleteBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockStore) GetBookingsByDateRange(ctx context.Context, dates models.DateRange) ([]*models.Booking, error) {
	args := m.Called(ctx, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockStore) RoomsLeft(ctx context.Context, roomID int64, dates models.DateRange) (int64, error) {
	args := m.Called(ctx, roomID, dates)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockStore) SearchHotels(ctx context.Context, pattern string, dates models.DateRange) ([]*models.HotelWithRoomsLeft, error) {
	args := m.Called(ctx, pattern, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HotelWithRoomsLeft), args.Error(1)
}
func (m *mockStore) GetHotelRooms(ctx context.Context, hotelID int64, dates models.DateRange) ([]*models.RoomWithAvailability, error) {
	args := m.Called(ctx, hotelID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoomWithAvailability), args.Error(1)
}
func (m *mockStore) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hotel), args.Error(1)
}
func (m *mockStore) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockStore) SyncCatalog(ctx context.Context, hotels []models.Hotel, rooms []models.Room) error {
	return m.Called(ctx, hotels, rooms).Error(0)
}
func (m *mockStore) AddFavourite(ctx context.Context, userID, hotelID int64) error {
	return m.Called(ctx, userID, hotelID).Error(0)
}
func (m *mockStore) RemoveFavourite(ctx context.Context, userID, hotelID int64) error {
	return m.Called(ctx, userID, hotelID).Error(0)
}
func (m *mockStore) GetUserFavourites(ctx context.Context, userID int64) ([]*models.Hotel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Hotel), args.Error(1)
}
func (m *mockStore) IsFavourite(ctx context.Context, userID, hotelID int64) (bool, error) {
	args := m.Called(ctx, userID, hotelID)
	return args.Bool(0), args.Error(1)
}
func (m *mockStore) CreateNotifyTask(ctx context.Context, task *models.NotifyTask) error {
	return m.Called(ctx, task).Error(0)
}
func (m *mockStore) GetPendingNotifyTasks(ctx context.Context, limit int) ([]models.NotifyTask, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotifyTask), args.Error(1)
}
func (m *mockStore) UpdateNotifyTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	return m.Called(ctx, id, status, errMsg, nextRetryAt).Error(0)
}
func (m *mockStore) GetFailedNotifyTasks(ctx context.Context) ([]models.NotifyTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotifyTask), args.Error(1)
}

type mockNotifyWorker struct {
	mock.Mock
}

func (m *mockNotifyWorker) EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error {
	return m.Called(ctx, taskType, booking).Error(0)
}
