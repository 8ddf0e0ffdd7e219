package service

import (
	"context"
	"time"

	"innkeep/internal/cache"
	"innkeep/internal/database"
	"innkeep/internal/domain"
	"innkeep/internal/events"
	"innkeep/internal/metrics"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the reservation lifecycle: validation, the atomic
// reserve, cache invalidation and the side channels (events, notify outbox).
type BookingService struct {
	store          domain.Store
	cache          domain.Cache
	eventBus       domain.EventPublisher
	notifyWorker   domain.NotifyWorker
	maxAdvanceDays int
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewBookingService(store domain.Store, cacheStore domain.Cache, eventBus domain.EventPublisher, notifyWorker domain.NotifyWorker, maxAdvanceDays int, logger *zerolog.Logger) *BookingService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &BookingService{
		store:          store,
		cache:          cacheStore,
		eventBus:       eventBus,
		notifyWorker:   notifyWorker,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
		now:            time.Now,
	}
}

// Reserve validates the stay window and books the room for the user.
func (s *BookingService) Reserve(ctx context.Context, userID, roomID int64, dates models.DateRange) (*models.Booking, error) {
	if err := dates.Validate(s.now(), s.maxAdvanceDays); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		RoomID:   roomID,
		UserID:   userID,
		DateFrom: dates.From,
		DateTo:   dates.To,
	}

	if err := s.store.Reserve(ctx, booking); err != nil {
		if err == database.ErrNoRoomsAvailable {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", userID).
		Int64("room_id", roomID).
		Int64("total_cost", booking.TotalCost).
		Msg("booking created")

	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueNotify(ctx, events.EventBookingCreated, booking)
	s.invalidateAvailability(ctx, booking.HotelID)

	return booking, nil
}

// MyBookings returns the user's bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	return s.store.GetUserBookings(ctx, userID)
}

// MyBooking returns one booking of the user. Somebody else's booking is
// reported as not found rather than forbidden to avoid leaking ids.
func (s *BookingService) MyBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, database.ErrBookingNotFound
	}
	return booking, nil
}

// Cancel deletes the user's booking and frees the unit.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.store.DeleteBooking(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	metrics.IncBookingCancelled()
	s.logger.Info().
		Int64("booking_id", bookingID).
		Int64("user_id", userID).
		Msg("booking cancelled")

	s.publishEvent(events.EventBookingCancelled, booking)
	s.enqueueNotify(ctx, events.EventBookingCancelled, booking)
	s.invalidateAvailability(ctx, booking.HotelID)

	return nil
}

// BookingsForPeriod returns all bookings intersecting the range, for
// reporting.
func (s *BookingService) BookingsForPeriod(ctx context.Context, dates models.DateRange) ([]*models.Booking, error) {
	return s.store.GetBookingsByDateRange(ctx, dates)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		HotelID:    booking.HotelID,
		RoomID:     booking.RoomID,
		DateFrom:   booking.DateFrom.Format(models.DateLayout),
		DateTo:     booking.DateTo.Format(models.DateLayout),
		TotalCost:  booking.TotalCost,
		OccurredAt: time.Now(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueNotify(ctx context.Context, taskType string, booking *models.Booking) {
	if s.notifyWorker == nil {
		return
	}
	if err := s.notifyWorker.EnqueueTask(ctx, taskType, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("notify enqueue error")
	}
}

// invalidateAvailability drops cached listings that embed rooms_left for the
// hotel. Search results span all hotels, so they go wholesale.
func (s *BookingService) invalidateAvailability(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.SearchPattern); err != nil {
		s.logger.Error().Err(err).Msg("invalidate search cache")
	}
	if err := s.cache.DeletePattern(ctx, cache.HotelRoomsPattern(hotelID)); err != nil {
		s.logger.Error().Err(err).Int64("hotel_id", hotelID).Msg("invalidate hotel rooms cache")
	}
}
