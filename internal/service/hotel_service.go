package service

import (
	"context"
	"encoding/json"
	"time"

	"innkeep/internal/cache"
	"innkeep/internal/domain"
	"innkeep/internal/metrics"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
)

// HotelService serves hotel search and room listings with a cache-aside
// layer, plus the user's favourites. Cache failures degrade to direct
// database reads, never to request failures.
type HotelService struct {
	store          domain.Store
	cache          domain.Cache
	ttl            time.Duration
	maxAdvanceDays int
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewHotelService(store domain.Store, cacheStore domain.Cache, ttl time.Duration, maxAdvanceDays int, logger *zerolog.Logger) *HotelService {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &HotelService{
		store:          store,
		cache:          cacheStore,
		ttl:            ttl,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
		now:            time.Now,
	}
}

// Search finds hotels matching the name or location pattern that still have
// free rooms in the range.
func (s *HotelService) Search(ctx context.Context, pattern string, dates models.DateRange) ([]*models.HotelWithRoomsLeft, error) {
	if err := dates.Validate(s.now(), s.maxAdvanceDays); err != nil {
		return nil, err
	}

	key := cache.SearchKey(pattern, dates)

	var cached []*models.HotelWithRoomsLeft
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	hotels, err := s.store.SearchHotels(ctx, pattern, dates)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, hotels)
	return hotels, nil
}

// HotelRooms lists the hotel's rooms with per-room availability and the
// total cost of staying the whole window.
func (s *HotelService) HotelRooms(ctx context.Context, hotelID int64, dates models.DateRange) ([]*models.RoomWithAvailability, error) {
	if err := dates.Validate(s.now(), s.maxAdvanceDays); err != nil {
		return nil, err
	}

	key := cache.HotelRoomsKey(hotelID, dates)

	var cached []*models.RoomWithAvailability
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rooms, err := s.store.GetHotelRooms(ctx, hotelID, dates)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, rooms)
	return rooms, nil
}

// HotelInfo returns the hotel card. Static data, cached under its own key so
// it survives availability invalidations.
func (s *HotelService) HotelInfo(ctx context.Context, hotelID int64) (*models.Hotel, error) {
	key := cache.HotelInfoKey(hotelID)

	var cached *models.Hotel
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	hotel, err := s.store.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, hotel)
	return hotel, nil
}

func (s *HotelService) AddFavourite(ctx context.Context, userID, hotelID int64) error {
	return s.store.AddFavourite(ctx, userID, hotelID)
}

func (s *HotelService) RemoveFavourite(ctx context.Context, userID, hotelID int64) error {
	return s.store.RemoveFavourite(ctx, userID, hotelID)
}

func (s *HotelService) Favourites(ctx context.Context, userID int64) ([]*models.Hotel, error) {
	return s.store.GetUserFavourites(ctx, userID)
}

// cacheGet loads and decodes a cached value. Returns false on miss or any
// cache problem; the caller falls through to the database.
func (s *HotelService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if raw == nil {
		metrics.IncCache("miss")
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupted")
		return false
	}

	metrics.IncCache("hit")
	return true
}

func (s *HotelService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
