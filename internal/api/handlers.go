package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"innkeep/internal/database"
	"innkeep/internal/models"
)

type createBookingRequest struct {
	RoomID   int64  `json:"room_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	var body createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.RoomID <= 0 {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	dates, err := models.ParseDateRange(body.DateFrom, body.DateTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.Reserve(r.Context(), identity.UserID, body.RoomID, dates)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	bookings, err := s.bookings.MyBookings(r.Context(), identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *Server) handleMyBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.MyBooking(r.Context(), identity.UserID, bookingID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.Cancel(r.Context(), identity.UserID, bookingID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchHotels(w http.ResponseWriter, r *http.Request) {
	pattern := strings.TrimSpace(r.PathValue("name"))
	if pattern == "" {
		writeError(w, http.StatusBadRequest, "search pattern is required")
		return
	}

	dates, err := queryDates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hotels, err := s.hotels.Search(r.Context(), pattern, dates)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if hotels == nil {
		hotels = []*models.HotelWithRoomsLeft{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func (s *Server) handleHotelInfo(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "hotel_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hotel, err := s.hotels.HotelInfo(r.Context(), hotelID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (s *Server) handleHotelRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, err := pathID(r, "hotel_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates, err := queryDates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rooms, err := s.hotels.HotelRooms(r.Context(), hotelID, dates)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []*models.RoomWithAvailability{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) handleListFavourites(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	hotels, err := s.hotels.Favourites(r.Context(), identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if hotels == nil {
		hotels = []*models.Hotel{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func (s *Server) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	hotelID, err := pathID(r, "hotel_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.hotels.AddFavourite(r.Context(), identity.UserID, hotelID); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"hotel_id": hotelID})
}

func (s *Server) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
		return
	}

	hotelID, err := pathID(r, "hotel_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.hotels.RemoveFavourite(r.Context(), identity.UserID, hotelID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport builds the occupancy spreadsheet for the requested period and
// streams it back. Past periods are fine here, this is reporting.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	dates, err := queryDates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !dates.From.Before(dates.To) {
		writeError(w, http.StatusBadRequest, models.ErrEmptyRange.Error())
		return
	}

	report, err := s.exporter.OccupancyReport(r.Context(), dates)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer report.Close()

	fileName := fmt.Sprintf("occupancy_%s_%s.xlsx",
		dates.From.Format(models.DateLayout), dates.To.Format(models.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := report.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream export")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondError maps domain errors onto HTTP statuses. Anything unexpected is
// a 500 with the detail kept in the log, not the response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyRange),
		errors.Is(err, models.ErrPastDate),
		errors.Is(err, models.ErrDateTooFar),
		errors.Is(err, models.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrRoomNotFound),
		errors.Is(err, database.ErrHotelNotFound),
		errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrFavouriteNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrNoRoomsAvailable),
		errors.Is(err, database.ErrAlreadyFavourite):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func queryDates(r *http.Request) (models.DateRange, error) {
	from := strings.TrimSpace(r.URL.Query().Get("date_from"))
	to := strings.TrimSpace(r.URL.Query().Get("date_to"))
	if from == "" || to == "" {
		return models.DateRange{}, errors.New("date_from and date_to are required")
	}
	return models.ParseDateRange(from, to)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
