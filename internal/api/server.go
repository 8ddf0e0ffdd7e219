package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/database"
	"innkeep/internal/export"
	"innkeep/internal/metrics"
	"innkeep/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	errMissingCredentials = errors.New("missing api credentials")
	errInvalidCredentials = errors.New("invalid api credentials")
	errRateLimited        = errors.New("rate limit exceeded")
	errUnauthenticated    = errors.New("authentication required")
)

// Server is the public HTTP surface: bookings, hotel search, favourites and
// the admin export.
type Server struct {
	cfg      config.APIConfig
	bookings *service.BookingService
	hotels   *service.HotelService
	exporter *export.Exporter
	db       *database.DB
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(cfg config.APIConfig, bookings *service.BookingService, hotels *service.HotelService, exporter *export.Exporter, db *database.DB, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		bookings: bookings,
		hotels:   hotels,
		exporter: exporter,
		db:       db,
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// Handler builds the routed and wrapped handler. Exposed so tests can drive
// it through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings/create", s.handleCreateBooking)
	mux.HandleFunc("GET /bookings/my", s.handleMyBookings)
	mux.HandleFunc("GET /bookings/my/{booking_id}", s.handleMyBooking)
	mux.HandleFunc("DELETE /bookings/my/{booking_id}", s.handleCancelBooking)

	mux.HandleFunc("GET /hotels/search/{name}", s.handleSearchHotels)
	mux.HandleFunc("GET /hotels/favourites", s.handleListFavourites)
	mux.HandleFunc("POST /hotels/favourites/{hotel_id}", s.handleAddFavourite)
	mux.HandleFunc("DELETE /hotels/favourites/{hotel_id}", s.handleRemoveFavourite)
	mux.HandleFunc("GET /hotels/{hotel_id}", s.handleHotelInfo)
	mux.HandleFunc("GET /rooms/{hotel_id}", s.handleHotelRooms)

	mux.HandleFunc("GET /admin/export", s.handleExport)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	auth := NewAuth(s.cfg)
	return s.requestLogger(auth.Wrap(mux))
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http api listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

const requestIDHeader = "x-request-id"

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(endpointLabel(r.URL.Path), strconv.Itoa(recorder.status))

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel maps a request path to a bounded metric label.
func endpointLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/bookings"):
		return "/bookings"
	case strings.HasPrefix(path, "/hotels"):
		return "/hotels"
	case strings.HasPrefix(path, "/rooms"):
		return "/rooms"
	case strings.HasPrefix(path, "/admin"):
		return "/admin"
	case path == "/healthz":
		return "/healthz"
	case path == "/metrics":
		return "/metrics"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
