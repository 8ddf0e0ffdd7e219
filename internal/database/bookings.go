package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/models"
)

// overlapPredicate matches bookings whose [date_from, date_to) intersects the
// queried [?, ?) range. The four branches cover containment in both
// directions and partial overlap on either edge; date_to is a checkout day,
// so a booking ending exactly on the query's start date never matches.
// Placeholder order per branch: see overlapArgs.
const overlapPredicate = `(
        (b.date_from <= ? AND b.date_to >= ?)
     OR (b.date_from > ? AND b.date_to < ?)
     OR (b.date_from <= ? AND b.date_to > ? AND b.date_to < ?)
     OR (b.date_from > ? AND b.date_from < ? AND b.date_to >= ?)
    )`

func overlapArgs(from, to time.Time) []any {
	qf := from.Format(models.DateLayout)
	qt := to.Format(models.DateLayout)
	return []any{
		qf, qt,
		qf, qt,
		qf, qf, qt,
		qf, qt, qt,
	}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RoomsLeft computes how many units of a room remain unbooked for the range:
// room.quantity minus the count of overlapping bookings. Pure read; a
// negative result signals a consistency bug and is logged, never acted on.
func (db *DB) RoomsLeft(ctx context.Context, roomID int64, dates models.DateRange) (int64, error) {
	left, err := roomsLeft(ctx, db.DB, roomID, dates)
	if err != nil {
		return 0, err
	}
	if left < 0 {
		db.logger.Warn().
			Int64("room_id", roomID).
			Int64("rooms_left", left).
			Msg("rooms_left below zero, inventory oversold")
	}
	return left, nil
}

func roomsLeft(ctx context.Context, q queryer, roomID int64, dates models.DateRange) (int64, error) {
	query := `SELECT r.quantity - (
                  SELECT COUNT(*) FROM booking b
                  WHERE b.room_id = r.id AND ` + overlapPredicate + `
              )
              FROM room r WHERE r.id = ?`

	args := overlapArgs(dates.From, dates.To)
	args = append(args, roomID)

	var left int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&left)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoomNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute rooms left: %w", err)
	}
	return left, nil
}

// Reserve checks availability and inserts the booking as one transaction.
// The room's nightly price is snapshotted into the booking row; total_cost
// and total_days are filled in by the storage engine. On any error the
// transaction rolls back and no row is left behind.
func (db *DB) Reserve(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var price, hotelID int64
	err = tx.QueryRowContext(ctx,
		`SELECT price, hotel_id FROM room WHERE id = ?`, booking.RoomID,
	).Scan(&price, &hotelID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load room in tx: %w", err)
	}

	left, err := roomsLeft(ctx, tx, booking.RoomID, booking.Range())
	if err != nil {
		return fmt.Errorf("failed to check availability in tx: %w", err)
	}
	if left <= 0 {
		return ErrNoRoomsAvailable
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO booking (room_id, user_id, date_from, date_to, price, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		booking.RoomID,
		booking.UserID,
		booking.DateFrom.Format(models.DateLayout),
		booking.DateTo.Format(models.DateLayout),
		price,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}

	var totalCost, totalDays int64
	err = tx.QueryRowContext(ctx,
		`SELECT total_cost, total_days FROM booking WHERE id = ?`, id,
	).Scan(&totalCost, &totalDays)
	if err != nil {
		return fmt.Errorf("failed to read computed totals in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	booking.ID = id
	booking.HotelID = hotelID
	booking.Price = price
	booking.TotalCost = totalCost
	booking.TotalDays = totalDays
	booking.CreatedAt = now
	return nil
}

const bookingColumns = `b.id, b.room_id, r.hotel_id, b.user_id,
               date(b.date_from), date(b.date_to), b.price,
               b.total_cost, b.total_days, b.created_at`

func (db *DB) scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var fromStr, toStr string
	err := row.Scan(
		&b.ID, &b.RoomID, &b.HotelID, &b.UserID,
		&fromStr, &toStr, &b.Price,
		&b.TotalCost, &b.TotalDays, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.DateFrom, err = time.Parse(models.DateLayout, fromStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", fromStr, err)
	}
	if b.DateTo, err = time.Parse(models.DateLayout, toStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", toStr, err)
	}

	// Generated columns should always agree with price and dates; a mismatch
	// means the schema was tampered with.
	if cost, days := b.ExpectedTotals(); cost != b.TotalCost || days != b.TotalDays {
		db.logger.Warn().
			Int64("booking_id", b.ID).
			Int64("total_cost", b.TotalCost).
			Int64("expected_cost", cost).
			Msg("stored totals disagree with price and dates")
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM booking b JOIN room r ON r.id = b.room_id
              WHERE b.id = ?`

	booking, err := db.scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetUserBookings returns the user's bookings, newest first.
func (db *DB) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM booking b JOIN room r ON r.id = b.room_id
              WHERE b.user_id = ? ORDER BY b.id DESC`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := db.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// DeleteBooking cancels a booking. Only the owner may cancel; availability
// needs no compensating update because it is always computed from the rows
// that remain. Returns the deleted booking for cache invalidation.
func (db *DB) DeleteBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + bookingColumns + `
              FROM booking b JOIN room r ON r.id = b.room_id
              WHERE b.id = ?`
	booking, err := db.scanBooking(tx.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking in tx: %w", err)
	}

	if booking.UserID != userID {
		return nil, ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM booking WHERE id = ?`, bookingID); err != nil {
		return nil, fmt.Errorf("failed to delete booking in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit deletion: %w", err)
	}
	return booking, nil
}

// GetBookingsByDateRange returns all bookings whose stay intersects the
// period, for reporting.
func (db *DB) GetBookingsByDateRange(ctx context.Context, dates models.DateRange) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM booking b JOIN room r ON r.id = b.room_id
              WHERE ` + overlapPredicate + `
              ORDER BY b.date_from, b.id`

	rows, err := db.QueryContext(ctx, query, overlapArgs(dates.From, dates.To)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := db.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
