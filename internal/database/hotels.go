package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/models"
)

func encodeServices(services []string) string {
	if len(services) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeServices(raw string) []string {
	services := []string{}
	if raw == "" {
		return services
	}
	_ = json.Unmarshal([]byte(raw), &services)
	return services
}

func (db *DB) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO hotel (name, location, services, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		hotel.Name, hotel.Location, encodeServices(hotel.Services), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	hotel.ID = id
	hotel.CreatedAt = now
	hotel.UpdatedAt = now
	return nil
}

func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO room (hotel_id, name, description, price, services, quantity, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.HotelID, room.Name, room.Description, room.Price,
		encodeServices(room.Services), room.Quantity, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	room.ID = id
	room.CreatedAt = now
	room.UpdatedAt = now
	return nil
}

func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	var services string
	err := db.QueryRowContext(ctx,
		`SELECT id, hotel_id, name, description, price, services, quantity, created_at, updated_at
         FROM room WHERE id = ?`, id,
	).Scan(
		&room.ID, &room.HotelID, &room.Name, &room.Description,
		&room.Price, &services, &room.Quantity, &room.CreatedAt, &room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	room.Services = decodeServices(services)
	return &room, nil
}

// GetHotel returns the hotel with its room count taken from the catalog.
func (db *DB) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	var services string
	err := db.QueryRowContext(ctx,
		`SELECT h.id, h.name, h.location, h.services,
                (SELECT COUNT(*) FROM room r WHERE r.hotel_id = h.id),
                h.created_at, h.updated_at
         FROM hotel h WHERE h.id = ?`, id,
	).Scan(
		&hotel.ID, &hotel.Name, &hotel.Location, &services,
		&hotel.RoomsCount, &hotel.CreatedAt, &hotel.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	hotel.Services = decodeServices(services)
	return &hotel, nil
}

// SearchHotels finds hotels whose name or location contains the pattern
// (case-insensitive) and that still have at least one free room unit in the
// range. Booked counts and capacity are aggregated per hotel in one
// statement; hotels with nothing left are filtered out, not shown as zero.
func (db *DB) SearchHotels(ctx context.Context, pattern string, dates models.DateRange) ([]*models.HotelWithRoomsLeft, error) {
	query := `WITH capacity AS (
                  SELECT hotel_id, SUM(quantity) AS total_units, COUNT(*) AS rooms_count
                  FROM room GROUP BY hotel_id
              ),
              booked AS (
                  SELECT r.hotel_id, COUNT(*) AS booked_units
                  FROM booking b JOIN room r ON r.id = b.room_id
                  WHERE ` + overlapPredicate + `
                  GROUP BY r.hotel_id
              )
              SELECT h.id, h.name, h.location, h.services, capacity.rooms_count,
                     capacity.total_units - COALESCE(booked.booked_units, 0) AS rooms_left,
                     h.created_at, h.updated_at
              FROM hotel h
              JOIN capacity ON capacity.hotel_id = h.id
              LEFT JOIN booked ON booked.hotel_id = h.id
              WHERE (instr(lower(h.name), lower(?)) > 0 OR instr(lower(h.location), lower(?)) > 0)
                AND capacity.total_units - COALESCE(booked.booked_units, 0) > 0
              ORDER BY h.id`

	args := overlapArgs(dates.From, dates.To)
	args = append(args, pattern, pattern)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*models.HotelWithRoomsLeft
	for rows.Next() {
		var h models.HotelWithRoomsLeft
		var services string
		err := rows.Scan(
			&h.ID, &h.Name, &h.Location, &services, &h.RoomsCount,
			&h.RoomsLeft, &h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		h.Services = decodeServices(services)
		hotels = append(hotels, &h)
	}
	return hotels, rows.Err()
}

// GetHotelRooms lists a hotel's rooms with per-room rooms_left for the range
// and the total cost of staying the whole window.
func (db *DB) GetHotelRooms(ctx context.Context, hotelID int64, dates models.DateRange) ([]*models.RoomWithAvailability, error) {
	if _, err := db.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	query := `SELECT r.id, r.hotel_id, r.name, r.description, r.price, r.services, r.quantity,
                     r.quantity - COALESCE(bk.booked_units, 0) AS rooms_left,
                     r.created_at, r.updated_at
              FROM room r
              LEFT JOIN (
                  SELECT b.room_id, COUNT(*) AS booked_units
                  FROM booking b
                  WHERE ` + overlapPredicate + `
                  GROUP BY b.room_id
              ) bk ON bk.room_id = r.id
              WHERE r.hotel_id = ?
              ORDER BY r.id`

	args := overlapArgs(dates.From, dates.To)
	args = append(args, hotelID)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel rooms: %w", err)
	}
	defer rows.Close()

	nights := int64(dates.Days())

	var result []*models.RoomWithAvailability
	for rows.Next() {
		var r models.RoomWithAvailability
		var services string
		err := rows.Scan(
			&r.ID, &r.HotelID, &r.Name, &r.Description, &r.Price, &services,
			&r.Quantity, &r.RoomsLeft, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		r.Services = decodeServices(services)
		r.TotalCost = r.Price * nights
		result = append(result, &r)
	}
	return result, rows.Err()
}

// SyncCatalog upserts the hotel/room catalog loaded from configuration.
// Catalog entries carry explicit ids so bookings survive re-seeding.
func (db *DB) SyncCatalog(ctx context.Context, hotels []models.Hotel, rooms []models.Room) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, h := range hotels {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO hotel (id, name, location, services, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                 name = excluded.name,
                 location = excluded.location,
                 services = excluded.services,
                 updated_at = excluded.updated_at`,
			h.ID, h.Name, h.Location, encodeServices(h.Services), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to sync hotel %d: %w", h.ID, err)
		}
	}

	for _, r := range rooms {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO room (id, hotel_id, name, description, price, services, quantity, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                 hotel_id = excluded.hotel_id,
                 name = excluded.name,
                 description = excluded.description,
                 price = excluded.price,
                 services = excluded.services,
                 quantity = excluded.quantity,
                 updated_at = excluded.updated_at`,
			r.ID, r.HotelID, r.Name, r.Description, r.Price,
			encodeServices(r.Services), r.Quantity, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to sync room %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}
