package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/models"
)

// AddFavourite saves a hotel to the user's favourites. Adding the same hotel
// twice is reported as ErrAlreadyFavourite, not a storage error.
func (db *DB) AddFavourite(ctx context.Context, userID, hotelID int64) error {
	if _, err := db.GetHotel(ctx, hotelID); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO favourite_hotel (user_id, hotel_id, created_at)
         VALUES (?, ?, ?)
         ON CONFLICT(user_id, hotel_id) DO NOTHING`,
		userID, hotelID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add favourite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyFavourite
	}
	return nil
}

func (db *DB) RemoveFavourite(ctx context.Context, userID, hotelID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM favourite_hotel WHERE user_id = ? AND hotel_id = ?`,
		userID, hotelID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFavouriteNotFound
	}
	return nil
}

// GetUserFavourites returns the user's favourite hotels, most recently added
// first.
func (db *DB) GetUserFavourites(ctx context.Context, userID int64) ([]*models.Hotel, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT h.id, h.name, h.location, h.services,
                (SELECT COUNT(*) FROM room r WHERE r.hotel_id = h.id),
                h.created_at, h.updated_at
         FROM favourite_hotel f JOIN hotel h ON h.id = f.hotel_id
         WHERE f.user_id = ?
         ORDER BY f.id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get favourites: %w", err)
	}
	defer rows.Close()

	var hotels []*models.Hotel
	for rows.Next() {
		var h models.Hotel
		var services string
		err := rows.Scan(
			&h.ID, &h.Name, &h.Location, &services,
			&h.RoomsCount, &h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favourite hotel: %w", err)
		}
		h.Services = decodeServices(services)
		hotels = append(hotels, &h)
	}
	return hotels, rows.Err()
}

// IsFavourite reports whether the hotel is in the user's favourites.
func (db *DB) IsFavourite(ctx context.Context, userID, hotelID int64) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM favourite_hotel WHERE user_id = ? AND hotel_id = ?`,
		userID, hotelID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check favourite: %w", err)
	}
	return true, nil
}
