package database

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrHotelNotFound     = errors.New("hotel not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNoRoomsAvailable  = errors.New("no rooms available for chosen dates")
	ErrForbidden         = errors.New("booking belongs to another user")
	ErrAlreadyFavourite  = errors.New("hotel is already in favourites")
	ErrFavouriteNotFound = errors.New("favourite not found")
)
