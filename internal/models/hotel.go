package models

import "time"

type Hotel struct {
	ID         int64     `yaml:"id" json:"id"`
	Name       string    `yaml:"name" json:"name"`
	Location   string    `yaml:"location" json:"location"`
	Services   []string  `yaml:"services" json:"services"`
	RoomsCount int64     `yaml:"rooms_count" json:"rooms_count"`
	CreatedAt  time.Time `yaml:"-" json:"created_at"`
	UpdatedAt  time.Time `yaml:"-" json:"updated_at"`
}

type Room struct {
	ID          int64     `yaml:"id" json:"id"`
	HotelID     int64     `yaml:"hotel_id" json:"hotel_id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Price       int64     `yaml:"price" json:"price"`
	Services    []string  `yaml:"services" json:"services"`
	Quantity    int64     `yaml:"quantity" json:"quantity"`
	CreatedAt   time.Time `yaml:"-" json:"created_at"`
	UpdatedAt   time.Time `yaml:"-" json:"updated_at"`
}

// FavouriteHotel is a user_id x hotel_id pair, unique per user.
type FavouriteHotel struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	HotelID   int64     `json:"hotel_id"`
	CreatedAt time.Time `json:"created_at"`
}
