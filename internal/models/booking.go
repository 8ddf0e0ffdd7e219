package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	HotelID   int64     `json:"hotel_id"`
	UserID    int64     `json:"user_id"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Price     int64     `json:"price"` // nightly rate snapshotted at creation
	TotalCost int64     `json:"total_cost"`
	TotalDays int64     `json:"total_days"`
	CreatedAt time.Time `json:"created_at"`
}

// Range returns the booked interval as a DateRange.
func (b *Booking) Range() DateRange {
	return DateRange{From: b.DateFrom, To: b.DateTo}
}

// ExpectedTotals recomputes the derived columns from price and dates. The
// storage engine keeps them as generated columns; reads verify against this.
func (b *Booking) ExpectedTotals() (totalCost, totalDays int64) {
	totalDays = int64(b.Range().Days())
	return b.Price * totalDays, totalDays
}
