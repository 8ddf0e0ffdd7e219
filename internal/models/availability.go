package models

// HotelWithRoomsLeft is the search projection: aggregate capacity across the
// hotel's rooms minus bookings overlapping the queried range.
type HotelWithRoomsLeft struct {
	Hotel
	RoomsLeft int64 `json:"rooms_left"`
}

// RoomWithAvailability is the per-room projection for a date window.
// TotalCost is price x nights of the queried window, not of any booking.
type RoomWithAvailability struct {
	Room
	RoomsLeft int64 `json:"rooms_left"`
	TotalCost int64 `json:"total_cost"`
}
