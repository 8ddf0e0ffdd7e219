package cache

import (
	"fmt"
	"strings"

	"innkeep/internal/models"
)

// Cache keys are colon-separated and date-suffixed so that availability
// changes can be invalidated per hotel without touching unrelated entries.

func SearchKey(pattern string, dates models.DateRange) string {
	return fmt.Sprintf("search:%s:%s:%s",
		strings.ToLower(pattern),
		dates.From.Format(models.DateLayout),
		dates.To.Format(models.DateLayout),
	)
}

func HotelRoomsKey(hotelID int64, dates models.DateRange) string {
	return fmt.Sprintf("hotel_rooms:%d:%s:%s",
		hotelID,
		dates.From.Format(models.DateLayout),
		dates.To.Format(models.DateLayout),
	)
}

func HotelInfoKey(hotelID int64) string {
	return fmt.Sprintf("hotel_info:%d", hotelID)
}

// HotelRoomsPattern matches every cached room listing for the hotel.
func HotelRoomsPattern(hotelID int64) string {
	return fmt.Sprintf("hotel_rooms:%d:*", hotelID)
}

// SearchPattern matches every cached search result.
const SearchPattern = "search:*"
