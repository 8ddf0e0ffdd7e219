package config

import (
	"fmt"
	"os"

	"innkeep/internal/models"

	"gopkg.in/yaml.v2"
)

// Catalog is the hotel/room inventory as published by the catalog service.
// It is delivered as a YAML snapshot and upserted into the database at
// startup; entries carry explicit ids so re-seeding never orphans bookings.
type Catalog struct {
	Hotels []models.Hotel `yaml:"hotels"`
	Rooms  []models.Room  `yaml:"rooms"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &catalog, nil
}

func (c *Catalog) Validate() error {
	hotelIDs := make(map[int64]bool)
	for _, h := range c.Hotels {
		if h.ID == 0 {
			return fmt.Errorf("hotel '%s' has invalid ID 0", h.Name)
		}
		if hotelIDs[h.ID] {
			return fmt.Errorf("duplicate hotel ID found: %d", h.ID)
		}
		hotelIDs[h.ID] = true
	}

	roomIDs := make(map[int64]bool)
	for _, r := range c.Rooms {
		if r.ID == 0 {
			return fmt.Errorf("room '%s' has invalid ID 0", r.Name)
		}
		if roomIDs[r.ID] {
			return fmt.Errorf("duplicate room ID found: %d", r.ID)
		}
		roomIDs[r.ID] = true
		if !hotelIDs[r.HotelID] {
			return fmt.Errorf("room %d references unknown hotel %d", r.ID, r.HotelID)
		}
		if r.Price < 0 {
			return fmt.Errorf("room %d has negative price", r.ID)
		}
		if r.Quantity < 0 {
			return fmt.Errorf("room %d has negative quantity", r.ID)
		}
	}

	return nil
}
