package export

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExporter(t *testing.T) (*Exporter, *database.DB) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "export.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewExporter(db, t.TempDir(), &logger), db
}

func seedReport(t *testing.T, db *database.DB) *models.Room {
	t.Helper()
	ctx := context.Background()

	hotel := &models.Hotel{Name: "Grand Plaza", Location: "Moscow"}
	require.NoError(t, db.CreateHotel(ctx, hotel))

	room := &models.Room{HotelID: hotel.ID, Name: "Standard", Price: 2000, Quantity: 2}
	require.NoError(t, db.CreateRoom(ctx, room))

	for userID := int64(1); userID <= 2; userID++ {
		booking := &models.Booking{
			RoomID:   room.ID,
			UserID:   userID,
			DateFrom: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2030, 1, 12, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Reserve(ctx, booking))
	}
	return room
}

func TestOccupancyReport(t *testing.T) {
	exporter, db := newTestExporter(t)
	seedReport(t, db)

	dates := models.DateRange{
		From: time.Date(2030, 1, 9, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2030, 1, 13, 0, 0, 0, 0, time.UTC),
	}
	f, err := exporter.OccupancyReport(context.Background(), dates)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period: 2030-01-09 - 2030-01-13", title)

	label, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Grand Plaza / Standard (2)", label)

	// Columns: B=09.01 C=10.01 D=11.01 E=12.01; both bookings cover the
	// nights of the 10th and 11th, checkout on the 12th frees the room.
	for cell, want := range map[string]string{
		"B3": "",
		"C3": "2",
		"D3": "2",
		"E3": "",
	} {
		got, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cell %s", cell)
	}
}

func TestSaveReport(t *testing.T) {
	exporter, db := newTestExporter(t)
	seedReport(t, db)

	dates := models.DateRange{
		From: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2030, 1, 12, 0, 0, 0, 0, time.UTC),
	}
	path, err := exporter.SaveReport(context.Background(), dates)
	require.NoError(t, err)
	assert.Equal(t, "occupancy_2030-01-10_2030-01-12.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(rows), 3)
}

func TestOccupancyReportEmptyPeriod(t *testing.T) {
	exporter, _ := newTestExporter(t)

	dates := models.DateRange{
		From: time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2031, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	f, err := exporter.OccupancyReport(context.Background(), dates)
	require.NoError(t, err)
	defer f.Close()

	label, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Empty(t, label)
}
