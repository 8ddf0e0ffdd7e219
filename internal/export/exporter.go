package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"innkeep/internal/domain"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Occupancy"

// Exporter builds occupancy spreadsheets: one row per room, one column per
// day, each cell the number of booked units that night.
type Exporter struct {
	store  domain.Store
	dir    string
	logger *zerolog.Logger
}

func NewExporter(store domain.Store, dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, dir: dir, logger: logger}
}

// OccupancyReport renders the report for the period as an in-memory workbook.
// The caller owns the file and must Close it.
func (e *Exporter) OccupancyReport(ctx context.Context, dates models.DateRange) (*excelize.File, error) {
	bookings, err := e.store.GetBookingsByDateRange(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	rooms, err := e.collectRooms(ctx, bookings)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		dates.From.Format(models.DateLayout), dates.To.Format(models.DateLayout)))

	dateCols := e.writeDateHeaders(f, dates)
	rowByRoom := e.writeRoomRows(ctx, f, rooms)
	e.writeCells(f, bookings, dateCols, rowByRoom)

	_ = f.SetColWidth(sheetName, "A", "A", 32)
	if len(dateCols) > 0 {
		last, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
		_ = f.SetColWidth(sheetName, "B", last, 8)
		_ = f.MergeCell(sheetName, "A1", last+"1")
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	return f, nil
}

// SaveReport renders the report and writes it under the export directory,
// returning the file path.
func (e *Exporter) SaveReport(ctx context.Context, dates models.DateRange) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := e.OccupancyReport(ctx, dates)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("occupancy_%s_%s.xlsx",
		dates.From.Format(models.DateLayout), dates.To.Format(models.DateLayout))
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("occupancy report written")
	return filePath, nil
}

// collectRooms resolves the distinct rooms referenced by the bookings,
// ordered by first appearance.
func (e *Exporter) collectRooms(ctx context.Context, bookings []*models.Booking) ([]*models.Room, error) {
	seen := make(map[int64]bool)
	rooms := make([]*models.Room, 0)
	for _, b := range bookings {
		if seen[b.RoomID] {
			continue
		}
		seen[b.RoomID] = true

		room, err := e.store.GetRoom(ctx, b.RoomID)
		if err != nil {
			return nil, fmt.Errorf("failed to load room %d: %w", b.RoomID, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (e *Exporter) writeDateHeaders(f *excelize.File, dates models.DateRange) map[string]int {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	cols := make(map[string]int)
	col := 2
	for day := dates.From; day.Before(dates.To); day = day.AddDate(0, 0, 1) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, day.Format("02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		cols[day.Format(models.DateLayout)] = col
		col++
	}
	return cols
}

func (e *Exporter) writeRoomRows(ctx context.Context, f *excelize.File, rooms []*models.Room) map[int64]int {
	rowByRoom := make(map[int64]int)
	row := 3
	for _, room := range rooms {
		label := room.Name
		if hotel, err := e.store.GetHotel(ctx, room.HotelID); err == nil {
			label = fmt.Sprintf("%s / %s", hotel.Name, room.Name)
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (%d)", label, room.Quantity))
		rowByRoom[room.ID] = row
		row++
	}
	return rowByRoom
}

func (e *Exporter) writeCells(f *excelize.File, bookings []*models.Booking, dateCols map[string]int, rowByRoom map[int64]int) {
	type cellKey struct {
		row int
		col int
	}
	counts := make(map[cellKey]int)

	for _, b := range bookings {
		row, ok := rowByRoom[b.RoomID]
		if !ok {
			continue
		}
		for day := b.DateFrom; day.Before(b.DateTo); day = day.AddDate(0, 0, 1) {
			col, ok := dateCols[day.Format(models.DateLayout)]
			if !ok {
				continue
			}
			counts[cellKey{row: row, col: col}]++
		}
	}

	for key, n := range counts {
		cell, _ := excelize.CoordinatesToCellName(key.col, key.row)
		_ = f.SetCellValue(sheetName, cell, n)
	}
}
