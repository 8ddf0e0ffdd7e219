package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens (or creates) the SQLite database and applies the schema.
// Connections are opened with _txlock=immediate so every transaction takes
// the database write lock at BEGIN: two reserve transactions for the same
// room can never both read a stale rooms_left snapshot.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?mode=memory&cache=shared&_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// The pool must not outgrow the shared in-memory database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS hotel (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            location TEXT NOT NULL,
            services TEXT NOT NULL DEFAULT '[]',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS room (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            hotel_id INTEGER NOT NULL REFERENCES hotel(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price INTEGER NOT NULL CHECK (price >= 0),
            services TEXT NOT NULL DEFAULT '[]',
            quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		// total_days and total_cost are derived by the storage engine from
		// price and the two dates and can never drift from them.
		`CREATE TABLE IF NOT EXISTS booking (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            room_id INTEGER NOT NULL REFERENCES room(id),
            user_id INTEGER NOT NULL,
            date_from DATE NOT NULL,
            date_to DATE NOT NULL,
            price INTEGER NOT NULL,
            total_days INTEGER GENERATED ALWAYS AS
                (CAST(julianday(date_to) - julianday(date_from) AS INTEGER)) STORED,
            total_cost INTEGER GENERATED ALWAYS AS
                (price * CAST(julianday(date_to) - julianday(date_from) AS INTEGER)) STORED,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS favourite_hotel (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            hotel_id INTEGER NOT NULL REFERENCES hotel(id) ON DELETE CASCADE,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(user_id, hotel_id)
        )`,

		`CREATE TABLE IF NOT EXISTS notify_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            payload TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_room_hotel_id ON room(hotel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_room_id ON booking(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_user_id ON booking(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_dates ON booking(date_from, date_to)`,
		`CREATE INDEX IF NOT EXISTS idx_favourite_user_id ON favourite_hotel(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notify_queue_status ON notify_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
