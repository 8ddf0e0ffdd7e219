package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"innkeep/internal/config"

	"github.com/rs/zerolog"
)

// BackupRunner snapshots the live database on a schedule. Backups run over
// the existing connection pool with VACUUM INTO, which is safe against
// concurrent writers; a plain file copy is only a fallback.
type BackupRunner struct {
	db     *DB
	dbPath string
	config config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupRunner(db *DB, dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupRunner {
	return &BackupRunner{
		db:     db,
		dbPath: dbPath,
		config: cfg,
		logger: logger,
	}
}

func (r *BackupRunner) Start(ctx context.Context) {
	if !r.config.Enabled {
		r.logger.Info().Msg("Backups are disabled")
		return
	}

	interval := 24 * time.Hour
	if r.config.Schedule != "" {
		if d, err := time.ParseDuration(r.config.Schedule); err == nil {
			interval = d
		} else {
			r.logger.Warn().Err(err).Str("schedule", r.config.Schedule).Msg("Failed to parse backup schedule, using default 24h")
		}
	}

	r.logger.Info().Dur("interval", interval).Msg("Backup runner started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := r.BackupNow(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.BackupNow(ctx); err != nil {
				r.logger.Error().Err(err).Msg("Scheduled backup failed")
			}
			r.pruneOldBackups()
		}
	}
}

func (r *BackupRunner) BackupNow(ctx context.Context) error {
	if err := os.MkdirAll(r.config.StoragePath, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(r.config.StoragePath, fmt.Sprintf("backup_%s.db", timestamp))

	_, err := r.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", backupPath))
	if err != nil {
		r.logger.Warn().Err(err).Msg("VACUUM INTO failed, falling back to file copy")
		return r.copyFallback(backupPath)
	}

	r.logger.Info().Str("path", backupPath).Msg("Backup completed")
	return nil
}

func (r *BackupRunner) copyFallback(backupPath string) error {
	source, err := os.Open(r.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	// A raw copy of a database under write load can come out corrupted.
	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	r.logger.Info().Str("path", backupPath).Msg("Fallback backup completed")
	return nil
}

func (r *BackupRunner) pruneOldBackups() {
	if r.config.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(r.config.StoragePath)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -r.config.RetentionDays)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			r.logger.Info().Str("file", file.Name()).Msg("Deleting old backup")
			os.Remove(filepath.Join(r.config.StoragePath, file.Name()))
		}
	}
}
