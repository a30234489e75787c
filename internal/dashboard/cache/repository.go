// Package cache keeps a local sqlite snapshot of the last successfully
// fetched archive, so the dashboard shows the prior dataset across feed
// outages and restarts instead of an empty table.
package cache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/sastro1825/monitoringsuhu/internal/dashboard/archive"
)

//go:embed sql/create-archive-table.sql
var createArchiveTableSQL string

//go:embed sql/delete-records.sql
var deleteRecordsSQL string

//go:embed sql/insert-record.sql
var insertRecordSQL string

//go:embed sql/get-records.sql
var getRecordsSQL string

type ArchiveRepository interface {
	// Replace swaps the cached snapshot for the given records atomically.
	Replace(records []archive.Record) error
	// Load returns the cached snapshot in display order.
	Load() ([]archive.Record, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (ArchiveRepository, error) {
	if _, err := db.Exec(createArchiveTableSQL); err != nil {
		return nil, fmt.Errorf("create archive table: %w", err)
	}
	return &repositoryImpl{db: db}, nil
}

func (r *repositoryImpl) Replace(records []archive.Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			slog.Error("rollback archive replace", "error", rollbackErr)
		}
	}()

	if _, err := tx.Exec(deleteRecordsSQL); err != nil {
		return fmt.Errorf("clear archive cache: %w", err)
	}
	for _, rec := range records {
		_, err := tx.Exec(insertRecordSQL,
			rec.DisplayIndex, rec.Date, rec.Time,
			rec.Temperature, rec.Humidity, rec.GasPPM,
			rec.DeviceIP, rec.SignalDBM,
		)
		if err != nil {
			return fmt.Errorf("insert archive record %d: %w", rec.DisplayIndex, err)
		}
	}
	return tx.Commit()
}

func (r *repositoryImpl) Load() ([]archive.Record, error) {
	rows, err := r.db.Query(getRecordsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close archive rows", "error", err)
		}
	}()

	var out []archive.Record
	for rows.Next() {
		var rec archive.Record
		if err := rows.Scan(
			&rec.DisplayIndex, &rec.Date, &rec.Time,
			&rec.Temperature, &rec.Humidity, &rec.GasPPM,
			&rec.DeviceIP, &rec.SignalDBM,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
