package repository

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/iliyamo/gala-seating/internal/model"
)

const (
	settingTotalTables   = "total_tables"
	settingSeatsPerTable = "seats_per_table"
)

// SettingsRepo reads and writes the key/value system_settings table.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// GetSeatingSettings returns the venue layout.  Keys that are missing or
// not integers read as 1.  Stored zero or negative values are returned
// as-is for the caller to reject.
func (r *SettingsRepo) GetSeatingSettings(ctx context.Context) (model.SeatingSettings, error) {
	const q = "SELECT `key`, `value` FROM system_settings WHERE `key` IN (?, ?)"
	rows, err := r.db.QueryContext(ctx, q, settingTotalTables, settingSeatsPerTable)
	if err != nil {
		return model.SeatingSettings{}, err
	}
	defer rows.Close()

	set := model.SeatingSettings{TotalTables: 1, SeatsPerTable: 1}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return model.SeatingSettings{}, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch k {
		case settingTotalTables:
			set.TotalTables = n
		case settingSeatsPerTable:
			set.SeatsPerTable = n
		}
	}
	return set, rows.Err()
}

// UpdateSeatingSettings upserts both layout keys in one transaction.
func (r *SettingsRepo) UpdateSeatingSettings(ctx context.Context, s model.SeatingSettings) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = "INSERT INTO system_settings (`key`, `value`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `value` = VALUES(`value`)"
	kv := []struct {
		key string
		val int
	}{{settingTotalTables, s.TotalTables}, {settingSeatsPerTable, s.SeatsPerTable}}
	for _, e := range kv {
		if _, err := tx.ExecContext(ctx, q, e.key, strconv.Itoa(e.val)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
