package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/gala-seating/internal/model"
)

// RegistrationRepo is the Registration Store.  Every update reports the
// number of affected rows so callers can verify that a write landed.
// Waitlisted rows are never written by the seating methods.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo constructs a RegistrationRepo with the given DB handle.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo {
	return &RegistrationRepo{db: db}
}

const registrationColumns = `id, type, headcount, contact_name, phone, inviter, status, table_no, seat_zone, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(s rowScanner) (model.Registration, error) {
	var (
		r       model.Registration
		phone   sql.NullString
		inviter sql.NullString
		tableNo sql.NullInt64
		zone    sql.NullString
	)
	err := s.Scan(&r.ID, &r.Type, &r.Headcount, &r.ContactName, &phone, &inviter,
		&r.Status, &tableNo, &zone, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	r.Phone = phone.String
	r.Inviter = inviter.String
	// a half-set row is treated as unassigned
	if tableNo.Valid && zone.Valid {
		n := int(tableNo.Int64)
		z := model.SeatZone(zone.String)
		r.TableNo, r.SeatZone = &n, &z
	}
	return r, nil
}

func (r *RegistrationRepo) query(ctx context.Context, q string, args ...any) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListActive returns every registration that is not waitlisted, oldest
// first.
func (r *RegistrationRepo) ListActive(ctx context.Context) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + `
	           FROM registrations
	           WHERE status <> 'waitlist'
	           ORDER BY created_at, id`
	return r.query(ctx, q)
}

// List returns every registration, waitlist included, oldest first.
// Duplicate detection spans all statuses, so callers filter afterwards.
func (r *RegistrationRepo) List(ctx context.Context) ([]model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at, id`
	return r.query(ctx, q)
}

// GetByID fetches one registration.
func (r *RegistrationRepo) GetByID(ctx context.Context, id string) (model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Registration{}, ErrRegistrationNotFound
	}
	return reg, err
}

// UpdateByID sets or clears the table and zone of one active
// registration and returns the number of affected rows.
func (r *RegistrationRepo) UpdateByID(ctx context.Context, id string, tableNo *int, zone *model.SeatZone) (int64, error) {
	if (tableNo == nil) != (zone == nil) {
		return 0, ErrInconsistentAssignment
	}
	var (
		tbl sql.NullInt64
		zn  sql.NullString
	)
	if tableNo != nil {
		tbl = sql.NullInt64{Int64: int64(*tableNo), Valid: true}
		zn = sql.NullString{String: string(*zone), Valid: true}
	}
	const q = `UPDATE registrations
	           SET table_no = ?, seat_zone = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status <> 'waitlist'`
	res, err := r.db.ExecContext(ctx, q, tbl, zn, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateByIDSet clears table and zone for every listed active
// registration in one statement and returns the number of affected rows.
func (r *RegistrationRepo) UpdateByIDSet(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `UPDATE registrations
	      SET table_no = NULL, seat_zone = NULL, updated_at = CURRENT_TIMESTAMP
	      WHERE status <> 'waitlist' AND id IN (` + placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
