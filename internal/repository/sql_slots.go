package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SQLSlots stores slots in the roster_slots table (see database.Migrate).
type SQLSlots struct {
	db *sql.DB
}

// NewSQLSlots constructs a SQLSlots with the provided DB handle.
func NewSQLSlots(db *sql.DB) *SQLSlots {
	return &SQLSlots{db: db}
}

// Get reads the payload of one slot.  ErrSlotNotFound is returned when no row
// exists for the key.
func (r *SQLSlots) Get(ctx context.Context, key string) ([]byte, error) {
	const q = "SELECT payload FROM roster_slots WHERE slot_key = ?"
	var payload []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Set upserts the payload of one slot.
func (r *SQLSlots) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO roster_slots (slot_key, payload) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, key, value)
	return err
}
