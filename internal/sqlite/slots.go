package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/byggkoll/internal/repository"
)

// CurrentSchemaVersion is stamped on every slot row written by this build.
const CurrentSchemaVersion = 1

// SlotRepository implements slots.Backend for SQLite
type SlotRepository struct {
	db *DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Get returns the raw payload of a slot
func (r *SlotRepository) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return []byte(payload), nil
}

// Put replaces the payload of a slot, creating it if needed
func (r *SlotRepository) Put(ctx context.Context, slot string, data []byte) error {
	query := `
		INSERT INTO slots (name, payload, schema_version, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, slot, string(data), CurrentSchemaVersion); err != nil {
		return fmt.Errorf("failed to put slot: %w", err)
	}
	return nil
}

// Delete removes a slot. Deleting an absent slot is not an error.
func (r *SlotRepository) Delete(ctx context.Context, slot string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, slot); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

// SchemaVersion reports the schema version a slot was written with.
func (r *SlotRepository) SchemaVersion(ctx context.Context, slot string) (int, error) {
	var version int
	err := r.db.QueryRowContext(ctx, `SELECT schema_version FROM slots WHERE name = ?`, slot).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Names lists the slots currently stored, in name order.
func (r *SlotRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM slots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
