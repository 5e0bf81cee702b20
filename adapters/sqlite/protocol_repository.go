// Package sqlite stores protocol snapshots in a local SQLite database.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fsantini/nimpulseqgui/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS protocol_snapshots (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	device   TEXT NOT NULL DEFAULT '',
	preamble TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_name_saved ON protocol_snapshots (name, saved_at DESC);
`

// ProtocolRepositoryImpl implements ports.ProtocolRepository on SQLite.
type ProtocolRepositoryImpl struct {
	db *sqlx.DB
}

// Open connects to the snapshot database at path, creating the schema on
// first use.
func Open(path string) (*ProtocolRepositoryImpl, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &ProtocolRepositoryImpl{db: db}, nil
}

// NewProtocolRepository wraps an existing connection.
func NewProtocolRepository(db *sqlx.DB) ports.ProtocolRepository {
	return &ProtocolRepositoryImpl{db: db}
}

func (r *ProtocolRepositoryImpl) Save(ctx context.Context, snap ports.ProtocolSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO protocol_snapshots (id, name, device, preamble, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID.String(), snap.Name, snap.Device, snap.Preamble, snap.SavedAt)
	return err
}

func (r *ProtocolRepositoryImpl) Latest(ctx context.Context, name string) (*ports.ProtocolSnapshot, error) {
	var snap ports.ProtocolSnapshot
	err := r.db.GetContext(ctx, &snap, `
		SELECT id, name, device, preamble, saved_at
		FROM protocol_snapshots
		WHERE name = ?
		ORDER BY saved_at DESC
		LIMIT 1
	`, name)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *ProtocolRepositoryImpl) List(ctx context.Context, limit int) ([]ports.ProtocolSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	var snaps []ports.ProtocolSnapshot
	err := r.db.SelectContext(ctx, &snaps, `
		SELECT id, name, device, preamble, saved_at
		FROM protocol_snapshots
		ORDER BY saved_at DESC
		LIMIT ?
	`, limit)
	return snaps, err
}

func (r *ProtocolRepositoryImpl) Close() error {
	return r.db.Close()
}
