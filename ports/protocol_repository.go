package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProtocolSnapshot is a stored serialization of a protocol at save time. The
// preamble text is the canonical persisted form; the snapshot store never
// interprets it.
type ProtocolSnapshot struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Device   string    `db:"device"`
	Preamble string    `db:"preamble"`
	SavedAt  time.Time `db:"saved_at"`
}

// ProtocolRepository stores named protocol snapshots.
type ProtocolRepository interface {
	Save(ctx context.Context, snap ProtocolSnapshot) error
	Latest(ctx context.Context, name string) (*ProtocolSnapshot, error)
	List(ctx context.Context, limit int) ([]ProtocolSnapshot, error)
}
