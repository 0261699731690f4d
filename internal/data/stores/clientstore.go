package stores

import (
	"context"
	"fmt"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/data/db"
)

// ClientStore implements task.ClientStore using SQLite.
type ClientStore struct {
	db *db.DB
}

var _ task.ClientStore = (*ClientStore)(nil)

// NewClientStore creates a new SQLite-backed client store.
func NewClientStore(db *db.DB) *ClientStore {
	return &ClientStore{db: db}
}

// List returns all clients ordered by id.
func (s *ClientStore) List(ctx context.Context) ([]task.Client, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT id, name, client_name, client_id, status, deleted FROM clients ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []task.Client
	for rows.Next() {
		var (
			c       task.Client
			status  string
			deleted int
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.ClientName, &c.ClientID, &status, &deleted); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.Status = task.ClientStatus(status)
		c.Deleted = deleted != 0
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

// Upsert creates or replaces a client record. Used by the snapshot import
// path, where the pushed record is the source of truth.
func (s *ClientStore) Upsert(ctx context.Context, c task.Client) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO clients (id, name, client_name, client_id, status, deleted)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			client_name = excluded.client_name,
			client_id = excluded.client_id,
			status = excluded.status,
			deleted = excluded.deleted`,
		c.ID, c.Name, c.ClientName, c.ClientID, string(c.Status), boolToInt(c.Deleted),
	)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}
