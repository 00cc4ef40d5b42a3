package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/agora/internal/db"
)

// SQLiteRegistryRepo implements RegistryRepo. Entries are never updated or
// removed; List returns children in append order.
type SQLiteRegistryRepo struct {
	db db.DBTX
}

func NewSQLiteRegistryRepo(conn db.DBTX) *SQLiteRegistryRepo {
	return &SQLiteRegistryRepo{db: conn}
}

func (r *SQLiteRegistryRepo) Append(ctx context.Context, parentID, childID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registry_entries (parent_id, child_id, appended_at) VALUES (?, ?, ?)`,
		parentID, childID, toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("appending registry entry: %w", err)
	}
	return nil
}

func (r *SQLiteRegistryRepo) List(ctx context.Context, parentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT child_id FROM registry_entries WHERE parent_id = ? ORDER BY seq`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing registry entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning registry entry: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry entries: %w", err)
	}
	return ids, nil
}
