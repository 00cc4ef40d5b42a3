package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
)

// SQLiteTokenRepo implements TokenRepo using a SQLite database.
type SQLiteTokenRepo struct {
	db db.DBTX
}

func NewSQLiteTokenRepo(conn db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: conn}
}

func (r *SQLiteTokenRepo) Create(ctx context.Context, t *domain.Token) error {
	query := `INSERT INTO tokens (id, type, holder, origin, issued_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Type, t.Holder, t.Origin, toMillis(t.IssuedAt))
	if err != nil {
		return fmt.Errorf("inserting token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	query := `SELECT id, type, holder, origin, issued_at FROM tokens WHERE id = ?`
	t, err := scanToken(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTokenNotFound, id)
		}
		return nil, fmt.Errorf("scanning token: %w", err)
	}
	return t, nil
}

func (r *SQLiteTokenRepo) List(ctx context.Context) ([]*domain.Token, error) {
	return r.list(ctx, `SELECT id, type, holder, origin, issued_at FROM tokens ORDER BY issued_at, id`)
}

func (r *SQLiteTokenRepo) ListByHolder(ctx context.Context, holder string) ([]*domain.Token, error) {
	return r.list(ctx, `SELECT id, type, holder, origin, issued_at FROM tokens WHERE holder = ? ORDER BY issued_at, id`, holder)
}

func (r *SQLiteTokenRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Token, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning token row: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tokens: %w", err)
	}
	return tokens, nil
}

func scanToken(row scanner) (*domain.Token, error) {
	var t domain.Token
	var issuedAt int64
	if err := row.Scan(&t.ID, &t.Type, &t.Holder, &t.Origin, &issuedAt); err != nil {
		return nil, err
	}
	t.IssuedAt = fromMillis(issuedAt)
	return &t, nil
}
