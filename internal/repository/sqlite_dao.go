package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
)

// SQLiteDAORepo implements DAORepo using a SQLite database.
type SQLiteDAORepo struct {
	db db.DBTX
}

func NewSQLiteDAORepo(conn db.DBTX) *SQLiteDAORepo {
	return &SQLiteDAORepo{db: conn}
}

const daoColumns = `id, parent_id, name, description, membership_type, origin, quorum,
	voting_delay_ms, voting_period_ms, treasury, creator, version, created_at, updated_at`

func (r *SQLiteDAORepo) Create(ctx context.Context, d *domain.DAO) error {
	query := `INSERT INTO daos (` + daoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		nullableString(d.ParentID),
		d.Name,
		d.Description,
		d.MembershipType,
		nullableString(d.Origin),
		int64(d.Quorum),
		d.VotingDelay.Milliseconds(),
		d.VotingPeriod.Milliseconds(),
		int64(d.Treasury.Balance),
		d.Creator,
		d.Version,
		toMillis(d.CreatedAt),
		toMillis(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dao: %w", err)
	}
	return nil
}

func (r *SQLiteDAORepo) GetByID(ctx context.Context, id string) (*domain.DAO, error) {
	query := `SELECT ` + daoColumns + ` FROM daos WHERE id = ?`
	d, err := scanDAO(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDAONotFound, id)
		}
		return nil, fmt.Errorf("scanning dao: %w", err)
	}
	return d, nil
}

func (r *SQLiteDAORepo) List(ctx context.Context) ([]*domain.DAO, error) {
	query := `SELECT ` + daoColumns + ` FROM daos ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *SQLiteDAORepo) ListChildren(ctx context.Context, parentID string) ([]*domain.DAO, error) {
	query := `SELECT ` + daoColumns + ` FROM daos WHERE parent_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, parentID)
}

func (r *SQLiteDAORepo) UpdateTreasury(ctx context.Context, d *domain.DAO) error {
	query := `UPDATE daos SET treasury = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, int64(d.Treasury.Balance), toMillis(d.UpdatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("updating dao treasury: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating dao treasury: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDAONotFound, d.ID)
	}
	return nil
}

func (r *SQLiteDAORepo) list(ctx context.Context, query string, args ...any) ([]*domain.DAO, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing daos: %w", err)
	}
	defer rows.Close()

	var daos []*domain.DAO
	for rows.Next() {
		d, err := scanDAO(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dao row: %w", err)
		}
		daos = append(daos, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daos: %w", err)
	}
	return daos, nil
}

func scanDAO(row scanner) (*domain.DAO, error) {
	var d domain.DAO
	var parentID, origin sql.NullString
	var quorum, delayMS, periodMS, treasury, createdAt, updatedAt int64

	err := row.Scan(
		&d.ID, &parentID, &d.Name, &d.Description,
		&d.MembershipType, &origin, &quorum,
		&delayMS, &periodMS, &treasury,
		&d.Creator, &d.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.ParentID = parseNullableString(parentID)
	d.Origin = parseNullableString(origin)
	d.Quorum = uint64(quorum)
	d.VotingDelay = time.Duration(delayMS) * time.Millisecond
	d.VotingPeriod = time.Duration(periodMS) * time.Millisecond
	d.Treasury.Balance = domain.Amount(treasury)
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return &d, nil
}
