package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
)

// SQLiteTreasuryRepo journals treasury movements. The running balance is
// kept on the DAO row; this journal is what recipient receipts are read from.
type SQLiteTreasuryRepo struct {
	db db.DBTX
}

func NewSQLiteTreasuryRepo(conn db.DBTX) *SQLiteTreasuryRepo {
	return &SQLiteTreasuryRepo{db: conn}
}

func (r *SQLiteTreasuryRepo) Record(ctx context.Context, m *domain.TreasuryMovement) error {
	query := `INSERT INTO treasury_movements (id, dao_id, direction, party, amount, proposal_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.DAOID,
		string(m.Direction),
		m.Party,
		int64(m.Amount),
		nullableString(m.ProposalID),
		toMillis(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting treasury movement: %w", err)
	}
	return nil
}

func (r *SQLiteTreasuryRepo) ListByDAO(ctx context.Context, daoID string) ([]*domain.TreasuryMovement, error) {
	query := `SELECT id, dao_id, direction, party, amount, proposal_id, created_at
		FROM treasury_movements WHERE dao_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, daoID)
	if err != nil {
		return nil, fmt.Errorf("listing treasury movements: %w", err)
	}
	defer rows.Close()

	var movements []*domain.TreasuryMovement
	for rows.Next() {
		var m domain.TreasuryMovement
		var direction string
		var amount, createdAt int64
		var proposalID sql.NullString
		if err := rows.Scan(&m.ID, &m.DAOID, &direction, &m.Party, &amount, &proposalID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning treasury movement row: %w", err)
		}
		m.Direction = domain.MovementDirection(direction)
		m.Amount = domain.Amount(amount)
		m.ProposalID = parseNullableString(proposalID)
		m.CreatedAt = fromMillis(createdAt)
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating treasury movements: %w", err)
	}
	return movements, nil
}

// ReceivedBy sums every payout made to party across all DAOs.
func (r *SQLiteTreasuryRepo) ReceivedBy(ctx context.Context, party string) (domain.Amount, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM treasury_movements WHERE party = ? AND direction = 'payout'`,
		party,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing payouts: %w", err)
	}
	return domain.Amount(total), nil
}
