package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
)

// SQLiteEventRepo is the governance event outbox. Events are written in the
// same transaction as the change they describe.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

func (r *SQLiteEventRepo) Append(ctx context.Context, e domain.Event) error {
	query := `INSERT INTO governance_events (id, kind, dao_id, proposal_id, name, actor, vote_type, status, amount, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		string(e.Kind),
		e.DAOID,
		e.ProposalID,
		e.Name,
		e.Actor,
		string(e.VoteType),
		string(e.Status),
		int64(e.Amount),
		toMillis(e.At),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// List returns events oldest first. An empty daoID lists every DAO; a
// non-positive limit returns everything.
func (r *SQLiteEventRepo) List(ctx context.Context, daoID string, limit int) ([]domain.Event, error) {
	query := `SELECT id, kind, dao_id, proposal_id, name, actor, vote_type, status, amount, at
		FROM governance_events WHERE (? = '' OR dao_id = ?) ORDER BY seq`
	args := []any{daoID, daoID}
	if limit > 0 {
		query =`SELECT id, kind, dao_id, proposal_id, name, actor, vote_type, status, amount, at FROM (
			SELECT seq, id, kind, dao_id, proposal_id, name, actor, vote_type, status, amount, at
			FROM governance_events WHERE (? = '' OR dao_id = ?) ORDER BY seq DESC LIMIT ?
		) ORDER BY seq`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var kind, voteType, status string
		var amount, at int64
		if err := rows.Scan(&e.ID, &kind, &e.DAOID, &e.ProposalID, &e.Name, &e.Actor, &voteType, &status, &amount, &at); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		e.Kind = domain.EventKind(kind)
		e.VoteType = domain.VoteType(voteType)
		e.Status = domain.ProposalStatus(status)
		e.Amount = domain.Amount(amount)
		e.At = fromMillis(at)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
