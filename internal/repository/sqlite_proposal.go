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

// SQLiteProposalRepo implements ProposalRepo using a SQLite database.
// Tallies live on the proposal row; ballots and voters in side tables keyed
// by proposal.
type SQLiteProposalRepo struct {
	db db.DBTX
}

func NewSQLiteProposalRepo(conn db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: conn}
}

const proposalColumns = `id, dao_id, name, description, kind, status, creator, recipient, amount,
	start_time, end_time, tally_for, tally_against, tally_abstain, created_at, resolved_at`

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	query := `INSERT INTO proposals (` + proposalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var amount any
	if p.Amount != nil {
		amount = int64(*p.Amount)
	}
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.DAOID,
		p.Name,
		p.Description,
		string(p.Kind),
		string(p.Status),
		p.Creator,
		nullableString(p.Recipient),
		amount,
		toMillis(p.StartTime),
		toMillis(p.EndTime),
		int64(p.Tally.For),
		int64(p.Tally.Against),
		int64(p.Tally.Abstain),
		toMillis(p.CreatedAt),
		nullableMillis(p.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = ?`
	p, err := scanProposal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProposalNotFound, id)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	if p.Ballots, err = r.loadBallots(ctx, id); err != nil {
		return nil, err
	}
	if p.Voters, err = r.loadVoters(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProposalRepo) ListByDAO(ctx context.Context, daoID string) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE dao_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, daoID)
}

// ListDue returns active proposals whose voting window has closed at now.
func (r *SQLiteProposalRepo) ListDue(ctx context.Context, now time.Time) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals
		WHERE status = 'active' AND end_time <= ? ORDER BY end_time, id`
	return r.list(ctx, query, toMillis(now))
}

// RecordVote persists the effects of one accepted vote: the ballot, the
// voter aggregate and the new tally. The tally write is guarded on the
// proposal still being active.
func (r *SQLiteProposalRepo) RecordVote(ctx context.Context, p *domain.Proposal, b domain.Ballot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO proposal_ballots (proposal_id, token_id, identity, vote_type, cast_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, b.TokenID, b.Identity, string(b.VoteType), toMillis(b.CastAt),
	)
	if err != nil {
		return fmt.Errorf("inserting ballot: %w", err)
	}

	v := p.Voters[b.Identity]
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO proposal_voters (proposal_id, identity, vote_count, locked) VALUES (?, ?, ?, ?)
		ON CONFLICT (proposal_id, identity) DO UPDATE SET vote_count = excluded.vote_count`,
		p.ID, b.Identity, int64(v.Count), string(v.Locked),
	)
	if err != nil {
		return fmt.Errorf("upserting voter: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET tally_for = ?, tally_against = ?, tally_abstain = ? WHERE id = ? AND status = 'active'`,
		int64(p.Tally.For), int64(p.Tally.Against), int64(p.Tally.Abstain), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tally: %w", err)
	}
	return expectOneRow(res, "updating tally")
}

// UpdateStatus writes a terminal status. It succeeds only for the first
// caller: once the stored row has left active, ErrWrongStatus is returned.
func (r *SQLiteProposalRepo) UpdateStatus(ctx context.Context, p *domain.Proposal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET status = ?, resolved_at = ? WHERE id = ? AND status = 'active'`,
		string(p.Status), nullableMillis(p.ResolvedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating proposal status: %w", err)
	}
	return expectOneRow(res, "updating proposal status")
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: %w", op, domain.ErrWrongStatus)
	}
	return nil
}

func (r *SQLiteProposalRepo) loadBallots(ctx context.Context, proposalID string) (map[string]domain.Ballot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token_id, identity, vote_type, cast_at FROM proposal_ballots WHERE proposal_id = ?`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing ballots: %w", err)
	}
	defer rows.Close()

	ballots := map[string]domain.Ballot{}
	for rows.Next() {
		var b domain.Ballot
		var voteType string
		var castAt int64
		if err := rows.Scan(&b.TokenID, &b.Identity, &voteType, &castAt); err != nil {
			return nil, fmt.Errorf("scanning ballot row: %w", err)
		}
		b.VoteType = domain.VoteType(voteType)
		b.CastAt = fromMillis(castAt)
		ballots[b.TokenID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ballots: %w", err)
	}
	return ballots, nil
}

func (r *SQLiteProposalRepo) loadVoters(ctx context.Context, proposalID string) (map[string]domain.Voter, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT identity, vote_count, locked FROM proposal_voters WHERE proposal_id = ?`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing voters: %w", err)
	}
	defer rows.Close()

	voters := map[string]domain.Voter{}
	for rows.Next() {
		var v domain.Voter
		var count int64
		var locked string
		if err := rows.Scan(&v.Identity, &count, &locked); err != nil {
			return nil, fmt.Errorf("scanning voter row: %w", err)
		}
		v.Count = uint64(count)
		v.Locked = domain.VoteType(locked)
		voters[v.Identity] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating voters: %w", err)
	}
	return voters, nil
}

func (r *SQLiteProposalRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Proposal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposal row: %w", err)
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}
	return proposals, nil
}

func scanProposal(row scanner) (*domain.Proposal, error) {
	var p domain.Proposal
	var kind, status string
	var recipient sql.NullString
	var amount, resolvedAt sql.NullInt64
	var start, end, tFor, tAgainst, tAbstain, createdAt int64

	err := row.Scan(
		&p.ID, &p.DAOID, &p.Name, &p.Description,
		&kind, &status, &p.Creator, &recipient, &amount,
		&start, &end, &tFor, &tAgainst, &tAbstain,
		&createdAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = domain.ProposalKind(kind)
	p.Status = domain.ProposalStatus(status)
	p.Recipient = parseNullableString(recipient)
	if amount.Valid {
		a := domain.Amount(amount.Int64)
		p.Amount = &a
	}
	p.StartTime = fromMillis(start)
	p.EndTime = fromMillis(end)
	p.Tally = domain.Tally{For: uint64(tFor), Against: uint64(tAgainst), Abstain: uint64(tAbstain)}
	p.CreatedAt = fromMillis(createdAt)
	p.ResolvedAt = parseNullableMillis(resolvedAt)
	return &p, nil
}
