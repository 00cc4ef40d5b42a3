package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
)

type DAORepo interface {
	Create(ctx context.Context, d *domain.DAO) error
	GetByID(ctx context.Context, id string) (*domain.DAO, error)
	List(ctx context.Context) ([]*domain.DAO, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.DAO, error)
	UpdateTreasury(ctx context.Context, d *domain.DAO) error
}

type TokenRepo interface {
	Create(ctx context.Context, t *domain.Token) error
	GetByID(ctx context.Context, id string) (*domain.Token, error)
	List(ctx context.Context) ([]*domain.Token, error)
	ListByHolder(ctx context.Context, holder string) ([]*domain.Token, error)
}

// ProposalRepo persists proposals together with their ballot and voter sets.
// GetByID loads both sets; list methods leave them nil.
type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListByDAO(ctx context.Context, daoID string) ([]*domain.Proposal, error)
	ListDue(ctx context.Context, now time.Time) ([]*domain.Proposal, error)
	RecordVote(ctx context.Context, p *domain.Proposal, b domain.Ballot) error
	UpdateStatus(ctx context.Context, p *domain.Proposal) error
}

type TreasuryRepo interface {
	Record(ctx context.Context, m *domain.TreasuryMovement) error
	ListByDAO(ctx context.Context, daoID string) ([]*domain.TreasuryMovement, error)
	ReceivedBy(ctx context.Context, party string) (domain.Amount, error)
}

// RegistryRepo is the append-only parent to child list of DAOs.
type RegistryRepo interface {
	Append(ctx context.Context, parentID, childID string, at time.Time) error
	List(ctx context.Context, parentID string) ([]string, error)
}

type EventRepo interface {
	Append(ctx context.Context, e domain.Event) error
	List(ctx context.Context, daoID string, limit int) ([]domain.Event, error)
}
