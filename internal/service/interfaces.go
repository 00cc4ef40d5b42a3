package service

import (
	"context"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
)

// GovernanceParams are the voting rules a DAO is created with.
type GovernanceParams struct {
	Quorum       uint64
	VotingDelay  time.Duration
	VotingPeriod time.Duration
}

type CreateDAORequest struct {
	Name           string
	Description    string
	MembershipType string
	Params         GovernanceParams
	Creator        string
	// TokenID is the token presented under the token creation policy.
	TokenID string
	Now     time.Time
}

type CreateSubDAORequest struct {
	ParentID    string
	Name        string
	Description string
	Origin      string
	// Params nil inherits the parent's governance parameters.
	Params  *GovernanceParams
	Creator string
	TokenID string
	Now     time.Time
}

type DAOService interface {
	Create(ctx context.Context, req CreateDAORequest) (*domain.DAO, error)
	CreateSub(ctx context.Context, req CreateSubDAORequest) (*domain.DAO, error)
	GetByID(ctx context.Context, id string) (*domain.DAO, error)
	List(ctx context.Context) ([]*domain.DAO, error)
	// Registered lists the DAO ids appended under parentID, in append order.
	// Root DAOs are registered under domain.HubID.
	Registered(ctx context.Context, parentID string) ([]string, error)
}

type MintTokenRequest struct {
	Type   string
	Holder string
	Origin string
	Now    time.Time
}

type TokenService interface {
	Mint(ctx context.Context, req MintTokenRequest) (*domain.Token, error)
	GetByID(ctx context.Context, id string) (*domain.Token, error)
	// List returns every token, or only holder's when holder is non-empty.
	List(ctx context.Context, holder string) ([]*domain.Token, error)
}

type CreateProposalRequest struct {
	DAOID       string
	TokenID     string
	Identity    string
	Name        string
	Description string
	Kind        domain.ProposalKind
	Recipient   *string
	Amount      *domain.Amount
	Now         time.Time
}

// Resolution is the outcome of resolving one proposal. Payout is set when an
// executed funding proposal moved treasury funds.
type Resolution struct {
	Proposal *domain.Proposal
	Payout   *domain.Payout
}

// SweepFailure records a proposal that ResolveDue could not resolve.
type SweepFailure struct {
	ProposalID string
	Err        error
}

type SweepResult struct {
	Resolved []Resolution
	Failed   []SweepFailure
}

type ProposalService interface {
	Create(ctx context.Context, req CreateProposalRequest) (*domain.Proposal, error)
	Cancel(ctx context.Context, proposalID, identity string, now time.Time) (*domain.Proposal, error)
	Resolve(ctx context.Context, proposalID string, now time.Time) (*Resolution, error)
	// ResolveDue resolves every active proposal whose window has closed at
	// now. A failing proposal is reported and the sweep moves on.
	ResolveDue(ctx context.Context, now time.Time) (*SweepResult, error)
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListByDAO(ctx context.Context, daoID string) ([]*domain.Proposal, error)
}

type CastVoteRequest struct {
	ProposalID string
	TokenID    string
	Identity   string
	VoteType   domain.VoteType
	Now        time.Time
}

// VoteReceipt is what an accepted vote changed.
type VoteReceipt struct {
	Ballot domain.Ballot
	Tally  domain.Tally
	Voter  domain.Voter
}

type VoteService interface {
	Cast(ctx context.Context, req CastVoteRequest) (*VoteReceipt, error)
}

type TreasuryService interface {
	Deposit(ctx context.Context, daoID, from string, amount domain.Amount, now time.Time) (*domain.DAO, error)
	Balance(ctx context.Context, daoID string) (domain.Amount, error)
	Movements(ctx context.Context, daoID string) ([]*domain.TreasuryMovement, error)
	ReceivedBy(ctx context.Context, party string) (domain.Amount, error)
}

type EventService interface {
	// List returns the latest limit events, oldest first. An empty daoID
	// covers every DAO; a non-positive limit returns everything.
	List(ctx context.Context, daoID string, limit int) ([]domain.Event, error)
}
