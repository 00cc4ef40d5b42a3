package testutil

import (
	"time"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/google/uuid"
)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// DAO options
type DAOOption func(*domain.DAO)

func WithQuorum(q uint64) DAOOption {
	return func(d *domain.DAO) {
		d.Quorum = q
	}
}

func WithVotingWindow(delay, period time.Duration) DAOOption {
	return func(d *domain.DAO) {
		d.VotingDelay = delay
		d.VotingPeriod = period
	}
}

func WithTreasury(a domain.Amount) DAOOption {
	return func(d *domain.DAO) {
		d.Treasury.Balance = a
	}
}

func WithMembershipType(typ string) DAOOption {
	return func(d *domain.DAO) {
		d.MembershipType = typ
	}
}

// WithParent turns the fixture into a sub-DAO of parent scoped to origin.
func WithParent(parent *domain.DAO, origin string) DAOOption {
	return func(d *domain.DAO) {
		d.ParentID = &parent.ID
		d.Origin = &origin
		d.MembershipType = parent.MembershipType
	}
}

func WithVersion(v int) DAOOption {
	return func(d *domain.DAO) {
		d.Version = v
	}
}

func NewTestDAO(name string, opts ...DAOOption) *domain.DAO {
	d := &domain.DAO{
		ID:             uuid.New().String(),
		Name:           name,
		MembershipType: "guild-pass",
		Quorum:         1,
		VotingDelay:    time.Hour,
		VotingPeriod:   24 * time.Hour,
		Creator:        "alice",
		Version:        domain.CurrentVersion,
		CreatedAt:      Now,
		UpdatedAt:      Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Token options
type TokenOption func(*domain.Token)

func WithOrigin(origin string) TokenOption {
	return func(t *domain.Token) {
		t.Origin = origin
	}
}

func WithTokenType(typ string) TokenOption {
	return func(t *domain.Token) {
		t.Type = typ
	}
}

func NewTestToken(holder string, opts ...TokenOption) *domain.Token {
	t := &domain.Token{
		ID:       uuid.New().String(),
		Type:     "guild-pass",
		Holder:   holder,
		IssuedAt: Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Proposal options
type ProposalOption func(*domain.ProposalInput)

// WithFunding makes the proposal pay amount to recipient when executed.
func WithFunding(recipient string, amount domain.Amount) ProposalOption {
	return func(in *domain.ProposalInput) {
		in.Kind = domain.ProposalFunding
		in.Recipient = &recipient
		in.Amount = &amount
	}
}

func WithCreator(identity string) ProposalOption {
	return func(in *domain.ProposalInput) {
		in.Creator = identity
	}
}

// NewTestProposalInput returns a voting proposal created by alice.
func NewTestProposalInput(name string, opts ...ProposalOption) domain.ProposalInput {
	in := domain.ProposalInput{
		Name:    name,
		Kind:    domain.ProposalVoting,
		Creator: "alice",
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
