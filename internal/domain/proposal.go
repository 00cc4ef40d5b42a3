package domain

import (
	"fmt"
	"strings"
	"time"
)

// Tally holds one counter per vote type.
type Tally struct {
	For     uint64
	Against uint64
	Abstain uint64
}

// Total is the number of counted ballots across all vote types.
func (t Tally) Total() uint64 {
	return t.For + t.Against + t.Abstain
}

func (t *Tally) add(v VoteType) {
	switch v {
	case VoteFor:
		t.For++
	case VoteAgainst:
		t.Against++
	case VoteAbstain:
		t.Abstain++
	}
}

// Ballot records that a token has been counted on a proposal.
type Ballot struct {
	TokenID  string
	Identity string
	VoteType VoteType
	CastAt   time.Time
}

// Voter aggregates the votes an identity has cast on a proposal. Locked is
// the direction of the first vote and binds every later one.
type Voter struct {
	Identity string
	Count    uint64
	Locked   VoteType
}

type Proposal struct {
	ID          string
	DAOID       string
	Name        string
	Description string
	Kind        ProposalKind
	Status      ProposalStatus
	Creator     string

	// Funding only
	Recipient *string
	Amount    *Amount

	// Voting window, fixed at creation
	StartTime time.Time
	EndTime   time.Time

	Tally   Tally
	Ballots map[string]Ballot
	Voters  map[string]Voter

	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// ProposalInput carries the caller-supplied fields of a new proposal.
type ProposalInput struct {
	Name        string
	Description string
	Kind        ProposalKind
	Recipient   *string
	Amount      *Amount
	Creator     string
}

// NewProposal builds an active proposal for d whose voting window opens
// after the DAO's voting delay and stays open for its voting period.
func NewProposal(id string, d *DAO, in ProposalInput, now time.Time) (*Proposal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProposalShape)
	}
	switch in.Kind {
	case ProposalFunding:
		if in.Recipient == nil || strings.TrimSpace(*in.Recipient) == "" || in.Amount == nil {
			return nil, fmt.Errorf("%w: funding proposal requires recipient and amount", ErrInvalidProposalShape)
		}
		if *in.Amount <= 0 {
			return nil, fmt.Errorf("%w: funding amount must be positive", ErrInvalidProposalShape)
		}
	case ProposalVoting:
		if in.Recipient != nil || in.Amount != nil {
			return nil, fmt.Errorf("%w: voting proposal must not carry recipient or amount", ErrInvalidProposalShape)
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidProposalShape, in.Kind)
	}

	start := now.Add(d.VotingDelay)
	end := start.Add(d.VotingPeriod)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: voting period must be positive", ErrInvalidDAOConfig)
	}

	return &Proposal{
		ID:          id,
		DAOID:       d.ID,
		Name:        in.Name,
		Description: in.Description,
		Kind:        in.Kind,
		Status:      ProposalActive,
		Creator:     in.Creator,
		Recipient:   in.Recipient,
		Amount:      in.Amount,
		StartTime:   start,
		EndTime:     end,
		Ballots:     map[string]Ballot{},
		Voters:      map[string]Voter{},
		CreatedAt:   now,
	}, nil
}

func (p *Proposal) IsFunding() bool {
	return p.Kind == ProposalFunding
}

// IsOpen reports whether votes are accepted at now. Both window bounds are
// inclusive.
func (p *Proposal) IsOpen(now time.Time) bool {
	return p.Status == ProposalActive && !now.Before(p.StartTime) && !now.After(p.EndTime)
}

// CastVote counts one vote by tokenID on behalf of identity. Counting is per
// token; the direction lock is per identity, so an identity holding several
// tokens may add weight to its first choice but never split it.
// On error the proposal is unchanged.
func (p *Proposal) CastVote(tokenID, identity string, vt VoteType, now time.Time) (Ballot, error) {
	if p.Status != ProposalActive {
		return Ballot{}, fmt.Errorf("%w: status is %s", ErrWrongStatus, p.Status)
	}
	if now.Before(p.StartTime) {
		return Ballot{}, ErrVotingNotStarted
	}
	if now.After(p.EndTime) {
		return Ballot{}, ErrVotingEnded
	}
	if _, ok := p.Ballots[tokenID]; ok {
		return Ballot{}, fmt.Errorf("%w: token %s", ErrAlreadyVoted, tokenID)
	}
	if !vt.Valid() {
		return Ballot{}, fmt.Errorf("%w: %q", ErrInvalidVoteType, vt)
	}
	voter, seen := p.Voters[identity]
	if seen && voter.Locked != "" && voter.Locked != vt {
		return Ballot{}, fmt.Errorf("%w: %s is locked to %s", ErrConflictingVoteDirection, identity, voter.Locked)
	}

	if p.Ballots == nil {
		p.Ballots = map[string]Ballot{}
	}
	if p.Voters == nil {
		p.Voters = map[string]Voter{}
	}

	b := Ballot{TokenID: tokenID, Identity: identity, VoteType: vt, CastAt: now}
	p.Tally.add(vt)
	p.Ballots[tokenID] = b
	voter.Identity = identity
	voter.Count++
	if voter.Locked == "" {
		voter.Locked = vt
	}
	p.Voters[identity] = voter
	return b, nil
}

// Cancel withdraws the proposal before its voting window opens.
func (p *Proposal) Cancel(caller string, now time.Time) error {
	if caller != p.Creator {
		return ErrNotCreator
	}
	if p.Status != ProposalActive {
		return fmt.Errorf("%w: status is %s", ErrWrongStatus, p.Status)
	}
	if !now.Before(p.StartTime) {
		return ErrVotingAlreadyStarted
	}
	p.Status = ProposalCanceled
	p.ResolvedAt = &now
	return nil
}

// Outcome applies the resolution rule to the current tally. Quorum is
// checked first; ties are defeated.
func (p *Proposal) Outcome(quorum uint64) ProposalStatus {
	if p.Tally.Total() < quorum {
		return ProposalDefeated
	}
	if p.Tally.For > p.Tally.Against {
		return ProposalExecuted
	}
	return ProposalDefeated
}

// EnsureResolvable fails unless the proposal is active and its window has
// closed at now.
func (p *Proposal) EnsureResolvable(now time.Time) error {
	if p.Status != ProposalActive {
		return fmt.Errorf("%w: status is %s", ErrWrongStatus, p.Status)
	}
	if now.Before(p.EndTime) {
		return ErrVotingNotEnded
	}
	return nil
}

// Payout describes the treasury transfer made by an executed funding
// proposal.
type Payout struct {
	Recipient string
	Amount    Amount
}

// Resolve moves the proposal into its terminal status under d's quorum.
// An executed funding proposal debits d's treasury; when the treasury cannot
// cover the amount neither the proposal nor the treasury changes.
func (p *Proposal) Resolve(d *DAO, now time.Time) (*Payout, error) {
	if err := p.EnsureResolvable(now); err != nil {
		return nil, err
	}
	status := p.Outcome(d.Quorum)

	var payout *Payout
	if status == ProposalExecuted && p.IsFunding() {
		if err := d.Treasury.Debit(*p.Amount); err != nil {
			return nil, err
		}
		payout = &Payout{Recipient: *p.Recipient, Amount: *p.Amount}
		d.UpdatedAt = now
	}

	p.Status = status
	p.ResolvedAt = &now
	return payout, nil
}
