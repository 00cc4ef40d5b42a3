package domain

import "time"

// Event is an immutable governance notification for external observers.
// Fields not relevant to a kind are left empty.
type Event struct {
	ID         string
	Kind       EventKind
	DAOID      string
	ProposalID string
	Name       string
	Actor      string
	VoteType   VoteType
	Status     ProposalStatus
	Amount     Amount
	At         time.Time
}

func DAOCreatedEvent(id string, d *DAO) Event {
	return Event{ID: id, Kind: EventDAOCreated, DAOID: d.ID, Name: d.Name, Actor: d.Creator, At: d.CreatedAt}
}

func TreasuryDepositedEvent(id, daoID, from string, amount Amount, now time.Time) Event {
	return Event{ID: id, Kind: EventTreasuryDeposited, DAOID: daoID, Actor: from, Amount: amount, At: now}
}

func ProposalCreatedEvent(id string, p *Proposal) Event {
	return Event{
		ID:         id,
		Kind:       EventProposalCreated,
		DAOID:      p.DAOID,
		ProposalID: p.ID,
		Name:       p.Name,
		Actor:      p.Creator,
		At:         p.CreatedAt,
	}
}

func ProposalCanceledEvent(id string, p *Proposal, now time.Time) Event {
	return Event{
		ID:         id,
		Kind:       EventProposalCanceled,
		DAOID:      p.DAOID,
		ProposalID: p.ID,
		Name:       p.Name,
		Actor:      p.Creator,
		Status:     p.Status,
		At:         now,
	}
}

func VoteCastEvent(id string, p *Proposal, b Ballot) Event {
	return Event{
		ID:         id,
		Kind:       EventVoteCast,
		DAOID:      p.DAOID,
		ProposalID: p.ID,
		Name:       p.Name,
		Actor:      b.Identity,
		VoteType:   b.VoteType,
		At:         b.CastAt,
	}
}

// ProposalResolvedEvent carries the final status. Amount is set only when
// the resolution paid out.
func ProposalResolvedEvent(id string, p *Proposal, payout *Payout, now time.Time) Event {
	e := Event{
		ID:         id,
		Kind:       EventProposalResolved,
		DAOID:      p.DAOID,
		ProposalID: p.ID,
		Name:       p.Name,
		Status:     p.Status,
		At:         now,
	}
	if payout != nil {
		e.Actor = payout.Recipient
		e.Amount = payout.Amount
	}
	return e
}
