package domain

// CurrentVersion is the record layout version every DAO must carry before a
// mutating operation is accepted.
const CurrentVersion = 1

// HubID is the registry list that root DAOs are appended to.
const HubID = "hub"

type ProposalKind string

const (
	ProposalVoting  ProposalKind = "voting"
	ProposalFunding ProposalKind = "funding"
)

// ValidProposalKinds is the canonical set of accepted proposal kind strings.
var ValidProposalKinds = map[string]bool{
	"voting": true, "funding": true,
}

type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalCanceled ProposalStatus = "canceled"
	ProposalDefeated ProposalStatus = "defeated"
	ProposalExecuted ProposalStatus = "executed"
)

// IsTerminal reports whether no further transition is possible.
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalCanceled, ProposalDefeated, ProposalExecuted:
		return true
	default:
		return false
	}
}

type VoteType string

const (
	VoteFor     VoteType = "for"
	VoteAgainst VoteType = "against"
	VoteAbstain VoteType = "abstain"
)

// Valid reports whether v is one of for, against or abstain.
func (v VoteType) Valid() bool {
	switch v {
	case VoteFor, VoteAgainst, VoteAbstain:
		return true
	default:
		return false
	}
}

type CreationPolicy string

const (
	// CreationByToken lets anyone holding a token that satisfies the new
	// DAO's own membership predicate create it.
	CreationByToken CreationPolicy = "token"
	// CreationByAdmin restricts creation to configured admin identities.
	CreationByAdmin CreationPolicy = "admin"
)

type MovementDirection string

const (
	MovementDeposit MovementDirection = "deposit"
	MovementPayout  MovementDirection = "payout"
)

type EventKind string

const (
	EventDAOCreated        EventKind = "dao.created"
	EventTreasuryDeposited EventKind = "treasury.deposited"
	EventProposalCreated   EventKind = "proposal.created"
	EventProposalCanceled  EventKind = "proposal.canceled"
	EventVoteCast          EventKind = "vote.cast"
	EventProposalResolved  EventKind = "proposal.resolved"
)
