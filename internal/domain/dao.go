package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DAO is a governed organization. A DAO with a ParentID and Origin is a
// scoped sub-DAO whose members must also carry the matching origin tag.
type DAO struct {
	ID          string
	ParentID    *string
	Name        string
	Description string

	// Membership
	MembershipType string
	Origin         *string

	// Governance parameters
	Quorum       uint64
	VotingDelay  time.Duration
	VotingPeriod time.Duration

	Treasury Treasury
	Creator  string
	Version  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsScoped reports whether d is a sub-DAO.
func (d *DAO) IsScoped() bool {
	return d.ParentID != nil
}

// Validate checks the governance parameters and the scope fields.
func (d *DAO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDAOConfig)
	}
	if strings.TrimSpace(d.MembershipType) == "" {
		return fmt.Errorf("%w: membership type is required", ErrInvalidDAOConfig)
	}
	if d.Quorum > math.MaxInt64 {
		return fmt.Errorf("%w: quorum %d is out of range", ErrInvalidDAOConfig, d.Quorum)
	}
	if d.VotingPeriod <= 0 {
		return fmt.Errorf("%w: voting period must be positive", ErrInvalidDAOConfig)
	}
	if d.VotingDelay < 0 {
		return fmt.Errorf("%w: voting delay must not be negative", ErrInvalidDAOConfig)
	}
	if d.IsScoped() && (d.Origin == nil || strings.TrimSpace(*d.Origin) == "") {
		return fmt.Errorf("%w: sub-dao requires an origin filter", ErrInvalidDAOConfig)
	}
	if !d.IsScoped() && d.Origin != nil {
		return fmt.Errorf("%w: origin filter is only valid on a sub-dao", ErrInvalidDAOConfig)
	}
	return nil
}

// CheckVersion rejects records written under a different layout version.
func (d *DAO) CheckVersion() error {
	if d.Version != CurrentVersion {
		return fmt.Errorf("%w: dao %s has version %d, want %d", ErrVersionMismatch, d.ID, d.Version, CurrentVersion)
	}
	return nil
}

// Treasury is the pooled balance of one DAO.
type Treasury struct {
	Balance Amount
}

// Deposit merges incoming funds into the balance.
func (t *Treasury) Deposit(amount Amount) error {
	if amount <= 0 {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidAmount)
	}
	if amount > math.MaxInt64-t.Balance {
		return fmt.Errorf("%w: deposit of %s would overflow balance %s", ErrInvalidAmount, amount, t.Balance)
	}
	t.Balance += amount
	return nil
}

// Debit removes amount from the balance. The balance is left untouched
// when it cannot cover the request.
func (t *Treasury) Debit(amount Amount) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit must be positive", ErrInvalidAmount)
	}
	if t.Balance < amount {
		return fmt.Errorf("%w: balance %s, need %s", ErrInsufficientFunds, t.Balance, amount)
	}
	t.Balance -= amount
	return nil
}

// TreasuryMovement journals one change to a DAO treasury.
type TreasuryMovement struct {
	ID         string
	DAOID      string
	Direction  MovementDirection
	Party      string
	Amount     Amount
	ProposalID *string
	CreatedAt  time.Time
}
