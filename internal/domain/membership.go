package domain

import (
	"fmt"
	"time"
)

// Token is a membership token presented by reference. It is inspected to
// establish eligibility and is never consumed or transferred.
type Token struct {
	ID       string
	Type     string
	Holder   string
	Origin   string
	IssuedAt time.Time
}

// Eligibility decides whether a presented token qualifies for a DAO.
// The same check runs at proposal creation and at vote time.
type Eligibility interface {
	Check(t *Token) error
}

// BaseMembership accepts any token of the declared membership type.
type BaseMembership struct {
	Type string
}

func (m BaseMembership) Check(t *Token) error {
	if t == nil || t.Type != m.Type {
		return ErrNotEligible
	}
	return nil
}

// ScopedMembership layers an origin filter on top of the base check.
type ScopedMembership struct {
	Base   BaseMembership
	Origin string
}

func (m ScopedMembership) Check(t *Token) error {
	if err := m.Base.Check(t); err != nil {
		return err
	}
	if t.Origin != m.Origin {
		return fmt.Errorf("%w: want origin %q, got %q", ErrScopeMismatch, m.Origin, t.Origin)
	}
	return nil
}

// EligibilityFor returns the predicate that gates d.
func EligibilityFor(d *DAO) Eligibility {
	base := BaseMembership{Type: d.MembershipType}
	if d.Origin == nil {
		return base
	}
	return ScopedMembership{Base: base, Origin: *d.Origin}
}

// Present checks that identity holds t and that t satisfies the predicate.
func Present(e Eligibility, t *Token, identity string) error {
	if t == nil {
		return ErrNotEligible
	}
	if t.Holder != identity {
		return ErrTokenNotHeld
	}
	return e.Check(t)
}
