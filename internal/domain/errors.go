package domain

import "errors"

var (
	// Shape errors.
	ErrInvalidProposalShape = errors.New("invalid proposal shape")
	ErrInvalidVoteType      = errors.New("invalid vote type")
	ErrInvalidDAOConfig     = errors.New("invalid dao configuration")
	ErrInvalidAmount        = errors.New("invalid amount")

	// Authorization errors.
	ErrNotCreator     = errors.New("caller is not the proposal creator")
	ErrNotEligible    = errors.New("token does not qualify for this dao")
	ErrScopeMismatch  = errors.New("token origin does not match the dao scope")
	ErrTokenNotHeld   = errors.New("token is not held by the caller")
	ErrCreationDenied = errors.New("caller may not create a dao")

	// Timing errors.
	ErrVotingNotStarted     = errors.New("voting has not started")
	ErrVotingEnded          = errors.New("voting has ended")
	ErrVotingAlreadyStarted = errors.New("voting has already started")
	ErrVotingNotEnded       = errors.New("voting has not ended")

	// State errors.
	ErrWrongStatus     = errors.New("proposal is not active")
	ErrVersionMismatch = errors.New("dao record version is not supported")

	// Consistency errors.
	ErrAlreadyVoted             = errors.New("token has already voted on this proposal")
	ErrConflictingVoteDirection = errors.New("vote direction conflicts with an earlier vote by the same identity")

	// Resource errors.
	ErrInsufficientFunds = errors.New("insufficient treasury funds")

	// Lookup errors.
	ErrDAONotFound      = errors.New("dao not found")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrTokenNotFound    = errors.New("token not found")
)

// ErrorClass groups failures the way callers react to them.
type ErrorClass string

const (
	ClassShape         ErrorClass = "shape"
	ClassAuthorization ErrorClass = "authorization"
	ClassTiming        ErrorClass = "timing"
	ClassState         ErrorClass = "state"
	ClassConsistency   ErrorClass = "consistency"
	ClassResource      ErrorClass = "resource"
	ClassNotFound      ErrorClass = "not_found"
	ClassInternal      ErrorClass = "internal"
)

var errorClasses = []struct {
	err   error
	class ErrorClass
}{
	{ErrInvalidProposalShape, ClassShape},
	{ErrInvalidVoteType, ClassShape},
	{ErrInvalidDAOConfig, ClassShape},
	{ErrInvalidAmount, ClassShape},
	{ErrNotCreator, ClassAuthorization},
	{ErrNotEligible, ClassAuthorization},
	{ErrScopeMismatch, ClassAuthorization},
	{ErrTokenNotHeld, ClassAuthorization},
	{ErrCreationDenied, ClassAuthorization},
	{ErrVotingNotStarted, ClassTiming},
	{ErrVotingEnded, ClassTiming},
	{ErrVotingAlreadyStarted, ClassTiming},
	{ErrVotingNotEnded, ClassTiming},
	{ErrWrongStatus, ClassState},
	{ErrVersionMismatch, ClassState},
	{ErrAlreadyVoted, ClassConsistency},
	{ErrConflictingVoteDirection, ClassConsistency},
	{ErrInsufficientFunds, ClassResource},
	{ErrDAONotFound, ClassNotFound},
	{ErrProposalNotFound, ClassNotFound},
	{ErrTokenNotFound, ClassNotFound},
}

// ClassOf returns the class of the first known sentinel wrapped by err.
// Unknown errors are internal.
func ClassOf(err error) ErrorClass {
	for _, ec := range errorClasses {
		if errors.Is(err, ec.err) {
			return ec.class
		}
	}
	return ClassInternal
}
