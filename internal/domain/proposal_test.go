package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testDAO() *DAO {
	return &DAO{
		ID:             "dao-1",
		Name:           "Guild",
		MembershipType: "guild-pass",
		Quorum:         3,
		VotingDelay:    time.Hour,
		VotingPeriod:   24 * time.Hour,
		Creator:        "alice",
		Version:        CurrentVersion,
		CreatedAt:      testNow,
	}
}

func strPtr(s string) *string { return &s }

func amountPtr(a Amount) *Amount { return &a }

func newVotingProposal(t *testing.T, d *DAO) *Proposal {
	t.Helper()
	p, err := NewProposal("p-1", d, ProposalInput{Name: "Adopt charter", Kind: ProposalVoting, Creator: "alice"}, testNow)
	require.NoError(t, err)
	return p
}

func newFundingProposal(t *testing.T, d *DAO, amount Amount) *Proposal {
	t.Helper()
	p, err := NewProposal("p-2", d, ProposalInput{
		Name:      "Fund the festival",
		Kind:      ProposalFunding,
		Recipient: strPtr("bob"),
		Amount:    amountPtr(amount),
		Creator:   "alice",
	}, testNow)
	require.NoError(t, err)
	return p
}

func assertTallyMatchesBallots(t *testing.T, p *Proposal) {
	t.Helper()
	assert.Equal(t, uint64(len(p.Ballots)), p.Tally.Total())
}

func TestNewProposal_Window(t *testing.T) {
	d := testDAO()
	p := newVotingProposal(t, d)

	assert.Equal(t, testNow.Add(time.Hour), p.StartTime)
	assert.Equal(t, testNow.Add(25*time.Hour), p.EndTime)
	assert.Equal(t, ProposalActive, p.Status)
	assert.Equal(t, Tally{}, p.Tally)
	assert.Empty(t, p.Ballots)
	assert.Empty(t, p.Voters)
	assert.Equal(t, "dao-1", p.DAOID)
	assert.Nil(t, p.ResolvedAt)
}

func TestNewProposal_ZeroDelayOpensImmediately(t *testing.T) {
	d := testDAO()
	d.VotingDelay = 0
	p := newVotingProposal(t, d)
	assert.True(t, p.IsOpen(testNow))
}

func TestNewProposal_Shape(t *testing.T) {
	d := testDAO()
	cases := []struct {
		name string
		in   ProposalInput
	}{
		{"funding without recipient", ProposalInput{Name: "x", Kind: ProposalFunding, Amount: amountPtr(10)}},
		{"funding without amount", ProposalInput{Name: "x", Kind: ProposalFunding, Recipient: strPtr("bob")}},
		{"funding with zero amount", ProposalInput{Name: "x", Kind: ProposalFunding, Recipient: strPtr("bob"), Amount: amountPtr(0)}},
		{"funding with blank recipient", ProposalInput{Name: "x", Kind: ProposalFunding, Recipient: strPtr(" "), Amount: amountPtr(10)}},
		{"voting with recipient", ProposalInput{Name: "x", Kind: ProposalVoting, Recipient: strPtr("bob")}},
		{"voting with amount", ProposalInput{Name: "x", Kind: ProposalVoting, Amount: amountPtr(10)}},
		{"unknown kind", ProposalInput{Name: "x", Kind: "lottery"}},
		{"missing name", ProposalInput{Kind: ProposalVoting}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProposal("p", d, tc.in, testNow)
			assert.ErrorIs(t, err, ErrInvalidProposalShape)
		})
	}
}

func TestCastVote_CountsPerTokenLocksPerIdentity(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	at := p.StartTime

	_, err := p.CastVote("tok-1", "carol", VoteFor, at)
	require.NoError(t, err)
	_, err = p.CastVote("tok-2", "carol", VoteFor, at)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), p.Tally.For)
	assert.Equal(t, Voter{Identity: "carol", Count: 2, Locked: VoteFor}, p.Voters["carol"])
	assertTallyMatchesBallots(t, p)
}

func TestCastVote_BeforeStart(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime.Add(-time.Millisecond))
	assert.ErrorIs(t, err, ErrVotingNotStarted)
	assert.Empty(t, p.Ballots)
}

func TestCastVote_AfterEnd(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteFor, p.EndTime.Add(time.Millisecond))
	assert.ErrorIs(t, err, ErrVotingEnded)
}

func TestCastVote_WindowBoundsInclusive(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
	require.NoError(t, err)
	_, err = p.CastVote("tok-2", "dave", VoteAgainst, p.EndTime)
	require.NoError(t, err)
	assertTallyMatchesBallots(t, p)
}

func TestCastVote_SameTokenTwice(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
	require.NoError(t, err)

	_, err = p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, uint64(1), p.Tally.Total())
	assert.Equal(t, uint64(1), p.Voters["carol"].Count)
}

func TestCastVote_ConflictingDirection(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteAgainst, p.StartTime)
	require.NoError(t, err)

	_, err = p.CastVote("tok-2", "carol", VoteFor, p.StartTime)
	assert.ErrorIs(t, err, ErrConflictingVoteDirection)
	assert.Equal(t, Tally{Against: 1}, p.Tally)
	assert.NotContains(t, p.Ballots, "tok-2")
}

func TestCastVote_AbstainLocksToo(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteAbstain, p.StartTime)
	require.NoError(t, err)
	_, err = p.CastVote("tok-2", "carol", VoteAgainst, p.StartTime)
	assert.ErrorIs(t, err, ErrConflictingVoteDirection)
}

func TestCastVote_InvalidType(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	_, err := p.CastVote("tok-1", "carol", VoteType("maybe"), p.StartTime)
	assert.ErrorIs(t, err, ErrInvalidVoteType)
	assert.Empty(t, p.Voters)
}

func TestCastVote_CheckOrder(t *testing.T) {
	// Each case violates several rules; the earliest check wins.
	t.Run("status before timing", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		p.Status = ProposalCanceled
		_, err := p.CastVote("tok-1", "carol", "bogus", p.StartTime.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrWrongStatus)
	})
	t.Run("timing before duplicate token", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
		require.NoError(t, err)
		_, err = p.CastVote("tok-1", "carol", VoteFor, p.EndTime.Add(time.Second))
		assert.ErrorIs(t, err, ErrVotingEnded)
	})
	t.Run("duplicate token before vote type", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
		require.NoError(t, err)
		_, err = p.CastVote("tok-1", "carol", "bogus", p.StartTime)
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})
	t.Run("vote type before direction", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
		require.NoError(t, err)
		_, err = p.CastVote("tok-2", "carol", "bogus", p.StartTime)
		assert.ErrorIs(t, err, ErrInvalidVoteType)
	})
}

func TestCastVote_TallyEqualsBallotsThroughout(t *testing.T) {
	p := newVotingProposal(t, testDAO())
	votes := []VoteType{VoteFor, VoteAgainst, VoteAbstain, VoteFor, VoteFor}
	for i, vt := range votes {
		_, err := p.CastVote(fmt.Sprintf("tok-%d", i), fmt.Sprintf("member-%d", i), vt, p.StartTime)
		require.NoError(t, err)
		assertTallyMatchesBallots(t, p)
	}
	// Rejected votes leave the invariant intact.
	_, _ = p.CastVote("tok-0", "member-0", VoteFor, p.StartTime)
	_, _ = p.CastVote("tok-9", "member-1", VoteFor, p.StartTime)
	assertTallyMatchesBallots(t, p)
	assert.Equal(t, Tally{For: 3, Against: 1, Abstain: 1}, p.Tally)
}

func TestCancel(t *testing.T) {
	t.Run("creator before start", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		require.NoError(t, p.Cancel("alice", testNow))
		assert.Equal(t, ProposalCanceled, p.Status)
		require.NotNil(t, p.ResolvedAt)
		assert.Equal(t, testNow, *p.ResolvedAt)
	})
	t.Run("not creator", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		assert.ErrorIs(t, p.Cancel("mallory", testNow), ErrNotCreator)
		assert.Equal(t, ProposalActive, p.Status)
	})
	t.Run("after start", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		assert.ErrorIs(t, p.Cancel("alice", p.StartTime), ErrVotingAlreadyStarted)
		assert.Equal(t, ProposalActive, p.Status)
	})
	t.Run("already canceled", func(t *testing.T) {
		p := newVotingProposal(t, testDAO())
		require.NoError(t, p.Cancel("alice", testNow))
		assert.ErrorIs(t, p.Cancel("alice", testNow), ErrWrongStatus)
	})
}

func TestResolve_BeforeEnd(t *testing.T) {
	d := testDAO()
	p := newVotingProposal(t, d)
	_, err := p.Resolve(d, p.EndTime.Add(-time.Millisecond))
	assert.ErrorIs(t, err, ErrVotingNotEnded)
	assert.Equal(t, ProposalActive, p.Status)
}

func TestResolve_AtEndProducesTerminalStatus(t *testing.T) {
	d := testDAO()
	p := newVotingProposal(t, d)
	_, err := p.Resolve(d, p.EndTime)
	require.NoError(t, err)
	assert.True(t, p.Status.IsTerminal())
	require.NotNil(t, p.ResolvedAt)
}

func TestResolve_Outcomes(t *testing.T) {
	cases := []struct {
		name   string
		quorum uint64
		votes  []VoteType
		want   ProposalStatus
	}{
		{"below quorum despite majority", 10, []VoteType{VoteFor, VoteFor, VoteFor, VoteAgainst, VoteAgainst}, ProposalDefeated},
		{"quorum met with majority", 3, []VoteType{VoteFor, VoteFor, VoteAgainst}, ProposalExecuted},
		{"tie is defeated", 2, []VoteType{VoteFor, VoteAgainst}, ProposalDefeated},
		{"abstain counts toward quorum only", 3, []VoteType{VoteFor, VoteAbstain, VoteAbstain}, ProposalExecuted},
		{"all abstain is defeated", 1, []VoteType{VoteAbstain}, ProposalDefeated},
		{"zero quorum no votes", 0, nil, ProposalDefeated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := testDAO()
			d.Quorum = tc.quorum
			p := newVotingProposal(t, d)
			for i, vt := range tc.votes {
				_, err := p.CastVote(fmt.Sprintf("tok-%d", i), fmt.Sprintf("m-%d", i), vt, p.StartTime)
				require.NoError(t, err)
			}
			payout, err := p.Resolve(d, p.EndTime)
			require.NoError(t, err)
			assert.Nil(t, payout)
			assert.Equal(t, tc.want, p.Status)
		})
	}
}

func TestResolve_FundingDrainsTreasury(t *testing.T) {
	d := testDAO()
	d.Treasury.Balance = 100
	p := newFundingProposal(t, d, 100)
	for i, vt := range []VoteType{VoteFor, VoteFor, VoteAgainst} {
		_, err := p.CastVote(fmt.Sprintf("tok-%d", i), fmt.Sprintf("m-%d", i), vt, p.StartTime)
		require.NoError(t, err)
	}

	payout, err := p.Resolve(d, p.EndTime)
	require.NoError(t, err)
	require.NotNil(t, payout)
	assert.Equal(t, Payout{Recipient: "bob", Amount: 100}, *payout)
	assert.Equal(t, Amount(0), d.Treasury.Balance)
	assert.Equal(t, ProposalExecuted, p.Status)
}

func TestResolve_InsufficientFundsChangesNothing(t *testing.T) {
	d := testDAO()
	d.Quorum = 1
	d.Treasury.Balance = 99
	p := newFundingProposal(t, d, 100)
	_, err := p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
	require.NoError(t, err)

	_, err = p.Resolve(d, p.EndTime)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, ProposalActive, p.Status)
	assert.Nil(t, p.ResolvedAt)
	assert.Equal(t, Amount(99), d.Treasury.Balance)
}

func TestResolve_DefeatedFundingLeavesTreasury(t *testing.T) {
	d := testDAO()
	d.Treasury.Balance = 5
	p := newFundingProposal(t, d, 100)

	payout, err := p.Resolve(d, p.EndTime)
	require.NoError(t, err)
	assert.Nil(t, payout)
	assert.Equal(t, ProposalDefeated, p.Status)
	assert.Equal(t, Amount(5), d.Treasury.Balance)
}

func TestResolve_TerminalIsFinal(t *testing.T) {
	d := testDAO()
	p := newVotingProposal(t, d)
	_, err := p.Resolve(d, p.EndTime)
	require.NoError(t, err)
	status := p.Status

	_, err = p.Resolve(d, p.EndTime.Add(time.Hour))
	assert.ErrorIs(t, err, ErrWrongStatus)
	assert.ErrorIs(t, p.Cancel("alice", testNow), ErrWrongStatus)
	_, err = p.CastVote("tok-1", "carol", VoteFor, p.StartTime)
	assert.ErrorIs(t, err, ErrWrongStatus)
	assert.Equal(t, status, p.Status)
}
