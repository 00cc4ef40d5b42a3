package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewFileTestDB(t)
	return newTestEnvWith(t, database, testutil.NewTestUoW(database), CreationRules{Policy: domain.CreationByToken})
}

// TestResolve_RacingResolversPayOnce has several callers resolve the same
// funded proposal at once. Exactly one wins; the rest see ErrWrongStatus and
// the recipient is paid a single time.
func TestResolve_RacingResolversPayOnce(t *testing.T) {
	env := newFileTestEnv(t)
	ctx := context.Background()
	d := env.createDAO(t, 1)
	env.deposit(t, d, 1000)
	p := env.propose(t, d, testutil.WithFunding("bob", 300))
	env.vote(t, p, "m1", domain.VoteFor)

	const resolvers = 8
	var wg sync.WaitGroup
	errs := make([]error, resolvers)
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.proposals.Resolve(ctx, p.ID, p.EndTime)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrWrongStatus), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)

	balance, err := env.treasury.Balance(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(700), balance)

	received, err := env.treasury.ReceivedBy(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(300), received)
}

// TestCastVote_ConcurrentVotersAllCounted casts one vote per goroutine and
// checks the tally still equals the ballot set.
func TestCastVote_ConcurrentVotersAllCounted(t *testing.T) {
	env := newFileTestEnv(t)
	ctx := context.Background()
	d := env.createDAO(t, 1)
	p := env.propose(t, d)

	const voters = 10
	tokens := make([]*domain.Token, voters)
	for i := range tokens {
		tokens[i] = env.mint(t, fmt.Sprintf("member-%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok *domain.Token) {
			defer wg.Done()
			vt := domain.VoteFor
			if i%2 == 1 {
				vt = domain.VoteAbstain
			}
			_, err := env.votes.Cast(ctx, CastVoteRequest{ProposalID: p.ID, TokenID: tok.ID, Identity: tok.Holder, VoteType: vt, Now: p.StartTime})
			errs <- err
		}(i, tok)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := env.proposals.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Tally{For: voters / 2, Abstain: voters / 2}, stored.Tally)
	assert.Len(t, stored.Ballots, voters)
}
