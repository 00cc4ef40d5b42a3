package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/alexanderramin/agora/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = testutil.Now

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingNotifier) Notify(_ context.Context, e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *recordingNotifier) last() domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	notified  *recordingNotifier
	daos      DAOService
	tokens    TokenService
	proposals ProposalService
	votes     VoteService
	treasury  TreasuryService
	events    EventService
}

func newTestEnvWith(t *testing.T, database *sql.DB, uow db.UnitOfWork, rules CreationRules) *testEnv {
	t.Helper()
	n := &recordingNotifier{}
	daoRepo := repository.NewSQLiteDAORepo(database)
	return &testEnv{
		db:        database,
		uow:       uow,
		notified:  n,
		daos:      NewDAOService(daoRepo, repository.NewSQLiteRegistryRepo(database), uow, rules, n),
		tokens:    NewTokenService(repository.NewSQLiteTokenRepo(database)),
		proposals: NewProposalService(repository.NewSQLiteProposalRepo(database), uow, n),
		votes:     NewVoteService(uow, n),
		treasury:  NewTreasuryService(daoRepo, repository.NewSQLiteTreasuryRepo(database), uow, n),
		events:    NewEventService(repository.NewSQLiteEventRepo(database)),
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvWith(t, database, testutil.NewTestUoW(database), CreationRules{Policy: domain.CreationByToken})
}

func (e *testEnv) mint(t *testing.T, holder string, opts ...testutil.TokenOption) *domain.Token {
	t.Helper()
	tmpl := testutil.NewTestToken(holder, opts...)
	tok, err := e.tokens.Mint(context.Background(), MintTokenRequest{Type: tmpl.Type, Holder: holder, Origin: tmpl.Origin, Now: testNow})
	require.NoError(t, err)
	return tok
}

// createDAO creates a root DAO founded by alice with a fresh token.
func (e *testEnv) createDAO(t *testing.T, quorum uint64) *domain.DAO {
	t.Helper()
	founder := e.mint(t, "alice")
	d, err := e.daos.Create(context.Background(), CreateDAORequest{
		Name:           "Guild",
		MembershipType: founder.Type,
		Params:         GovernanceParams{Quorum: quorum, VotingDelay: time.Hour, VotingPeriod: 24 * time.Hour},
		Creator:        "alice",
		TokenID:        founder.ID,
		Now:            testNow,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) deposit(t *testing.T, d *domain.DAO, amount domain.Amount) {
	t.Helper()
	_, err := e.treasury.Deposit(context.Background(), d.ID, "patron", amount, testNow)
	require.NoError(t, err)
}

// propose creates a proposal on d as alice using a fresh token.
func (e *testEnv) propose(t *testing.T, d *domain.DAO, opts ...testutil.ProposalOption) *domain.Proposal {
	t.Helper()
	tok := e.mint(t, "alice")
	in := testutil.NewTestProposalInput("Charter", opts...)
	p, err := e.proposals.Create(context.Background(), CreateProposalRequest{
		DAOID:     d.ID,
		TokenID:   tok.ID,
		Identity:  "alice",
		Name:      in.Name,
		Kind:      in.Kind,
		Recipient: in.Recipient,
		Amount:    in.Amount,
		Now:       testNow,
	})
	require.NoError(t, err)
	return p
}

// vote mints a token for identity and casts it at the opening of p's window.
func (e *testEnv) vote(t *testing.T, p *domain.Proposal, identity string, vt domain.VoteType) *VoteReceipt {
	t.Helper()
	tok := e.mint(t, identity)
	r, err := e.votes.Cast(context.Background(), CastVoteRequest{
		ProposalID: p.ID, TokenID: tok.ID, Identity: identity, VoteType: vt, Now: p.StartTime,
	})
	require.NoError(t, err)
	return r
}
