package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDAOService_Create_TokenPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := env.createDAO(t, 3)
	assert.Equal(t, domain.CurrentVersion, d.Version)
	assert.Equal(t, uint64(3), d.Quorum)

	fetched, err := env.daos.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Name, fetched.Name)

	hub, err := env.daos.Registered(ctx, domain.HubID)
	require.NoError(t, err)
	assert.Equal(t, []string{d.ID}, hub)
	assert.Equal(t, []domain.EventKind{domain.EventDAOCreated}, env.notified.kinds())
}

func TestDAOService_Create_TokenPolicyRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	other := env.mint(t, "alice", testutil.WithTokenType("other-pass"))
	borrowed := env.mint(t, "bob")

	req := CreateDAORequest{
		Name:           "Guild",
		MembershipType: "guild-pass",
		Params:         GovernanceParams{Quorum: 1, VotingPeriod: time.Hour},
		Creator:        "alice",
		Now:            testNow,
	}

	_, err := env.daos.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrCreationDenied)

	req.TokenID = other.ID
	_, err = env.daos.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	req.TokenID = borrowed.ID
	_, err = env.daos.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrTokenNotHeld)

	all, err := env.daos.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, env.notified.kinds())
}

func TestDAOService_Create_AdminPolicy(t *testing.T) {
	database := testutil.NewTestDB(t)
	env := newTestEnvWith(t, database, testutil.NewTestUoW(database),
		CreationRules{Policy: domain.CreationByAdmin, Admins: []string{"root"}})
	ctx := context.Background()

	req := CreateDAORequest{
		Name:           "Guild",
		MembershipType: "guild-pass",
		Params:         GovernanceParams{VotingPeriod: time.Hour},
		Creator:        "root",
		Now:            testNow,
	}
	_, err := env.daos.Create(ctx, req)
	require.NoError(t, err)

	req.Creator = "alice"
	_, err = env.daos.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrCreationDenied)
}

func TestDAOService_Create_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	tok := env.mint(t, "alice")

	_, err := env.daos.Create(context.Background(), CreateDAORequest{
		Name:           "Guild",
		MembershipType: tok.Type,
		Creator:        "alice",
		TokenID:        tok.ID,
		Now:            testNow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDAOConfig)

	_, err = env.daos.Create(context.Background(), CreateDAORequest{
		Name:           "Guild",
		MembershipType: tok.Type,
		Params:         GovernanceParams{Quorum: math.MaxInt64 + 1, VotingPeriod: time.Hour},
		Creator:        "alice",
		TokenID:        tok.ID,
		Now:            testNow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDAOConfig)
	assert.Equal(t, domain.ClassShape, domain.ClassOf(err))

	all, err := env.daos.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDAOService_CreateSub(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.createDAO(t, 5)
	northTok := env.mint(t, "carol", testutil.WithOrigin("north"))

	sub, err := env.daos.CreateSub(ctx, CreateSubDAORequest{
		ParentID: parent.ID,
		Name:     "North chapter",
		Origin:   "north",
		Creator:  "carol",
		TokenID:  northTok.ID,
		Now:      testNow,
	})
	require.NoError(t, err)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, parent.ID, *sub.ParentID)
	require.NotNil(t, sub.Origin)
	assert.Equal(t, "north", *sub.Origin)
	assert.Equal(t, parent.MembershipType, sub.MembershipType)
	assert.Equal(t, parent.Quorum, sub.Quorum, "params inherit from the parent")
	assert.Equal(t, parent.VotingPeriod, sub.VotingPeriod)

	children, err := env.daos.Registered(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{sub.ID}, children)

	hub, err := env.daos.Registered(ctx, domain.HubID)
	require.NoError(t, err)
	assert.Equal(t, []string{parent.ID}, hub, "sub-daos are not registered on the hub")
}

func TestDAOService_CreateSub_ScopeMismatch(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createDAO(t, 1)
	southTok := env.mint(t, "carol", testutil.WithOrigin("south"))

	_, err := env.daos.CreateSub(context.Background(), CreateSubDAORequest{
		ParentID: parent.ID,
		Name:     "North chapter",
		Origin:   "north",
		Params:   &GovernanceParams{Quorum: 2, VotingPeriod: time.Hour},
		Creator:  "carol",
		TokenID:  southTok.ID,
		Now:      testNow,
	})
	assert.ErrorIs(t, err, domain.ErrScopeMismatch)

	children, err := env.daos.Registered(context.Background(), parent.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestDAOService_CreateSub_UnknownParent(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.daos.CreateSub(context.Background(), CreateSubDAORequest{
		ParentID: "nonexistent", Name: "x", Origin: "north", Creator: "carol", Now: testNow,
	})
	assert.ErrorIs(t, err, domain.ErrDAONotFound)
}
