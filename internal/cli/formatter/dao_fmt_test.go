package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fmtDAO(id, name string) *domain.DAO {
	return &domain.DAO{
		ID:             id,
		Name:           name,
		MembershipType: "guild-pass",
		Quorum:         3,
		VotingDelay:    time.Hour,
		VotingPeriod:   72 * time.Hour,
		Treasury:       domain.Treasury{Balance: 12500},
		Creator:        "alice",
		CreatedAt:      fmtNow,
	}
}

func scoped(d *domain.DAO, parent, origin string) *domain.DAO {
	d.ParentID = &parent
	d.Origin = &origin
	return d
}

func TestFormatDAOList(t *testing.T) {
	out := stripANSI(FormatDAOList([]*domain.DAO{
		fmtDAO("root-0001-aaaa", "Guild"),
		scoped(fmtDAO("sub-00001-bbbb", "North Chapter"), "root-0001-aaaa", "north"),
	}))
	assert.Contains(t, out, "Guild")
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "12.500")
}

func TestFormatDAODetail(t *testing.T) {
	out := stripANSI(FormatDAODetail(fmtDAO("root-1", "Guild"), []string{"sub-1", "sub-2"}))
	assert.Contains(t, out, "GUILD")
	assert.Contains(t, out, "3d")
	assert.Contains(t, out, "SUB-DAOS")
	assert.Contains(t, out, "sub-2")
	assert.Contains(t, out, "--", "missing description renders a dash")
}

func TestFormatDAOTree(t *testing.T) {
	root := fmtDAO("r", "Guild")
	out := stripANSI(FormatDAOTree([]DAONode{{
		DAO: root,
		Children: []DAONode{
			{DAO: scoped(fmtDAO("n", "North"), "r", "north"), Children: []DAONode{
				{DAO: scoped(fmtDAO("nn", "Far North"), "n", "far")},
			}},
			{DAO: scoped(fmtDAO("s", "South"), "r", "south")},
		},
	}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Guild"))
	assert.True(t, strings.HasPrefix(lines[1], "├─ North @north"))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ Far North @far"))
	assert.True(t, strings.HasPrefix(lines[3], "└─ South @south"))
	assert.Contains(t, lines[0], "[ 12.500 ]")
}

func TestFormatTokenList(t *testing.T) {
	out := stripANSI(FormatTokenList([]*domain.Token{{ID: "tok-1", Type: "guild-pass", Holder: "carol", IssuedAt: fmtNow}}))
	assert.Contains(t, out, "tok-1")
	assert.Contains(t, out, "carol")
	assert.Equal(t, "No tokens found.", stripANSI(FormatTokenList(nil)))
}

func TestFormatMovementsAndEvents(t *testing.T) {
	pid := "prop-123456789"
	out := stripANSI(FormatMovements([]*domain.TreasuryMovement{
		{Direction: domain.MovementDeposit, Party: "patron", Amount: 5000, CreatedAt: fmtNow},
		{Direction: domain.MovementPayout, Party: "bob", Amount: 1000, ProposalID: &pid, CreatedAt: fmtNow},
	}))
	assert.Contains(t, out, "+5.000")
	assert.Contains(t, out, "-1.000")
	assert.Contains(t, out, "prop-123")

	events := stripANSI(FormatEventList([]domain.Event{
		{Kind: domain.EventVoteCast, DAOID: "d", Name: "Charter", Actor: "carol", VoteType: domain.VoteAgainst, At: fmtNow},
		{Kind: domain.EventProposalResolved, DAOID: "d", Name: "Charter", Status: domain.ProposalExecuted, Actor: "bob", Amount: 1000, At: fmtNow},
	}))
	assert.Contains(t, events, "carol voted against on Charter")
	assert.Contains(t, events, "Charter executed paid 1.000 to bob")
}
