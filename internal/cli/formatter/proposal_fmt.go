package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/agora/internal/domain"
)

const tallyBarWidth = 24

// FormatProposalList renders proposals with their status and window phase
// relative to now.
func FormatProposalList(proposals []*domain.Proposal, now time.Time) string {
	if len(proposals) == 0 {
		return Dim("No proposals found.")
	}
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		phase := Dim("--")
		if p.Status == domain.ProposalActive {
			phase = WindowPhase(p.StartTime, p.EndTime, now)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			KindBadge(p.Kind),
			ProposalStatusPill(p.Status),
			fmt.Sprintf("%d/%d/%d", p.Tally.For, p.Tally.Against, p.Tally.Abstain),
			phase,
		})
	}
	return RenderTable([]string{"ID", "NAME", "KIND", "STATUS", "F/A/AB", "WINDOW"}, rows)
}

// FormatTally renders the three counters and progress toward quorum.
func FormatTally(t domain.Tally, quorum uint64) string {
	total := t.Total()
	quorumNote := StyleGreen.Render("quorum met")
	if total < quorum {
		quorumNote = StyleYellow.Render(fmt.Sprintf("%d more for quorum", quorum-total))
	}
	return fmt.Sprintf("%s %s %d  %s %d  %s %d\n%s  %s",
		Dim("votes"),
		VoteTypeLabel(domain.VoteFor), t.For,
		VoteTypeLabel(domain.VoteAgainst), t.Against,
		VoteTypeLabel(domain.VoteAbstain), t.Abstain,
		QuorumProgress(total, quorum, tallyBarWidth), quorumNote)
}

// FormatProposalDetail renders a proposal, its tally and every ballot.
func FormatProposalDetail(p *domain.Proposal, quorum uint64, now time.Time) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value)
	}

	line("ID", p.ID)
	line("DAO", p.DAOID)
	line("Kind", KindBadge(p.Kind))
	line("Status", ProposalStatusPill(p.Status))
	line("Creator", p.Creator)
	line("Description", orDash(p.Description))
	if p.IsFunding() {
		line("Recipient", *p.Recipient)
		line("Amount", Bold(p.Amount.String()))
	}
	line("Opens", Timestamp(p.StartTime))
	line("Closes", Timestamp(p.EndTime))
	if p.Status == domain.ProposalActive {
		line("Window", WindowPhase(p.StartTime, p.EndTime, now))
	}
	if p.ResolvedAt != nil {
		line("Resolved", Timestamp(*p.ResolvedAt))
	}

	b.WriteString("\n" + FormatTally(p.Tally, quorum) + "\n")

	if len(p.Ballots) > 0 {
		ballots := make([]domain.Ballot, 0, len(p.Ballots))
		for _, bl := range p.Ballots {
			ballots = append(ballots, bl)
		}
		sort.Slice(ballots, func(i, j int) bool {
			if !ballots[i].CastAt.Equal(ballots[j].CastAt) {
				return ballots[i].CastAt.Before(ballots[j].CastAt)
			}
			return ballots[i].TokenID < ballots[j].TokenID
		})
		rows := make([][]string, 0, len(ballots))
		for _, bl := range ballots {
			rows = append(rows, []string{bl.Identity, bl.TokenID, VoteTypeLabel(bl.VoteType), Timestamp(bl.CastAt)})
		}
		b.WriteString("\n" + RenderTable([]string{"VOTER", "TOKEN", "VOTE", "CAST"}, rows))
	}
	return RenderBox(p.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatVoteReceipt confirms an accepted vote.
func FormatVoteReceipt(proposalName string, b domain.Ballot, t domain.Tally, v domain.Voter) string {
	return fmt.Sprintf("%s %s voted %s on %s with %s (%d vote(s) this proposal)\n%s",
		StyleGreen.Render("✔"),
		Bold(b.Identity),
		VoteTypeLabel(b.VoteType),
		Bold(proposalName),
		b.TokenID,
		v.Count,
		Dim(fmt.Sprintf("tally for=%d against=%d abstain=%d", t.For, t.Against, t.Abstain)))
}

// FormatResolution summarizes a resolved proposal and any payout.
func FormatResolution(p *domain.Proposal, payout *domain.Payout) string {
	out := fmt.Sprintf("%s %s", Bold(p.Name), ProposalStatusPill(p.Status))
	if payout != nil {
		out += fmt.Sprintf("\n  paid %s to %s", Bold(payout.Amount.String()), payout.Recipient)
	}
	return out
}

// SweepLine is one row of a resolve-due summary.
type SweepLine struct {
	ProposalID string
	Name       string
	Status     domain.ProposalStatus
	Payout     *domain.Payout
	Err        error
}

// FormatSweep renders the outcome of resolving every due proposal.
func FormatSweep(lines []SweepLine) string {
	if len(lines) == 0 {
		return Dim("No proposals due.")
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		outcome := ProposalStatusPill(l.Status)
		note := ""
		if l.Err != nil {
			outcome = StyleRed.Render("failed")
			note = l.Err.Error()
		} else if l.Payout != nil {
			note = fmt.Sprintf("paid %s to %s", l.Payout.Amount, l.Payout.Recipient)
		}
		rows = append(rows, []string{TruncID(l.ProposalID), orDash(l.Name), outcome, note})
	}
	return RenderTable([]string{"ID", "NAME", "OUTCOME", "NOTE"}, rows)
}
