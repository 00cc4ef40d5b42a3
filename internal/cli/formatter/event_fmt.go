package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/domain"
)

// FormatEventList renders the governance event log, oldest first.
func FormatEventList(events []domain.Event) string {
	if len(events) == 0 {
		return Dim("No events recorded.")
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{Timestamp(e.At), eventKindLabel(e.Kind), TruncID(e.DAOID), describeEvent(e)})
	}
	return RenderTable([]string{"AT", "EVENT", "DAO", "DETAIL"}, rows)
}

func eventKindLabel(k domain.EventKind) string {
	switch k {
	case domain.EventProposalResolved:
		return StyleGreen.Render(string(k))
	case domain.EventProposalCanceled:
		return StyleDim.Render(string(k))
	case domain.EventVoteCast:
		return StyleBlue.Render(string(k))
	default:
		return StyleFg.Render(string(k))
	}
}

func describeEvent(e domain.Event) string {
	var parts []string
	switch e.Kind {
	case domain.EventDAOCreated:
		parts = append(parts, e.Name, "by "+e.Actor)
	case domain.EventTreasuryDeposited:
		parts = append(parts, e.Amount.String(), "from "+e.Actor)
	case domain.EventProposalCreated, domain.EventProposalCanceled:
		parts = append(parts, e.Name, "by "+e.Actor)
	case domain.EventVoteCast:
		parts = append(parts, e.Actor, "voted", VoteTypeLabel(e.VoteType), "on", e.Name)
	case domain.EventProposalResolved:
		parts = append(parts, e.Name, string(e.Status))
		if e.Amount > 0 {
			parts = append(parts, fmt.Sprintf("paid %s to %s", e.Amount, e.Actor))
		}
	}
	return strings.Join(parts, " ")
}
