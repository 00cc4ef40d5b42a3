package formatter

import (
	"github.com/alexanderramin/agora/internal/domain"
)

// FormatMovements renders a treasury journal. Payouts are shown negative.
func FormatMovements(movements []*domain.TreasuryMovement) string {
	if len(movements) == 0 {
		return Dim("No treasury movements.")
	}
	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		amount := StyleGreen.Render("+" + m.Amount.String())
		if m.Direction == domain.MovementPayout {
			amount = StyleRed.Render("-" + m.Amount.String())
		}
		proposal := Dim("--")
		if m.ProposalID != nil {
			proposal = TruncID(*m.ProposalID)
		}
		rows = append(rows, []string{Timestamp(m.CreatedAt), string(m.Direction), m.Party, amount, proposal})
	}
	return RenderTable([]string{"AT", "DIRECTION", "PARTY", "AMOUNT", "PROPOSAL"}, rows)
}
