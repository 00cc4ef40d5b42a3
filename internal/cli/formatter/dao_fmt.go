package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/domain"
)

// FormatDAOList renders DAOs as a table. Sub-DAOs show their origin scope.
func FormatDAOList(daos []*domain.DAO) string {
	if len(daos) == 0 {
		return Dim("No DAOs found.")
	}
	rows := make([][]string, 0, len(daos))
	for _, d := range daos {
		scope := Dim("root")
		if d.IsScoped() {
			scope = StylePurple.Render(*d.Origin)
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			Bold(d.Name),
			d.MembershipType,
			scope,
			fmt.Sprintf("%d", d.Quorum),
			d.Treasury.Balance.String(),
		})
	}
	return RenderTable([]string{"ID", "NAME", "MEMBERSHIP", "SCOPE", "QUORUM", "TREASURY"}, rows)
}

// FormatDAODetail renders one DAO with its governance parameters and the
// ids of its registered sub-DAOs.
func FormatDAODetail(d *domain.DAO, children []string) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-14s", label)), value)
	}

	line("ID", d.ID)
	if d.ParentID != nil {
		line("Parent", *d.ParentID)
		line("Origin", StylePurple.Render(*d.Origin))
	}
	line("Description", orDash(d.Description))
	line("Membership", d.MembershipType)
	line("Quorum", fmt.Sprintf("%d", d.Quorum))
	line("Voting delay", FormatDuration(d.VotingDelay))
	line("Voting period", FormatDuration(d.VotingPeriod))
	line("Treasury", Bold(d.Treasury.Balance.String()))
	line("Creator", d.Creator)
	line("Created", Timestamp(d.CreatedAt))

	if len(children) > 0 {
		b.WriteString("\n" + Header("Sub-DAOs") + "\n")
		for _, id := range children {
			b.WriteString("  " + id + "\n")
		}
	}
	return RenderBox(d.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatTokenList renders membership tokens.
func FormatTokenList(tokens []*domain.Token) string {
	if len(tokens) == 0 {
		return Dim("No tokens found.")
	}
	rows := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		rows = append(rows, []string{t.ID, t.Type, t.Holder, orDash(t.Origin), Timestamp(t.IssuedAt)})
	}
	return RenderTable([]string{"ID", "TYPE", "HOLDER", "ORIGIN", "ISSUED"}, rows)
}
