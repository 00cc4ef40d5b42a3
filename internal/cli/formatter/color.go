package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SetColorMode forces styled output on ("always") or off ("never"). Any
// other value leaves lipgloss to detect the terminal.
func SetColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ProposalStatusPill returns a colored status indicator for a proposal.
func ProposalStatusPill(status domain.ProposalStatus) string {
	switch status {
	case domain.ProposalActive:
		return StyleBlue.Render("● Active")
	case domain.ProposalExecuted:
		return StyleGreen.Render("✔ Executed")
	case domain.ProposalDefeated:
		return StyleRed.Render("✖ Defeated")
	case domain.ProposalCanceled:
		return StyleDim.Render("⊘ Canceled")
	default:
		return StyleDim.Render(string(status))
	}
}

// VoteTypeLabel colors a vote direction.
func VoteTypeLabel(vt domain.VoteType) string {
	switch vt {
	case domain.VoteFor:
		return StyleGreen.Render("for")
	case domain.VoteAgainst:
		return StyleRed.Render("against")
	case domain.VoteAbstain:
		return StyleYellow.Render("abstain")
	default:
		return StyleDim.Render(string(vt))
	}
}

// KindBadge labels a proposal kind.
func KindBadge(kind domain.ProposalKind) string {
	if kind == domain.ProposalFunding {
		return StylePurple.Render("Funding")
	}
	return StyleFg.Render("Voting")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
