package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// agoraHuhTheme returns a huh theme using the formatter's Gruvbox palette.
func agoraHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// proposalForm collects a proposal in two groups. The funding group is
// hidden unless the funding kind is selected.
func proposalForm(v *proposalFormValues) *huh.Form {
	if v.kind == "" {
		v.kind = string(domain.ProposalVoting)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.name).
				Validate(validateRequired("name")),
			huh.NewText().
				Title("Description").
				Value(&v.description),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Voting: a decision with no payout", string(domain.ProposalVoting)),
					huh.NewOption("Funding: pays the treasury out if executed", string(domain.ProposalFunding)),
				).
				Value(&v.kind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Recipient").
				Value(&v.recipient).
				Validate(validateRequired("recipient")),
			huh.NewInput().
				Title("Amount").
				Placeholder("100.000").
				Value(&v.amount).
				Validate(validateAmount),
		).WithHideFunc(func() bool { return v.kind != string(domain.ProposalFunding) }),
	).WithTheme(agoraHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateAmount accepts a positive amount with at most three decimals.
func validateAmount(s string) error {
	a, err := domain.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("enter a positive amount with up to 3 decimals")
	}
	if a <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
