package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/agora/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	DAOs      service.DAOService
	Tokens    service.TokenService
	Proposals service.ProposalService
	Votes     service.VoteService
	Treasury  service.TreasuryService
	Events    service.EventService

	// Defaults fill governance parameters not given on "dao create".
	Defaults service.GovernanceParams

	// Clock supplies ledger time when --at is not given. Nil means time.Now.
	Clock func() time.Time

	// IsInteractive reports whether stdin is a terminal. Forms and the board
	// refuse to start when it returns false.
	IsInteractive func() bool
}

// session carries the per-invocation global flags.
type session struct {
	app *App
	at  clockValue
	as  string
}

// now is the ledger time the command evaluates at.
func (s *session) now() time.Time {
	if s.at.set {
		return s.at.t
	}
	if s.app.Clock != nil {
		return s.app.Clock().UTC()
	}
	return time.Now().UTC()
}

// identity returns the --as caller, which every mutating command requires.
func (s *session) identity() (string, error) {
	if s.as == "" {
		return "", fmt.Errorf("--as is required: name the identity acting")
	}
	return s.as, nil
}

func (s *session) interactive() bool {
	return s.app.IsInteractive != nil && s.app.IsInteractive()
}

// NewRootCmd creates the top-level "agora" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	s := &session{app: app}

	root := &cobra.Command{
		Use:           "agora",
		Short:         "On-ledger DAO governance: membership, proposals, voting and treasury",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Var(&s.at, "at", "Ledger time to evaluate at (unix milliseconds or RFC3339; default now)")
	root.PersistentFlags().StringVar(&s.as, "as", "", "Identity performing the command")

	root.AddCommand(
		newDAOCmd(s),
		newTokenCmd(s),
		newProposalCmd(s),
		newVoteCmd(s),
		newTreasuryCmd(s),
		newEventsCmd(s),
		newBoardCmd(s),
	)

	return root
}

// clockValue is a pflag.Value accepting unix milliseconds or RFC3339.
type clockValue struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*clockValue)(nil)

func (c *clockValue) String() string {
	if !c.set {
		return ""
	}
	return c.t.Format(time.RFC3339)
}

func (c *clockValue) Set(v string) error {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		c.t, c.set = time.UnixMilli(ms).UTC(), true
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return fmt.Errorf("expected unix milliseconds or RFC3339, got %q", v)
	}
	c.t, c.set = t.UTC(), true
	return nil
}

func (c *clockValue) Type() string { return "time" }
