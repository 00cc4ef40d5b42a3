package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/service"
	"github.com/spf13/cobra"
)

func newDAOCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dao",
		Short: "Create and inspect DAOs",
	}

	cmd.AddCommand(
		newDAOCreateCmd(s),
		newDAOSubCmd(s),
		newDAOListCmd(s),
		newDAOShowCmd(s),
		newDAOTreeCmd(s),
	)

	return cmd
}

// paramFlags binds the governance parameter flags shared by "dao create"
// and "dao sub".
type paramFlags struct {
	quorum uint64
	delay  time.Duration
	period time.Duration
}

func (f *paramFlags) register(cmd *cobra.Command, defaults service.GovernanceParams) {
	cmd.Flags().Uint64Var(&f.quorum, "quorum", defaults.Quorum, "Minimum counted votes for a proposal to pass")
	cmd.Flags().DurationVar(&f.delay, "delay", defaults.VotingDelay, "Time between proposal creation and the opening of voting")
	cmd.Flags().DurationVar(&f.period, "period", defaults.VotingPeriod, "Length of the voting window")
}

func (f *paramFlags) changed(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("quorum") || cmd.Flags().Changed("delay") || cmd.Flags().Changed("period")
}

// merge overlays the flags that were set on base.
func (f *paramFlags) merge(cmd *cobra.Command, base service.GovernanceParams) service.GovernanceParams {
	if cmd.Flags().Changed("quorum") {
		base.Quorum = f.quorum
	}
	if cmd.Flags().Changed("delay") {
		base.VotingDelay = f.delay
	}
	if cmd.Flags().Changed("period") {
		base.VotingPeriod = f.period
	}
	return base
}

func newDAOCreateCmd(s *session) *cobra.Command {
	var name, description, membership, tokenID string
	var params paramFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a root DAO",
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := s.identity()
			if err != nil {
				return err
			}
			d, err := s.app.DAOs.Create(cmd.Context(), service.CreateDAORequest{
				Name:           name,
				Description:    description,
				MembershipType: membership,
				Params:         params.merge(cmd, s.app.Defaults),
				Creator:        creator,
				TokenID:        tokenID,
				Now:            s.now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created DAO %s %s\n", formatter.Bold(d.Name), formatter.Dim(d.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "DAO name")
	cmd.Flags().StringVar(&description, "description", "", "DAO description")
	cmd.Flags().StringVar(&membership, "membership", "", "Token type that grants membership")
	cmd.Flags().StringVar(&tokenID, "token", "", "Qualifying token presented by the creator")
	params.register(cmd, s.app.Defaults)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("membership")

	return cmd
}

func newDAOSubCmd(s *session) *cobra.Command {
	var name, description, origin, tokenID string
	var params paramFlags

	cmd := &cobra.Command{
		Use:   "sub <parent-dao>",
		Short: "Create a sub-DAO scoped to an origin tag",
		Long: `Create a sub-DAO under an existing DAO. Members must hold the parent's
membership token type and carry the given origin tag. Governance parameters
not given are inherited from the parent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := s.identity()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			parentID, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}

			req := service.CreateSubDAORequest{
				ParentID:    parentID,
				Name:        name,
				Description: description,
				Origin:      origin,
				Creator:     creator,
				TokenID:     tokenID,
				Now:         s.now(),
			}
			if params.changed(cmd) {
				parent, err := s.app.DAOs.GetByID(ctx, parentID)
				if err != nil {
					return err
				}
				merged := params.merge(cmd, service.GovernanceParams{
					Quorum:       parent.Quorum,
					VotingDelay:  parent.VotingDelay,
					VotingPeriod: parent.VotingPeriod,
				})
				req.Params = &merged
			}

			d, err := s.app.DAOs.CreateSub(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created sub-DAO %s scoped to %s %s\n",
				formatter.Bold(d.Name), formatter.StylePurple.Render(origin), formatter.Dim(d.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Sub-DAO name")
	cmd.Flags().StringVar(&description, "description", "", "Sub-DAO description")
	cmd.Flags().StringVar(&origin, "origin", "", "Origin tag members must carry")
	cmd.Flags().StringVar(&tokenID, "token", "", "Qualifying token presented by the creator")
	params.register(cmd, service.GovernanceParams{})
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("origin")

	return cmd
}

func newDAOListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List DAOs",
		RunE: func(cmd *cobra.Command, args []string) error {
			daos, err := s.app.DAOs.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDAOList(daos))
			return nil
		},
	}
}

func newDAOShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <dao>",
		Short: "Show a DAO and its sub-DAOs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			d, err := s.app.DAOs.GetByID(ctx, id)
			if err != nil {
				return err
			}
			children, err := s.app.DAOs.Registered(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDAODetail(d, children))
			return nil
		},
	}
}

func newDAOTreeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the DAO hierarchy from the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := buildDAOTree(cmd.Context(), s.app, domain.HubID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDAOTree(roots))
			return nil
		},
	}
}

// buildDAOTree walks the registry from parentID in append order.
func buildDAOTree(ctx context.Context, app *App, parentID string) ([]formatter.DAONode, error) {
	ids, err := app.DAOs.Registered(ctx, parentID)
	if err != nil {
		return nil, err
	}
	nodes := make([]formatter.DAONode, 0, len(ids))
	for _, id := range ids {
		d, err := app.DAOs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		children, err := buildDAOTree(ctx, app, id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, formatter.DAONode{DAO: d, Children: children})
	}
	return nodes, nil
}
