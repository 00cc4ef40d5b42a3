package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/service"
	"github.com/spf13/cobra"
)

func newProposalCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"prop"},
		Short:   "Create, inspect and resolve proposals",
	}

	cmd.AddCommand(
		newProposalCreateCmd(s),
		newProposalListCmd(s),
		newProposalShowCmd(s),
		newProposalCancelCmd(s),
		newProposalResolveCmd(s),
		newProposalResolveDueCmd(s),
	)

	return cmd
}

func newProposalCreateCmd(s *session) *cobra.Command {
	var vals proposalFormValues
	var tokenID string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "create <dao>",
		Short: "Create a voting or funding proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := s.identity()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			daoID, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}

			if interactive {
				if !s.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if err := proposalForm(&vals).Run(); err != nil {
					return err
				}
			}
			in, err := vals.input()
			if err != nil {
				return err
			}

			p, err := s.app.Proposals.Create(ctx, service.CreateProposalRequest{
				DAOID:       daoID,
				TokenID:     tokenID,
				Identity:    identity,
				Name:        in.Name,
				Description: in.Description,
				Kind:        in.Kind,
				Recipient:   in.Recipient,
				Amount:      in.Amount,
				Now:         s.now(),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created proposal %s %s\n", formatter.Bold(p.Name), formatter.Dim(p.ID))
			fmt.Fprintf(out, "Voting opens %s and closes %s\n", formatter.Timestamp(p.StartTime), formatter.Timestamp(p.EndTime))
			return nil
		},
	}

	cmd.Flags().StringVar(&vals.name, "name", "", "Proposal name")
	cmd.Flags().StringVar(&vals.description, "description", "", "Proposal description")
	cmd.Flags().StringVar(&vals.kind, "kind", string(domain.ProposalVoting), "Proposal kind: voting or funding")
	cmd.Flags().StringVar(&vals.recipient, "recipient", "", "Payout recipient (funding only)")
	cmd.Flags().StringVar(&vals.amount, "amount", "", "Payout amount, up to 3 decimals (funding only)")
	cmd.Flags().StringVar(&tokenID, "token", "", "Membership token presented by the creator")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the proposal in a form")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newProposalListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list <dao>",
		Short: "List a DAO's proposals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			daoID, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			proposals, err := s.app.Proposals.ListByDAO(ctx, daoID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProposalList(proposals, s.now()))
			return nil
		},
	}
}

func newProposalShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <proposal>",
		Short: "Show a proposal with its tally and ballots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProposalID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			p, err := s.app.Proposals.GetByID(ctx, id)
			if err != nil {
				return err
			}
			d, err := s.app.DAOs.GetByID(ctx, p.DAOID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProposalDetail(p, d.Quorum, s.now()))
			return nil
		},
	}
}

func newProposalCancelCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <proposal>",
		Short: "Withdraw a proposal before voting opens (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := s.identity()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := resolveProposalID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			p, err := s.app.Proposals.Cancel(ctx, id, identity, s.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Bold(p.Name), formatter.ProposalStatusPill(p.Status))
			return nil
		},
	}
}

func newProposalResolveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <proposal>",
		Short: "Finalize a proposal whose voting window has closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProposalID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			res, err := s.app.Proposals.Resolve(ctx, id, s.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatResolution(res.Proposal, res.Payout))
			return nil
		},
	}
}

func newProposalResolveDueCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-due",
		Short: "Resolve every active proposal whose window has closed",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := s.app.Proposals.ResolveDue(cmd.Context(), s.now())
			if err != nil {
				return err
			}
			lines := make([]formatter.SweepLine, 0, len(result.Resolved)+len(result.Failed))
			for _, r := range result.Resolved {
				lines = append(lines, formatter.SweepLine{
					ProposalID: r.Proposal.ID,
					Name:       r.Proposal.Name,
					Status:     r.Proposal.Status,
					Payout:     r.Payout,
				})
			}
			for _, f := range result.Failed {
				lines = append(lines, formatter.SweepLine{ProposalID: f.ProposalID, Err: f.Err})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSweep(lines))
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d due proposal(s) failed to resolve", len(result.Failed), len(lines))
			}
			return nil
		},
	}
}

// proposalFormValues holds proposal fields as typed, before parsing. Flags
// and the interactive form write to the same values.
type proposalFormValues struct {
	name        string
	description string
	kind        string
	recipient   string
	amount      string
}

func (v proposalFormValues) input() (domain.ProposalInput, error) {
	in := domain.ProposalInput{
		Name:        strings.TrimSpace(v.name),
		Description: strings.TrimSpace(v.description),
		Kind:        domain.ProposalKind(strings.ToLower(strings.TrimSpace(v.kind))),
	}
	if !domain.ValidProposalKinds[string(in.Kind)] {
		return in, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidProposalShape, v.kind)
	}
	if r := strings.TrimSpace(v.recipient); r != "" {
		in.Recipient = &r
	}
	if a := strings.TrimSpace(v.amount); a != "" {
		amount, err := domain.ParseAmount(a)
		if err != nil {
			return in, err
		}
		in.Amount = &amount
	}
	return in, nil
}
