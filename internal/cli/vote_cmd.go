package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/service"
	"github.com/spf13/cobra"
)

func newVoteCmd(s *session) *cobra.Command {
	var tokenID string

	cmd := &cobra.Command{
		Use:   "vote <proposal> <for|against|abstain>",
		Short: "Cast a vote on a proposal with a membership token",
		Long: `Cast one vote per token. An identity holding several qualifying tokens
may vote once with each, but every vote must go the same direction as its
first.`,
		Args: cobra.ExactArgs(2),
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
			receipt, err := s.app.Votes.Cast(ctx, service.CastVoteRequest{
				ProposalID: id,
				TokenID:    tokenID,
				Identity:   identity,
				VoteType:   domain.VoteType(strings.ToLower(args[1])),
				Now:        s.now(),
			})
			if err != nil {
				return err
			}
			p, err := s.app.Proposals.GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatVoteReceipt(p.Name, receipt.Ballot, receipt.Tally, receipt.Voter))
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenID, "token", "", "Membership token to vote with")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}
