package cli

import (
	"fmt"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/spf13/cobra"
)

func newTreasuryCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasury",
		Short: "Fund and inspect DAO treasuries",
	}
	cmd.AddCommand(
		newTreasuryDepositCmd(s),
		newTreasuryShowCmd(s),
		newTreasuryReceivedCmd(s),
	)
	return cmd
}

func newTreasuryDepositCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <dao> <amount>",
		Short: "Deposit funds into a DAO treasury",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := s.identity()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			daoID, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			amount, err := domain.ParseAmount(args[1])
			if err != nil {
				return err
			}
			d, err := s.app.Treasury.Deposit(ctx, daoID, from, amount, s.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deposited %s into %s, balance %s\n",
				amount, formatter.Bold(d.Name), formatter.Bold(d.Treasury.Balance.String()))
			return nil
		},
	}
}

func newTreasuryShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <dao>",
		Short: "Show a treasury balance and its movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			daoID, err := resolveDAOID(ctx, s.app, args[0])
			if err != nil {
				return err
			}
			balance, err := s.app.Treasury.Balance(ctx, daoID)
			if err != nil {
				return err
			}
			movements, err := s.app.Treasury.Movements(ctx, daoID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n", formatter.Dim("Balance"), formatter.Bold(balance.String()))
			fmt.Fprintln(out, formatter.FormatMovements(movements))
			return nil
		},
	}
}

func newTreasuryReceivedCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "received <party>",
		Short: "Total paid out to a party across all DAOs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := s.app.Treasury.ReceivedBy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s received %s\n", args[0], formatter.Bold(total.String()))
			return nil
		},
	}
}
