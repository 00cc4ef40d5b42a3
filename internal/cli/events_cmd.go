package cli

import (
	"fmt"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEventsCmd(s *session) *cobra.Command {
	var daoArg string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the governance event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			daoID := ""
			if daoArg != "" {
				id, err := resolveDAOID(ctx, s.app, daoArg)
				if err != nil {
					return err
				}
				daoID = id
			}
			events, err := s.app.Events.List(ctx, daoID, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEventList(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&daoArg, "dao", "", "Only show events for this DAO")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Show the latest n events (0 for all)")

	return cmd
}
