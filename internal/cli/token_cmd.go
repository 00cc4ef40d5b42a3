package cli

import (
	"fmt"

	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/service"
	"github.com/spf13/cobra"
)

func newTokenCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and list membership tokens",
	}
	cmd.AddCommand(newTokenMintCmd(s), newTokenListCmd(s))
	return cmd
}

func newTokenMintCmd(s *session) *cobra.Command {
	var tokenType, holder, origin string

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Issue a membership token to a holder",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := s.app.Tokens.Mint(cmd.Context(), service.MintTokenRequest{
				Type:   tokenType,
				Holder: holder,
				Origin: origin,
				Now:    s.now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Minted %s token %s for %s\n", tok.Type, formatter.Bold(tok.ID), tok.Holder)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenType, "type", "", "Token type")
	cmd.Flags().StringVar(&holder, "holder", "", "Identity receiving the token")
	cmd.Flags().StringVar(&origin, "origin", "", "Origin tag for scoped sub-DAO membership")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("holder")

	return cmd
}

func newTokenListCmd(s *session) *cobra.Command {
	var holder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := s.app.Tokens.List(cmd.Context(), holder)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTokenList(tokens))
			return nil
		},
	}
	cmd.Flags().StringVar(&holder, "holder", "", "Only list tokens held by this identity")
	return cmd
}
