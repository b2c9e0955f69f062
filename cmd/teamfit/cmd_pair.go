package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/domain/zodiac"
)

func newPairCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pair <sign> <sign>",
		Short: "Print the compatibility record of two signs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := zodiac.ParseSign(args[0])
			if err != nil {
				return err
			}
			b, err := zodiac.ParseSign(args[1])
			if err != nil {
				return err
			}
			svc, err := startService(cmd.Context(), o, "")
			if err != nil {
				return err
			}
			defer svc.Stop()

			rec, err := svc.Compatibility(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}
