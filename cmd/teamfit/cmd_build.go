package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/domain/builder"
)

func newBuildCmd(o *rootOptions) *cobra.Command {
	var flags struct {
		profiles    string
		size        int
		constraints builder.Constraints
	}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a team from every active profile in a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(ctx, o, flags.profiles)
			if err != nil {
				return err
			}
			defer svc.Stop()

			pool, err := svc.ActiveProfiles(ctx)
			if err != nil {
				return err
			}
			res, err := svc.BuildTeam(ctx, pool, flags.size, flags.constraints)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.profiles, "profiles", "", "YAML profile file (required)")
	f.IntVar(&flags.size, "size", 0, "target team size, at least 2 (required)")
	f.BoolVar(&flags.constraints.RequireElementBalance, "balance", false, "require every element")
	f.BoolVar(&flags.constraints.AvoidConflicts, "avoid-conflicts", false, "avoid high-conflict pairs")
	f.Float64Var(&flags.constraints.MinCompatibilityScore, "min-score", 0, "minimum overall team score")
	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}
