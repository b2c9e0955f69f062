package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/domain/optimizer"
)

func newOptimizeCmd(o *rootOptions) *cobra.Command {
	var flags struct {
		profiles string
		team     []string
		opts     optimizer.Options
	}
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest moves that improve a team",
		Long:  "Suggests ADD, REMOVE and SWAP moves for --team using every active profile in the file as candidates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(ctx, o, flags.profiles)
			if err != nil {
				return err
			}
			defer svc.Stop()

			current, err := svc.ResolveProfiles(ctx, flags.team)
			if err != nil {
				return err
			}
			pool, err := svc.ActiveProfiles(ctx)
			if err != nil {
				return err
			}
			moves, err := svc.OptimizeTeam(ctx, current, pool, flags.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), moves)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.profiles, "profiles", "", "YAML profile file (required)")
	f.StringSliceVar(&flags.team, "team", nil, "current member IDs (required)")
	f.IntVar(&flags.opts.MaxSuggestions, "max", 0, "maximum suggestions (default from config)")
	f.IntVar(&flags.opts.TargetSize, "target", 0, "team size cap for ADD moves; 0 means none")
	f.BoolVar(&flags.opts.PrioritizeElementBalance, "prioritize-balance", false, "rank moves that fill element gaps first")
	f.BoolVar(&flags.opts.MinimizeConflicts, "minimize-conflicts", false, "break ties by fewer conflicts")
	_ = cmd.MarkFlagRequired("profiles")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
