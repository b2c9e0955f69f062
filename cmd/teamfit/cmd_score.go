package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/domain/model"
)

func newScoreCmd(o *rootOptions) *cobra.Command {
	var flags struct {
		profiles string
		ids      []string
	}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a group of profiles",
		Long:  "Scores the profiles named by --ids, or every active profile in the file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := startService(ctx, o, flags.profiles)
			if err != nil {
				return err
			}
			defer svc.Stop()

			var group []model.Profile
			if len(flags.ids) > 0 {
				group, err = svc.ResolveProfiles(ctx, flags.ids)
			} else {
				group, err = svc.ActiveProfiles(ctx)
			}
			if err != nil {
				return err
			}
			b, err := svc.ScoreTeam(ctx, group)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), b)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.profiles, "profiles", "", "YAML profile file (required)")
	f.StringSliceVar(&flags.ids, "ids", nil, "member IDs to score (default: all active)")
	_ = cmd.MarkFlagRequired("profiles")
	return cmd
}
