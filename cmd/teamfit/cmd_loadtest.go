package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/loadgen"
)

func newLoadTestCmd() *cobra.Command {
	cfg := loadgen.NewConfig()
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running server with random requests and check repeats agree",
		Long: "loadtest replaces the server's profiles with generated ones, sends\n" +
			"randomized engine requests concurrently, and fails when two identical\n" +
			"requests received different answers.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadgen.Run(cmd.Context(), cfg)
			if stats != nil {
				if werr := writeJSON(cmd.OutOrStdout(), stats); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the server")
	f.IntVar(&cfg.Profiles, "profiles", cfg.Profiles, "profiles to generate and upload")
	f.IntVar(&cfg.Calls, "calls", cfg.Calls, "engine requests to send")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent requests in flight")
	f.Float64Var(&cfg.Repeat, "repeat", cfg.Repeat, "share of requests that repeat an earlier one")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "request generator seed")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.StringVar(&cfg.OutputFile, "output", "", "write the generated requests to this JSON file")
	return cmd
}
