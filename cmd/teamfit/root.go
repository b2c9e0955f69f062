package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/teamfit/internal/config"
	"github.com/okian/teamfit/pkg/logger"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "teamfit",
		Short: "Compatibility scoring and team composition engine",
		Long: "teamfit scores zodiac compatibility within groups, builds teams from\n" +
			"candidate pools and suggests moves that improve existing teams.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newServeCmd(opts),
		newPairCmd(opts),
		newScoreCmd(opts),
		newBuildCmd(opts),
		newOptimizeCmd(opts),
		newLoadTestCmd(),
	)
	return cmd
}

// init loads configuration (defaults -> file -> env) and sets up logging.
// Flags given on the command line win over configured values. Logs go to
// stderr so command output on stdout stays machine readable.
func (o *rootOptions) init(cmd *cobra.Command) error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFile(cmd.Context(), o.configPath)
	} else {
		o.cfg, err = config.Load(cmd.Context())
	}
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		o.cfg.LogFormat = o.logFormat
	}
	return logger.Init(
		logger.WithLevel(o.cfg.LogLevel),
		logger.WithFormat(o.cfg.LogFormat),
		logger.WithOutput(cmd.ErrOrStderr()),
	)
}
