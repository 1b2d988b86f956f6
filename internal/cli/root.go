package cli

import (
	"github.com/spf13/cobra"

	"github.com/abrezinsky/judgesched/internal/config"
	"github.com/abrezinsky/judgesched/internal/logger"
)

// options carries the persistent flags and what PersistentPreRunE builds
// from them
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logger.SlogLogger
}

// NewRootCmd creates the root cobra command for the judgesched CLI.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "judgesched",
		Short: "Judge rotation scheduler for adjudicated festivals",
		Long:  "judgesched builds judging schedules for festival entrants and serves them over HTTP.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = opts.logFormat
			}
			opts.cfg = cfg
			opts.log = logger.NewWithOptions(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "judgesched.yaml", "Config file path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newImportCmd(opts),
		newVersionCmd(version),
	)

	return root
}
