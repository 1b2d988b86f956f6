package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/judgesched/internal/app"
	"github.com/abrezinsky/judgesched/internal/auth"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr     string
		dbPath   string
		password string
		httpLog  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbPath
			}
			if cmd.Flags().Changed("admin-password") {
				cfg.Admin.Password = password
			}
			if cfg.Admin.Password == "" {
				cfg.Admin.Password = auth.GeneratePassword()
				opts.log.Info("Admin password", "password", cfg.Admin.Password)
			}
			if httpLog {
				opts.log.EnableHTTPLogging()
			}

			a, err := app.New(opts.log, cfg, auth.New(cfg.Admin.Password))
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "judgesched.db", "SQLite database path")
	cmd.Flags().StringVar(&password, "admin-password", "", "Admin password (generated when empty)")
	cmd.Flags().BoolVar(&httpLog, "http-log", false, "Log every HTTP request")

	return cmd
}
