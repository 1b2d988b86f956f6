package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/roster"
	"github.com/abrezinsky/judgesched/internal/scheduler"
	"github.com/abrezinsky/judgesched/internal/services"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		dbPath string
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Load a roster file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				opts.cfg.Database.Path = dbPath
			}

			repo, err := repository.New(opts.cfg.Database.Path)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()

			settings := services.NewSettingsService(opts.log, repo, r.Settings, opts.cfg.Server.BaseURL)
			if reset {
				if _, err := settings.ResetTables(ctx, []string{"entrants", "judges"}); err != nil {
					return err
				}
			}
			if err := settings.UpdateScheduleSettings(ctx, r.Settings); err != nil {
				return err
			}

			for _, j := range r.Judges {
				if err := repo.SaveJudge(ctx, j); err != nil {
					return fmt.Errorf("save judge %s: %w", j.ID, err)
				}
			}
			for _, e := range r.Entrants {
				if err := repo.SaveEntrant(ctx, e); err != nil {
					return fmt.Errorf("save entrant %s: %w", e.ID, err)
				}
			}

			entrants, err := repo.ListEntrants(ctx)
			if err != nil {
				return err
			}
			units, err := repo.ListUnits(ctx)
			if err != nil {
				return err
			}
			if err := repo.ReplaceUnits(ctx, scheduler.SyncUnits(units, entrants, scheduler.NewUnitID)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d judges and %d entrants into %s\n",
				len(r.Judges), len(r.Entrants), opts.cfg.Database.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "judgesched.db", "SQLite database path")
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear existing entrants, judges and units first")

	return cmd
}
