package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/judgesched/internal/conflicts"
	"github.com/abrezinsky/judgesched/internal/export"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/roster"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

func newCheckCmd(opts *options) *cobra.Command {
	var (
		xlsxPath string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "check <roster.yaml>",
		Short: "Populate a roster offline and report conflicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load(args[0])
			if err != nil {
				return err
			}

			res := scheduler.New(opts.log).Populate(scheduler.Input{
				Entrants: r.Entrants,
				Judges:   r.Judges,
				Settings: r.Settings,
			})
			found := conflicts.NewDetector(opts.log).Detect(conflicts.Snapshot{
				Units:    res.Units,
				Judges:   r.Judges,
				Entrants: r.Entrants,
				Settings: r.Settings,
			})

			out := cmd.OutOrStdout()
			printPlacements(out, res, r.Entrants)
			summary := printConflicts(out, found)

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return fmt.Errorf("create workbook: %w", err)
				}
				defer f.Close()
				grid := export.BuildGrid(res.Units, r.Judges, r.Settings)
				if err := export.Write(f, grid, found); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
				fmt.Fprintf(out, "Workbook written to %s\n", xlsxPath)
			}

			if strict && summary.Hard > 0 {
				return fmt.Errorf("%d hard conflicts", summary.Hard)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the schedule to this xlsx file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any hard conflict remains")

	return cmd
}

func printPlacements(w io.Writer, res scheduler.Result, entrants []models.Entrant) {
	names := make(map[string]string, len(entrants))
	for _, e := range entrants {
		names[e.ID] = e.Name
	}

	fmt.Fprintf(w, "Triads: %d  Offset: %d  Placed: %d  Unplaced: %d\n",
		res.Triads, res.Offset, len(res.Placements), len(res.Unplaced))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRANT\tNAME\tGROUP\tTIER")
	for _, p := range res.Placements {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.EntrantID, names[p.EntrantID], p.Group, p.Tier)
	}
	for _, id := range res.Unplaced {
		fmt.Fprintf(tw, "%s\t%s\t-\t%s\n", id, names[id], scheduler.TierUnplaced)
	}
	tw.Flush()
}

func printConflicts(w io.Writer, found []models.ConflictDetail) conflicts.Summary {
	summary := conflicts.Summarize(found)
	fmt.Fprintf(w, "\nConflicts: %d hard, %d soft\n", summary.Hard, summary.Soft)
	for _, c := range found {
		fmt.Fprintf(w, "  [%s] %s: %s\n", c.Severity, c.Kind, c.Message)
	}
	return summary
}
