package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) generateCmd() *cobra.Command {
	var (
		date  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out an empty day from the configured schedule",
		Long: `Fill an empty day with back-to-back periods and the configured breaks.

The day must have no slots yet. Days that are not configured workdays are
refused unless --force is given.

Example:
  classbell generate --date=monday
  classbell generate --date=2025-01-11 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			classDate, err := a.resolveDate(date)
			if err != nil {
				return err
			}

			slots, err := a.svc.QuickGenerate(a.actorContext(), a.class, a.config.School.Code, classDate, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d slot(s) for %s on %s\n\n", len(slots), a.class, classDate)
			fmt.Fprintln(out, RenderDayTable(slots, termWidth()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Class date (default: today)")
	cmd.Flags().BoolVar(&force, "force", false, "Generate even if the date is not a workday")
	return cmd
}
