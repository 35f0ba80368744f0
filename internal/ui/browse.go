package ui

import (
	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/tui"
)

func (a *App) browseCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the timetable day by day",
		Long: `Open an interactive day view. Page between days with the arrow keys,
jump to a date with g, and copy the day with c.

Example:
  classbell browse --class=7b --date=monday`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			classDate, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			return tui.Run(a.loader, a.class, tui.WithDate(classDate), tui.WithNow(a.now))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Class date to open (default: today)")
	return cmd
}
