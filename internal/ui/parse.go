package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/timeparse"
)

func (a *App) parseCmd() *cobra.Command {
	var ref int

	cmd := &cobra.Command{
		Use:   "parse [time]...",
		Short: "Show how times are read",
		Long: `Parse free-form times and print their canonical form.

With --ref, bare hours are read relative to that hour the same way an end
time is read relative to its start.

Example:
  classbell parse 9 2pm 1430
  classbell parse 1 --ref=11`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, input := range args {
				r := timeparse.ParseRelative(input, ref)
				if !r.IsValid {
					failed++
					fmt.Fprintf(out, "%-10s %s\n", input, formatCancelled(r.Error))
					continue
				}
				fmt.Fprintf(out, "%-10s %s\n", input, formatPeriod(r.Formatted))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d time(s) could not be parsed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&ref, "ref", timeparse.NoReference, "Reference hour (0-23) for bare hours")
	return cmd
}
