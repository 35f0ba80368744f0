package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [slot-id]",
		Short: "Cancel a period",
		Long: `Mark a slot as cancelled. The slot keeps its time, so the day's
layout and period numbers do not change. Use 'delete' to free the time.

Example:
  classbell cancel 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.svc.Cancel(a.actorContext(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatCancelled("Cancelled slot "+args[0]))
			return nil
		},
	}
}
