package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [slot-id]",
		Short: "Delete a slot",
		Long: `Remove a slot from its day. The remaining slots are renumbered.

Example:
  classbell delete 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.svc.Delete(a.actorContext(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted slot %s\n", args[0])
			return nil
		},
	}
}
