package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) doneCmd() *cobra.Command {
	var chapter, topic string

	cmd := &cobra.Command{
		Use:   "done [slot-id]",
		Short: "Mark a period as taught",
		Long: `Mark a period done and record the syllabus progress.

The chapter and topic default to the ones planned on the slot.

Example:
  classbell done 3f2a
  classbell done 3f2a --chapter=ch4 --topic=fractions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			err := a.svc.MarkTaught(a.actorContext(), args[0],
				changed(cmd, "chapter", chapter), changed(cmd, "topic", topic))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatDone("Taught slot "+args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&chapter, "chapter", "", "Syllabus chapter covered")
	cmd.Flags().StringVar(&topic, "topic", "", "Syllabus topic covered")
	return cmd
}
