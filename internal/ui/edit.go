package ui

import (
	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/slot"
)

func (a *App) editCmd() *cobra.Command {
	var (
		start string
		end   string
		sf    slotFlags
		rf    resolutionFlags
	)

	cmd := &cobra.Command{
		Use:   "edit [slot-id]",
		Short: "Edit or move a slot",
		Long: `Change a slot's fields or move it to new times.

Only the flags you pass are changed. Passing an empty value, e.g. --plan="",
clears an optional field. Moving a slot runs the same conflict checks as add.

Example:
  classbell edit 3f2a --plan="Chapter 4 exercises"
  classbell edit 3f2a --start=11 --end=11:45 --on-conflict=shift`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			res, err := rf.resolution(cmd)
			if err != nil {
				return err
			}

			patch := slot.Patch{
				StartTime:         changed(cmd, "start", start),
				EndTime:           changed(cmd, "end", end),
				Name:              changed(cmd, "name", sf.name),
				SubjectID:         changed(cmd, "subject", sf.subject),
				TeacherID:         changed(cmd, "teacher", sf.teacher),
				SyllabusChapterID: changed(cmd, "chapter", sf.chapter),
				SyllabusTopicID:   changed(cmd, "topic", sf.topic),
				PlanText:          changed(cmd, "plan", sf.plan),
			}
			if cmd.Flags().Changed("type") {
				typ := slot.Type(sf.slotType)
				patch.Type = &typ
			}

			out, err := a.svc.UpdateWithResolution(a.actorContext(), args[0], patch, res)
			return reportOutcome(cmd, "Updated", out, err)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	sf.register(cmd, "")
	rf.register(cmd)

	return cmd
}
