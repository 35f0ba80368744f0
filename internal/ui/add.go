package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timetable"
)

// ErrConflictUnresolved is returned when a slot conflicts and no
// --on-conflict choice was given.
var ErrConflictUnresolved = errors.New("conflict needs a resolution")

// resolutionFlags holds the --on-conflict family of flags.
type resolutionFlags struct {
	onConflict string
	replaceID  string
	shift      int
}

func (f *resolutionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.onConflict, "on-conflict", "", "Conflict resolution: abort, replace, or shift")
	cmd.Flags().StringVar(&f.replaceID, "replace-id", "", "Slot to displace with --on-conflict=replace")
	cmd.Flags().IntVar(&f.shift, "shift", 0, "Minutes to shift later slots by (default: the minimum that clears the conflict)")
}

// resolution builds the resolution the flags describe, or nil when none was asked for.
func (f *resolutionFlags) resolution(cmd *cobra.Command) (*slot.Resolution, error) {
	if f.onConflict == "" {
		if f.replaceID != "" || cmd.Flags().Changed("shift") {
			return nil, &slot.InputError{Field: "on-conflict", Msg: "--replace-id and --shift need --on-conflict"}
		}
		return nil, nil
	}

	action, err := slot.ParseAction(f.onConflict)
	if err != nil {
		return nil, err
	}
	switch action {
	case slot.ActionReplace:
		return slot.Replace(f.replaceID), nil
	case slot.ActionShift:
		if cmd.Flags().Changed("shift") {
			delta := f.shift
			return slot.ShiftForward(&delta), nil
		}
		return slot.ShiftForward(nil), nil
	default:
		return slot.Abort(), nil
	}
}

// slotFlags holds the descriptive fields shared by add and edit.
type slotFlags struct {
	slotType string
	name     string
	subject  string
	teacher  string
	chapter  string
	topic    string
	plan     string
}

func (f *slotFlags) register(cmd *cobra.Command, defaultType string) {
	cmd.Flags().StringVar(&f.slotType, "type", defaultType, "Slot type: period or break")
	cmd.Flags().StringVar(&f.name, "name", "", "Slot name, e.g. Maths or Lunch")
	cmd.Flags().StringVar(&f.subject, "subject", "", "Subject id")
	cmd.Flags().StringVar(&f.teacher, "teacher", "", "Teacher id")
	cmd.Flags().StringVar(&f.chapter, "chapter", "", "Syllabus chapter id")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Syllabus topic id")
	cmd.Flags().StringVar(&f.plan, "plan", "", "Lesson plan text")
}

// changed returns a pointer to the flag value if the flag was set.
func changed(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v := value
	return &v
}

// reportOutcome prints the result of a mutation and turns refusals into errors.
func reportOutcome(cmd *cobra.Command, verb string, out timetable.Outcome, err error) error {
	w := cmd.OutOrStdout()
	if out.Success {
		PrintOutcome(w, verb, out)
		if err != nil {
			return fmt.Errorf("slot saved but %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if out.State == timetable.StateAwaitingResolution {
		PrintConflict(w, out.Conflict)
		return ErrConflictUnresolved
	}
	if out.Message != "" {
		return fmt.Errorf("not applied (%s): %s", out.Reason, out.Message)
	}
	return fmt.Errorf("not applied: %s", out.Reason)
}

func (a *App) addCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
		sf    slotFlags
		rf    resolutionFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a period or break",
		Long: `Add a slot to a class day.

Times are forgiving: "9", "9:30", "930", "2pm" and "14:00" all work. The end
time is read relative to the start, so --start=11 --end=1 means 11:00-13:00.

If the slot overlaps existing ones, the conflict is printed and nothing is
saved. Re-run with --on-conflict to abort, replace the clashing slot, or
shift the rest of the day forward.

Example:
  classbell add --date=monday --start=9 --end=9:45 --name=Maths
  classbell add --start=10 --end=11 --name=Lab --on-conflict=shift
  classbell add --start=12:30 --end=1:15 --type=break --name=Lunch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			classDate, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			res, err := rf.resolution(cmd)
			if err != nil {
				return err
			}

			draft := slot.Draft{
				ClassInstanceID:   a.class,
				SchoolCode:        a.config.School.Code,
				ClassDate:         classDate,
				Type:              slot.Type(sf.slotType),
				StartTime:         start,
				EndTime:           end,
				Name:              sf.name,
				SubjectID:         changed(cmd, "subject", sf.subject),
				TeacherID:         changed(cmd, "teacher", sf.teacher),
				SyllabusChapterID: changed(cmd, "chapter", sf.chapter),
				SyllabusTopicID:   changed(cmd, "topic", sf.topic),
				PlanText:          changed(cmd, "plan", sf.plan),
			}

			out, err := a.svc.CreateWithResolution(a.actorContext(), draft, res)
			return reportOutcome(cmd, "Created", out, err)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Class date (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (required)")
	sf.register(cmd, string(slot.TypePeriod))
	rf.register(cmd)

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
