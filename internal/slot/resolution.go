package slot

import "fmt"

// Action is the caller's choice for reconciling a detected conflict.
type Action string

const (
	ActionNone    Action = ""
	ActionAbort   Action = "abort"
	ActionReplace Action = "replace"
	ActionShift   Action = "shift"
)

// ParseAction converts a user-supplied string into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionAbort, ActionReplace, ActionShift:
		return Action(s), nil
	default:
		return ActionNone, &InputError{Field: "resolution", Msg: fmt.Sprintf("unknown action %q, want abort, replace or shift", s)}
	}
}

// Resolution is the caller's decision for one mutation request.
type Resolution struct {
	Action        Action
	ReplaceSlotID string // required for ActionReplace
	ShiftDelta    *int   // optional for ActionShift, minutes
}

// Abort returns an abort resolution.
func Abort() *Resolution {
	return &Resolution{Action: ActionAbort}
}

// Replace returns a resolution that displaces the given slot.
func Replace(slotID string) *Resolution {
	return &Resolution{Action: ActionReplace, ReplaceSlotID: slotID}
}

// ShiftForward returns a resolution that cascades later slots forward.
// A nil delta means the minimal delta computed by the detector.
func ShiftForward(delta *int) *Resolution {
	return &Resolution{Action: ActionShift, ShiftDelta: delta}
}

// Validate checks that the resolution carries the fields its action needs.
func (r *Resolution) Validate() error {
	switch r.Action {
	case ActionAbort:
		return nil
	case ActionReplace:
		if r.ReplaceSlotID == "" {
			return &InputError{Field: "replace_slot_id", Msg: "replace requires the id of the slot to displace"}
		}
		return nil
	case ActionShift:
		if r.ShiftDelta != nil && *r.ShiftDelta < 0 {
			return &InputError{Field: "shift_delta", Msg: "shift delta cannot be negative"}
		}
		return nil
	default:
		return &InputError{Field: "resolution", Msg: fmt.Sprintf("unknown action %q", r.Action)}
	}
}

// ConflictInfo describes the slots overlapping a candidate interval.
type ConflictInfo struct {
	Start, End string      // candidate interval, HH:MM:SS
	Conflicts  []*TimeSlot // chronological
	ShiftDelta int         // minutes

	// NextFreeStart is the first start inside the school day where the
	// candidate fits without moving anything, or "" if none does.
	NextFreeStart string
}

// Overlap returns how many minutes s shares with the candidate interval.
func (c *ConflictInfo) Overlap(s *TimeSlot) int {
	if c == nil || s == nil {
		return 0
	}
	return OverlapMinutes(c.Start, c.End, s.StartTime, s.EndTime)
}

// Earliest returns the conflicting slot that starts first.
func (c *ConflictInfo) Earliest() *TimeSlot {
	if c == nil || len(c.Conflicts) == 0 {
		return nil
	}
	return c.Conflicts[0]
}

// Contains returns true if the slot with the given id is in the conflict set.
func (c *ConflictInfo) Contains(id string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Conflicts {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Shift is the new placement of one slot moved by a cascade.
type Shift struct {
	Slot     *TimeSlot
	NewStart string
	NewEnd   string
}

// PeriodUpdate is a period number change produced by renumbering.
type PeriodUpdate struct {
	ID           string
	PeriodNumber int
}
