// Package timetable drives slot mutations end to end: time parsing, conflict
// detection, the caller's resolution, the atomic repository write and the
// renumbering pass that follows it.
package timetable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/classbell/classbell/internal/auth"
	"github.com/classbell/classbell/internal/scheduler"
	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timeparse"
)

// ReasonAborted is reported when the caller aborts on a detected conflict.
const ReasonAborted = "aborted"

// State is the position of one mutation request in its lifecycle.
type State string

const (
	StateDraft              State = "draft"
	StateTimeParsed         State = "time_parsed"
	StateConflictChecked    State = "conflict_checked"
	StateAwaitingResolution State = "awaiting_resolution"
	StateApplying           State = "applying"
	StateApplied            State = "applied"
	StateFailed             State = "failed"
)

// Outcome is the result of a create or update request.
//
// StateAwaitingResolution carries the conflict and requires the caller to
// retry with an explicit Resolution. StateFailed with a Reason is a refusal
// (aborted, repository conflict, duplicate period); input and repository
// errors are returned as errors instead.
type Outcome struct {
	State             State
	Success           bool
	SlotID            string
	Conflict          *slot.ConflictInfo
	ConflictsResolved int
	SlotsShifted      int
	Reason            string
	Message           string
	Recovered         bool // folded into a slot a concurrent writer created
}

// Service coordinates slot mutations over a repository.
type Service struct {
	repo   slot.Repository
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(repo slot.Repository, sched *scheduler.Scheduler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, sched: sched, logger: logger}
}

// Scheduler returns the scheduler the service validates against.
func (s *Service) Scheduler() *scheduler.Scheduler {
	return s.sched
}

// request is one mutation moving through the state machine.
type request struct {
	state      State
	slotID     string // empty on create
	classID    string
	classDate  string
	start, end string
	slot       *slot.TimeSlot
	resolution *slot.Resolution
	draft      *slot.Draft // set on create, used by the duplicate fallback
	log        *zap.Logger
}

func (r *request) to(state State) {
	r.state = state
	r.log.Debug("mutation state", zap.String("state", string(state)))
}

func (r *request) fail(err error) (Outcome, error) {
	r.to(StateFailed)
	return Outcome{State: StateFailed}, err
}

func (r *request) refuse(reason, msg string) (Outcome, error) {
	r.to(StateFailed)
	r.log.Info("mutation refused", zap.String("reason", reason), zap.String("message", msg))
	return Outcome{State: StateFailed, Reason: reason, Message: msg}, nil
}

// CreateWithResolution creates a slot from draft. Pass a nil resolution on
// the first attempt; if the slot conflicts the outcome is
// StateAwaitingResolution and the call must be repeated with the caller's
// choice.
func (s *Service) CreateWithResolution(ctx context.Context, draft slot.Draft, res *slot.Resolution) (Outcome, error) {
	log := s.logger.With(
		zap.String("op", "create"),
		zap.String("class", draft.ClassInstanceID),
		zap.String("date", draft.ClassDate),
	)
	r := &request{state: StateDraft, classID: draft.ClassInstanceID, classDate: draft.ClassDate, resolution: res, draft: &draft, log: log}

	if err := slot.Validate(&draft); err != nil {
		return r.fail(err)
	}
	if res != nil {
		if err := res.Validate(); err != nil {
			return r.fail(err)
		}
	}
	actor, err := auth.Authorize(ctx, draft.SchoolCode)
	if err != nil {
		return r.fail(err)
	}

	start, end, err := parseInterval(draft.StartTime, draft.EndTime)
	if err != nil {
		return r.fail(err)
	}
	r.start, r.end = start, end
	r.slot = draft.ToSlot(start, end)
	r.to(StateTimeParsed)

	return s.run(ctx, r, actor)
}

// UpdateWithResolution applies patch to slot id. A patch without start or
// end time is a plain field update and never conflicts.
func (s *Service) UpdateWithResolution(ctx context.Context, id string, patch slot.Patch, res *slot.Resolution) (Outcome, error) {
	log := s.logger.With(zap.String("op", "update"), zap.String("slot", id))
	r := &request{state: StateDraft, slotID: id, resolution: res, log: log}

	if err := slot.Validate(&patch); err != nil {
		return r.fail(err)
	}
	if res != nil {
		if err := res.Validate(); err != nil {
			return r.fail(err)
		}
	}

	current, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return r.fail(fmt.Errorf("loading slot: %w", err))
	}
	actor, err := auth.Authorize(ctx, current.SchoolCode)
	if err != nil {
		return r.fail(err)
	}
	r.classID, r.classDate = current.ClassInstanceID, current.ClassDate
	r.log = r.log.With(zap.String("class", r.classID), zap.String("date", r.classDate))

	merged := current.Clone()
	patch.Fields().Apply(merged)
	check := draftOf(merged)
	if err := slot.Validate(&check); err != nil {
		return r.fail(err)
	}

	if !patch.HasTiming() {
		if err := s.repo.UpdateSlotFields(context.WithoutCancel(ctx), id, patch.Fields()); err != nil {
			return r.fail(fmt.Errorf("updating slot: %w", err))
		}
		r.to(StateApplied)
		return Outcome{State: StateApplied, Success: true, SlotID: id}, nil
	}

	startText, endText := current.StartTime, current.EndTime
	if patch.StartTime != nil {
		startText = *patch.StartTime
	}
	if patch.EndTime != nil {
		endText = *patch.EndTime
	}
	start, end, err := parseInterval(startText, endText)
	if err != nil {
		return r.fail(err)
	}
	r.start, r.end = start, end
	merged.StartTime, merged.EndTime = start, end
	r.slot = merged
	r.to(StateTimeParsed)

	return s.run(ctx, r, actor)
}

// run takes a parsed request through conflict detection and the write.
func (s *Service) run(ctx context.Context, r *request, actor auth.Actor) (Outcome, error) {
	if msg := s.sched.ValidateTimeSlot(r.start, r.end); msg != "" {
		r.log.Warn("slot outside school day", zap.String("start", r.start), zap.String("end", r.end), zap.String("detail", msg))
	}

	day, err := s.repo.ListSlots(ctx, r.classID, r.classDate)
	if err != nil {
		return r.fail(fmt.Errorf("loading day: %w", err))
	}
	conflict := scheduler.Detect(r.start, r.end, day, r.slotID)
	r.to(StateConflictChecked)

	req := slot.AtomicRequest{SlotID: r.slotID, Slot: r.slot, Actor: actor.ID}
	if conflict != nil {
		conflict.NextFreeStart = s.nextFreeStart(r, day)
		r.log.Info("conflict detected",
			zap.Int("conflicts", len(conflict.Conflicts)),
			zap.Int("shift_delta", conflict.ShiftDelta))

		if r.resolution == nil {
			r.to(StateAwaitingResolution)
			return Outcome{State: StateAwaitingResolution, Conflict: conflict}, nil
		}

		switch r.resolution.Action {
		case slot.ActionAbort:
			out, _ := r.refuse(ReasonAborted, "conflict left unresolved")
			out.Conflict = conflict
			return out, nil

		case slot.ActionReplace:
			req.Action = slot.ActionReplace
			req.ReplaceSlotID = r.resolution.ReplaceSlotID

		case slot.ActionShift:
			delta := conflict.ShiftDelta
			if r.resolution.ShiftDelta != nil {
				delta = *r.resolution.ShiftDelta
			}
			shifts, err := scheduler.ShiftBy(r.start, r.end, day, r.slotID, delta)
			if errors.Is(err, slot.ErrShiftOverflow) {
				return r.refuse(slot.ReasonShiftOverflow, err.Error())
			}
			if err != nil {
				return r.fail(err)
			}
			r.log.Debug("shift planned", zap.Int("delta", delta), zap.Int("slots", len(shifts)))
			req.Action = slot.ActionShift
			req.ShiftDeltaMinutes = delta
		}
	}

	// Once submitted, a mutation runs to completion even if the caller goes away.
	mctx := context.WithoutCancel(ctx)
	r.to(StateApplying)

	result, err := s.repo.AtomicCreateOrUpdate(mctx, req)
	if errors.Is(err, slot.ErrDuplicateInterval) {
		r.log.Warn("duplicate interval, concurrent writer won", zap.Error(err))
		if r.draft == nil {
			return r.refuse(slot.ReasonDuplicate, err.Error())
		}
		return s.recoverDuplicate(mctx, r)
	}
	if err != nil {
		return r.fail(fmt.Errorf("applying slot: %w", err))
	}
	if !result.Success {
		return r.refuse(result.Reason, result.Message)
	}

	out := Outcome{
		State:             StateApplied,
		Success:           true,
		SlotID:            result.SlotID,
		ConflictsResolved: result.ConflictsResolved,
		SlotsShifted:      result.SlotsShifted,
	}
	r.to(StateApplied)
	r.log.Info("slot applied",
		zap.String("slot", result.SlotID),
		zap.String("action", string(req.Action)),
		zap.Int("conflicts_resolved", result.ConflictsResolved),
		zap.Int("slots_shifted", result.SlotsShifted))

	if err := s.renumber(mctx, r.classID, r.classDate); err != nil {
		return out, err
	}
	return out, nil
}

// recoverDuplicate folds the draft into the slot a concurrent writer created
// with the exact same interval. It is the only automatic retry.
func (s *Service) recoverDuplicate(ctx context.Context, r *request) (Outcome, error) {
	day, err := s.repo.ListSlots(ctx, r.classID, r.classDate)
	if err != nil {
		return r.refuse(slot.ReasonDuplicate, fmt.Sprintf("reloading day: %v", err))
	}

	var existing *slot.TimeSlot
	for _, ts := range day {
		if ts.SameInterval(r.start, r.end) {
			existing = ts
			break
		}
	}
	if existing == nil {
		return r.refuse(slot.ReasonDuplicate, "no slot with the same interval after reload")
	}

	if err := s.repo.UpdateSlotFields(ctx, existing.ID, r.draft.Fields()); err != nil {
		return r.refuse(slot.ReasonDuplicate, fmt.Sprintf("updating existing slot: %v", err))
	}

	r.to(StateApplied)
	r.log.Info("recovered from duplicate interval", zap.String("slot", existing.ID))
	out := Outcome{State: StateApplied, Success: true, SlotID: existing.ID, Recovered: true}
	if err := s.renumber(ctx, r.classID, r.classDate); err != nil {
		return out, err
	}
	return out, nil
}

// nextFreeStart finds where the request's interval would fit untouched. The
// slot being edited does not block its own new placement.
func (s *Service) nextFreeStart(r *request, day []*slot.TimeSlot) string {
	d, err := slot.NewDayWithSlots(r.classID, r.classDate, day)
	if err != nil {
		return ""
	}
	if r.slotID != "" {
		d.RemoveSlot(r.slotID)
	}
	return s.sched.NextAvailableStart(d.Slots(), slot.TimeToMinutes(r.end)-slot.TimeToMinutes(r.start))
}

// parseInterval parses start, then end relative to the start hour. An end of
// exactly 24:00 is kept as the end-of-day boundary.
func parseInterval(startText, endText string) (string, string, error) {
	start := timeparse.Parse(startText)
	if !start.IsValid {
		return "", "", &slot.InputError{Field: "start_time", Msg: start.Error}
	}

	endFormatted, endMinutes := slot.EndOfDay, slot.MinutesPerDay
	if slot.Canonical(strings.TrimSpace(endText)) != slot.EndOfDay {
		end := timeparse.ParseRelative(endText, start.Hour)
		if !end.IsValid {
			return "", "", &slot.InputError{Field: "end_time", Msg: end.Error}
		}
		endFormatted, endMinutes = end.Formatted, end.Minutes()
	}
	if endMinutes <= start.Minutes() {
		return "", "", &slot.InputError{
			Field: "end_time",
			Msg:   fmt.Sprintf("end time %s must be after start time %s", slot.ShortTime(endFormatted), slot.ShortTime(start.Formatted)),
		}
	}
	return start.Formatted, endFormatted, nil
}

// draftOf rebuilds a draft from a slot so an edited slot passes the same
// validation as a new one.
func draftOf(ts *slot.TimeSlot) slot.Draft {
	return slot.Draft{
		ClassInstanceID:   ts.ClassInstanceID,
		SchoolCode:        ts.SchoolCode,
		ClassDate:         ts.ClassDate,
		Type:              ts.Type,
		StartTime:         ts.StartTime,
		EndTime:           ts.EndTime,
		Name:              ts.Name,
		SubjectID:         ts.SubjectID,
		TeacherID:         ts.TeacherID,
		SyllabusChapterID: ts.SyllabusChapterID,
		SyllabusTopicID:   ts.SyllabusTopicID,
		PlanText:          ts.PlanText,
		Status:            ts.Status,
	}
}
