package timetable

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/classbell/classbell/internal/auth"
	"github.com/classbell/classbell/internal/scheduler"
	"github.com/classbell/classbell/internal/slot"
)

var (
	// ErrDayNotEmpty is returned by QuickGenerate when the day already has slots.
	ErrDayNotEmpty = errors.New("day already has slots")
	// ErrBreakNotTaught is returned when marking a break as taught.
	ErrBreakNotTaught = errors.New("a break cannot be marked taught")
)

// ListDay returns the day's slots in start order.
func (s *Service) ListDay(ctx context.Context, classInstanceID, classDate string) ([]*slot.TimeSlot, error) {
	slots, err := s.repo.ListSlots(ctx, classInstanceID, classDate)
	if err != nil {
		return nil, fmt.Errorf("loading day: %w", err)
	}
	slot.SortByStart(slots)
	return slots, nil
}

// Get returns a single slot.
func (s *Service) Get(ctx context.Context, id string) (*slot.TimeSlot, error) {
	return s.repo.GetSlot(ctx, id)
}

// Delete removes a slot and renumbers the rest of its day.
func (s *Service) Delete(ctx context.Context, id string) error {
	ts, err := s.authorizedSlot(ctx, id)
	if err != nil {
		return err
	}

	mctx := context.WithoutCancel(ctx)
	if err := s.repo.DeleteSlot(mctx, id); err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	s.logger.Info("slot deleted",
		zap.String("slot", id),
		zap.String("class", ts.ClassInstanceID),
		zap.String("date", ts.ClassDate))

	return s.renumber(mctx, ts.ClassInstanceID, ts.ClassDate)
}

// Cancel marks a slot cancelled. The slot keeps its interval.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if _, err := s.authorizedSlot(ctx, id); err != nil {
		return err
	}

	status := slot.StatusCancelled
	if err := s.repo.UpdateSlotFields(context.WithoutCancel(ctx), id, slot.Fields{Status: &status}); err != nil {
		return fmt.Errorf("cancelling slot: %w", err)
	}
	s.logger.Info("slot cancelled", zap.String("slot", id))
	return nil
}

// MarkTaught marks a period done and records who taught it. Chapter and topic
// default to the slot's planned syllabus linkage.
func (s *Service) MarkTaught(ctx context.Context, id string, chapterID, topicID *string) error {
	ts, err := s.authorizedSlot(ctx, id)
	if err != nil {
		return err
	}
	if ts.IsBreak() {
		return fmt.Errorf("%w: %s", ErrBreakNotTaught, ts.Label())
	}
	actor, _ := auth.FromContext(ctx)

	if chapterID == nil {
		chapterID = ts.SyllabusChapterID
	}
	if topicID == nil {
		topicID = ts.SyllabusTopicID
	}
	err = s.repo.MarkTaught(context.WithoutCancel(ctx), slot.Progress{
		SlotID:            id,
		TaughtBy:          actor.ID,
		SyllabusChapterID: chapterID,
		SyllabusTopicID:   topicID,
	})
	if err != nil {
		return fmt.Errorf("marking slot taught: %w", err)
	}
	s.logger.Info("slot taught", zap.String("slot", id), zap.String("actor", actor.ID))
	return nil
}

// QuickGenerate seeds an empty day from the configured school day. Days off
// are refused unless force is set.
func (s *Service) QuickGenerate(ctx context.Context, classInstanceID, schoolCode, classDate string, force bool) ([]*slot.TimeSlot, error) {
	if _, err := auth.Authorize(ctx, schoolCode); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListSlots(ctx, classInstanceID, classDate)
	if err != nil {
		return nil, fmt.Errorf("loading day: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s has %d slot(s) on %s", ErrDayNotEmpty, classInstanceID, len(existing), classDate)
	}

	slots, err := s.sched.Generate(classInstanceID, schoolCode, classDate, force)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSlots(context.WithoutCancel(ctx), slots); err != nil {
		return nil, fmt.Errorf("saving generated slots: %w", err)
	}

	s.logger.Info("day generated",
		zap.String("class", classInstanceID),
		zap.String("date", classDate),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// renumber rewrites the day's period numbers to 1..N in start order.
func (s *Service) renumber(ctx context.Context, classInstanceID, classDate string) error {
	day, err := s.repo.ListSlots(ctx, classInstanceID, classDate)
	if err != nil {
		return fmt.Errorf("renumbering day: %w", err)
	}
	updates := scheduler.Renumber(day)
	if len(updates) == 0 {
		return nil
	}
	if err := s.repo.UpdatePeriodNumbers(ctx, classInstanceID, classDate, updates); err != nil {
		return fmt.Errorf("renumbering day: %w", err)
	}
	s.logger.Debug("day renumbered",
		zap.String("class", classInstanceID),
		zap.String("date", classDate),
		zap.Int("changed", len(updates)))
	return nil
}

func (s *Service) authorizedSlot(ctx context.Context, id string) (*slot.TimeSlot, error) {
	if _, err := auth.FromContext(ctx); err != nil {
		return nil, err
	}
	ts, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading slot: %w", err)
	}
	if _, err := auth.Authorize(ctx, ts.SchoolCode); err != nil {
		return nil, err
	}
	return ts, nil
}
