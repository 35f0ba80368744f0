package timetable

import (
	"context"
	"fmt"
	"sync"

	"github.com/classbell/classbell/internal/scheduler"
	"github.com/classbell/classbell/internal/slot"
)

// memRepo is an in-memory slot.Repository with the same refusal semantics as
// the SQLite procedure, plus hooks to simulate concurrent writers.
type memRepo struct {
	mu       sync.Mutex
	slots    map[string]*slot.TimeSlot
	progress []slot.Progress
	nextID   int

	listCalls   int
	atomicCalls int

	beforeAtomic func() // runs before the atomic procedure takes the lock
	listHook     func(ctx context.Context) error
	updateErr    error
}

var _ slot.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{slots: make(map[string]*slot.TimeSlot)}
}

func (m *memRepo) day(classID, date string) []*slot.TimeSlot {
	var out []*slot.TimeSlot
	for _, s := range m.slots {
		if s.ClassInstanceID == classID && s.ClassDate == date {
			out = append(out, s)
		}
	}
	slot.SortByStart(out)
	return out
}

func (m *memRepo) insertLocked(s *slot.TimeSlot) string {
	m.nextID++
	c := s.Clone()
	if c.ID == "" {
		c.ID = fmt.Sprintf("slot-%d", m.nextID)
	}
	m.slots[c.ID] = c
	return c.ID
}

// seed inserts slots directly, bypassing every check.
func (m *memRepo) seed(slots ...*slot.TimeSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		s.ID = m.insertLocked(s)
	}
}

func (m *memRepo) ListSlots(ctx context.Context, classID, date string) ([]*slot.TimeSlot, error) {
	m.mu.Lock()
	m.listCalls++
	hook := m.listHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*slot.TimeSlot
	for _, s := range m.day(classID, date) {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *memRepo) GetSlot(_ context.Context, id string) (*slot.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
	}
	return s.Clone(), nil
}

func (m *memRepo) AtomicCreateOrUpdate(ctx context.Context, req slot.AtomicRequest) (slot.AtomicResult, error) {
	if m.beforeAtomic != nil {
		m.beforeAtomic()
	}
	if err := ctx.Err(); err != nil {
		return slot.AtomicResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.atomicCalls++

	target := req.Slot.Clone()
	if req.SlotID != "" {
		existing, ok := m.slots[req.SlotID]
		if !ok {
			return slot.AtomicResult{Reason: slot.ReasonNotFound}, nil
		}
		target.ID = existing.ID
	}

	day := m.day(target.ClassInstanceID, target.ClassDate)
	conflicts := slot.Overlapping(day, target.StartTime, target.EndTime, req.SlotID)
	result := slot.AtomicResult{Success: true}

	switch req.Action {
	case slot.ActionNone:
		for _, c := range conflicts {
			if c.SameInterval(target.StartTime, target.EndTime) {
				return slot.AtomicResult{}, slot.ErrDuplicateInterval
			}
		}
		if len(conflicts) > 0 {
			return slot.AtomicResult{Reason: slot.ReasonConflict, Message: "overlap"}, nil
		}
	case slot.ActionReplace:
		found := false
		for _, c := range conflicts {
			found = found || c.ID == req.ReplaceSlotID
		}
		if !found {
			return slot.AtomicResult{Reason: slot.ReasonInvalidReplace}, nil
		}
		if len(conflicts) > 1 {
			return slot.AtomicResult{Reason: slot.ReasonConflict}, nil
		}
		delete(m.slots, req.ReplaceSlotID)
		result.ConflictsResolved = 1
	case slot.ActionShift:
		shifts, err := scheduler.ShiftBy(target.StartTime, target.EndTime, day, req.SlotID, req.ShiftDeltaMinutes)
		if err != nil {
			return slot.AtomicResult{Reason: slot.ReasonShiftOverflow, Message: err.Error()}, nil
		}
		for _, sh := range shifts {
			m.slots[sh.Slot.ID].StartTime = sh.NewStart
			m.slots[sh.Slot.ID].EndTime = sh.NewEnd
		}
		result.ConflictsResolved = len(conflicts)
		result.SlotsShifted = len(shifts)
	}

	if req.SlotID == "" {
		result.SlotID = m.insertLocked(target)
	} else {
		m.slots[req.SlotID] = target
		result.SlotID = req.SlotID
	}
	return result, nil
}

func (m *memRepo) CreateSlots(_ context.Context, slots []*slot.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		s.ID = m.insertLocked(s)
	}
	return nil
}

func (m *memRepo) UpdateSlotFields(_ context.Context, id string, fields slot.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	s, ok := m.slots[id]
	if !ok {
		return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
	}
	fields.Apply(s)
	return nil
}

func (m *memRepo) UpdatePeriodNumbers(_ context.Context, _, _ string, updates []slot.PeriodUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		s, ok := m.slots[u.ID]
		if !ok {
			return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, u.ID)
		}
		s.PeriodNumber = u.PeriodNumber
	}
	return nil
}

func (m *memRepo) MarkTaught(_ context.Context, p slot.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[p.SlotID]
	if !ok {
		return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, p.SlotID)
	}
	s.Status = slot.StatusDone
	m.progress = append(m.progress, p)
	return nil
}

func (m *memRepo) DeleteSlot(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; !ok {
		return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
	}
	delete(m.slots, id)
	return nil
}

func (m *memRepo) Close() error { return nil }
