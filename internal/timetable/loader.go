package timetable

import (
	"context"
	"errors"
	"sync"

	"github.com/classbell/classbell/internal/slot"
)

// ErrSuperseded is returned by a Load that a newer Load replaced.
var ErrSuperseded = errors.New("day load superseded by a newer request")

// Loader fetches one day at a time. Starting a Load cancels the previous one
// still in flight, so a caller flipping between dates only ever sees the
// latest day.
type Loader struct {
	repo slot.Repository

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewLoader creates a Loader over repo.
func NewLoader(repo slot.Repository) *Loader {
	return &Loader{repo: repo}
}

// Load returns the day's slots in start order, or ErrSuperseded if another
// Load started before this one finished.
func (l *Loader) Load(ctx context.Context, classInstanceID, classDate string) ([]*slot.TimeSlot, error) {
	ctx, cancel := context.WithCancelCause(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel(ErrSuperseded)
	}
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		if l.seq == seq {
			l.cancel = nil
		}
		l.mu.Unlock()
		cancel(nil)
	}()

	slots, err := l.repo.ListSlots(ctx, classInstanceID, classDate)
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	stale := l.seq != seq
	l.mu.Unlock()
	if stale {
		return nil, ErrSuperseded
	}

	slot.SortByStart(slots)
	return slots, nil
}
