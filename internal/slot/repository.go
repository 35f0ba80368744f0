package slot

import "context"

// Failure reasons reported by the atomic procedure.
const (
	ReasonConflict       = "conflict"
	ReasonNotFound       = "not found"
	ReasonInvalidReplace = "invalid replace target"
	ReasonShiftOverflow  = "shift overflow"
	ReasonDuplicate      = "duplicate period"
)

// AtomicRequest encodes one create-or-update plus its resolution effect.
// SlotID empty means create.
type AtomicRequest struct {
	SlotID            string
	Slot              *TimeSlot
	Action            Action // ActionNone, ActionReplace or ActionShift
	ReplaceSlotID     string
	ShiftDeltaMinutes int
	Actor             string
}

// AtomicResult is the outcome of the atomic procedure. A non-success result
// is a server-side refusal, not an error.
type AtomicResult struct {
	Success           bool
	SlotID            string
	ConflictsResolved int
	SlotsShifted      int
	Reason            string
	Message           string
}

// Progress is the companion record written when a period is taught.
type Progress struct {
	SlotID            string
	TaughtBy          string
	SyllabusChapterID *string
	SyllabusTopicID   *string
}

// Repository defines the storage interface for slots.
type Repository interface {
	// ListSlots returns all slots for one class on one date ordered by start time.
	ListSlots(ctx context.Context, classInstanceID, classDate string) ([]*TimeSlot, error)

	// GetSlot retrieves a slot by id. Returns ErrSlotNotFound if missing.
	GetSlot(ctx context.Context, id string) (*TimeSlot, error)

	// AtomicCreateOrUpdate performs the write and its resolution effect as one
	// indivisible step. Returns ErrDuplicateInterval when another slot already
	// occupies the exact interval.
	AtomicCreateOrUpdate(ctx context.Context, req AtomicRequest) (AtomicResult, error)

	// CreateSlots inserts a batch of non-overlapping slots for one day.
	CreateSlots(ctx context.Context, slots []*TimeSlot) error

	// UpdateSlotFields applies a plain field update that never moves the slot.
	UpdateSlotFields(ctx context.Context, id string, fields Fields) error

	// UpdatePeriodNumbers rewrites period numbers for one day atomically.
	UpdatePeriodNumbers(ctx context.Context, classInstanceID, classDate string, updates []PeriodUpdate) error

	// MarkTaught sets the slot done and records progress in one transaction.
	MarkTaught(ctx context.Context, p Progress) error

	// DeleteSlot removes a slot. Returns ErrSlotNotFound if missing.
	DeleteSlot(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
