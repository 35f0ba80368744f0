// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/scheduler"
	"github.com/classbell/classbell/internal/slot"
)

// Writers take the database lock when the transaction begins so the read of
// a day and the writes derived from it cannot interleave with another writer.
const dsnParams = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"

// Parking interval for a slot being moved while others shift around it.
// Sorts after every real time, so it never collides with a day's slots.
const (
	parkStart = "24:00:01"
	parkEnd   = "24:00:02"
)

const slotColumns = `
	id, class_instance_id, school_code, class_date, slot_type, period_number,
	start_time, end_time, name, subject_id, teacher_id, syllabus_chapter_id,
	syllabus_topic_id, plan_text, status`

// SQLite implements slot.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ slot.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + dsnParams
	} else {
		dsn += "?" + dsnParams
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// ListSlots returns all slots for one class on one date ordered by start time.
func (s *SQLite) ListSlots(ctx context.Context, classInstanceID, classDate string) ([]*slot.TimeSlot, error) {
	return listSlots(ctx, s.db, classInstanceID, classDate)
}

func listSlots(ctx context.Context, q queryer, classInstanceID, classDate string) ([]*slot.TimeSlot, error) {
	query := `SELECT ` + slotColumns + `
		FROM time_slots
		WHERE class_instance_id = ? AND class_date = ?
		ORDER BY start_time, end_time, id
	`

	rows, err := q.QueryContext(ctx, query, classInstanceID, classDate)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []*slot.TimeSlot
	for rows.Next() {
		ts, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return slots, nil
}

// GetSlot retrieves a slot by ID.
func (s *SQLite) GetSlot(ctx context.Context, id string) (*slot.TimeSlot, error) {
	return getSlot(ctx, s.db, id)
}

func getSlot(ctx context.Context, q queryer, id string) (*slot.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ?`

	ts, err := scanSlot(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func scanSlot(row scanner) (*slot.TimeSlot, error) {
	var (
		ts                                   slot.TimeSlot
		classDate                            string
		subject, teacher, chapter, topic, pl sql.NullString
	)
	err := row.Scan(
		&ts.ID,
		&ts.ClassInstanceID,
		&ts.SchoolCode,
		&classDate,
		&ts.Type,
		&ts.PeriodNumber,
		&ts.StartTime,
		&ts.EndTime,
		&ts.Name,
		&subject,
		&teacher,
		&chapter,
		&topic,
		&pl,
		&ts.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning slot: %w", err)
	}
	ts.ClassDate, err = parseClassDate(classDate)
	if err != nil {
		return nil, fmt.Errorf("parsing class date: %w", err)
	}
	ts.SubjectID = fromNull(subject)
	ts.TeacherID = fromNull(teacher)
	ts.SyllabusChapterID = fromNull(chapter)
	ts.SyllabusTopicID = fromNull(topic)
	ts.PlanText = fromNull(pl)
	return &ts, nil
}

// CreateSlots inserts a batch of slots for one day in a single transaction.
// Returns ErrSlotOverlap if any slot overlaps another in the batch or an
// existing slot on the same day.
func (s *SQLite) CreateSlots(ctx context.Context, slots []*slot.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	if err := checkBatchOverlap(slots); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	days := make(map[[2]string][]*slot.TimeSlot)
	for _, ts := range slots {
		key := [2]string{ts.ClassInstanceID, ts.ClassDate}
		if _, ok := days[key]; ok {
			continue
		}
		existing, err := listSlots(ctx, tx, ts.ClassInstanceID, ts.ClassDate)
		if err != nil {
			return err
		}
		days[key] = existing
	}
	for _, ts := range slots {
		existing := days[[2]string{ts.ClassInstanceID, ts.ClassDate}]
		if hits := slot.Overlapping(existing, ts.StartTime, ts.EndTime, ""); len(hits) > 0 {
			return fmt.Errorf("%w: %q (%s-%s) conflicts with %q (%s-%s)",
				slot.ErrSlotOverlap, ts.Label(), ts.StartTime, ts.EndTime,
				hits[0].Label(), hits[0].StartTime, hits[0].EndTime)
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, ts := range slots {
		if ts.ID == "" {
			ts.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, insertArgs(ts, "", now)...); err != nil {
			return fmt.Errorf("inserting slot: %w", mapConstraint(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// checkBatchOverlap checks that no two slots of the batch overlap.
func checkBatchOverlap(slots []*slot.TimeSlot) error {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].OverlapsWith(slots[j]) {
				return fmt.Errorf("%w: %q (%s-%s) conflicts with %q (%s-%s)",
					slot.ErrSlotOverlap,
					slots[i].Label(), slots[i].StartTime, slots[i].EndTime,
					slots[j].Label(), slots[j].StartTime, slots[j].EndTime,
				)
			}
		}
	}
	return nil
}

const insertQuery = `
	INSERT INTO time_slots (
		id, class_instance_id, school_code, class_date, slot_type, period_number,
		start_time, end_time, name, subject_id, teacher_id, syllabus_chapter_id,
		syllabus_topic_id, plan_text, status, updated_by, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insertArgs(ts *slot.TimeSlot, actor, now string) []any {
	return []any{
		ts.ID,
		ts.ClassInstanceID,
		ts.SchoolCode,
		ts.ClassDate,
		ts.Type,
		ts.PeriodNumber,
		ts.StartTime,
		ts.EndTime,
		ts.Name,
		toNull(ts.SubjectID),
		toNull(ts.TeacherID),
		toNull(ts.SyllabusChapterID),
		toNull(ts.SyllabusTopicID),
		toNull(ts.PlanText),
		ts.Status,
		actor,
		now,
		now,
	}
}

// AtomicCreateOrUpdate creates or updates one slot and applies its resolution
// in a single transaction. A refusal (conflict, unknown slot, bad replace
// target, overflow) is reported in the result with Success false and leaves
// the day untouched. A slot with the exact same interval created by someone
// else surfaces as ErrDuplicateInterval.
func (s *SQLite) AtomicCreateOrUpdate(ctx context.Context, req slot.AtomicRequest) (slot.AtomicResult, error) {
	if req.Slot == nil {
		return slot.AtomicResult{}, errors.New("atomic request without slot")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return slot.AtomicResult{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	target := req.Slot.Clone()
	target.StartTime = slot.Canonical(target.StartTime)
	target.EndTime = slot.Canonical(target.EndTime)

	if req.SlotID != "" {
		existing, err := getSlot(ctx, tx, req.SlotID)
		if errors.Is(err, slot.ErrSlotNotFound) {
			return refused(slot.ReasonNotFound, fmt.Sprintf("slot %s does not exist", req.SlotID)), nil
		}
		if err != nil {
			return slot.AtomicResult{}, err
		}
		target.ID = existing.ID
		target.ClassInstanceID = existing.ClassInstanceID
		target.SchoolCode = existing.SchoolCode
		target.ClassDate = existing.ClassDate
	}

	day, err := listSlots(ctx, tx, target.ClassInstanceID, target.ClassDate)
	if err != nil {
		return slot.AtomicResult{}, err
	}
	conflicts := slot.Overlapping(day, target.StartTime, target.EndTime, req.SlotID)

	result := slot.AtomicResult{Success: true}
	switch req.Action {
	case slot.ActionNone:
		if len(conflicts) == 0 {
			break
		}
		for _, c := range conflicts {
			if c.SameInterval(target.StartTime, target.EndTime) {
				return slot.AtomicResult{}, fmt.Errorf("%w: %s %s %s-%s",
					slot.ErrDuplicateInterval, target.ClassInstanceID, target.ClassDate,
					target.StartTime, target.EndTime)
			}
		}
		first := conflicts[0]
		return refused(slot.ReasonConflict, fmt.Sprintf("overlaps %d slot(s), first %q (%s-%s)",
			len(conflicts), first.Label(), first.StartTime, first.EndTime)), nil

	case slot.ActionReplace:
		if !containsID(conflicts, req.ReplaceSlotID) {
			return refused(slot.ReasonInvalidReplace,
				fmt.Sprintf("slot %s does not overlap the new interval", req.ReplaceSlotID)), nil
		}
		if len(conflicts) > 1 {
			return refused(slot.ReasonConflict,
				fmt.Sprintf("replace displaces one slot but %d overlap", len(conflicts))), nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, req.ReplaceSlotID); err != nil {
			return slot.AtomicResult{}, fmt.Errorf("deleting replaced slot: %w", err)
		}
		day = withoutID(day, req.ReplaceSlotID)
		result.ConflictsResolved = 1

	case slot.ActionShift:
		shifts, err := scheduler.ShiftBy(target.StartTime, target.EndTime, day, req.SlotID, req.ShiftDeltaMinutes)
		switch {
		case errors.Is(err, slot.ErrShiftOverflow):
			return refused(slot.ReasonShiftOverflow, err.Error()), nil
		case errors.Is(err, slot.ErrShiftTooSmall):
			return refused(slot.ReasonConflict, err.Error()), nil
		case err != nil:
			return slot.AtomicResult{}, fmt.Errorf("calculating shift: %w", err)
		}
		if req.SlotID != "" && len(shifts) > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE time_slots SET start_time = ?, end_time = ? WHERE id = ?`,
				parkStart, parkEnd, req.SlotID); err != nil {
				return slot.AtomicResult{}, fmt.Errorf("moving slot aside: %w", err)
			}
		}
		if err := applyShifts(ctx, tx, shifts, req.Actor); err != nil {
			return slot.AtomicResult{}, err
		}
		day = scheduler.ApplyShifts(day, shifts)
		result.ConflictsResolved = len(conflicts)
		result.SlotsShifted = len(shifts)

	default:
		return slot.AtomicResult{}, fmt.Errorf("unsupported action %q", req.Action)
	}

	target.PeriodNumber = scheduler.AssignPeriodNumber(target.StartTime, day, req.SlotID)
	now := time.Now().UTC().Format(time.RFC3339)

	if req.SlotID == "" {
		target.ID = uuid.NewString()
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs(target, req.Actor, now)...); err != nil {
			return slot.AtomicResult{}, fmt.Errorf("inserting slot: %w", mapConstraint(err))
		}
	} else {
		query := `
			UPDATE time_slots
			SET slot_type = ?, period_number = ?, start_time = ?, end_time = ?, name = ?,
			    subject_id = ?, teacher_id = ?, syllabus_chapter_id = ?, syllabus_topic_id = ?,
			    plan_text = ?, status = ?, updated_by = ?, updated_at = ?
			WHERE id = ?
		`
		_, err := tx.ExecContext(ctx, query,
			target.Type,
			target.PeriodNumber,
			target.StartTime,
			target.EndTime,
			target.Name,
			toNull(target.SubjectID),
			toNull(target.TeacherID),
			toNull(target.SyllabusChapterID),
			toNull(target.SyllabusTopicID),
			toNull(target.PlanText),
			target.Status,
			req.Actor,
			now,
			target.ID,
		)
		if err != nil {
			return slot.AtomicResult{}, fmt.Errorf("updating slot: %w", mapConstraint(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return slot.AtomicResult{}, fmt.Errorf("committing transaction: %w", err)
	}

	result.SlotID = target.ID
	return result, nil
}

// applyShifts writes shifted times latest first, so a slot never lands on an
// interval still held by the slot after it.
func applyShifts(ctx context.Context, tx *sql.Tx, shifts []slot.Shift, actor string) error {
	if len(shifts) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE time_slots SET start_time = ?, end_time = ?, updated_by = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for i := len(shifts) - 1; i >= 0; i-- {
		sh := shifts[i]
		if _, err := stmt.ExecContext(ctx, sh.NewStart, sh.NewEnd, actor, now, sh.Slot.ID); err != nil {
			return fmt.Errorf("shifting slot %s: %w", sh.Slot.ID, mapConstraint(err))
		}
	}
	return nil
}

// UpdateSlotFields applies a plain field update that never moves the slot.
func (s *SQLite) UpdateSlotFields(ctx context.Context, id string, fields slot.Fields) error {
	if fields.IsEmpty() {
		if _, err := s.GetSlot(ctx, id); err != nil {
			return err
		}
		return nil
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if fields.Type != nil {
		set("slot_type", *fields.Type)
	}
	if fields.Name != nil {
		set("name", *fields.Name)
	}
	if fields.SubjectID != nil {
		set("subject_id", emptyToNull(*fields.SubjectID))
	}
	if fields.TeacherID != nil {
		set("teacher_id", emptyToNull(*fields.TeacherID))
	}
	if fields.SyllabusChapterID != nil {
		set("syllabus_chapter_id", emptyToNull(*fields.SyllabusChapterID))
	}
	if fields.SyllabusTopicID != nil {
		set("syllabus_topic_id", emptyToNull(*fields.SyllabusTopicID))
	}
	if fields.PlanText != nil {
		set("plan_text", emptyToNull(*fields.PlanText))
	}
	if fields.Status != nil {
		set("status", *fields.Status)
	}
	set("updated_at", time.Now().UTC().Format(time.RFC3339))
	args = append(args, id)

	query := `UPDATE time_slots SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating slot fields: %w", err)
	}
	return requireRow(result, id)
}

// UpdatePeriodNumbers rewrites period numbers for one day atomically.
func (s *SQLite) UpdatePeriodNumbers(ctx context.Context, classInstanceID, classDate string, updates []slot.PeriodUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE time_slots SET period_number = ?
		WHERE id = ? AND class_instance_id = ? AND class_date = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		result, err := stmt.ExecContext(ctx, u.PeriodNumber, u.ID, classInstanceID, classDate)
		if err != nil {
			return fmt.Errorf("renumbering slot %s: %w", u.ID, err)
		}
		if err := requireRow(result, u.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// MarkTaught sets the slot done and records a progress row in one transaction.
func (s *SQLite) MarkTaught(ctx context.Context, p slot.Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	result, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET status = ?, updated_by = ?, updated_at = ? WHERE id = ?`,
		slot.StatusDone, p.TaughtBy, now, p.SlotID)
	if err != nil {
		return fmt.Errorf("marking slot done: %w", err)
	}
	if err := requireRow(result, p.SlotID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slot_progress (id, slot_id, taught_by, syllabus_chapter_id, syllabus_topic_id, taught_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), p.SlotID, p.TaughtBy, toNull(p.SyllabusChapterID), toNull(p.SyllabusTopicID), now)
	if err != nil {
		return fmt.Errorf("recording progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CountProgress returns how many progress rows a slot has.
func (s *SQLite) CountProgress(ctx context.Context, slotID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slot_progress WHERE slot_id = ?`, slotID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting progress: %w", err)
	}
	return n, nil
}

// DeleteSlot removes a slot and its progress rows.
func (s *SQLite) DeleteSlot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", slot.ErrSlotNotFound, id)
	}
	return nil
}

func refused(reason, msg string) slot.AtomicResult {
	return slot.AtomicResult{Success: false, Reason: reason, Message: msg}
}

// mapConstraint turns a unique index violation into ErrDuplicateInterval.
func mapConstraint(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", slot.ErrDuplicateInterval, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func containsID(slots []*slot.TimeSlot, id string) bool {
	for _, s := range slots {
		if s.ID == id {
			return true
		}
	}
	return false
}

func withoutID(slots []*slot.TimeSlot, id string) []*slot.TimeSlot {
	out := make([]*slot.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// parseClassDate normalizes a class_date value. The driver hands DATE
// columns back as "2006-01-02T00:00:00Z".
func parseClassDate(s string) (string, error) {
	if dateutil.ValidDate(s) {
		return s, nil
	}
	if len(s) > 10 && s[10] == 'T' && dateutil.ValidDate(s[:10]) {
		return s[:10], nil
	}
	return "", fmt.Errorf("unrecognized date format: %s", s)
}

func toNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return emptyToNull(*p)
}

func emptyToNull(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
