package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS time_slots (
			id                  TEXT PRIMARY KEY,
			class_instance_id   TEXT NOT NULL,
			school_code         TEXT NOT NULL,
			class_date          DATE NOT NULL,
			slot_type           TEXT NOT NULL CHECK(slot_type IN ('period', 'break')),
			period_number       INTEGER NOT NULL DEFAULT 0,
			start_time          TIME NOT NULL,
			end_time            TIME NOT NULL,
			name                TEXT NOT NULL DEFAULT '',
			subject_id          TEXT,
			teacher_id          TEXT,
			syllabus_chapter_id TEXT,
			syllabus_topic_id   TEXT,
			plan_text           TEXT,
			status              TEXT NOT NULL DEFAULT 'planned' CHECK(status IN ('planned', 'done', 'cancelled')),
			updated_by          TEXT NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL,
			CHECK(start_time < end_time)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_time_slots_interval
			ON time_slots(class_instance_id, class_date, start_time, end_time);
		CREATE INDEX IF NOT EXISTS idx_time_slots_day ON time_slots(class_instance_id, class_date);
		CREATE INDEX IF NOT EXISTS idx_time_slots_school ON time_slots(school_code);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating time_slots table: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS slot_progress (
			id                  TEXT PRIMARY KEY,
			slot_id             TEXT NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
			taught_by           TEXT NOT NULL,
			syllabus_chapter_id TEXT,
			syllabus_topic_id   TEXT,
			taught_at           DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_slot_progress_slot ON slot_progress(slot_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating slot_progress table: %w", err)
	}

	return nil
}
