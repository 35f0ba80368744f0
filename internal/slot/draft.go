package slot

// Draft is a create request for a single slot. Start and end are free-form
// text and are normalized by the time parser before any conflict logic runs.
type Draft struct {
	ClassInstanceID string `json:"class_instance_id" validate:"required,max=64"`
	SchoolCode      string `json:"school_code" validate:"required,max=32"`
	ClassDate       string `json:"class_date" validate:"required,class_date"`
	Type            Type   `json:"slot_type" validate:"required,slot_type"`
	StartTime       string `json:"start_time" validate:"required,max=16"`
	EndTime         string `json:"end_time" validate:"required,max=16"`
	Name            string `json:"name" validate:"max=80"`

	SubjectID         *string `json:"subject_id" validate:"omitempty,max=64"`
	TeacherID         *string `json:"teacher_id" validate:"omitempty,max=64"`
	SyllabusChapterID *string `json:"syllabus_chapter_id" validate:"omitempty,max=64"`
	SyllabusTopicID   *string `json:"syllabus_topic_id" validate:"omitempty,max=64"`
	PlanText          *string `json:"plan_text" validate:"omitempty,max=2000"`

	Status Status `json:"status" validate:"omitempty,slot_status"`
}

// ToSlot builds a TimeSlot from the draft using already-parsed times.
func (d *Draft) ToSlot(start, end string) *TimeSlot {
	status := d.Status
	if status == "" {
		status = StatusPlanned
	}
	return &TimeSlot{
		ClassInstanceID:   d.ClassInstanceID,
		SchoolCode:        d.SchoolCode,
		ClassDate:         d.ClassDate,
		Type:              d.Type,
		StartTime:         start,
		EndTime:           end,
		Name:              d.Name,
		SubjectID:         cloneString(d.SubjectID),
		TeacherID:         cloneString(d.TeacherID),
		SyllabusChapterID: cloneString(d.SyllabusChapterID),
		SyllabusTopicID:   cloneString(d.SyllabusTopicID),
		PlanText:          cloneString(d.PlanText),
		Status:            status,
	}
}

// Fields returns the draft's content as a plain field update.
// Used when an identical interval already exists and the draft is folded into it.
func (d *Draft) Fields() Fields {
	name := d.Name
	fields := Fields{
		Name:              &name,
		SubjectID:         d.SubjectID,
		TeacherID:         d.TeacherID,
		SyllabusChapterID: d.SyllabusChapterID,
		SyllabusTopicID:   d.SyllabusTopicID,
		PlanText:          d.PlanText,
	}
	if d.Type != "" {
		typ := d.Type
		fields.Type = &typ
	}
	if d.Status != "" {
		status := d.Status
		fields.Status = &status
	}
	return fields
}

// Patch is a partial update. Nil fields are left unchanged; a pointer to an
// empty string clears an optional reference.
type Patch struct {
	Type      *Type   `json:"slot_type" validate:"omitempty,slot_type"`
	StartTime *string `json:"start_time" validate:"omitempty,max=16"`
	EndTime   *string `json:"end_time" validate:"omitempty,max=16"`
	Name      *string `json:"name" validate:"omitempty,max=80"`

	SubjectID         *string `json:"subject_id" validate:"omitempty,max=64"`
	TeacherID         *string `json:"teacher_id" validate:"omitempty,max=64"`
	SyllabusChapterID *string `json:"syllabus_chapter_id" validate:"omitempty,max=64"`
	SyllabusTopicID   *string `json:"syllabus_topic_id" validate:"omitempty,max=64"`
	PlanText          *string `json:"plan_text" validate:"omitempty,max=2000"`

	Status *Status `json:"status" validate:"omitempty,slot_status"`
}

// HasTiming returns true if the patch moves the slot.
func (p *Patch) HasTiming() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// Fields returns the non-timing part of the patch.
func (p *Patch) Fields() Fields {
	return Fields{
		Type:              p.Type,
		Name:              p.Name,
		SubjectID:         p.SubjectID,
		TeacherID:         p.TeacherID,
		SyllabusChapterID: p.SyllabusChapterID,
		SyllabusTopicID:   p.SyllabusTopicID,
		PlanText:          p.PlanText,
		Status:            p.Status,
	}
}

// Fields is a plain field update that never moves a slot.
type Fields struct {
	Type              *Type
	Name              *string
	SubjectID         *string
	TeacherID         *string
	SyllabusChapterID *string
	SyllabusTopicID   *string
	PlanText          *string
	Status            *Status
}

// IsEmpty returns true if no field is set.
func (f Fields) IsEmpty() bool {
	return f.Type == nil && f.Name == nil && f.SubjectID == nil && f.TeacherID == nil &&
		f.SyllabusChapterID == nil && f.SyllabusTopicID == nil && f.PlanText == nil && f.Status == nil
}

// Apply copies the set fields onto s. Empty strings clear optional references.
func (f Fields) Apply(s *TimeSlot) {
	if f.Type != nil {
		s.Type = *f.Type
	}
	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.SubjectID != nil {
		s.SubjectID = optional(*f.SubjectID)
	}
	if f.TeacherID != nil {
		s.TeacherID = optional(*f.TeacherID)
	}
	if f.SyllabusChapterID != nil {
		s.SyllabusChapterID = optional(*f.SyllabusChapterID)
	}
	if f.SyllabusTopicID != nil {
		s.SyllabusTopicID = optional(*f.SyllabusTopicID)
	}
	if f.PlanText != nil {
		s.PlanText = optional(*f.PlanText)
	}
	if f.Status != nil {
		s.Status = *f.Status
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
