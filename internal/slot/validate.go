package slot

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/classbell/classbell/internal/dateutil"
)

// ErrInvalidInput matches every *InputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports malformed caller input. It is raised before any
// repository call is attempted.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	if e.Field == "" || strings.HasPrefix(e.Msg, e.Field) {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// custom validation tags & texts
const (
	slotTypeTag    = "slot_type"
	slotTypeText   = "{0} must be 'period' or 'break'"
	slotStatusTag  = "slot_status"
	slotStatusText = "{0} must be 'planned', 'done' or 'cancelled'"
	classDateTag   = "class_date"
	classDateText  = "{0} must be in YYYY-MM-DD format"
	breakNameTag   = "break_name"
	breakNameText  = "{0} is required for a break"
	periodOnlyTag  = "period_only"
	periodOnlyText = "{0} can only be set on a period"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func validatorInstance() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate = validator.New()
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation(slotTypeTag, func(fl validator.FieldLevel) bool {
			return Type(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation(slotStatusTag, func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation(classDateTag, func(fl validator.FieldLevel) bool {
			return dateutil.ValidDate(fl.Field().String())
		})
		validate.RegisterStructValidation(draftStructLevel, Draft{})

		registerTranslation(slotTypeTag, slotTypeText)
		registerTranslation(slotStatusTag, slotStatusText)
		registerTranslation(classDateTag, classDateText)
		registerTranslation(breakNameTag, breakNameText)
		registerTranslation(periodOnlyTag, periodOnlyText)
	})
	return validate, translator
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// draftStructLevel enforces the cross-field rules of a Draft.
func draftStructLevel(sl validator.StructLevel) {
	d := sl.Current().Interface().(Draft)
	if d.Type != TypeBreak {
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		sl.ReportError(d.Name, "name", "Name", breakNameTag, "")
	}
	if d.SubjectID != nil && *d.SubjectID != "" {
		sl.ReportError(d.SubjectID, "subject_id", "SubjectID", periodOnlyTag, "")
	}
	if d.TeacherID != nil && *d.TeacherID != "" {
		sl.ReportError(d.TeacherID, "teacher_id", "TeacherID", periodOnlyTag, "")
	}
}

// Validate runs struct validation on a Draft or Patch and reports the first
// failure as an *InputError naming the offending field.
func Validate(v any) error {
	val, trans := validatorInstance()
	err := val.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InputError{Field: fe.Field(), Msg: fe.Translate(trans)}
	}
	return &InputError{Msg: err.Error()}
}
