package validation

import (
	"fmt"
	"strings"

	"zenflow/internal/domain"
)

// MaxTitleLength is the longest task title accepted, in characters
const MaxTitleLength = 255

// TaskValidator provides validation for task, habit, project, tag and reward input
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTaskInput validates a new task
func (tv *TaskValidator) ValidateTaskInput(in domain.TaskInput) error {
	ve := tv.collect(in)
	addRecurrenceError(ve, in.Frequency, in.CustomFreqDays)
	return ve.OrNil()
}

// ValidateTaskPatch validates the fields present in a partial update
func (tv *TaskValidator) ValidateTaskPatch(p domain.TaskPatch) error {
	ve := tv.collect(p)
	if p.Tags != nil {
		for i, tag := range *p.Tags {
			if strings.TrimSpace(tag) == "" {
				ve.AddRequiredError(fmt.Sprintf("tags[%d]", i))
			}
		}
	}
	return ve.OrNil()
}

// ValidateTask validates a task after a patch has been merged into it
func (tv *TaskValidator) ValidateTask(t *domain.Task) error {
	ve := NewValidationError()
	if n := len([]rune(t.Title)); n > MaxTitleLength {
		ve.AddInvalidLengthError("title", t.Title, 0, MaxTitleLength)
	}
	addRecurrenceError(ve, t.Frequency, t.CustomFreqDays)
	return ve.OrNil()
}

// ValidateHabitInput validates a new or updated habit
func (tv *TaskValidator) ValidateHabitInput(in domain.HabitInput) error {
	ve := tv.collect(in)
	addRecurrenceError(ve, in.Frequency, in.CustomFreqDays)
	return ve.OrNil()
}

// ValidateProjectInput validates a new or updated project
func (tv *TaskValidator) ValidateProjectInput(in domain.ProjectInput) error {
	return tv.collect(in).OrNil()
}

// ValidateTagInput validates a new or renamed tag
func (tv *TaskValidator) ValidateTagInput(in domain.TagInput) error {
	return tv.collect(in).OrNil()
}

// ValidateRewardInput validates a custom reward
func (tv *TaskValidator) ValidateRewardInput(in domain.RewardInput) error {
	return tv.collect(in).OrNil()
}

func (tv *TaskValidator) collect(s any) *ValidationError {
	if err := tv.validator.Struct(s); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return ve
		}
		ve := NewValidationError()
		ve.AddInvalidValueError("input", s, err.Error())
		return ve
	}
	return NewValidationError()
}

// a custom frequency without a positive interval would never recur
func addRecurrenceError(ve *ValidationError, f domain.Frequency, customDays int) {
	if f == domain.FrequencyCustom && customDays < 1 {
		ve.AddInvalidRangeError("customFreqDays", customDays, "custom frequency needs at least 1 day")
	}
}

// ClampFocusDurations brings work and break minutes into range. Out-of-range input is never rejected.
func ClampFocusDurations(workMinutes, breakMinutes int) (int, int) {
	return domain.ClampInt(workMinutes, domain.MinWorkMinutes, domain.MaxWorkMinutes),
		domain.ClampInt(breakMinutes, domain.MinBreakMinutes, domain.MaxBreakMinutes)
}
