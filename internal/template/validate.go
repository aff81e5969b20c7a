package template

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"accessibility-admin-api/internal/models"
)

// Hour bounds for task templates. Base task estimates may go up to 200 hours;
// review and monitoring sub-tasks are capped at 50.
const (
	MaxTaskHours    = 200.0
	MaxSubTaskHours = 50.0
)

var (
	ErrNotANumber   = errors.New("value is not a number")
	ErrNegative     = errors.New("hours cannot be negative")
	ErrOutOfRange   = errors.New("hours exceed the allowed maximum")
	ErrInvalidStage = errors.New("stage must be between 1 and 4")
)

// RoundHalf rounds v to the nearest 0.5.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// CheckHours validates an hour value against [0, bound] and returns it
// rounded to the nearest 0.5.
func CheckHours(v, bound float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	if v < 0 {
		return 0, ErrNegative
	}
	if v > bound {
		return 0, fmt.Errorf("%w (%g > %g)", ErrOutOfRange, v, bound)
	}
	return RoundHalf(v), nil
}

// ParseHours validates raw user input. Non-numeric strings, negatives and
// values above bound are rejected; valid input is rounded to the nearest 0.5.
func ParseHours(raw string, bound float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrNotANumber
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return CheckHours(v, bound)
}

// FieldError locates one invalid field within a media type's template set.
type FieldError struct {
	Stage     models.Stage `json:"stage"`
	TaskIndex int          `json:"task_index"`
	Field     string       `json:"field"`
	Message   string       `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("stage %d task %d %s: %s", e.Stage, e.TaskIndex, e.Field, e.Message)
}

// hourField pairs a field name with its value and bound for validation.
type hourField struct {
	name  string
	value float64
	bound float64
}

func hourFields(t *models.TaskTemplate) []hourField {
	fields := []hourField{
		{"hours_fast", t.HoursFast, MaxTaskHours},
		{"hours_normal", t.HoursNormal, MaxTaskHours},
		{"hours_relaxed", t.HoursRelaxed, MaxTaskHours},
	}
	if t.HasReview {
		fields = append(fields,
			hourField{"review_hours_fast", t.ReviewHoursFast, MaxSubTaskHours},
			hourField{"review_hours_normal", t.ReviewHoursNormal, MaxSubTaskHours},
			hourField{"review_hours_relaxed", t.ReviewHoursRelaxed, MaxSubTaskHours},
		)
	}
	if t.HasMonitoring {
		fields = append(fields,
			hourField{"monitor_hours_fast", t.MonitorHoursFast, MaxSubTaskHours},
			hourField{"monitor_hours_normal", t.MonitorHoursNormal, MaxSubTaskHours},
			hourField{"monitor_hours_relaxed", t.MonitorHoursRelaxed, MaxSubTaskHours},
		)
	}
	return fields
}

// ValidateTask checks every hour field of a single template plus its title.
// stage and idx are only used to locate errors for the caller.
func ValidateTask(t *models.TaskTemplate, stage models.Stage, idx int) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, FieldError{stage, idx, "title", "title is required"})
	}
	for _, f := range hourFields(t) {
		if _, err := CheckHours(f.value, f.bound); err != nil {
			errs = append(errs, FieldError{stage, idx, f.name, err.Error()})
		}
	}
	return errs
}

// ValidateSet checks a full stage->tasks mapping for one media type: every
// stage key must be within the 1..4 taxonomy, field bounds hold on every task
// and orders are contiguous (exactly 1..N per stage).
func ValidateSet(stages map[models.Stage][]models.TaskTemplate) []FieldError {
	var errs []FieldError
	for stage, tasks := range stages {
		if stage.Valid() {
			continue
		}
		for i := range tasks {
			errs = append(errs, FieldError{stage, i, "stage", ErrInvalidStage.Error()})
		}
	}
	for _, stage := range models.AllStages() {
		tasks := stages[stage]
		for i := range tasks {
			t := &tasks[i]
			errs = append(errs, ValidateTask(t, stage, i)...)
			if t.TaskOrder != i+1 {
				errs = append(errs, FieldError{stage, i, "task_order",
					fmt.Sprintf("expected order %d, got %d", i+1, t.TaskOrder)})
			}
		}
	}
	return errs
}
