package cron

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRequired is wrapped by a FieldError for an empty custom expression.
var ErrRequired = errors.New("value is required")

// FieldError is a validation message attached to one editor field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate checks the active mode. Custom expressions must be non-empty and
// the preview sample must not report an error; sample may be nil when no
// preview is available.
func Validate(s State, sample *Sample) error {
	switch s.Mode {
	case ModeXHours:
		if s.XHours.Hours != 0 {
			if err := checkRange("hours", s.XHours.Hours, 1, 23); err != nil {
				return err
			}
		}
		return checkRange("minute", s.XHours.Minute, 0, 59)
	case ModeXDays:
		if s.XDays.Days != 0 {
			if err := checkRange("days", s.XDays.Days, 1, 31); err != nil {
				return err
			}
		}
		if err := checkRange("hour", s.XDays.Hour, 0, 23); err != nil {
			return err
		}
		return checkRange("minute", s.XDays.Minute, 0, 59)
	case ModeCertainDays:
		if err := checkRange("hour", s.CertainDays.Hour, 0, 23); err != nil {
			return err
		}
		return checkRange("minute", s.CertainDays.Minute, 0, 59)
	case ModeCustom:
		if strings.TrimSpace(s.Custom) == "" {
			return &FieldError{Field: "custom", Message: "required", Err: ErrRequired}
		}
		if sample != nil && sample.Error != "" {
			return &FieldError{Field: "custom", Message: sample.Error}
		}
		return nil
	default:
		return &FieldError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", s.Mode)}
	}
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return nil
}
