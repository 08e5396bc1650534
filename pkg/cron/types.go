// Package cron maps a handful of human-editable schedule modes to and from
// 5-field cron expressions (minute hour day-of-month month day-of-week).
package cron

// Mode is one of the mutually exclusive schedule editing modes.
type Mode string

const (
	ModeXHours      Mode = "x_hours"      // every N hours at a minute
	ModeXDays       Mode = "x_days"       // every N days at hour:minute
	ModeCertainDays Mode = "certain_days" // chosen weekdays at hour:minute
	ModeCustom      Mode = "custom"       // raw expression
)

// Modes returns every mode in display order.
func Modes() []Mode {
	return []Mode{ModeXHours, ModeXDays, ModeCertainDays, ModeCustom}
}

// IsValid returns true if the mode is a recognized value
func (m Mode) IsValid() bool {
	switch m {
	case ModeXHours, ModeXDays, ModeCertainDays, ModeCustom:
		return true
	}
	return false
}

// Label returns the display label of a mode.
func (m Mode) Label() string {
	switch m {
	case ModeXHours:
		return "Every x hours"
	case ModeXDays:
		return "Every x days"
	case ModeCertainDays:
		return "On certain days"
	case ModeCustom:
		return "Custom"
	default:
		return string(m)
	}
}

// Weekday indexes the canonical weekday order SUN..SAT.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// Code returns the 3-letter cron code of the weekday.
func (d Weekday) Code() string {
	if d < Sunday || d > Saturday {
		return ""
	}
	return weekdayCodes[d]
}

// weekdayFromCode returns the weekday for a 3-letter code.
func weekdayFromCode(code string) (Weekday, bool) {
	for i, c := range weekdayCodes {
		if c == code {
			return Weekday(i), true
		}
	}
	return 0, false
}

// XHours is the state of ModeXHours. Hours <= 1 means every hour.
type XHours struct {
	Hours  int `json:"hours" yaml:"hours"`
	Minute int `json:"minute" yaml:"minute"`
}

// XDays is the state of ModeXDays. Days <= 1 means every day.
type XDays struct {
	Days   int `json:"days" yaml:"days"`
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// CertainDays is the state of ModeCertainDays, indexed by Weekday.
type CertainDays struct {
	Days   [7]bool `json:"days" yaml:"days"`
	Hour   int     `json:"hour" yaml:"hour"`
	Minute int     `json:"minute" yaml:"minute"`
}

// State is the full editor state. Only the sub-state of Mode is used to build
// the expression; the others keep their values while the user switches modes.
type State struct {
	Mode        Mode        `json:"mode" yaml:"mode"`
	XHours      XHours      `json:"x_hours" yaml:"x_hours"`
	XDays       XDays       `json:"x_days" yaml:"x_days"`
	CertainDays CertainDays `json:"certain_days" yaml:"certain_days"`
	Custom      string      `json:"custom" yaml:"custom"`
}

// Sample is the preview object of a cron expression: either an error or the
// next run times and a readable description.
type Sample struct {
	Error        string   `json:"error,omitempty"`
	Samples      []string `json:"samples,omitempty"`
	ReadableExpr string   `json:"readable_expr,omitempty"`
}
