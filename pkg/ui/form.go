package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/testgen/tgv/pkg/cron"
)

// ScheduleForm is a line-oriented alternative to the cron editor overlay,
// used by `tgv cron --edit`. Field values are kept as strings for the form
// widgets and converted back with State.
type ScheduleForm struct {
	Mode     string
	Interval string
	Hour     string
	Minute   string
	Days     []string
	Custom   string
}

// NewScheduleForm seeds the form from an expression.
func NewScheduleForm(expr string) *ScheduleForm {
	s := cron.NewState(expr)
	f := &ScheduleForm{Mode: string(s.Mode), Custom: s.Custom}
	switch s.Mode {
	case cron.ModeXHours:
		f.Interval = strconv.Itoa(max(s.XHours.Hours, 1))
		f.Minute = strconv.Itoa(s.XHours.Minute)
	case cron.ModeXDays:
		f.Interval = strconv.Itoa(max(s.XDays.Days, 1))
		f.Hour = strconv.Itoa(s.XDays.Hour)
		f.Minute = strconv.Itoa(s.XDays.Minute)
	case cron.ModeCertainDays:
		f.Hour = strconv.Itoa(s.CertainDays.Hour)
		f.Minute = strconv.Itoa(s.CertainDays.Minute)
		for d := cron.Sunday; d <= cron.Saturday; d++ {
			if s.CertainDays.Days[d] {
				f.Days = append(f.Days, d.Code())
			}
		}
	}
	if f.Hour == "" {
		f.Hour = "0"
	}
	if f.Minute == "" {
		f.Minute = "0"
	}
	if f.Interval == "" {
		f.Interval = "1"
	}
	return f
}

func (f *ScheduleForm) mode() cron.Mode {
	return cron.Mode(f.Mode)
}

// Form builds the huh form bound to f. Groups not relevant to the chosen mode
// are hidden.
func (f *ScheduleForm) Form() *huh.Form {
	modeOpts := make([]huh.Option[string], 0, len(cron.Modes()))
	for _, m := range cron.Modes() {
		modeOpts = append(modeOpts, huh.NewOption(m.Label(), string(m)))
	}
	dayOpts := make([]huh.Option[string], 0, 7)
	for d := cron.Sunday; d <= cron.Saturday; d++ {
		dayOpts = append(dayOpts, huh.NewOption(d.Code(), d.Code()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Schedule").
				Options(modeOpts...).
				Value(&f.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Every how many hours/days").
				Value(&f.Interval).
				Validate(f.validateInterval),
		).WithHideFunc(func() bool {
			return f.mode() != cron.ModeXHours && f.mode() != cron.ModeXDays
		}),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Days").
				Options(dayOpts...).
				Value(&f.Days),
		).WithHideFunc(func() bool {
			return f.mode() != cron.ModeCertainDays
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Hour").
				Value(&f.Hour).
				Validate(rangeValidator(0, 23)),
		).WithHideFunc(func() bool {
			return f.mode() == cron.ModeXHours || f.mode() == cron.ModeCustom
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Minute").
				Value(&f.Minute).
				Validate(rangeValidator(0, 59)),
		).WithHideFunc(func() bool {
			return f.mode() == cron.ModeCustom
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Cron expression").
				Placeholder("*/15 * * * *").
				Value(&f.Custom),
		).WithHideFunc(func() bool {
			return f.mode() != cron.ModeCustom
		}),
	)
}

// validateInterval bounds the interval by its unit: 1-23 hours or 1-31 days.
func (f *ScheduleForm) validateInterval(s string) error {
	if f.mode() == cron.ModeXHours {
		return rangeValidator(1, 23)(s)
	}
	return rangeValidator(1, 31)(s)
}

// rangeValidator accepts integers in [lo, hi].
func rangeValidator(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// State converts the form values into a validated editor state.
func (f *ScheduleForm) State() (cron.State, error) {
	s := cron.DefaultState()
	s.SetMode(f.mode())
	atoi := func(v string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	switch s.Mode {
	case cron.ModeXHours:
		s.XHours = cron.XHours{Hours: atoi(f.Interval), Minute: atoi(f.Minute)}
	case cron.ModeXDays:
		s.XDays = cron.XDays{Days: atoi(f.Interval), Hour: atoi(f.Hour), Minute: atoi(f.Minute)}
	case cron.ModeCertainDays:
		s.CertainDays = cron.CertainDays{Hour: atoi(f.Hour), Minute: atoi(f.Minute)}
		for _, code := range f.Days {
			for d := cron.Sunday; d <= cron.Saturday; d++ {
				if d.Code() == code {
					s.CertainDays.Days[d] = true
				}
			}
		}
	case cron.ModeCustom:
		s.Custom = strings.TrimSpace(f.Custom)
	}
	if err := cron.Validate(s, nil); err != nil {
		return s, err
	}
	return s, nil
}
