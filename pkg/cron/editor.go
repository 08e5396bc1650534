package cron

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const dayToken = `(?:SUN|MON|TUE|WED|THU|FRI|SAT)`

var (
	xHoursPattern      = regexp.MustCompile(`^(\d+) (\*/\d+|\*) \* \* \*$`)
	xDaysPattern       = regexp.MustCompile(`^(\d+) (\d+) (\*/\d+|\*) \* \*$`)
	certainDaysPattern = regexp.MustCompile(`^(\d+) (\d+) \* \* (` + dayToken + `(?:-` + dayToken + `)?(?:,` + dayToken + `(?:-` + dayToken + `)?)*)$`)
)

// DefaultState returns the state used for a schedule without an expression:
// every day at midnight.
func DefaultState() State {
	return State{
		Mode:   ModeXDays,
		XHours: XHours{Hours: 1},
		XDays:  XDays{Days: 1},
	}
}

// NewState detects the mode of expr and fills in its sub-state. A blank
// expression yields DefaultState.
func NewState(expr string) State {
	if strings.TrimSpace(expr) == "" {
		return DefaultState()
	}
	return Populate(expr)
}

// normalize collapses whitespace runs into single spaces and upper-cases the
// expression so weekday codes match regardless of case.
func normalize(expr string) string {
	return strings.ToUpper(strings.Join(strings.Fields(expr), " "))
}

// DetermineMode matches expr against the structured modes in order and falls
// back to ModeCustom.
func DetermineMode(expr string) Mode {
	norm := normalize(expr)
	switch {
	case xHoursPattern.MatchString(norm):
		return ModeXHours
	case xDaysPattern.MatchString(norm):
		return ModeXDays
	case certainDaysPattern.MatchString(norm):
		return ModeCertainDays
	default:
		return ModeCustom
	}
}

// Populate builds the editor state for an existing expression. Unparseable
// numbers become 0 and unknown weekday tokens are ignored; an unrecognized
// expression is kept verbatim in custom mode.
func Populate(expr string) State {
	state := DefaultState()
	state.Mode = DetermineMode(expr)
	fields := strings.Fields(normalize(expr))

	switch state.Mode {
	case ModeXHours:
		state.XHours.Minute = toInt(fields[0])
		state.XHours.Hours = interval(fields[1])
	case ModeXDays:
		state.XDays.Minute = toInt(fields[0])
		state.XDays.Hour = toInt(fields[1])
		state.XDays.Days = interval(fields[2])
	case ModeCertainDays:
		state.CertainDays.Minute = toInt(fields[0])
		state.CertainDays.Hour = toInt(fields[1])
		state.CertainDays.Days = parseWeekdays(fields[4])
	default:
		state.Custom = expr
	}
	return state
}

// Expression renders the state of the active mode as a cron expression.
func (s State) Expression() string {
	switch s.Mode {
	case ModeXHours:
		return fmt.Sprintf("%d %s * * *", s.XHours.Minute, intervalField(s.XHours.Hours))
	case ModeXDays:
		return fmt.Sprintf("%d %d %s * *", s.XDays.Minute, s.XDays.Hour, intervalField(s.XDays.Days))
	case ModeCertainDays:
		return fmt.Sprintf("%d %d * * %s", s.CertainDays.Minute, s.CertainDays.Hour, CompressWeekdays(s.CertainDays.Days))
	default:
		return s.Custom
	}
}

// SetMode switches the active mode. When entering custom mode with no text,
// the expression of the previous mode is carried over as a starting point.
func (s *State) SetMode(mode Mode) {
	if !mode.IsValid() || mode == s.Mode {
		return
	}
	if mode == ModeCustom && strings.TrimSpace(s.Custom) == "" {
		s.Custom = s.Expression()
	}
	s.Mode = mode
}

// ToggleDay flips a weekday in certain-days mode.
func (s *State) ToggleDay(day Weekday) {
	if day < Sunday || day > Saturday {
		return
	}
	s.CertainDays.Days[day] = !s.CertainDays.Days[day]
}

// CompressWeekdays renders selected weekdays in canonical order, collapsing
// consecutive runs of two or more days into START-END. No day yields "*".
func CompressWeekdays(days [7]bool) string {
	var parts []string
	for start := 0; start < len(days); start++ {
		if !days[start] {
			continue
		}
		end := start
		for end+1 < len(days) && days[end+1] {
			end++
		}
		if end == start {
			parts = append(parts, weekdayCodes[start])
		} else {
			parts = append(parts, weekdayCodes[start]+"-"+weekdayCodes[end])
		}
		start = end
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ",")
}

// parseWeekdays expands a comma separated list of DAY and DAY-DAY tokens into
// weekday flags. Ranges are inclusive in canonical order; tokens that do not
// parse are ignored.
func parseWeekdays(field string) [7]bool {
	var days [7]bool
	for _, token := range strings.Split(field, ",") {
		from, to, isRange := strings.Cut(token, "-")
		start, ok := weekdayFromCode(from)
		if !ok {
			continue
		}
		end := start
		if isRange {
			if end, ok = weekdayFromCode(to); !ok {
				continue
			}
		}
		for d := start; d <= end; d++ {
			days[d] = true
		}
	}
	return days
}

// intervalField renders an every-N field: "*/N" for N > 1, "*" otherwise.
func intervalField(n int) string {
	if n > 1 {
		return "*/" + strconv.Itoa(n)
	}
	return "*"
}

// interval parses "*/N" into N and "*" into 1.
func interval(field string) int {
	if rest, ok := strings.CutPrefix(field, "*/"); ok {
		return toInt(rest)
	}
	return 1
}

// toInt coerces a numeric token, degrading to 0.
func toInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Describe renders a readable description of the active mode.
func Describe(s State) string {
	switch s.Mode {
	case ModeXHours:
		if s.XHours.Hours > 1 {
			return fmt.Sprintf("Every %d hours at minute %d", s.XHours.Hours, s.XHours.Minute)
		}
		return fmt.Sprintf("Every hour at minute %d", s.XHours.Minute)
	case ModeXDays:
		at := clock(s.XDays.Hour, s.XDays.Minute)
		if s.XDays.Days > 1 {
			return fmt.Sprintf("Every %d days at %s", s.XDays.Days, at)
		}
		return "Every day at " + at
	case ModeCertainDays:
		at := clock(s.CertainDays.Hour, s.CertainDays.Minute)
		days := CompressWeekdays(s.CertainDays.Days)
		if days == "*" {
			return "Every day at " + at
		}
		return fmt.Sprintf("Every %s at %s", days, at)
	default:
		return "Custom schedule " + strings.TrimSpace(s.Custom)
	}
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
