// Package score classifies quality scores into colour tiers.
package score

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tier is the colour band of a score.
type Tier int

const (
	TierUnknown Tier = iota
	TierRed
	TierOrange
	TierYellow
	TierGreen
)

// Tier thresholds, inclusive lower bounds.
const (
	GreenThreshold  = 96.0
	YellowThreshold = 91.0
	OrangeThreshold = 86.0
)

// Tiers returns every tier from worst to best, Unknown first.
func Tiers() []Tier {
	return []Tier{TierUnknown, TierRed, TierOrange, TierYellow, TierGreen}
}

func (t Tier) String() string {
	switch t {
	case TierRed:
		return "red"
	case TierOrange:
		return "orange"
	case TierYellow:
		return "yellow"
	case TierGreen:
		return "green"
	default:
		return "unknown"
	}
}

// Color returns the display colour of the tier.
func (t Tier) Color() lipgloss.AdaptiveColor {
	switch t {
	case TierRed:
		return lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	case TierOrange:
		return lipgloss.AdaptiveColor{Light: "#E65100", Dark: "#FFA726"}
	case TierYellow:
		return lipgloss.AdaptiveColor{Light: "#F9A825", Dark: "#FFEE58"}
	case TierGreen:
		return lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	default:
		return lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	}
}

// Hex returns the dark-background colour of the tier, for non-terminal output.
func (t Tier) Hex() string {
	return t.Color().Dark
}

// Classify maps a score to its tier. Numbers are banded by threshold. Strings
// that parse as finite numbers are treated as numbers; other strings are
// Green when they start with ">", Red when they start with "<", and Unknown
// otherwise. Non-finite numbers fall back to the string rule on their text.
// Any other type is Unknown.
func Classify(v any) Tier {
	switch x := v.(type) {
	case string:
		return ClassifyString(x)
	case fmt.Stringer:
		return ClassifyString(x.String())
	}
	if f, ok := asFloat(v); ok {
		return classifyFloat(f)
	}
	return TierUnknown
}

// asFloat converts any integer or floating point kind, named types included.
func asFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// ClassifyString classifies a textual score such as "97.5", ">99" or "n/a".
func ClassifyString(s string) Tier {
	s = strings.TrimSpace(s)
	if f, ok := parseFinite(s); ok {
		return band(f)
	}
	return classifyText(s)
}

func classifyFloat(f float64) Tier {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return classifyText(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return band(f)
}

func classifyText(s string) Tier {
	switch {
	case strings.HasPrefix(s, ">"):
		return TierGreen
	case strings.HasPrefix(s, "<"):
		return TierRed
	default:
		return TierUnknown
	}
}

func band(f float64) Tier {
	switch {
	case f >= GreenThreshold:
		return TierGreen
	case f >= YellowThreshold:
		return TierYellow
	case f >= OrangeThreshold:
		return TierOrange
	default:
		return TierRed
	}
}

// parseFinite parses s as a finite float.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Badge renders a score with its tier colour.
func Badge(r *lipgloss.Renderer, v any) string {
	tier := Classify(v)
	style := r.NewStyle().Foreground(tier.Color()).Bold(tier != TierUnknown)
	return style.Render(fmt.Sprint(v))
}
