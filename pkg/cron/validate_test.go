package cron

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Custom(t *testing.T) {
	err := Validate(State{Mode: ModeCustom, Custom: "  "}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequired))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "custom", fe.Field)

	err = Validate(State{Mode: ModeCustom, Custom: "bad"}, &Sample{Error: "expected exactly 5 fields"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly 5 fields")
	assert.False(t, errors.Is(err, ErrRequired))

	assert.NoError(t, Validate(State{Mode: ModeCustom, Custom: "0 9 1 * *"}, &Sample{}))
	assert.NoError(t, Validate(State{Mode: ModeCustom, Custom: "0 9 1 * *"}, nil))
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name  string
		state State
		field string
	}{
		{"MinuteTooHigh", State{Mode: ModeXHours, XHours: XHours{Hours: 2, Minute: 60}}, "minute"},
		{"HourIntervalTooHigh", State{Mode: ModeXHours, XHours: XHours{Hours: 24}}, "hours"},
		{"DayIntervalTooHigh", State{Mode: ModeXDays, XDays: XDays{Days: 32}}, "days"},
		{"HourTooHigh", State{Mode: ModeXDays, XDays: XDays{Days: 1, Hour: 24}}, "hour"},
		{"NegativeMinute", State{Mode: ModeCertainDays, CertainDays: CertainDays{Minute: -1}}, "minute"},
		{"UnknownMode", State{Mode: "weekly"}, "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.state, nil)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}

	assert.NoError(t, Validate(Populate("15 */3 * * *"), nil))
	assert.NoError(t, Validate(Populate("0 9 * * MON-WED"), nil))
	assert.NoError(t, Validate(DefaultState(), nil))
}

func TestPreview(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	sample := Preview("15 */3 * * *", from, 3, time.UTC)
	require.Empty(t, sample.Error)
	assert.Equal(t, []string{
		"2024-01-01 00:15 UTC",
		"2024-01-01 03:15 UTC",
		"2024-01-01 06:15 UTC",
	}, sample.Samples)
	assert.Equal(t, "Every 3 hours at minute 15", sample.ReadableExpr)
}

func TestPreview_Weekdays(t *testing.T) {
	// 2024-01-07 is a Sunday.
	from := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	sample := Preview("0 9 * * MON-WED", from, 4, nil)
	require.Empty(t, sample.Error)
	assert.Equal(t, []string{
		"2024-01-08 09:00 UTC",
		"2024-01-09 09:00 UTC",
		"2024-01-10 09:00 UTC",
		"2024-01-15 09:00 UTC",
	}, sample.Samples)
}

func TestPreview_InvalidExpression(t *testing.T) {
	sample := Preview("0 9 *", time.Now(), 3, nil)
	assert.NotEmpty(t, sample.Error)
	assert.Empty(t, sample.Samples)

	err := Validate(State{Mode: ModeCustom, Custom: "0 9 *"}, &sample)
	assert.Error(t, err)
}

func TestPreviewState(t *testing.T) {
	from := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	state := State{Mode: ModeXDays, XDays: XDays{Days: 1, Hour: 6, Minute: 30}}
	sample := PreviewState(state, from, 1, time.UTC)
	assert.Equal(t, []string{"2024-01-02 06:30 UTC"}, sample.Samples)
}
