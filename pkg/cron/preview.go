package cron

import (
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

// SampleTimeLayout is the format of preview run times.
const SampleTimeLayout = "2006-01-02 15:04 MST"

// Preview computes the next n run times of expr after from, in loc (UTC when
// nil). Parse failures are reported in Sample.Error instead of returned.
func Preview(expr string, from time.Time, n int, loc *time.Location) Sample {
	sched, err := robfigcron.ParseStandard(expr)
	if err != nil {
		return Sample{Error: err.Error()}
	}
	if loc == nil {
		loc = time.UTC
	}

	sample := Sample{ReadableExpr: Describe(Populate(expr))}
	next := from.In(loc)
	for i := 0; i < n; i++ {
		next = sched.Next(next)
		if next.IsZero() {
			break
		}
		sample.Samples = append(sample.Samples, next.Format(SampleTimeLayout))
	}
	return sample
}

// PreviewState previews the expression of an editor state.
func PreviewState(s State, from time.Time, n int, loc *time.Location) Sample {
	return Preview(s.Expression(), from, n, loc)
}
