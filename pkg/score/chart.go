package score

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

const (
	chartWidth  = 480
	chartHeight = 240
	chartMargin = 32
	barGap      = 12
)

// errWriter remembers the first write error so callers of svgo, which does
// not report errors, can still surface it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// WriteSVG draws a bar chart of tier counts, one bar per tier in Tiers order.
func WriteSVG(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(chartWidth, chartHeight)
	canvas.Rect(0, 0, chartWidth, chartHeight, "fill:#1E1E1E")

	tiers := Tiers()
	maxCount := 0
	for _, t := range tiers {
		if s.Tiers[t] > maxCount {
			maxCount = s.Tiers[t]
		}
	}

	plotHeight := chartHeight - 2*chartMargin
	barWidth := (chartWidth - 2*chartMargin - barGap*(len(tiers)-1)) / len(tiers)
	for i, t := range tiers {
		count := s.Tiers[t]
		h := 0
		if maxCount > 0 {
			h = count * plotHeight / maxCount
		}
		x := chartMargin + i*(barWidth+barGap)
		y := chartMargin + plotHeight - h
		canvas.Rect(x, y, barWidth, h, "fill:"+t.Hex())
		canvas.Text(x+barWidth/2, y-4, fmt.Sprint(count), "text-anchor:middle;font-size:12px;fill:#EEEEEE")
		canvas.Text(x+barWidth/2, chartHeight-chartMargin/2, t.String(), "text-anchor:middle;font-size:12px;fill:#EEEEEE")
	}

	if s.Numeric > 0 {
		title := fmt.Sprintf("n=%d mean=%.1f min=%.1f max=%.1f", s.Count, s.Mean, s.Min, s.Max)
		canvas.Text(chartMargin, chartMargin/2, title, "font-size:12px;fill:#EEEEEE")
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing svg chart: %w", ew.err)
	}
	return nil
}
