// Package render rasterizes aggregated volunteer-hours series into PNG
// charts held in memory, ready for upload.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/m-mizutani/goerr/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"hoursreport/internal/core"
)

// Chart titles and axis labels, kept stable so repeated runs over the same
// data stay visually comparable.
const (
	cumulativeTitle = "Cumulative PTA Volunteer Hours Over Time"
	rankedTitle     = "Total Volunteer Hours by Date (Highest to Lowest)"
)

var (
	lineBlue = color.RGBA{B: 255, A: 255}
	barTeal  = color.RGBA{R: 0, G: 128, B: 128, A: 255}
)

// Cumulative renders the running-total series as a connected line-and-marker
// plot, dates ascending on the x-axis. An empty series yields an explicit
// "no data" chart rather than an error, so the bucket always reflects the
// latest run.
func Cumulative(series []core.CumulativePoint) ([]byte, error) {
	p := plot.New()
	p.Title.Text = cumulativeTitle
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Cumulative Hours"
	p.Add(plotter.NewGrid())

	if len(series) == 0 {
		if err := addNoDataLabel(p); err != nil {
			return nil, err
		}
		return encodePNG(p, 10*vg.Inch, 6*vg.Inch)
	}

	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	pts := make(plotter.XYs, len(series))
	for i, s := range series {
		pts[i].X = float64(s.Date.Unix())
		pts[i].Y = s.CumulativeHours
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, goerr.Wrap(err, "build cumulative line", goerr.T(core.TagRender))
	}
	line.Color = lineBlue
	points.Color = lineBlue
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return encodePNG(p, 10*vg.Inch, 6*vg.Inch)
}

// RankedTotals renders daily totals as a bar chart, bars ordered by
// descending total with each bar annotated with its value. Empty input
// yields the "no data" chart.
func RankedTotals(totals []core.DailyTotal) ([]byte, error) {
	p := plot.New()
	p.Title.Text = rankedTitle
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total Hours"

	if len(totals) == 0 {
		if err := addNoDataLabel(p); err != nil {
			return nil, err
		}
		return encodePNG(p, 12*vg.Inch, 7*vg.Inch)
	}

	values := make(plotter.Values, len(totals))
	names := make([]string, len(totals))
	for i, t := range totals {
		values[i] = t.TotalHours
		names[i] = t.Date.Format("01-02")
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, goerr.Wrap(err, "build ranked bars", goerr.T(core.TagRender))
	}
	bars.Color = barTeal
	bars.LineStyle.Color = color.Black
	bars.LineStyle.Width = vg.Points(0.5)
	p.Add(bars)
	p.NominalX(names...)

	labels, err := valueLabels(totals)
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	return encodePNG(p, 12*vg.Inch, 7*vg.Inch)
}

// valueLabels places the numeric total just above each bar.
func valueLabels(totals []core.DailyTotal) (*plotter.Labels, error) {
	xys := make([]plotter.XY, len(totals))
	texts := make([]string, len(totals))
	for i, t := range totals {
		xys[i] = plotter.XY{X: float64(i), Y: t.TotalHours + 0.5}
		texts[i] = formatHours(t.TotalHours)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: plotter.XYs(xys), Labels: texts})
	if err != nil {
		return nil, goerr.Wrap(err, "build value labels", goerr.T(core.TagRender))
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	return labels, nil
}

func addNoDataLabel(p *plot.Plot) error {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: 0}},
		Labels: []string{"no data recorded"},
	})
	if err != nil {
		return goerr.Wrap(err, "build no-data label", goerr.T(core.TagRender))
	}
	labels.TextStyle[0].XAlign = draw.XCenter
	p.Add(labels)
	return nil
}

// formatHours trims trailing zeros so whole-hour totals read as integers.
// Display-only; aggregation never rounds.
func formatHours(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func encodePNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, goerr.Wrap(err, "encode chart", goerr.T(core.TagRender))
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, goerr.Wrap(err, "write chart", goerr.T(core.TagRender))
	}
	return buf.Bytes(), nil
}
