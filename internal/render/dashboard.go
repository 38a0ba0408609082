package render

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/m-mizutani/goerr/v2"

	"hoursreport/internal/core"
)

// Dashboard renders both series as one interactive HTML page: the
// cumulative line on top, the ranked totals bar chart below.
func Dashboard(series []core.CumulativePoint, totals []core.DailyTotal) ([]byte, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Volunteer Hours",
			Width:     "1000px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: cumulativeTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cumulative Hours"}),
	)
	lineDates := make([]string, len(series))
	lineData := make([]opts.LineData, len(series))
	for i, s := range series {
		lineDates[i] = s.Date.Format("2006-01-02")
		lineData[i] = opts.LineData{Value: s.CumulativeHours}
	}
	line.SetXAxis(lineDates).AddSeries("Cumulative Hours", lineData,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "700px",
		}),
		charts.WithTitleOpts(opts.Title{Title: rankedTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Hours"}),
	)
	barDates := make([]string, len(totals))
	barData := make([]opts.BarData, len(totals))
	for i, t := range totals {
		barDates[i] = t.Date.Format("01-02")
		barData[i] = opts.BarData{Value: t.TotalHours}
	}
	bar.SetXAxis(barDates).AddSeries("Total Hours", barData,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	page := components.NewPage()
	page.AddCharts(line, bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, goerr.Wrap(err, "render dashboard", goerr.T(core.TagRender))
	}
	return buf.Bytes(), nil
}
