// Package pipeline orchestrates one volunteer-hours run: fetch, normalize,
// then two independent chart sub-pipelines (aggregate, render, upload).
package pipeline

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"hoursreport/internal/core"
	"hoursreport/internal/log"
	"hoursreport/internal/render"
	"hoursreport/internal/sink"
	"hoursreport/internal/source"
)

// Destination object names. Each run overwrites the previous object.
const (
	CumulativeObject = "cumulative_hours_plot.png"
	RankedObject     = "total_hours_plot.png"
)

// ChartResult is the outcome of one chart sub-pipeline.
type ChartResult struct {
	Object string
	Err    error
}

// Report summarizes one run. Fatal fetch/schema failures are returned as
// the Run error instead; per-chart failures land in Charts.
type Report struct {
	Fetched  int
	Entries  int
	Rejected int
	Charts   []ChartResult
}

// Uploaded counts the charts that reached the sink.
func (r Report) Uploaded() int {
	n := 0
	for _, c := range r.Charts {
		if c.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the sub-pipeline results that errored.
func (r Report) Failed() []ChartResult {
	var out []ChartResult
	for _, c := range r.Charts {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Success reports whether every chart was rendered and uploaded.
func (r Report) Success() bool {
	return len(r.Failed()) == 0
}

// Pipeline wires a record source to a chart sink. Both collaborators are
// injected; the pipeline holds no ambient clients.
type Pipeline struct {
	source  source.Source
	sink    sink.Sink
	logger  *log.Logger
	timeout time.Duration
}

// Option adjusts pipeline behavior.
type Option func(*Pipeline)

// WithTimeout bounds the fetch call and each upload. Zero disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// New creates a pipeline over the given source and sink.
func New(src source.Source, snk sink.Sink, logger *log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  src,
		sink:    snk,
		logger:  logger.WithComponent("pipeline"),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pass. It returns an error only for failures that
// abort the whole run (fetch or batch-wide schema mismatch); chart
// failures are reported per chart and never block the sibling chart.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	entries, report, err := p.loadEntries(ctx)
	if err != nil {
		return report, err
	}

	results := [2]ChartResult{
		{Object: CumulativeObject},
		{Object: RankedObject},
	}

	// The sub-pipelines only read the shared entry slice, so they can run
	// concurrently without copies or locks.
	var g errgroup.Group
	g.Go(func() error {
		results[0].Err = p.runChart(ctx, CumulativeObject, func() ([]byte, error) {
			return render.Cumulative(core.CumulativeByDate(entries))
		})
		return nil
	})
	g.Go(func() error {
		results[1].Err = p.runChart(ctx, RankedObject, func() ([]byte, error) {
			return render.RankedTotals(core.RankedTotalsByDate(entries))
		})
		return nil
	})
	_ = g.Wait()

	report.Charts = results[:]
	p.logger.InfoContext(ctx, "Run finished",
		"fetched", report.Fetched,
		"entries", report.Entries,
		"rejected", report.Rejected,
		"uploaded", report.Uploaded(),
		"failed", len(report.Failed()))
	return report, nil
}

// Snapshot fetches and aggregates without rendering PNGs or uploading,
// for the HTML dashboard view.
func (p *Pipeline) Snapshot(ctx context.Context) ([]core.CumulativePoint, []core.DailyTotal, error) {
	entries, _, err := p.loadEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	return core.CumulativeByDate(entries), core.RankedTotalsByDate(entries), nil
}

func (p *Pipeline) loadEntries(ctx context.Context) ([]core.HourEntry, Report, error) {
	var report Report

	fetchCtx, cancel := p.bound(ctx)
	defer cancel()
	rows, err := p.source.FetchAll(fetchCtx)
	if err != nil {
		return nil, report, goerr.Wrap(err, "fetch records", goerr.T(core.TagSource))
	}
	report.Fetched = len(rows)
	p.logger.InfoContext(ctx, "Fetched rows", "count", len(rows))

	entries, rejects, err := core.Normalize(rows)
	if err != nil {
		return nil, report, err
	}
	report.Entries = len(entries)
	report.Rejected = len(rejects)
	for _, r := range rejects {
		p.logger.WarnContext(ctx, "Dropped row", "row", r.Row, "field", r.Field, "reason", r.Reason)
	}
	return entries, report, nil
}

func (p *Pipeline) runChart(ctx context.Context, object string, renderFn func() ([]byte, error)) error {
	img, err := renderFn()
	if err != nil {
		p.logger.ErrorContext(ctx, "Render failed", "object", object, "error", err)
		return err
	}
	uploadCtx, cancel := p.bound(ctx)
	defer cancel()
	if err := p.sink.Upload(uploadCtx, object, img); err != nil {
		p.logger.ErrorContext(ctx, "Upload failed", "object", object, "error", err)
		return err
	}
	p.logger.InfoContext(ctx, "Chart uploaded", "object", object, "bytes", len(img))
	return nil
}

func (p *Pipeline) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}
