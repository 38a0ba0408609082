// Package httpserver exposes the pipeline over HTTP: one run per request,
// a health probe, and an HTML dashboard of the current series.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"hoursreport/internal/core"
	"hoursreport/internal/log"
	"hoursreport/internal/pipeline"
	"hoursreport/internal/render"
)

// Runner is the slice of the pipeline the handlers need.
type Runner interface {
	Run(ctx context.Context) (pipeline.Report, error)
	Snapshot(ctx context.Context) ([]core.CumulativePoint, []core.DailyTotal, error)
}

// Handler carries the HTTP endpoints.
type Handler struct {
	runner Runner
	logger *log.Logger
	start  time.Time
}

// NewHandler builds the endpoint set over the given runner.
func NewHandler(runner Runner, logger *log.Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger.WithComponent("http"),
		start:  time.Now(),
	}
}

// Router wires the endpoints into a chi router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", h.handleHealth)
	r.Get("/run", h.handleRun)
	r.Post("/run", h.handleRun)
	r.Get("/dashboard", h.handleDashboard)
	return r
}

// NewServer wraps the router in an http.Server with timeouts sized for a
// full pipeline run inside one request.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        h.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.start).String(),
	})
}

// handleRun executes exactly one pipeline run. Request method and body do
// not influence the run.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.runner.Run(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		step := "run"
		switch {
		case errors.Is(err, core.ErrSchemaMismatch) || goerr.HasTag(err, core.TagSchema):
			status = http.StatusBadGateway
			step = "normalize"
		case goerr.HasTag(err, core.TagSource):
			status = http.StatusBadGateway
			step = "fetch"
		}
		h.logger.ErrorContext(ctx, "Run failed", "step", step, "error", err)
		http.Error(w, fmt.Sprintf("%s failed: %v", step, err), status)
		return
	}

	if !report.Success() {
		var parts []string
		for _, c := range report.Failed() {
			parts = append(parts, fmt.Sprintf("%s: %v", c.Object, c.Err))
		}
		h.logger.ErrorContext(ctx, "Run finished with chart failures",
			"uploaded", report.Uploaded(), "failed", len(parts))
		http.Error(w, fmt.Sprintf("uploaded %d of %d charts; failures: %v",
			report.Uploaded(), len(report.Charts), parts), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Plots generated and saved successfully! (rows=%d rejected=%d charts=%d)\n",
		report.Fetched, report.Rejected, report.Uploaded())
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	series, totals, err := h.runner.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Dashboard snapshot failed", "error", err)
		http.Error(w, fmt.Sprintf("fetch failed: %v", err), http.StatusBadGateway)
		return
	}
	page, err := render.Dashboard(series, totals)
	if err != nil {
		h.logger.ErrorContext(ctx, "Dashboard render failed", "error", err)
		http.Error(w, fmt.Sprintf("render failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
