package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hoursreport/internal/core"
	"hoursreport/internal/log"
	"hoursreport/internal/pipeline"
	sinkmem "hoursreport/internal/sink/memory"
	srcmem "hoursreport/internal/source/memory"
)

func testLogger() *log.Logger {
	return log.FromSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestHandler(src *srcmem.Store, snk *sinkmem.Store) *Handler {
	p := pipeline.New(src, snk, testLogger())
	return NewHandler(p, testLogger())
}

func seededSource() *srcmem.Store {
	return srcmem.New(
		core.RawRecord{core.ColumnSubmissionDate: "2025-01-01", core.ColumnHours: "2"},
		core.RawRecord{core.ColumnSubmissionDate: "2025-01-02", core.ColumnHours: "1"},
	)
}

func TestHandleRun(t *testing.T) {
	t.Run("success returns 200 and uploads both charts", func(t *testing.T) {
		snk := sinkmem.New()
		h := newTestHandler(seededSource(), snk)
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/run", "text/plain", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
		}
		if !strings.Contains(string(body), "successfully") {
			t.Errorf("body = %s", body)
		}
		if snk.Len() != 2 {
			t.Errorf("sink has %d objects, want 2", snk.Len())
		}
	})

	t.Run("GET triggers a run too", func(t *testing.T) {
		snk := sinkmem.New()
		h := newTestHandler(seededSource(), snk)
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/run")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || snk.Len() != 2 {
			t.Errorf("status=%d sink=%d", resp.StatusCode, snk.Len())
		}
	})

	t.Run("fetch failure returns 502", func(t *testing.T) {
		src := seededSource()
		src.FailWith(errors.New("auth expired"))
		h := newTestHandler(src, sinkmem.New())
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/run", "text/plain", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", resp.StatusCode)
		}
		if !strings.Contains(string(body), "fetch failed") {
			t.Errorf("body should attribute the failing step, got %s", body)
		}
	})

	t.Run("schema mismatch returns 502", func(t *testing.T) {
		src := srcmem.New(core.RawRecord{"name": "a"})
		h := newTestHandler(src, sinkmem.New())
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/run", "text/plain", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", resp.StatusCode)
		}
		if !strings.Contains(string(body), "normalize failed") {
			t.Errorf("body = %s", body)
		}
	})

	t.Run("partial chart failure returns 500 with both outcomes", func(t *testing.T) {
		snk := sinkmem.New()
		snk.FailOn(pipeline.RankedObject, errors.New("denied"))
		h := newTestHandler(seededSource(), snk)
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/run", "text/plain", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", resp.StatusCode)
		}
		if !strings.Contains(string(body), "uploaded 1 of 2") {
			t.Errorf("body = %s", body)
		}
		if _, ok := snk.Object(pipeline.CumulativeObject); !ok {
			t.Error("cumulative chart should still be uploaded")
		}
	})
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(seededSource(), sinkmem.New())
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}
}

func TestHandleDashboard(t *testing.T) {
	h := newTestHandler(seededSource(), sinkmem.New())
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content type = %s", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "Cumulative") {
		t.Error("dashboard body missing chart content")
	}

	t.Run("snapshot failure returns 502", func(t *testing.T) {
		src := seededSource()
		src.FailWith(context.DeadlineExceeded)
		h := newTestHandler(src, sinkmem.New())
		srv := httptest.NewServer(h.Router())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/dashboard")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", resp.StatusCode)
		}
	})
}
