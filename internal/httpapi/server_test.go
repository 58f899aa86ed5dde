package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kanhucharan/controllermon/internal/domain"
	"github.com/kanhucharan/controllermon/internal/history"
	"github.com/kanhucharan/controllermon/internal/status"
)

func testServer(t *testing.T, hist HistorySource) (*Server, *status.Table) {
	t.Helper()
	tbl := status.NewTable()
	return NewServer(zap.NewNop(), tbl, hist, 0, 0), tbl
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestControllersSnapshot(t *testing.T) {
	s, tbl := testServer(t, nil)
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	tbl.Publish(domain.StatusEntry{Host: "10.0.0.1", State: domain.StateOnline, LastChange: at})
	tbl.Publish(domain.StatusEntry{Host: "10.0.0.2", State: domain.StateOffline, LastChange: at})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/controllers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var got map[string]domain.StatusEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got["10.0.0.2"].State != domain.StateOffline {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	mem := history.NewMemory()
	_ = mem.Record(context.Background(), domain.Transition{
		Host: "10.0.0.1", To: domain.StateOffline, At: time.Now().UTC(),
	})
	s, _ := testServer(t, mem)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var rows []domain.Transition
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].To != domain.StateOffline {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestHistoryEndpoint_AbsentWithoutSource(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without history source, got %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	s, tbl := testServer(t, nil)
	tbl.Publish(domain.StatusEntry{Host: "10.0.0.1", State: domain.StateUnknown})
	tbl.Publish(domain.StatusEntry{
		Host: "10.0.0.2", State: domain.StateOffline,
		LastChange: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<td>10.0.0.1</td>",
		`class="offline"`,
		"2026-05-01 08:00:00",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
}
