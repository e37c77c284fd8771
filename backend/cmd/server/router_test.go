package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/domain/service"
	"sugar-glide/backend/internal/telemetry"
)

type fakeStats struct {
	stats service.Stats
	err   error
}

func (f fakeStats) Stats(context.Context) (service.Stats, error) { return f.stats, f.err }

type fakeConns int

func (f fakeConns) Count() int { return int(f) }

func TestStatsEndpoint(t *testing.T) {
	metrics := telemetry.NewRecorder()
	metrics.Inc(telemetry.CounterKisses)
	router := newRouter(http.NotFoundHandler(), fakeStats{stats: service.Stats{Players: 3, Chunks: 7}}, fakeConns(3), metrics, "", zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Ожидали 200, получили %d", rec.Code)
	}
	var body struct {
		Players     int `json:"players"`
		Chunks      int `json:"chunks"`
		Connections int `json:"connections"`
		Telemetry   struct {
			Counters map[string]uint64 `json:"counters"`
		} `json:"telemetry"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Ошибка разбора: %v", err)
	}
	if body.Players != 3 || body.Chunks != 7 || body.Connections != 3 {
		t.Errorf("Неверная статистика: %+v", body)
	}
	if body.Telemetry.Counters[telemetry.CounterKisses] != 1 {
		t.Errorf("Неверные счетчики: %+v", body.Telemetry)
	}
}

func TestStatsEndpoint_LoopStopped(t *testing.T) {
	router := newRouter(http.NotFoundHandler(), fakeStats{err: errors.New("stopped")}, fakeConns(0), telemetry.NewRecorder(), "", zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Ожидали 503, получили %d", rec.Code)
	}
}

func TestSPAHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>forest</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('glide')"), 0o600); err != nil {
		t.Fatal(err)
	}
	router := newRouter(http.NotFoundHandler(), fakeStats{}, fakeConns(0), telemetry.NewRecorder(), dir, zap.NewNop())

	tests := []struct {
		path string
		want string
	}{
		{"/app.js", "console.log('glide')"},
		{"/", "<html>forest</html>"},
		{"/some/client/route", "<html>forest</html>"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		body, _ := io.ReadAll(rec.Body)
		if rec.Code != http.StatusOK || string(body) != tt.want {
			t.Errorf("%s: код %d, тело %q", tt.path, rec.Code, body)
		}
	}
}
