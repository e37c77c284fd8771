package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/domain/service"
	"sugar-glide/backend/internal/telemetry"
)

// statsSource отдает сводку хранилища из игрового цикла
type statsSource interface {
	Stats(ctx context.Context) (service.Stats, error)
}

// connCounter сообщает число активных подключений
type connCounter interface {
	Count() int
}

type statsResponse struct {
	service.Stats
	Connections int                `json:"connections"`
	Telemetry   telemetry.Snapshot `json:"telemetry"`
}

func newRouter(ws http.Handler, stats statsSource, conns connCounter, metrics *telemetry.Recorder, staticDir string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("GET /stats", statsHandler(stats, conns, metrics, logger))

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			logger.Warn("каталог статики недоступен", zap.String("dir", staticDir), zap.Error(err))
		}
		mux.Handle("/", spaHandler(staticDir))
	}
	return mux
}

func statsHandler(stats statsSource, conns connCounter, metrics *telemetry.Recorder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		s, err := stats.Stats(ctx)
		if err != nil {
			http.Error(w, "game loop unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(statsResponse{
			Stats:       s,
			Connections: conns.Count(),
			Telemetry:   metrics.Snapshot(),
		}); err != nil {
			logger.Debug("ошибка записи /stats", zap.Error(err))
		}
	}
}

// spaHandler раздает файлы фронтенда, неизвестные пути отдают index.html
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err != nil || info.IsDir() && !strings.HasSuffix(r.URL.Path, "/") {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}
