package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sugar-glide/backend/internal/adapter/in/healthcheck"
	"sugar-glide/backend/internal/adapter/in/ws"
	"sugar-glide/backend/internal/config"
	"sugar-glide/backend/internal/core/domain/random"
	"sugar-glide/backend/internal/core/domain/service"
	"sugar-glide/backend/internal/game"
	"sugar-glide/backend/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// логгер еще не создан
		zap.NewExample().Fatal("ошибка конфигурации", zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		zap.NewExample().Fatal("ошибка создания логгера", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("сервер завершился с ошибкой", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	metrics := telemetry.NewRecorder()

	// Ядро игры
	tuning := service.DefaultTuning()
	generator := service.NewChunkGenerator(random.Ambient(), tuning)
	gameService := service.NewGameService(generator, tuning, logger)

	// Игровой цикл и транспорт
	hub := ws.NewHub(0, logger)
	loopConfig := game.DefaultLoopConfig()
	loopConfig.ForestSeed = cfg.ForestSeed
	loopConfig.StatsInterval = cfg.StatsInterval
	loop := game.NewLoop(gameService, hub, metrics, loopConfig, logger)

	wsOptions := ws.DefaultOptions()
	wsOptions.AllowedOrigin = cfg.AllowedOrigin
	wsOptions.UpdateRate = cfg.UpdateRateHz
	wsOptions.UpdateBurst = cfg.UpdateBurst
	wsOptions.PingInterval = cfg.PingInterval
	adapter := ws.NewWSAdapter(hub, loop, wsOptions, metrics, logger)

	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer cancelLoop()
	go loop.Run(loopCtx)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(adapter, loop, hub, metrics, cfg.StaticDir, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP сервер запущен", zap.String("addr", cfg.HTTPAddr), zap.Int64("forestSeed", cfg.ForestSeed))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var healthServer *healthcheck.HealthServer
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		healthServer = healthcheck.NewHealthServer(logger)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки")
	case runErr = <-errCh:
		logger.Error("ошибка сервера", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if healthServer != nil {
		healthServer.SetServing(false)
	}
	hub.CloseAll("server shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ошибка остановки HTTP сервера", zap.Error(err))
	}
	loop.Stop()
	if healthServer != nil {
		healthServer.Shutdown(shutdownCtx)
	}

	metrics.PrintSummary(logger)
	logger.Info("сервер остановлен")
	return runErr
}
