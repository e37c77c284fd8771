package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит настройки процесса сервера
type Config struct {
	// HTTPAddr - адрес HTTP/WebSocket сервера
	HTTPAddr string

	// GRPCAddr - адрес gRPC health сервера, пустая строка отключает его
	GRPCAddr string

	// StaticDir - каталог собранного фронтенда, пустая строка отключает раздачу
	StaticDir string

	// AllowedOrigin - разрешенный Origin для WebSocket, "*" - любой
	AllowedOrigin string

	// Env - окружение (development, production)
	Env string

	// LogLevel - уровень логирования zap
	LogLevel string

	// ForestSeed - общий seed леса, по умолчанию номер дня с начала эпохи
	ForestSeed int64

	// UpdateRateHz и UpdateBurst ограничивают updatePosition одного подключения
	UpdateRateHz float64
	UpdateBurst  int

	StatsInterval time.Duration
	PingInterval  time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:      ":3000",
		GRPCAddr:      ":50051",
		AllowedOrigin: "*",
		Env:           "development",
		LogLevel:      "info",
		ForestSeed:    DailySeed(time.Now()),
		UpdateRateHz:  10,
		UpdateBurst:   5,
		StatsInterval: 30 * time.Second,
		PingInterval:  25 * time.Second,
	}
}

// DailySeed возвращает номер дня с начала эпохи (UTC)
func DailySeed(now time.Time) int64 {
	return now.UTC().Unix() / int64(24*time.Hour/time.Second)
}

// IsProduction сообщает, запущен ли сервер в production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load читает .env (если есть) и переменные окружения поверх значений по умолчанию
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("загрузка %s: %w", file, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv собирает конфигурацию из функции поиска переменных
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	p := parser{lookup: lookup}

	p.str("HTTP_ADDR", &cfg.HTTPAddr)
	p.str("GRPC_ADDR", &cfg.GRPCAddr)
	p.str("STATIC_DIR", &cfg.StaticDir)
	p.str("ALLOWED_ORIGIN", &cfg.AllowedOrigin)
	p.str("NODE_ENV", &cfg.Env)
	p.str("ENV", &cfg.Env)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.integer64("FOREST_SEED", &cfg.ForestSeed)
	p.float("UPDATE_RATE_HZ", &cfg.UpdateRateHz)
	p.integer("UPDATE_BURST", &cfg.UpdateBurst)
	p.duration("STATS_INTERVAL", &cfg.StatsInterval)
	p.duration("PING_INTERVAL", &cfg.PingInterval)

	if p.err != nil {
		return nil, p.err
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("HTTP_ADDR не может быть пустым")
	}
	if cfg.UpdateRateHz < 0 || cfg.UpdateBurst < 0 {
		return nil, fmt.Errorf("UPDATE_RATE_HZ и UPDATE_BURST должны быть неотрицательными")
	}
	return cfg, nil
}

// parser запоминает первую ошибку разбора
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) value(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	return v, ok && v != ""
}

func (p *parser) fail(key, raw string, err error) {
	p.err = fmt.Errorf("некорректное значение %s=%q: %w", key, raw, err)
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.value(key); ok {
		*dst = v
	}
}

func (p *parser) integer64(key string, dst *int64) {
	if v, ok := p.value(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.value(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.value(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.value(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = d
	}
}
