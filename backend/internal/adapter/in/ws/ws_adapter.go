package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sugar-glide/backend/internal/core/port/out/notify"
	"sugar-glide/backend/internal/game"
	"sugar-glide/backend/internal/telemetry"
)

// Submitter принимает команды для игрового цикла
type Submitter interface {
	Submit(ctx context.Context, cmd any) error
}

// Options настройки WebSocket адаптера
type Options struct {
	AllowedOrigin string
	UpdateRate    float64 // допустимых updatePosition в секунду
	UpdateBurst   int
	PingInterval  time.Duration
	ReadLimit     int64
	SubmitTimeout time.Duration
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		AllowedOrigin: "*",
		UpdateRate:    10,
		UpdateBurst:   5,
		PingInterval:  25 * time.Second,
		ReadLimit:     64 << 10,
		SubmitTimeout: 5 * time.Second,
	}
}

// WSAdapter адаптер для WebSocket соединений
type WSAdapter struct {
	upgrader websocket.Upgrader
	hub      *Hub
	loop     Submitter
	options  Options
	metrics  *telemetry.Recorder
	logger   *zap.Logger
}

// NewWSAdapter создает новый экземпляр WSAdapter
func NewWSAdapter(hub *Hub, loop Submitter, options Options, metrics *telemetry.Recorder, logger *zap.Logger) *WSAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &WSAdapter{
		hub:     hub,
		loop:    loop,
		options: options,
		metrics: metrics,
		logger:  logger.Named("WSAdapter"),
	}
	a.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     a.checkOrigin,
	}
	return a
}

func (a *WSAdapter) checkOrigin(r *http.Request) bool {
	if a.options.AllowedOrigin == "" || a.options.AllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == a.options.AllowedOrigin
}

func (a *WSAdapter) pongWait() time.Duration {
	if a.options.PingInterval <= 0 {
		return 0
	}
	return a.options.PingInterval * 2
}

// HandleWS обрабатывает WebSocket соединения
func (a *WSAdapter) HandleWS(w http.ResponseWriter, r *http.Request) {
	codec := CodecByName(r.URL.Query().Get("codec"))

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("ошибка при установке WebSocket соединения", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	client := a.hub.Register(connID, conn, codec)
	go client.writePump(a.options.PingInterval, a.logger)

	defer func() {
		a.hub.Unregister(connID)
		ctx, cancel := context.WithTimeout(context.Background(), a.options.SubmitTimeout)
		defer cancel()
		if err := a.loop.Submit(ctx, game.Disconnect{ConnID: connID}); err != nil {
			a.logger.Warn("не удалось передать отключение", zap.String("connId", connID), zap.Error(err))
		}
		_ = conn.Close()
	}()

	if a.options.ReadLimit > 0 {
		conn.SetReadLimit(a.options.ReadLimit)
	}
	if wait := a.pongWait(); wait > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(wait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	ctx := r.Context()
	if err := a.loop.Submit(ctx, game.Connect{ConnID: connID}); err != nil {
		a.logger.Warn("не удалось передать подключение", zap.String("connId", connID), zap.Error(err))
		_ = client.writer.CloseWith(websocket.CloseTryAgainLater, "server busy")
		return
	}

	limiter := a.newLimiter()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.logger.Info("соединение прервано", zap.String("connId", connID), zap.Error(err))
			}
			return
		}

		cmd, err := a.parse(connID, codec, data)
		if err != nil {
			a.logger.Debug("сообщение отброшено", zap.String("connId", connID), zap.Error(err))
			continue
		}

		switch c := cmd.(type) {
		case Ping:
			a.pong(c)
			continue
		case game.PositionUpdate:
			if !limiter.Allow() {
				a.metrics.Inc(telemetry.CounterRateLimited)
				continue
			}
		}

		if err := a.loop.Submit(ctx, cmd); err != nil {
			if errors.Is(err, game.ErrStopped) {
				_ = client.writer.CloseWith(websocket.CloseGoingAway, "server shutting down")
				return
			}
			a.logger.Warn("не удалось передать команду", zap.String("connId", connID), zap.Error(err))
			return
		}
	}
}

// newLimiter ограничивает частоту updatePosition одного подключения
func (a *WSAdapter) newLimiter() *rate.Limiter {
	if a.options.UpdateRate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(a.options.UpdateRate), max(a.options.UpdateBurst, 1))
}

func (a *WSAdapter) parse(connID string, codec Codec, data []byte) (any, error) {
	env, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return ParseCommand(connID, env)
}

func (a *WSAdapter) pong(p Ping) {
	event := notify.Event{Name: notify.EventPong, Payload: notify.Pong{
		ClientTime: p.ClientTime,
		ServerTime: time.Now().UnixMilli(),
	}}
	if err := a.hub.Send(p.ConnID, event); err != nil {
		a.logger.Debug("не удалось отправить pong", zap.String("connId", p.ConnID), zap.Error(err))
	}
}

// ServeHTTP позволяет использовать адаптер как http.Handler
func (a *WSAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.HandleWS(w, r)
}
