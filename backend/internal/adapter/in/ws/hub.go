package ws

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/port/out/notify"
)

var (
	ErrNotConnected  = errors.New("подключение не найдено")
	ErrSendQueueFull = errors.New("очередь отправки переполнена")
	ErrClientClosed  = errors.New("подключение закрыто")
)

const (
	defaultWriteWait = 10 * time.Second
	defaultQueueSize = 256
)

// SafeWriter обеспечивает потокобезопасную запись в WebSocket
type SafeWriter struct {
	conn      *websocket.Conn
	mutex     deadlock.Mutex
	writeWait time.Duration
}

// NewSafeWriter создает новый экземпляр SafeWriter
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn, writeWait: defaultWriteWait}
}

// Write отправляет кадр с дедлайном записи
func (w *SafeWriter) Write(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeWait))
	return w.conn.WriteMessage(messageType, data)
}

// Ping отправляет управляющий ping
func (w *SafeWriter) Ping() error {
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(w.writeWait))
}

// CloseWith отправляет кадр закрытия с кодом и причиной
func (w *SafeWriter) CloseWith(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	return w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(w.writeWait))
}

// Close закрывает соединение WebSocket
func (w *SafeWriter) Close() error {
	return w.conn.Close()
}

// Client - одно подключение игрока
type Client struct {
	ID     string
	codec  Codec
	writer *SafeWriter
	send   chan []byte
	done   chan struct{}
}

func (c *Client) enqueue(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// writePump - единственная горутина, пишущая данные в соединение
func (c *Client) writePump(pingInterval time.Duration, logger *zap.Logger) {
	var pingC <-chan time.Time
	if pingInterval > 0 {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.writer.Write(c.codec.MessageType(), data); err != nil {
				logger.Debug("ошибка записи", zap.String("connId", c.ID), zap.Error(err))
				_ = c.writer.Close()
				return
			}
		case <-pingC:
			if err := c.writer.Ping(); err != nil {
				logger.Debug("ошибка ping", zap.String("connId", c.ID), zap.Error(err))
				_ = c.writer.Close()
				return
			}
		}
	}
}

// Hub хранит активные подключения и реализует notify.Notifier
type Hub struct {
	mutex     deadlock.RWMutex
	clients   map[string]*Client
	queueSize int
	logger    *zap.Logger
}

var _ notify.Notifier = (*Hub)(nil)

// NewHub создает пустой реестр подключений
func NewHub(queueSize int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Hub{
		clients:   make(map[string]*Client),
		queueSize: queueSize,
		logger:    logger.Named("Hub"),
	}
}

// Register добавляет подключение в реестр
func (h *Hub) Register(id string, conn *websocket.Conn, codec Codec) *Client {
	client := &Client{
		ID:     id,
		codec:  codec,
		writer: NewSafeWriter(conn),
		send:   make(chan []byte, h.queueSize),
		done:   make(chan struct{}),
	}

	h.mutex.Lock()
	h.clients[id] = client
	h.mutex.Unlock()

	h.logger.Debug("подключение зарегистрировано", zap.String("connId", id), zap.String("codec", codec.Name()))
	return client
}

// Unregister удаляет подключение и останавливает его запись
func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	client, ok := h.clients[id]
	delete(h.clients, id)
	h.mutex.Unlock()

	if ok {
		close(client.done)
	}
}

// Send кодирует событие кодеком клиента и ставит в очередь отправки
func (h *Hub) Send(connID string, event notify.Event) error {
	h.mutex.RLock()
	client, ok := h.clients[connID]
	h.mutex.RUnlock()
	if !ok {
		return ErrNotConnected
	}

	data, err := client.codec.Encode(event.Name, event.Payload)
	if err != nil {
		return err
	}
	return client.enqueue(data)
}

// Broadcast отправляет событие всем, кроме except.
// Событие кодируется один раз на каждый используемый кодек.
func (h *Hub) Broadcast(except string, event notify.Event) {
	h.mutex.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		if id != except {
			targets = append(targets, client)
		}
	}
	h.mutex.RUnlock()

	encoded := make(map[string][]byte, 2)
	failed := make(map[string]bool)
	for _, client := range targets {
		if failed[client.codec.Name()] {
			continue
		}
		data, ok := encoded[client.codec.Name()]
		if !ok {
			var err error
			data, err = client.codec.Encode(event.Name, event.Payload)
			if err != nil {
				h.logger.Error("ошибка кодирования рассылки",
					zap.String("event", event.Name), zap.String("codec", client.codec.Name()), zap.Error(err))
				failed[client.codec.Name()] = true
				continue
			}
			encoded[client.codec.Name()] = data
		}
		if err := client.enqueue(data); err != nil {
			h.logger.Debug("рассылка не доставлена", zap.String("connId", client.ID), zap.Error(err))
		}
	}
}

// Connected сообщает, есть ли активное подключение
func (h *Hub) Connected(connID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.clients[connID]
	return ok
}

// Count возвращает число активных подключений
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// CloseAll закрывает все подключения с кодом going away
func (h *Hub) CloseAll(reason string) {
	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		_ = client.writer.CloseWith(websocket.CloseGoingAway, reason)
		_ = client.writer.Close()
	}
}
