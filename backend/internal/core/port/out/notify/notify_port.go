package notify

// Notifier доставляет события клиентам. Реализуется транспортным слоем.
type Notifier interface {
	// Send отправляет событие одному подключению
	Send(connID string, event Event) error

	// Broadcast отправляет событие всем, кроме except (пустая строка - всем)
	Broadcast(except string, event Event)

	// Connected сообщает, есть ли активное подключение
	Connected(connID string) bool
}

// Event - именованное исходящее сообщение
type Event struct {
	Name    string
	Payload any
}
