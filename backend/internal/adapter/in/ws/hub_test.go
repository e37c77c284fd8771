package ws

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/port/out/notify"
)

func TestHub_SendAndConnected(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	client := hub.Register("c1", nil, JSONCodec{})

	if !hub.Connected("c1") || hub.Connected("c2") {
		t.Fatal("Неверный статус подключений")
	}
	if err := hub.Send("c1", notify.Text("hi")); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if got := string(<-client.send); got != `{"type":"message","data":"hi"}` {
		t.Errorf("Неверные данные: %s", got)
	}
	if err := hub.Send("c2", notify.Text("hi")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ожидали ErrNotConnected, получили %v", err)
	}
}

func TestHub_QueueFull(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	hub.Register("c1", nil, JSONCodec{})

	if err := hub.Send("c1", notify.Text("1")); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if err := hub.Send("c1", notify.Text("2")); !errors.Is(err, ErrSendQueueFull) {
		t.Errorf("Ожидали ErrSendQueueFull, получили %v", err)
	}
}

func TestHub_BroadcastExcept(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	a := hub.Register("a", nil, JSONCodec{})
	b := hub.Register("b", nil, MsgpackCodec{})
	c := hub.Register("c", nil, JSONCodec{})

	hub.Broadcast("a", notify.Text("hello"))

	if len(a.send) != 0 {
		t.Error("Отправитель не должен получать рассылку")
	}
	if len(b.send) != 1 || len(c.send) != 1 {
		t.Fatalf("Ожидали по одному сообщению: b=%d c=%d", len(b.send), len(c.send))
	}
	if string(<-c.send) == string(<-b.send) {
		t.Error("Клиенты с разными кодеками должны получать разные кадры")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	client := hub.Register("c1", nil, JSONCodec{})
	hub.Unregister("c1")
	hub.Unregister("c1")

	if hub.Connected("c1") || hub.Count() != 0 {
		t.Error("Подключение должно быть удалено")
	}
	if err := client.enqueue([]byte("x")); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Ожидали ErrClientClosed, получили %v", err)
	}
}

func TestHub_BroadcastEncodeErrorSkipsOnlyThatCodec(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	jsonA := hub.Register("a", nil, JSONCodec{})
	jsonB := hub.Register("b", nil, JSONCodec{})
	binary := hub.Register("c", nil, MsgpackCodec{})

	// NaN не кодируется в JSON, но допустим в MessagePack
	hub.Broadcast("", notify.Event{Name: notify.EventUpdateVitality, Payload: math.NaN()})

	if len(jsonA.send) != 0 || len(jsonB.send) != 0 {
		t.Errorf("JSON клиенты не должны получать кадр: a=%d b=%d", len(jsonA.send), len(jsonB.send))
	}
	if len(binary.send) != 1 {
		t.Errorf("msgpack клиент должен получить рассылку, получил %d", len(binary.send))
	}
}
