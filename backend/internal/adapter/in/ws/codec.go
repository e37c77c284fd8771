package ws

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Имена кодеков, выбираются параметром ?codec=
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Envelope - входящее сообщение {type, data} с еще не разобранными данными
type Envelope struct {
	Type string
	Data []byte

	unmarshal func([]byte, any) error
}

// HasData сообщает, пришло ли поле data
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Codec кодирует исходящие и разбирает входящие сообщения
type Codec interface {
	Name() string
	// MessageType - тип кадра WebSocket для исходящих сообщений
	MessageType() int
	Encode(eventType string, payload any) ([]byte, error)
	Decode(data []byte) (Envelope, error)
}

// CodecByName возвращает кодек по имени, по умолчанию JSON
func CodecByName(name string) Codec {
	if name == CodecMsgpack {
		return MsgpackCodec{}
	}
	return JSONCodec{}
}

// DecodePayload разбирает данные конверта в тип T
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if !env.HasData() {
		return out, fmt.Errorf("%w: data для %q", ErrMissingField, env.Type)
	}
	if err := env.unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("разбор data для %q: %w", env.Type, err)
	}
	return out, nil
}

// JSONCodec - текстовые кадры с JSON
type JSONCodec struct{}

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type jsonOutbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func (JSONCodec) Name() string     { return CodecJSON }
func (JSONCodec) MessageType() int { return websocket.TextMessage }

func (JSONCodec) Encode(eventType string, payload any) ([]byte, error) {
	if eventType == "" {
		return nil, fmt.Errorf("пустой тип события")
	}
	return json.Marshal(jsonOutbound{Type: eventType, Data: payload})
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("пустое сообщение")
	}
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("разбор конверта: %w", err)
	}
	return Envelope{Type: env.Type, Data: env.Data, unmarshal: json.Unmarshal}, nil
}

// MsgpackCodec - бинарные кадры с MessagePack
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data,omitempty"`
}

type msgpackOutbound struct {
	Type string `msgpack:"type"`
	Data any    `msgpack:"data,omitempty"`
}

func (MsgpackCodec) Name() string     { return CodecMsgpack }
func (MsgpackCodec) MessageType() int { return websocket.BinaryMessage }

func (MsgpackCodec) Encode(eventType string, payload any) ([]byte, error) {
	if eventType == "" {
		return nil, fmt.Errorf("пустой тип события")
	}
	return msgpack.Marshal(msgpackOutbound{Type: eventType, Data: payload})
}

func (MsgpackCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("пустое сообщение")
	}
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("разбор конверта: %w", err)
	}
	return Envelope{Type: env.Type, Data: env.Data, unmarshal: msgpack.Unmarshal}, nil
}
