package ws

import (
	"errors"
	"fmt"

	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/game"
)

// Типы входящих сообщений
const (
	MsgUpdatePosition = "updatePosition"
	MsgCollectBerry   = "collectBerry"
	MsgInitiateKiss   = "initiateKiss"
	MsgAcceptKiss     = "acceptKiss"
	MsgPlayerGrounded = "playerGrounded"
	MsgPing           = "ping"
)

var (
	ErrUnknownEventType = errors.New("неизвестный тип сообщения")
	ErrMissingField     = errors.New("отсутствует обязательное поле")
	ErrInvalidField     = errors.New("недопустимое значение поля")
)

// Ping - прикладной ping, обрабатывается без игрового цикла
type Ping struct {
	ConnID     string
	ClientTime float64
}

type updatePositionData struct {
	Position *entity.Vector3 `json:"position" msgpack:"position"`
	Velocity *entity.Vector3 `json:"velocity" msgpack:"velocity"`
	State    *string         `json:"state" msgpack:"state"`
}

type collectBerryData struct {
	BerryID string `json:"berryId" msgpack:"berryId"`
	ChunkID string `json:"chunkId" msgpack:"chunkId"`
}

type initiateKissData struct {
	TargetPlayerID string `json:"targetPlayerId" msgpack:"targetPlayerId"`
}

type acceptKissData struct {
	FromPlayerID string `json:"fromPlayerId" msgpack:"fromPlayerId"`
}

type pingData struct {
	ClientTime float64 `json:"clientTime" msgpack:"clientTime"`
}

// ParseCommand превращает конверт в команду игрового цикла (или Ping).
// Сообщения с отсутствующими полями отклоняются.
func ParseCommand(connID string, env Envelope) (any, error) {
	switch env.Type {
	case MsgUpdatePosition:
		data, err := DecodePayload[updatePositionData](env)
		if err != nil {
			return nil, err
		}
		if data.Position == nil || data.Velocity == nil || data.State == nil {
			return nil, fmt.Errorf("%w: position, velocity и state", ErrMissingField)
		}
		state := entity.MovementState(*data.State)
		if !state.Valid() {
			return nil, fmt.Errorf("%w: state %q", ErrInvalidField, *data.State)
		}
		if !data.Position.InBounds() || !data.Velocity.InBounds() {
			return nil, fmt.Errorf("%w: координаты вне мира", ErrInvalidField)
		}
		return game.PositionUpdate{
			ConnID:   connID,
			Position: *data.Position,
			Velocity: *data.Velocity,
			State:    state,
		}, nil

	case MsgCollectBerry:
		data, err := DecodePayload[collectBerryData](env)
		if err != nil {
			return nil, err
		}
		if data.BerryID == "" || data.ChunkID == "" {
			return nil, fmt.Errorf("%w: berryId и chunkId", ErrMissingField)
		}
		return game.CollectBerry{ConnID: connID, ChunkID: data.ChunkID, BerryID: data.BerryID}, nil

	case MsgInitiateKiss:
		data, err := DecodePayload[initiateKissData](env)
		if err != nil {
			return nil, err
		}
		if data.TargetPlayerID == "" {
			return nil, fmt.Errorf("%w: targetPlayerId", ErrMissingField)
		}
		return game.KissInitiate{ConnID: connID, TargetID: data.TargetPlayerID}, nil

	case MsgAcceptKiss:
		data, err := DecodePayload[acceptKissData](env)
		if err != nil {
			return nil, err
		}
		if data.FromPlayerID == "" {
			return nil, fmt.Errorf("%w: fromPlayerId", ErrMissingField)
		}
		return game.KissAccept{ConnID: connID, FromID: data.FromPlayerID}, nil

	case MsgPlayerGrounded:
		return game.Grounded{ConnID: connID}, nil

	case MsgPing:
		ping := Ping{ConnID: connID}
		if env.HasData() {
			data, err := DecodePayload[pingData](env)
			if err != nil {
				return nil, err
			}
			ping.ClientTime = data.ClientTime
		}
		return ping, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}
