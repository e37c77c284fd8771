package notify

import "sugar-glide/backend/internal/core/domain/entity"

// Имена исходящих событий
const (
	EventMessage         = "message"
	EventPlayerJoined    = "playerJoined"
	EventWorldSeed       = "worldSeed"
	EventChunkData       = "chunkData"
	EventPlayerPositions = "playerPositions"
	EventUpdateVitality  = "updateVitality"
	EventUpdateScore     = "updateScore"
	EventBerryCollected  = "berryCollected"
	EventKissRequest     = "kissRequest"
	EventKissCompleted   = "kissCompleted"
	EventBabyAdded       = "babyAdded"
	EventLoseBaby        = "loseBaby"
	EventGameOver        = "gameOver"
	EventRespawn         = "respawn"
	EventPlayerLeft      = "playerLeft"
	EventPong            = "pong"
)

type PlayerJoined struct {
	ID       string         `json:"id" msgpack:"id"`
	Position entity.Vector3 `json:"position" msgpack:"position"`
	Vitality float64        `json:"vitality" msgpack:"vitality"`
	Score    int64          `json:"score" msgpack:"score"`
	Babies   int            `json:"babies" msgpack:"babies"`
}

type WorldSeed struct {
	ForestSeed int64 `json:"forestSeed" msgpack:"forestSeed"`
}

type ChunkData struct {
	Chunks []*entity.Chunk `json:"chunks" msgpack:"chunks"`
}

type PlayerPosition struct {
	ID       string               `json:"id" msgpack:"id"`
	Position entity.Vector3       `json:"position" msgpack:"position"`
	Velocity entity.Vector3       `json:"velocity" msgpack:"velocity"`
	State    entity.MovementState `json:"state" msgpack:"state"`
	Babies   int                  `json:"babies" msgpack:"babies"`
}

type PlayerPositions struct {
	Players []PlayerPosition `json:"players" msgpack:"players"`
}

type UpdateVitality struct {
	PlayerID string  `json:"playerId" msgpack:"playerId"`
	Vitality float64 `json:"vitality" msgpack:"vitality"`
}

type UpdateScore struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
	Score    int64  `json:"score" msgpack:"score"`
}

// BerryCollected - NewVitality заполняется только для собравшего игрока
type BerryCollected struct {
	BerryID     string   `json:"berryId" msgpack:"berryId"`
	ChunkID     string   `json:"chunkId" msgpack:"chunkId"`
	PlayerID    string   `json:"playerId" msgpack:"playerId"`
	NewVitality *float64 `json:"newVitality,omitempty" msgpack:"newVitality,omitempty"`
}

type KissRequest struct {
	FromPlayerID string `json:"fromPlayerId" msgpack:"fromPlayerId"`
}

type KissCompleted struct {
	Player1ID string `json:"player1Id" msgpack:"player1Id"`
	Player2ID string `json:"player2Id" msgpack:"player2Id"`
}

type BabyAdded struct {
	PlayerID    string `json:"playerId" msgpack:"playerId"`
	TotalBabies int    `json:"totalBabies" msgpack:"totalBabies"`
}

type LoseBaby struct {
	PlayerID        string `json:"playerId" msgpack:"playerId"`
	Reason          string `json:"reason" msgpack:"reason"`
	RemainingBabies int    `json:"remainingBabies" msgpack:"remainingBabies"`
}

type GameOver struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

type Respawn struct {
	PlayerID string         `json:"playerId" msgpack:"playerId"`
	Position entity.Vector3 `json:"position" msgpack:"position"`
	Vitality float64        `json:"vitality" msgpack:"vitality"`
}

type PlayerLeft struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

type Pong struct {
	ClientTime float64 `json:"clientTime" msgpack:"clientTime"`
	ServerTime int64   `json:"serverTime" msgpack:"serverTime"`
}

// Text создает текстовое событие message
func Text(msg string) Event {
	return Event{Name: EventMessage, Payload: msg}
}

// NewPlayerPosition собирает запись о положении игрока
func NewPlayerPosition(p entity.PlayerState) PlayerPosition {
	return PlayerPosition{
		ID:       p.ID,
		Position: p.Position,
		Velocity: p.Velocity,
		State:    p.State,
		Babies:   p.Babies,
	}
}
