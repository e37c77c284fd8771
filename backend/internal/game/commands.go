package game

import (
	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/core/domain/service"
)

// Команды, которые транспортный слой кладет во входящую очередь Loop.
// Каждая команда обрабатывается целиком до начала следующей.

// Connect - новое подключение
type Connect struct {
	ConnID string
}

// PositionUpdate - отчет клиента о движении
type PositionUpdate struct {
	ConnID   string
	Position entity.Vector3
	Velocity entity.Vector3
	State    entity.MovementState
}

// CollectBerry - попытка собрать ягоду
type CollectBerry struct {
	ConnID  string
	ChunkID string
	BerryID string
}

// KissInitiate - запрос поцелуя к другому игроку
type KissInitiate struct {
	ConnID   string
	TargetID string
}

// KissAccept - принятие поцелуя от игрока FromID
type KissAccept struct {
	ConnID string
	FromID string
}

// Grounded - игрок коснулся земли
type Grounded struct {
	ConnID string
}

// Disconnect - подключение закрыто
type Disconnect struct {
	ConnID string
}

// StatsRequest - запрос сводки из другой горутины
type StatsRequest struct {
	Reply chan service.Stats
}
