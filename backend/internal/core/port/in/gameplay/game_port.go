package gameplay

import (
	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/core/domain/service"
)

// GamePort определяет операции над состоянием игры, доступные сессионному слою
type GamePort interface {
	// AddPlayer создает (или сбрасывает) игрока при подключении
	AddPlayer(id string) entity.PlayerState

	// GetPlayer возвращает текущее состояние игрока без изменений
	GetPlayer(id string) (entity.PlayerState, bool)

	// RemovePlayer удаляет игрока при отключении
	RemovePlayer(id string)

	// UpdatePlayerState применяет отчет клиента о движении
	UpdatePlayerState(id string, position, velocity entity.Vector3, state entity.MovementState)

	// GetChunksForPlayer возвращает чанки вокруг позиции, создавая недостающие
	GetChunksForPlayer(position entity.Vector3) []*entity.Chunk

	// DeliverChunks отфильтровывает уже доставленные игроку чанки
	DeliverChunks(id string, chunks []*entity.Chunk) []*entity.Chunk

	// GetNearbyPlayers возвращает игроков в зоне видимости
	GetNearbyPlayers(id string) []entity.PlayerState

	// CollectBerry пытается собрать ягоду
	CollectBerry(playerID, chunkID, berryID string) bool

	// ProcessKiss пытается завести детенышей двум игрокам
	ProcessKiss(idA, idB string) bool

	// Stats возвращает сводку хранилища
	Stats() service.Stats
}

var _ GamePort = (*service.GameService)(nil)
