package service

import (
	"math"

	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/domain/entity"
)

// GameService реализует правила игры над хранилищем World:
// жизненный цикл игрока, стриминг чанков, ягоды и поцелуи.
//
// Не потокобезопасен: вызывается только из игрового цикла.
type GameService struct {
	world     *entity.World
	generator *ChunkGenerator
	tuning    Tuning
	logger    *zap.Logger
}

// Stats - сводка по хранилищу
type Stats struct {
	Players int `json:"players"`
	Chunks  int `json:"chunks"`
}

// NewGameService создает сервис с пустым миром
func NewGameService(generator *ChunkGenerator, tuning Tuning, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = NewChunkGenerator(nil, tuning)
	}
	return &GameService{
		world:     entity.NewWorld(),
		generator: generator,
		tuning:    tuning,
		logger:    logger.Named("GameService"),
	}
}

func (s *GameService) spawnState(id string) *entity.PlayerState {
	return &entity.PlayerState{
		ID:           id,
		Position:     s.tuning.SpawnPosition,
		Velocity:     entity.Vector3{},
		State:        entity.StateIdle,
		Vitality:     s.tuning.MaxVitality,
		LoadedChunks: make(map[string]struct{}),
	}
}

// AddPlayer создает игрока в точке появления. Повторный вызов для
// существующего ID сбрасывает игрока к начальному состоянию.
func (s *GameService) AddPlayer(id string) entity.PlayerState {
	_, existed := s.world.Player(id)
	player := s.spawnState(id)
	s.world.PutPlayer(player)

	if existed {
		s.logger.Warn("игрок сброшен к начальному состоянию", zap.String("player", id))
	} else {
		s.logger.Info("игрок добавлен", zap.String("player", id))
	}
	return player.Snapshot()
}

// GetPlayer возвращает копию состояния игрока без побочных эффектов
func (s *GameService) GetPlayer(id string) (entity.PlayerState, bool) {
	p, ok := s.world.Player(id)
	if !ok {
		return entity.PlayerState{}, false
	}
	return p.Snapshot(), true
}

// RemovePlayer удаляет игрока, отсутствие не ошибка
func (s *GameService) RemovePlayer(id string) {
	if _, ok := s.world.Player(id); !ok {
		return
	}
	s.world.RemovePlayer(id)
	s.logger.Info("игрок удален", zap.String("player", id))
}

// UpdatePlayerState применяет отчет клиента о движении.
// Очки начисляются за каждый вызов в полете, бодрость тратится за каждый вызов.
func (s *GameService) UpdatePlayerState(id string, position, velocity entity.Vector3, state entity.MovementState) {
	player, ok := s.world.Player(id)
	if !ok {
		return
	}

	player.Position = position
	player.Velocity = velocity
	player.State = state

	if state == entity.StateGliding {
		player.Score++
	}

	player.Vitality = math.Max(0, player.Vitality-s.tuning.VitalityDecay)

	// Касание земли стоит одного детеныша
	if position.Y <= 0 && player.Babies > 0 {
		player.Babies--
	}

	if player.Vitality <= 0 && player.Babies == 0 {
		player.Position = s.tuning.SpawnPosition
		player.Velocity = entity.Vector3{}
		player.Vitality = s.tuning.MaxVitality
		s.logger.Info("игрок возрожден", zap.String("player", id), zap.Int64("score", player.Score))
	}
}

// BandBase возвращает основание полосы, содержащей высоту y.
// Для высоты за пределами мира (|y| > entity.MaxCoordinate) ok = false.
func (s *GameService) BandBase(y float64) (base int, ok bool) {
	if math.IsNaN(y) || math.Abs(y) > entity.MaxCoordinate {
		return 0, false
	}
	h := float64(s.tuning.ChunkHeight)
	return int(math.Floor(y/h) * h), true
}

// GetChunksForPlayer возвращает чанки под, в и над полосой игрока (в этом
// порядке), создавая недостающие. Полосы ниже нуля пропускаются.
// Высота за пределами мира не дает ни одного чанка.
// Фильтрация уже доставленных чанков - DeliverChunks.
func (s *GameService) GetChunksForPlayer(position entity.Vector3) []*entity.Chunk {
	center, ok := s.BandBase(position.Y)
	if !ok {
		return []*entity.Chunk{}
	}
	needed := [3]int{center - s.tuning.ChunkHeight, center, center + s.tuning.ChunkHeight}

	chunks := make([]*entity.Chunk, 0, len(needed))
	for _, baseHeight := range needed {
		if baseHeight < 0 {
			continue
		}
		chunks = append(chunks, s.chunkAt(baseHeight))
	}
	return chunks
}

func (s *GameService) chunkAt(baseHeight int) *entity.Chunk {
	id := entity.ChunkID(baseHeight)
	if chunk, ok := s.world.Chunk(id); ok {
		return chunk
	}

	chunk := s.generator.Generate(baseHeight)
	s.world.PutChunk(chunk)
	s.logger.Debug("сгенерирован чанк",
		zap.String("chunk", id),
		zap.Int("branches", len(chunk.Branches)),
		zap.Int("berries", len(chunk.Berries)))
	return chunk
}

// DeliverChunks оставляет только чанки, которых у игрока еще нет,
// и отмечает их как доставленные. Для неизвестного игрока возвращает nil.
func (s *GameService) DeliverChunks(id string, chunks []*entity.Chunk) []*entity.Chunk {
	player, ok := s.world.Player(id)
	if !ok {
		return nil
	}

	fresh := make([]*entity.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if player.HasChunk(chunk.ID) {
			continue
		}
		player.LoadedChunks[chunk.ID] = struct{}{}
		fresh = append(fresh, chunk)
	}
	return fresh
}

// GetNearbyPlayers возвращает других игроков в вертикальном окне видимости
// и горизонтальном радиусе. Порядок не гарантирован.
func (s *GameService) GetNearbyPlayers(id string) []entity.PlayerState {
	player, ok := s.world.Player(id)
	if !ok {
		return nil
	}

	var nearby []entity.PlayerState
	for _, other := range s.world.Players() {
		if other.ID == id {
			continue
		}
		vertical := math.Abs(player.Position.Y - other.Position.Y)
		horizontal := player.Position.HorizontalDistanceTo(other.Position)
		if vertical < s.tuning.VisibilityRange && horizontal < s.tuning.HorizontalRange {
			nearby = append(nearby, other.Snapshot())
		}
	}
	return nearby
}

// CollectBerry отмечает ягоду собранной и пополняет бодрость игрока.
// Ягода расходуется, даже если игрок успел исчезнуть (тогда результат false).
func (s *GameService) CollectBerry(playerID, chunkID, berryID string) bool {
	chunk, ok := s.world.Chunk(chunkID)
	if !ok {
		return false
	}

	berry, ok := chunk.Berry(berryID)
	if !ok || berry.Collected {
		return false
	}
	berry.Collected = true

	player, ok := s.world.Player(playerID)
	if !ok {
		s.logger.Debug("ягода собрана отсутствующим игроком",
			zap.String("player", playerID), zap.String("berry", berryID))
		return false
	}

	player.Vitality = math.Min(s.tuning.MaxVitality, player.Vitality+s.tuning.BerryVitality)
	return true
}

// ProcessKiss добавляет по детенышу обоим игрокам, если они рядом.
// Дистанция проверяется до любых изменений. Поцелуй с самим собой
// отклоняется (false): игрок не получает двух детенышей за один вызов.
func (s *GameService) ProcessKiss(idA, idB string) bool {
	if idA == idB {
		return false
	}

	a, ok := s.world.Player(idA)
	if !ok {
		return false
	}
	b, ok := s.world.Player(idB)
	if !ok {
		return false
	}

	if a.Position.DistanceTo(b.Position) > s.tuning.KissDistance {
		return false
	}

	a.Babies++
	b.Babies++
	s.logger.Info("поцелуй", zap.String("a", idA), zap.String("b", idB),
		zap.Int("babies_a", a.Babies), zap.Int("babies_b", b.Babies))
	return true
}

// Stats возвращает количество игроков и чанков
func (s *GameService) Stats() Stats {
	return Stats{
		Players: s.world.PlayerCount(),
		Chunks:  s.world.ChunkCount(),
	}
}
