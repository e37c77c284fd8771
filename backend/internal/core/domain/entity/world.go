package entity

// World хранит всех игроков и сгенерированные чанки сессии.
// Синхронизации нет: все вызовы идут из одной горутины игрового цикла.
type World struct {
	players map[string]*PlayerState
	chunks  map[string]*Chunk
}

// NewWorld создает новый пустой мир
func NewWorld() *World {
	return &World{
		players: make(map[string]*PlayerState),
		chunks:  make(map[string]*Chunk),
	}
}

// PutPlayer добавляет или перезаписывает игрока
func (w *World) PutPlayer(p *PlayerState) {
	w.players[p.ID] = p
}

// Player возвращает игрока по ID
func (w *World) Player(id string) (*PlayerState, bool) {
	p, ok := w.players[id]
	return p, ok
}

// RemovePlayer удаляет игрока, отсутствие не ошибка
func (w *World) RemovePlayer(id string) {
	delete(w.players, id)
}

// Players возвращает всех игроков (порядок не гарантирован)
func (w *World) Players() []*PlayerState {
	result := make([]*PlayerState, 0, len(w.players))
	for _, p := range w.players {
		result = append(result, p)
	}
	return result
}

// PutChunk сохраняет чанк. Чанки никогда не удаляются.
func (w *World) PutChunk(c *Chunk) {
	w.chunks[c.ID] = c
}

// Chunk возвращает чанк по ID
func (w *World) Chunk(id string) (*Chunk, bool) {
	c, ok := w.chunks[id]
	return c, ok
}

func (w *World) PlayerCount() int { return len(w.players) }

func (w *World) ChunkCount() int { return len(w.chunks) }
