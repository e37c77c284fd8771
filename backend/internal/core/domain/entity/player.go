package entity

// MovementState - состояние движения, сообщаемое клиентом
type MovementState string

const (
	StateGliding  MovementState = "gliding"
	StateClimbing MovementState = "climbing"
	StateIdle     MovementState = "idle"
)

// Valid проверяет, что состояние из известного набора
func (s MovementState) Valid() bool {
	switch s {
	case StateGliding, StateClimbing, StateIdle:
		return true
	}
	return false
}

// PlayerState - авторитетное состояние подключенного игрока
type PlayerState struct {
	ID           string
	Position     Vector3
	Velocity     Vector3
	State        MovementState
	Vitality     float64 // 0..100
	Score        int64
	Babies       int
	LoadedChunks map[string]struct{} // чанки, уже отправленные игроку
}

// HasChunk сообщает, был ли чанк уже доставлен игроку
func (p *PlayerState) HasChunk(id string) bool {
	_, ok := p.LoadedChunks[id]
	return ok
}

// Snapshot возвращает независимую копию состояния
func (p *PlayerState) Snapshot() PlayerState {
	cp := *p
	cp.LoadedChunks = make(map[string]struct{}, len(p.LoadedChunks))
	for id := range p.LoadedChunks {
		cp.LoadedChunks[id] = struct{}{}
	}
	return cp
}
