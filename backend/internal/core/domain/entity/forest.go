package entity

import "fmt"

// SubBranch - дочерняя ветка, параметры относительно родителя
type SubBranch struct {
	RelativePosition float64 `json:"relativePosition" msgpack:"relativePosition"` // 0..1 вдоль родителя
	Length           float64 `json:"length" msgpack:"length"`
	Angle            float64 `json:"angle" msgpack:"angle"`
	Elevation        float64 `json:"elevation" msgpack:"elevation"`
	Thickness        float64 `json:"thickness" msgpack:"thickness"`
	HasLeaves        bool    `json:"hasLeaves" msgpack:"hasLeaves"`
	LeafDensity      float64 `json:"leafDensity" msgpack:"leafDensity"`
}

// Branch - ветка дерева. После генерации чанка не меняется.
type Branch struct {
	ID          string      `json:"id" msgpack:"id"`
	Position    Vector3     `json:"position" msgpack:"position"`
	Length      float64     `json:"length" msgpack:"length"`
	Thickness   float64     `json:"thickness" msgpack:"thickness"`
	Orientation float64     `json:"orientation" msgpack:"orientation"` // вокруг ствола, 0..2π
	Elevation   float64     `json:"elevation" msgpack:"elevation"`     // наклон от горизонтали
	HasLeaves   bool        `json:"hasLeaves" msgpack:"hasLeaves"`
	LeafDensity float64     `json:"leafDensity" msgpack:"leafDensity"`
	Children    []SubBranch `json:"children" msgpack:"children"`
}

// Berry - ягода на ветке. BranchID только для поиска, ветка ягодой не владеет.
type Berry struct {
	ID        string  `json:"id" msgpack:"id"`
	BranchID  string  `json:"branchId" msgpack:"branchId"`
	Position  Vector3 `json:"position" msgpack:"position"`
	Collected bool    `json:"collected" msgpack:"collected"`
}

// Chunk - горизонтальный слой мира высотой ChunkHeight
type Chunk struct {
	ID         string   `json:"id" msgpack:"id"`
	BaseHeight int      `json:"baseHeight" msgpack:"baseHeight"`
	Branches   []Branch `json:"branches" msgpack:"branches"`
	Berries    []*Berry `json:"berries" msgpack:"berries"`
}

// ChunkID возвращает детерминированный идентификатор чанка по базовой высоте
func ChunkID(baseHeight int) string {
	return fmt.Sprintf("chunk-%d", baseHeight)
}

// Berry ищет ягоду по ID
func (c *Chunk) Berry(id string) (*Berry, bool) {
	for _, b := range c.Berries {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}
