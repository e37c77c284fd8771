package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxCoordinate - предел модуля координаты внутри мира
const MaxCoordinate = 1e9

// Vector3 представляет трехмерный вектор (позиция, скорость)
type Vector3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Vec возвращает вектор в представлении mathgl
func (v Vector3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromVec создает Vector3 из вектора mathgl
func FromVec(v mgl64.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// DistanceTo возвращает расстояние между точками в 3D
func (v Vector3) DistanceTo(o Vector3) float64 {
	return v.Vec().Sub(o.Vec()).Len()
}

// HorizontalDistanceTo возвращает расстояние в плоскости XZ
func (v Vector3) HorizontalDistanceTo(o Vector3) float64 {
	return mgl64.Vec2{v.X - o.X, v.Z - o.Z}.Len()
}

// InBounds проверяет, что все координаты конечны и не выходят за MaxCoordinate
func (v Vector3) InBounds() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.Abs(c) > MaxCoordinate {
			return false
		}
	}
	return true
}
