// Package random содержит источники псевдослучайных чисел для генерации мира.
//
// Seeded реализует mulberry32: 32-битное состояние, фиксированный шаг
// перемешивания. Клиенты на любом языке, реализующие тот же шаг, получают
// побитово одинаковую последовательность для одного и того же сида.
package random

import (
	"math"
	"math/rand/v2"
)

// Source - минимальный интерфейс источника для генераторов
type Source interface {
	// Float возвращает равномерное значение из [0, 1)
	Float() float64
}

// Seeded - детерминированный генератор от целочисленного сида
type Seeded struct {
	state uint32
}

// New создает генератор. Сид усекается до 32 бит.
func New(seed int64) *Seeded {
	return &Seeded{state: uint32(seed)}
}

func (s *Seeded) next() uint32 {
	s.state += 0x6d2b79f5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float возвращает значение из [0, 1)
func (s *Seeded) Float() float64 {
	return float64(s.next()) / 4294967296
}

// Range возвращает значение из [min, max)
func (s *Seeded) Range(min, max float64) float64 {
	return Range(s, min, max)
}

// Int возвращает целое из [min, max] включительно
func (s *Seeded) Int(min, max int) int {
	return int(math.Floor(float64(min) + s.Float()*float64(max-min+1)))
}

// Shuffle возвращает перемешанную копию (Фишер-Йетс), вход не меняется
func Shuffle[T any](s Source, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := int(math.Floor(s.Float() * float64(i+1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Range возвращает значение из [min, max) от произвольного источника
func Range(s Source, min, max float64) float64 {
	return min + s.Float()*(max-min)
}

type ambient struct{}

func (ambient) Float() float64 { return rand.Float64() }

// Ambient возвращает несидированный источник (math/rand/v2)
func Ambient() Source {
	return ambient{}
}
