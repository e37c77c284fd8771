package service

import "sugar-glide/backend/internal/core/domain/entity"

// Tuning содержит игровые константы сервера
type Tuning struct {
	// ChunkHeight - высота одного чанка (полосы) в единицах мира
	ChunkHeight int

	// BranchSpawnHeights - высоты веток относительно основания чанка
	BranchSpawnHeights []float64

	// MaxBerriesPerChunk - верхняя граница ягод на чанк (минимум 1)
	MaxBerriesPerChunk int

	// BranchSpread - разброс ветки по X/Z от оси (±)
	BranchSpread float64

	// VisibilityRange - вертикальное окно видимости других игроков
	VisibilityRange float64

	// HorizontalRange - радиус видимости в плоскости XZ
	HorizontalRange float64

	// KissDistance - максимальная 3D дистанция для поцелуя
	KissDistance float64

	// VitalityDecay - снижение бодрости за один вызов обновления (~100мс)
	VitalityDecay float64

	// BerryVitality - прибавка бодрости за ягоду
	BerryVitality float64

	// MaxVitality - верхняя граница бодрости
	MaxVitality float64

	// SpawnPosition - точка появления и респауна
	SpawnPosition entity.Vector3
}

// DefaultTuning возвращает настройки по умолчанию
func DefaultTuning() Tuning {
	return Tuning{
		ChunkHeight:        20,
		BranchSpawnHeights: []float64{5, 10, 15, 20},
		MaxBerriesPerChunk: 2,
		BranchSpread:       15,
		VisibilityRange:    60,
		HorizontalRange:    30,
		KissDistance:       2,
		VitalityDecay:      0.1,
		BerryVitality:      50,
		MaxVitality:        100,
		SpawnPosition:      entity.Vector3{X: 0, Y: 10, Z: 0},
	}
}
