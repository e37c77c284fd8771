package service

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/core/domain/random"
)

// ChunkGenerator строит содержимое одного чанка: ветки и ягоды.
// Детерминирована только структура (число веток и их высоты), содержимое
// берется из источника src. Повторная генерация той же высоты даст другой чанк.
type ChunkGenerator struct {
	src    random.Source
	tuning Tuning
	newID  func() string
}

// NewChunkGenerator создает генератор. nil источник заменяется на random.Ambient().
func NewChunkGenerator(src random.Source, tuning Tuning) *ChunkGenerator {
	if src == nil {
		src = random.Ambient()
	}
	return &ChunkGenerator{
		src:    src,
		tuning: tuning,
		newID:  uuid.NewString,
	}
}

// Generate строит чанк для baseHeight. Отрицательные высоты отсекает вызывающий.
func (g *ChunkGenerator) Generate(baseHeight int) *entity.Chunk {
	branches := make([]entity.Branch, 0, len(g.tuning.BranchSpawnHeights))
	for _, offset := range g.tuning.BranchSpawnHeights {
		branches = append(branches, g.generateBranch(float64(baseHeight)+offset))
	}

	return &entity.Chunk{
		ID:         entity.ChunkID(baseHeight),
		BaseHeight: baseHeight,
		Branches:   branches,
		Berries:    g.generateBerries(branches),
	}
}

func (g *ChunkGenerator) rangeOf(min, max float64) float64 {
	return random.Range(g.src, min, max)
}

func (g *ChunkGenerator) generateBranch(y float64) entity.Branch {
	spread := g.tuning.BranchSpread
	branch := entity.Branch{
		ID: g.newID(),
		Position: entity.Vector3{
			X: g.rangeOf(-spread, spread),
			Y: y,
			Z: g.rangeOf(-spread, spread),
		},
		Length:      g.rangeOf(5, 10),
		Thickness:   math.Max(0.3, 1-y/1000), // выше - тоньше
		Orientation: g.rangeOf(0, 2*math.Pi),
		Elevation:   g.rangeOf(-0.1, 0.2),
		HasLeaves:   g.src.Float() < 0.3+y/1000,
		LeafDensity: g.rangeOf(0.3, 1.0),
		Children:    []entity.SubBranch{},
	}

	splitChance := 0.3 + y/2000
	if g.src.Float() < splitChance {
		numSplits := int(math.Floor(g.rangeOf(1, 4)))
		for i := 0; i < numSplits; i++ {
			sign := -1.0
			angle := g.rangeOf(math.Pi/12, math.Pi/4)
			if g.src.Float() > 0.5 {
				sign = 1.0
			}
			branch.Children = append(branch.Children, entity.SubBranch{
				RelativePosition: g.rangeOf(0.4, 0.8),
				Length:           branch.Length * g.rangeOf(0.4, 0.8),
				Angle:            angle * sign,
				Elevation:        g.rangeOf(-0.1, 0.3),
				Thickness:        branch.Thickness * g.rangeOf(0.4, 0.7),
				HasLeaves:        g.src.Float() < 0.8,
				LeafDensity:      g.rangeOf(0.5, 1.0),
			})
		}
	} else if g.src.Float() < 0.7 {
		// Конечная ветка без разветвлений - почти всегда с листвой
		branch.HasLeaves = true
		branch.LeafDensity = g.rangeOf(0.7, 1.0)
	}

	return branch
}

func (g *ChunkGenerator) generateBerries(branches []entity.Branch) []*entity.Berry {
	if len(branches) == 0 {
		return []*entity.Berry{}
	}

	numBerries := int(math.Floor(g.rangeOf(1, float64(g.tuning.MaxBerriesPerChunk+1))))

	// Уникальные индексы веток в порядке выбора
	picked := make(map[int]struct{}, numBerries)
	order := make([]int, 0, numBerries)
	for len(order) < numBerries && len(order) < len(branches) {
		idx := int(math.Floor(g.src.Float() * float64(len(branches))))
		if _, dup := picked[idx]; dup {
			continue
		}
		picked[idx] = struct{}{}
		order = append(order, idx)
	}

	berries := make([]*entity.Berry, 0, len(order))
	for _, idx := range order {
		branch := branches[idx]
		relativePos := g.rangeOf(0.3, 0.9)

		direction := mgl64.Vec3{
			math.Cos(branch.Orientation),
			branch.Elevation,
			math.Sin(branch.Orientation),
		}
		offset := direction.Mul(branch.Length * relativePos)

		berries = append(berries, &entity.Berry{
			ID:       g.newID(),
			BranchID: branch.ID,
			Position: entity.FromVec(branch.Position.Vec().Add(offset)),
		})
	}

	return berries
}
