package service

import (
	"fmt"
	"math"
	"testing"

	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/core/domain/random"
)

func newSeededGenerator(seed int64) *ChunkGenerator {
	g := NewChunkGenerator(random.New(seed), DefaultTuning())
	next := 0
	g.newID = func() string {
		next++
		return fmt.Sprintf("id_%d", next)
	}
	return g
}

func TestChunkGenerator_Structure(t *testing.T) {
	tuning := DefaultTuning()

	for seed := int64(0); seed < 50; seed++ {
		g := newSeededGenerator(seed)
		chunk := g.Generate(40)

		if chunk.ID != "chunk-40" {
			t.Fatalf("Неверный ID чанка: %s", chunk.ID)
		}
		if chunk.BaseHeight != 40 {
			t.Fatalf("Неверная базовая высота: %d", chunk.BaseHeight)
		}
		if len(chunk.Branches) != len(tuning.BranchSpawnHeights) {
			t.Fatalf("Ожидали %d веток, получили %d", len(tuning.BranchSpawnHeights), len(chunk.Branches))
		}

		for i, b := range chunk.Branches {
			wantY := 40 + tuning.BranchSpawnHeights[i]
			if b.Position.Y != wantY {
				t.Errorf("Ветка %d: высота %.1f, ожидали %.1f", i, b.Position.Y, wantY)
			}
			if math.Abs(b.Position.X) > 15 || math.Abs(b.Position.Z) > 15 {
				t.Errorf("Ветка %d вне разброса: (%.2f, %.2f)", i, b.Position.X, b.Position.Z)
			}
			if b.Length < 5 || b.Length >= 10 {
				t.Errorf("Ветка %d: длина %.2f вне [5,10)", i, b.Length)
			}
			if b.Thickness < 0.3 {
				t.Errorf("Ветка %d: толщина %.2f меньше 0.3", i, b.Thickness)
			}
			if b.Orientation < 0 || b.Orientation >= 2*math.Pi {
				t.Errorf("Ветка %d: ориентация %.2f вне [0,2π)", i, b.Orientation)
			}
			if b.Elevation < -0.1 || b.Elevation >= 0.2 {
				t.Errorf("Ветка %d: наклон %.2f вне [-0.1,0.2)", i, b.Elevation)
			}
			if len(b.Children) > 3 {
				t.Errorf("Ветка %d: %d дочерних веток, максимум 3", i, len(b.Children))
			}
			for _, c := range b.Children {
				if c.RelativePosition < 0.4 || c.RelativePosition >= 0.8 {
					t.Errorf("Дочерняя ветка: позиция %.2f вне [0.4,0.8)", c.RelativePosition)
				}
				if c.Thickness >= b.Thickness {
					t.Errorf("Дочерняя ветка толще родителя: %.2f >= %.2f", c.Thickness, b.Thickness)
				}
			}
		}

		if len(chunk.Berries) < 1 || len(chunk.Berries) > tuning.MaxBerriesPerChunk {
			t.Fatalf("Количество ягод %d вне [1,%d]", len(chunk.Berries), tuning.MaxBerriesPerChunk)
		}
	}
}

func TestChunkGenerator_BerriesOnDistinctBranches(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		chunk := newSeededGenerator(seed).Generate(0)

		branches := make(map[string]entity.Branch)
		for _, b := range chunk.Branches {
			branches[b.ID] = b
		}

		used := make(map[string]bool)
		for _, berry := range chunk.Berries {
			if berry.Collected {
				t.Errorf("Новая ягода %s уже собрана", berry.ID)
			}
			branch, ok := branches[berry.BranchID]
			if !ok {
				t.Fatalf("Ягода %s ссылается на неизвестную ветку %s", berry.ID, berry.BranchID)
			}
			if used[berry.BranchID] {
				t.Errorf("Две ягоды на одной ветке %s", berry.BranchID)
			}
			used[berry.BranchID] = true

			// Ягода лежит на 30%-90% длины вдоль направления ветки
			dirLen := math.Sqrt(1 + branch.Elevation*branch.Elevation)
			dist := berry.Position.DistanceTo(branch.Position)
			min := 0.3 * branch.Length * dirLen
			max := 0.9 * branch.Length * dirLen
			if dist < min-1e-9 || dist > max+1e-9 {
				t.Errorf("Ягода на расстоянии %.3f от основания, ожидали [%.3f, %.3f]", dist, min, max)
			}
		}
	}
}

func TestChunkGenerator_SeededIsReproducible(t *testing.T) {
	a := newSeededGenerator(2024).Generate(100)
	b := newSeededGenerator(2024).Generate(100)

	for i := range a.Branches {
		if a.Branches[i].Position != b.Branches[i].Position ||
			a.Branches[i].Orientation != b.Branches[i].Orientation ||
			len(a.Branches[i].Children) != len(b.Branches[i].Children) {
			t.Fatalf("Ветка %d отличается при одинаковом сиде", i)
		}
	}
	if len(a.Berries) != len(b.Berries) {
		t.Fatalf("Разное количество ягод: %d vs %d", len(a.Berries), len(b.Berries))
	}
}

func TestChunkGenerator_ThicknessDecreasesWithHeight(t *testing.T) {
	low := newSeededGenerator(1).Generate(0)
	high := newSeededGenerator(1).Generate(600)

	if high.Branches[0].Thickness >= low.Branches[0].Thickness {
		t.Errorf("Толщина на высоте не уменьшилась: %.3f >= %.3f",
			high.Branches[0].Thickness, low.Branches[0].Thickness)
	}

	top := newSeededGenerator(1).Generate(2000)
	for _, b := range top.Branches {
		if b.Thickness != 0.3 {
			t.Errorf("На большой высоте толщина должна упереться в 0.3, получили %.3f", b.Thickness)
		}
	}
}

func TestChunkGenerator_AmbientSourceByDefault(t *testing.T) {
	g := NewChunkGenerator(nil, DefaultTuning())
	a := g.Generate(20)
	b := g.Generate(20)

	if a.ID != b.ID {
		t.Fatalf("ID одной высоты должны совпадать: %s vs %s", a.ID, b.ID)
	}
	if a.Branches[0].ID == b.Branches[0].ID {
		t.Error("Повторная генерация должна выдавать новые ID веток")
	}
}
