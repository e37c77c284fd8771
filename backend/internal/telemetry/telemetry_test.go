package telemetry

import (
	"encoding/json"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()
	r.Inc(CounterKisses)
	r.Inc(CounterKisses)
	r.Add(CounterChunksSent, 3)
	r.Add(CounterChunksSent, 0)

	if got := r.Get(CounterKisses); got != 2 {
		t.Errorf("Ожидали 2 поцелуя, получили %d", got)
	}
	if got := r.Get(CounterChunksSent); got != 3 {
		t.Errorf("Ожидали 3 чанка, получили %d", got)
	}
}

func TestRecorder_SummaryKeepsTotals(t *testing.T) {
	r := NewRecorder()
	r.Inc(CounterBerries)
	r.PrintSummary(zap.NewNop())

	if len(r.interval) != 0 {
		t.Errorf("Интервальные счетчики должны быть сброшены: %v", r.interval)
	}
	if got := r.Get(CounterBerries); got != 1 {
		t.Errorf("Итоговые счетчики не должны сбрасываться: %d", got)
	}
}

func TestRecorder_JSON(t *testing.T) {
	r := NewRecorder()
	r.Inc(CounterConnections)

	data, err := r.JSON()
	if err != nil {
		t.Fatalf("Ошибка сериализации: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Ошибка разбора: %v", err)
	}
	if snap.Counters[CounterConnections] != 1 {
		t.Errorf("Неверный счетчик в JSON: %v", snap.Counters)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Inc(CounterPositionUpdate)
			}
		}()
	}
	wg.Wait()

	if got := r.Get(CounterPositionUpdate); got != 1000 {
		t.Errorf("Ожидали 1000, получили %d", got)
	}
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	r.Inc(CounterDropped)
	r.Add(CounterChunksSent, 2)
	r.PrintSummary(zap.NewNop())

	if got := r.Get(CounterDropped); got != 0 {
		t.Errorf("Пустой сборщик должен возвращать 0, получили %d", got)
	}
	snap := r.Snapshot()
	if snap.Counters == nil || len(snap.Counters) != 0 {
		t.Errorf("Ожидали пустые счетчики: %+v", snap)
	}
	if _, err := r.JSON(); err != nil {
		t.Errorf("Ошибка сериализации пустого сборщика: %v", err)
	}
}
