package telemetry

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

// Имена счетчиков
const (
	CounterConnections    = "connections"
	CounterDisconnects    = "disconnects"
	CounterPositionUpdate = "position_updates"
	CounterChunksSent     = "chunks_sent"
	CounterBerries        = "berries_collected"
	CounterBerryMisses    = "berry_misses"
	CounterKisses         = "kisses"
	CounterKissRejects    = "kiss_rejects"
	CounterGroundings     = "groundings"
	CounterDropped        = "dropped_messages"
	CounterRateLimited    = "rate_limited"
)

// Recorder собирает счетчики событий сервера
type Recorder struct {
	mutex deadlock.RWMutex

	// Счетчики с момента запуска и за текущий интервал
	totals   map[string]uint64
	interval map[string]uint64

	startTime time.Time
	lastPrint time.Time
}

// Snapshot - состояние телеметрии для отдачи наружу
type Snapshot struct {
	UptimeSeconds float64           `json:"uptime_seconds"`
	Counters      map[string]uint64 `json:"counters"`
}

// NewRecorder создает новый сборщик телеметрии
func NewRecorder() *Recorder {
	now := time.Now()
	return &Recorder{
		totals:    make(map[string]uint64),
		interval:  make(map[string]uint64),
		startTime: now,
		lastPrint: now,
	}
}

// Inc увеличивает счетчик на 1
func (r *Recorder) Inc(name string) {
	r.Add(name, 1)
}

// Add увеличивает счетчик на n
func (r *Recorder) Add(name string, n uint64) {
	if r == nil || n == 0 {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.totals[name] += n
	r.interval[name] += n
}

// Get возвращает значение счетчика с момента запуска
func (r *Recorder) Get(name string) uint64 {
	if r == nil {
		return 0
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.totals[name]
}

// Snapshot возвращает копию счетчиков
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{Counters: map[string]uint64{}}
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	counters := make(map[string]uint64, len(r.totals))
	for k, v := range r.totals {
		counters[k] = v
	}
	return Snapshot{
		UptimeSeconds: time.Since(r.startTime).Seconds(),
		Counters:      counters,
	}
}

// JSON возвращает снимок телеметрии в JSON
func (r *Recorder) JSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

// PrintSummary выводит счетчики за интервал и сбрасывает их
func (r *Recorder) PrintSummary(logger *zap.Logger) {
	if r == nil {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	names := make([]string, 0, len(r.interval))
	for name := range r.interval {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]zap.Field, 0, len(names)+1)
	fields = append(fields, zap.Duration("interval", now.Sub(r.lastPrint)))
	for _, name := range names {
		fields = append(fields, zap.Uint64(name, r.interval[name]))
	}
	logger.Info("сводка телеметрии", fields...)

	r.interval = make(map[string]uint64)
	r.lastPrint = now
}
