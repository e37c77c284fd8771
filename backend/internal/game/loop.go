package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"sugar-glide/backend/internal/core/domain/entity"
	"sugar-glide/backend/internal/core/domain/service"
	"sugar-glide/backend/internal/core/port/in/gameplay"
	"sugar-glide/backend/internal/core/port/out/notify"
	"sugar-glide/backend/internal/telemetry"
)

// Тексты служебных сообщений
const (
	WelcomeMessage = "Welcome to Sugar Glide! 🐿️"
	JoinedMessage  = "A new player has joined the forest!"
	LeftMessage    = "A player has left the forest."

	groundReason = "ground"
)

// ErrStopped возвращается при отправке команды в остановленный цикл
var ErrStopped = errors.New("game loop stopped")

// LoopConfig настройки игрового цикла
type LoopConfig struct {
	ForestSeed    int64
	InboxSize     int
	StatsInterval time.Duration
}

// DefaultLoopConfig возвращает настройки по умолчанию
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		InboxSize:     1024,
		StatsInterval: 30 * time.Second,
	}
}

// Loop владеет состоянием игры и обрабатывает все входящие события
// в одной горутине, по одному за раз.
type Loop struct {
	inbox    chan any
	game     gameplay.GamePort
	notifier notify.Notifier
	metrics  *telemetry.Recorder
	config   LoopConfig
	logger   *zap.Logger

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewLoop создает игровой цикл
func NewLoop(game gameplay.GamePort, notifier notify.Notifier, metrics *telemetry.Recorder, config LoopConfig, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.InboxSize <= 0 {
		config.InboxSize = DefaultLoopConfig().InboxSize
	}
	return &Loop{
		inbox:    make(chan any, config.InboxSize),
		game:     game,
		notifier: notifier,
		metrics:  metrics,
		config:   config,
		logger:   logger.Named("Loop"),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Submit ставит команду в очередь. Порядок команд одного отправителя сохраняется.
func (l *Loop) Submit(ctx context.Context, cmd any) error {
	select {
	case <-l.quit:
		return ErrStopped
	default:
	}
	select {
	case l.inbox <- cmd:
		return nil
	case <-l.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats запрашивает сводку хранилища у цикла
func (l *Loop) Stats(ctx context.Context) (service.Stats, error) {
	reply := make(chan service.Stats, 1)
	if err := l.Submit(ctx, StatsRequest{Reply: reply}); err != nil {
		return service.Stats{}, err
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-l.done:
		return service.Stats{}, ErrStopped
	case <-ctx.Done():
		return service.Stats{}, ctx.Err()
	}
}

// Run обрабатывает команды до отмены контекста или вызова Stop
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	defer l.closeQuit()

	var statsC <-chan time.Time
	if l.config.StatsInterval > 0 {
		ticker := time.NewTicker(l.config.StatsInterval)
		defer ticker.Stop()
		statsC = ticker.C
	}

	l.logger.Info("игровой цикл запущен", zap.Int64("forestSeed", l.config.ForestSeed))

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("игровой цикл остановлен", zap.Error(ctx.Err()))
			return
		case <-l.quit:
			l.logger.Info("игровой цикл остановлен")
			return
		case cmd := <-l.inbox:
			l.handleCommand(cmd)
		case <-statsC:
			l.logStats()
		}
	}
}

// Stop останавливает цикл и ждет его завершения
func (l *Loop) Stop() {
	l.closeQuit()
	<-l.done
}

func (l *Loop) closeQuit() {
	l.quitOnce.Do(func() { close(l.quit) })
}

func (l *Loop) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Connect:
		l.handleConnect(c)
	case PositionUpdate:
		l.handlePositionUpdate(c)
	case CollectBerry:
		l.handleCollectBerry(c)
	case KissInitiate:
		l.handleKissInitiate(c)
	case KissAccept:
		l.handleKissAccept(c)
	case Grounded:
		l.handleGrounded(c)
	case Disconnect:
		l.handleDisconnect(c)
	case StatsRequest:
		c.Reply <- l.game.Stats()
	default:
		l.logger.Warn("неизвестная команда", zap.Any("command", cmd))
	}
}

func (l *Loop) handleConnect(c Connect) {
	player := l.game.AddPlayer(c.ConnID)
	l.metrics.Inc(telemetry.CounterConnections)
	l.logger.Info("игрок подключился", zap.String("playerId", c.ConnID))

	l.send(c.ConnID, notify.Text(WelcomeMessage))
	l.send(c.ConnID, notify.Event{Name: notify.EventPlayerJoined, Payload: notify.PlayerJoined{
		ID:       player.ID,
		Position: player.Position,
		Vitality: player.Vitality,
		Score:    player.Score,
		Babies:   player.Babies,
	}})
	l.send(c.ConnID, notify.Event{Name: notify.EventWorldSeed, Payload: notify.WorldSeed{ForestSeed: l.config.ForestSeed}})
	l.streamChunks(c.ConnID, player.Position)

	l.notifier.Broadcast(c.ConnID, notify.Text(JoinedMessage))
}

func (l *Loop) handlePositionUpdate(c PositionUpdate) {
	if _, ok := l.game.GetPlayer(c.ConnID); !ok {
		return
	}
	l.game.UpdatePlayerState(c.ConnID, c.Position, c.Velocity, c.State)
	l.metrics.Inc(telemetry.CounterPositionUpdate)

	player, ok := l.game.GetPlayer(c.ConnID)
	if !ok {
		return
	}

	l.streamChunks(c.ConnID, player.Position)

	nearby := l.game.GetNearbyPlayers(c.ConnID)
	if len(nearby) > 0 {
		positions := make([]notify.PlayerPosition, 0, len(nearby))
		for _, p := range nearby {
			positions = append(positions, notify.NewPlayerPosition(p))
		}
		l.send(c.ConnID, notify.Event{Name: notify.EventPlayerPositions, Payload: notify.PlayerPositions{Players: positions}})

		self := notify.Event{Name: notify.EventPlayerPositions, Payload: notify.PlayerPositions{
			Players: []notify.PlayerPosition{notify.NewPlayerPosition(player)},
		}}
		for _, p := range nearby {
			if l.notifier.Connected(p.ID) {
				l.send(p.ID, self)
			}
		}
	}

	l.send(c.ConnID, notify.Event{Name: notify.EventUpdateVitality, Payload: notify.UpdateVitality{
		PlayerID: c.ConnID,
		Vitality: player.Vitality,
	}})
	l.send(c.ConnID, notify.Event{Name: notify.EventUpdateScore, Payload: notify.UpdateScore{
		PlayerID: c.ConnID,
		Score:    player.Score,
	}})
}

func (l *Loop) handleCollectBerry(c CollectBerry) {
	if !l.game.CollectBerry(c.ConnID, c.ChunkID, c.BerryID) {
		l.metrics.Inc(telemetry.CounterBerryMisses)
		return
	}
	l.metrics.Inc(telemetry.CounterBerries)

	player, ok := l.game.GetPlayer(c.ConnID)
	if !ok {
		return
	}
	vitality := player.Vitality
	l.send(c.ConnID, notify.Event{Name: notify.EventBerryCollected, Payload: notify.BerryCollected{
		BerryID:     c.BerryID,
		ChunkID:     c.ChunkID,
		PlayerID:    c.ConnID,
		NewVitality: &vitality,
	}})
	l.notifier.Broadcast(c.ConnID, notify.Event{Name: notify.EventBerryCollected, Payload: notify.BerryCollected{
		BerryID:  c.BerryID,
		ChunkID:  c.ChunkID,
		PlayerID: c.ConnID,
	}})
}

func (l *Loop) handleKissInitiate(c KissInitiate) {
	if !l.notifier.Connected(c.TargetID) {
		l.logger.Debug("цель поцелуя не подключена", zap.String("from", c.ConnID), zap.String("target", c.TargetID))
		return
	}
	l.send(c.TargetID, notify.Event{Name: notify.EventKissRequest, Payload: notify.KissRequest{FromPlayerID: c.ConnID}})
}

func (l *Loop) handleKissAccept(c KissAccept) {
	if !l.game.ProcessKiss(c.ConnID, c.FromID) {
		l.metrics.Inc(telemetry.CounterKissRejects)
		return
	}
	l.metrics.Inc(telemetry.CounterKisses)
	l.logger.Info("поцелуй", zap.String("player1", c.ConnID), zap.String("player2", c.FromID))

	l.send(c.ConnID, notify.Event{Name: notify.EventKissCompleted, Payload: notify.KissCompleted{
		Player1ID: c.ConnID,
		Player2ID: c.FromID,
	}})
	fromConnected := l.notifier.Connected(c.FromID)
	if fromConnected {
		l.send(c.FromID, notify.Event{Name: notify.EventKissCompleted, Payload: notify.KissCompleted{
			Player1ID: c.FromID,
			Player2ID: c.ConnID,
		}})
	}

	if player, ok := l.game.GetPlayer(c.ConnID); ok {
		l.send(c.ConnID, babyAdded(player))
	}
	if fromConnected {
		if player, ok := l.game.GetPlayer(c.FromID); ok {
			l.send(c.FromID, babyAdded(player))
		}
	}

	l.notifier.Broadcast(c.ConnID, notify.Event{Name: notify.EventKissCompleted, Payload: notify.KissCompleted{
		Player1ID: c.ConnID,
		Player2ID: c.FromID,
	}})
}

func (l *Loop) handleGrounded(c Grounded) {
	player, ok := l.game.GetPlayer(c.ConnID)
	if !ok {
		return
	}
	l.metrics.Inc(telemetry.CounterGroundings)

	l.send(c.ConnID, notify.Event{Name: notify.EventLoseBaby, Payload: notify.LoseBaby{
		PlayerID:        c.ConnID,
		Reason:          groundReason,
		RemainingBabies: player.Babies,
	}})

	if player.Vitality <= 0 && player.Babies <= 0 {
		l.send(c.ConnID, notify.Event{Name: notify.EventGameOver, Payload: notify.GameOver{PlayerID: c.ConnID}})
		l.send(c.ConnID, notify.Event{Name: notify.EventRespawn, Payload: notify.Respawn{
			PlayerID: c.ConnID,
			Position: player.Position,
			Vitality: player.Vitality,
		}})
	}
}

func (l *Loop) handleDisconnect(c Disconnect) {
	l.game.RemovePlayer(c.ConnID)
	l.metrics.Inc(telemetry.CounterDisconnects)
	l.logger.Info("игрок отключился", zap.String("playerId", c.ConnID))

	l.notifier.Broadcast(c.ConnID, notify.Event{Name: notify.EventPlayerLeft, Payload: notify.PlayerLeft{PlayerID: c.ConnID}})
	l.notifier.Broadcast(c.ConnID, notify.Text(LeftMessage))
}

// streamChunks отправляет игроку только еще не доставленные чанки
func (l *Loop) streamChunks(connID string, position entity.Vector3) {
	chunks := l.game.DeliverChunks(connID, l.game.GetChunksForPlayer(position))
	if len(chunks) == 0 {
		return
	}
	l.metrics.Add(telemetry.CounterChunksSent, uint64(len(chunks)))
	l.send(connID, notify.Event{Name: notify.EventChunkData, Payload: notify.ChunkData{Chunks: chunks}})
}

func (l *Loop) send(connID string, event notify.Event) {
	if err := l.notifier.Send(connID, event); err != nil {
		l.metrics.Inc(telemetry.CounterDropped)
		l.logger.Debug("не удалось отправить событие",
			zap.String("connId", connID),
			zap.String("event", event.Name),
			zap.Error(err))
	}
}

func (l *Loop) logStats() {
	stats := l.game.Stats()
	l.logger.Info("состояние мира", zap.Int("players", stats.Players), zap.Int("chunks", stats.Chunks))
	if l.metrics != nil {
		l.metrics.PrintSummary(l.logger)
	}
}

func babyAdded(p entity.PlayerState) notify.Event {
	return notify.Event{Name: notify.EventBabyAdded, Payload: notify.BabyAdded{
		PlayerID:    p.ID,
		TotalBabies: p.Babies,
	}}
}
