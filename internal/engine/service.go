package engine

import (
	"context"
	"sync"
	"tankai-server/internal/ai"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/internal/infrastructure/storage"
	"tankai-server/internal/network"
	"tankai-server/pkg/api"
	"tankai-server/pkg/logger"

	behaviortree "github.com/joeycumines/go-behaviortree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandQueueSize - сколько команд зрителей может ждать начала кадра.
const CommandQueueSize = 64

var (
	ErrQueueFull  = errors.New("engine: command queue is full")
	errFrameLimit = errors.New("engine: frame limit reached")
)

// Command выполняется в горутине игрового цикла в начале кадра.
type Command func(m *Match) error

// GameService крутит матч с фиксированным шагом, принимает команды
// зрителей и рассылает снимки через Hub.
type GameService struct {
	Match *Match
	Hub   *network.Broadcaster

	commands  chan Command
	maxFrames uint64
	journal   *storage.Journal

	mu     sync.RWMutex
	latest api.Snapshot

	log *logrus.Entry
}

func NewService(match *Match, hub *network.Broadcaster) *GameService {
	s := &GameService{
		Match:    match,
		Hub:      hub,
		commands: make(chan Command, CommandQueueSize),
		log:      logger.Component("loop"),
	}
	s.latest = match.Snapshot(false)
	return s
}

// SetMaxFrames ограничивает число кадров. 0 - без ограничения.
func (s *GameService) SetMaxFrames(n uint64) { s.maxFrames = n }

// AttachJournal регистрирует матч в журнале и пишет туда каждое
// доставленное контроллерам событие.
func (s *GameService) AttachJournal(j *storage.Journal) error {
	m := s.Match
	err := j.StartMatch(storage.MatchRecord{
		ID:    m.ID.String(),
		Seed:  m.cfg.Seed,
		Arena: m.layout.Name,
		Tanks: len(m.world.Tanks()),
	})
	if err != nil {
		return errors.Wrap(err, "attach journal")
	}

	s.journal = j
	matchID := m.ID.String()
	m.ai.SetObserver(func(frame uint64, agent domain.AgentID, ev gateway.Event) {
		rec := storage.EventRecord{
			MatchID: matchID,
			Frame:   frame,
			Agent:   uint32(agent),
			Kind:    ev.Kind.String(),
			X:       ev.Pos[0],
			Y:       ev.Pos[1],
			Target:  uint32(ev.ID),
			Amount:  ev.Amount,
		}
		if err := j.Record(rec); err != nil {
			s.log.WithError(err).Warn("journal write failed")
		}
	})
	return nil
}

// Submit ставит команду в очередь. Не блокирует.
func (s *GameService) Submit(cmd Command) error {
	select {
	case s.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// ProcessCommand принимает команду от внешнего мира (WebSocket)
func (s *GameService) ProcessCommand(cmd api.ClientCommand) error {
	payload, err := api.DecodePayload(cmd)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case api.AIPayload:
		return s.Submit(func(m *Match) error {
			m.ai.SetAIEnabled(p.Enabled)
			return nil
		})
	case api.ControllerPayload:
		return s.Submit(func(m *Match) error {
			return m.ai.SetController(domain.AgentID(p.TankID), ai.Kind(p.Kind))
		})
	}
	return errors.Wrapf(api.ErrUnknownAction, "%q", cmd.Action)
}

// Latest - последний построенный снимок. Безопасно вызывать из любой горутины.
func (s *GameService) Latest() api.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Step - один кадр: команды, симуляция, снимок и рассылка.
func (s *GameService) Step() {
	s.drainCommands()

	s.Match.Tick(1 / float64(s.Match.cfg.TickRate))

	snap := s.Match.Snapshot(false)
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	if s.Hub != nil && s.Hub.SubscriberCount() > 0 {
		s.Hub.Broadcast(snap)
	}
}

func (s *GameService) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			if err := cmd(s.Match); err != nil {
				s.log.WithError(err).Warn("command rejected")
			}
		default:
			return
		}
	}
}

// --- GAME LOOP ---

// Run крутит кадры до отмены ctx или до лимита кадров. Кадры ведёт тикер
// дерева поведения с одним узлом-кадром.
func (s *GameService) Run(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"match":      s.Match.ID.String(),
		"tick_rate":  s.Match.cfg.TickRate,
		"max_frames": s.maxFrames,
	}).Info("game loop started")

	frame := behaviortree.New(func([]behaviortree.Node) (behaviortree.Status, error) {
		s.Step()
		if s.maxFrames > 0 && s.Match.Frame() >= s.maxFrames {
			return behaviortree.Success, errFrameLimit
		}
		return behaviortree.Running, nil
	})
	ticker := behaviortree.NewTicker(ctx, s.Match.cfg.FrameDuration(), frame)
	<-ticker.Done()

	err := ticker.Err()
	if errors.Is(err, errFrameLimit) || ctx.Err() != nil {
		err = nil
	}
	if s.journal != nil {
		if ferr := s.journal.Flush(); ferr != nil && err == nil {
			err = errors.Wrap(ferr, "flush journal")
		}
	}

	s.log.WithFields(logrus.Fields{
		"frames": s.Match.Frame(),
		"time":   s.Match.Clock(),
	}).Info("game loop stopped")
	return err
}
