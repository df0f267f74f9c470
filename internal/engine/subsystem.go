package engine

import (
	"math/rand"
	"tankai-server/internal/ai"
	"tankai-server/internal/ai/bt"
	"tankai-server/internal/ai/fsm"
	"tankai-server/internal/combat"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/internal/motion"
	"tankai-server/internal/pathfinding"
	"tankai-server/internal/sensing"
	"tankai-server/internal/systems"
	"tankai-server/pkg/logger"
	"tankai-server/pkg/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var ErrUnknownAgent = errors.New("engine: unknown agent")

// AgentCtx - всё, что принадлежит одному танку под управлением ИИ.
type AgentCtx struct {
	Tank *systems.Tank

	Motion  *motion.Service
	Combat  *combat.Service
	Sensing *sensing.Service
	Gateway *gateway.Gateway

	Controller ai.Controller

	rng *rand.Rand

	// Зеркало Alive с прошлого кадра, по нему ловим возрождение
	wasAlive   bool
	reactivate bool
}

// EventObserver видит каждое событие, доставленное контроллеру агента.
type EventObserver func(frame uint64, agent domain.AgentID, ev gateway.Event)

// Subsystem ведёт ИИ всех танков матча. Навигация и звуковая шина общие,
// остальные сервисы у каждого агента свои.
type Subsystem struct {
	cfg   Config
	world *systems.World
	pf    *pathfinding.Service
	bus   *sensing.Bus

	agents    []*AgentCtx
	aiEnabled bool

	frame    uint64
	observer EventObserver

	log *logrus.Entry
}

func NewSubsystem(cfg Config, world *systems.World, pf *pathfinding.Service) *Subsystem {
	return &Subsystem{
		cfg:   cfg,
		world: world,
		pf:    pf,
		bus:   sensing.NewBus(cfg.SoundTTLSec),
		log:   logger.Component("ai"),
	}
}

func (s *Subsystem) Bus() *sensing.Bus { return s.bus }

func (s *Subsystem) Pathfinding() *pathfinding.Service { return s.pf }

func (s *Subsystem) Agents() []*AgentCtx { return s.agents }

func (s *Subsystem) AIEnabled() bool { return s.aiEnabled }

// SetObserver задаёт наблюдателя событий (журнал). nil отключает.
func (s *Subsystem) SetObserver(fn EventObserver) { s.observer = fn }

func (s *Subsystem) Agent(id domain.AgentID) (*AgentCtx, bool) {
	for _, a := range s.agents {
		if a.Tank.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// AddAgent создаёт сервисы и контроллер для танка и подписывается на его
// жизненный цикл. Контроллер стартует неактивным, если ИИ выключен.
func (s *Subsystem) AddAgent(tank *systems.Tank, kind ControllerKind) *AgentCtx {
	id := tank.ID()
	a := &AgentCtx{
		Tank:     tank,
		Motion:   motion.NewService(tank, s.cfg.Motion),
		Combat:   combat.NewService(tank),
		Sensing:  sensing.NewService(s.cfg.Sensing, s.world.Layout().ObstacleBounds()),
		rng:      utils.NewRand(s.cfg.Seed + int64(id) + 1),
		wasAlive: tank.Alive(),
	}
	a.Gateway = gateway.New(s.pf, a.Motion, a.Sensing, a.Combat, s.bus, s.cfg.EmitSounds)
	a.Gateway.SetCandidates(func() []domain.Contact { return s.world.Contacts(id) })
	a.Gateway.SetSelfState(domain.SelfStateOf(tank))
	a.Gateway.SetObserver(func(ev gateway.Event) {
		if s.observer != nil {
			s.observer(s.frame, id, ev)
		}
	})
	a.Controller = s.newController(a, kind)

	tank.SetHooks(domain.LifecycleHooks{
		OnDamage:  func(amount int) { a.Gateway.NotifyDamage(amount) },
		OnDeath:   func() { s.onDeath(a) },
		OnRespawn: func() { a.reactivate = true },
	})

	s.agents = append(s.agents, a)
	if s.aiEnabled && tank.Alive() {
		a.Controller.SetActive(true)
	}
	s.log.WithFields(logrus.Fields{
		"agent":      id,
		"controller": kind,
	}).Info("agent added")
	return a
}

// RemoveAgent снимает танк из-под управления ИИ. Тело остаётся в мире,
// но хуки жизненного цикла отвязываются, а остальные агенты его забывают.
func (s *Subsystem) RemoveAgent(id domain.AgentID) error {
	idx := slices.IndexFunc(s.agents, func(a *AgentCtx) bool { return a.Tank.ID() == id })
	if idx < 0 {
		return errors.Wrapf(ErrUnknownAgent, "%v", id)
	}
	a := s.agents[idx]

	a.Controller.SetActive(false)
	a.Motion.Stop()
	a.Combat.Release()
	a.Combat.DrainFired()
	a.Motion.DrainEvents()
	a.Tank.SetHooks(domain.LifecycleHooks{})

	s.agents = slices.Delete(s.agents, idx, idx+1)
	s.bus.Forget(id)
	for _, other := range s.agents {
		other.Sensing.Forget(id)
	}

	s.log.WithField("agent", id).Info("agent removed")
	return nil
}

func (s *Subsystem) newController(a *AgentCtx, kind ControllerKind) ai.Controller {
	switch kind {
	case ai.KindFSM:
		return fsm.NewController(a.Gateway, s.cfg.FSM, a.rng)
	default:
		return bt.NewController(a.Gateway, s.cfg.BT, a.rng)
	}
}

// SetController меняет стратегию танка на лету. Старый контроллер
// деактивируется, новый подписывается на события шлюза.
func (s *Subsystem) SetController(id domain.AgentID, kind ControllerKind) error {
	if kind != ai.KindBT && kind != ai.KindFSM {
		return errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	a, ok := s.Agent(id)
	if !ok {
		return errors.Wrapf(ErrUnknownAgent, "%v", id)
	}
	a.Controller.SetActive(false)
	a.Controller = s.newController(a, kind)
	if s.aiEnabled && a.Tank.Alive() {
		a.Controller.SetActive(true)
	}
	s.log.WithFields(logrus.Fields{
		"agent":      id,
		"controller": kind,
	}).Info("controller swapped")
	return nil
}

// SetAIEnabled включает или выключает все контроллеры. Мёртвые танки
// активируются при возрождении.
func (s *Subsystem) SetAIEnabled(on bool) {
	s.aiEnabled = on
	for _, a := range s.agents {
		a.Controller.SetActive(on && a.Tank.Alive())
	}
	s.log.WithField("enabled", on).Info("ai toggled")
}

func (s *Subsystem) onDeath(a *AgentCtx) {
	a.Controller.SetActive(false)
	a.Motion.Stop()
	a.Combat.Release()

	// Остальные забывают погибшего, его звуки уходят с шины
	id := a.Tank.ID()
	s.bus.Forget(id)
	for _, other := range s.agents {
		if other != a {
			other.Sensing.Forget(id)
		}
	}
}

// Update - один кадр ИИ для всех агентов в порядке добавления.
func (s *Subsystem) Update(dt float64) {
	s.frame++
	s.bus.Decay(dt)
	for _, a := range s.agents {
		s.tickAgent(a, dt)
	}
}

func (s *Subsystem) tickAgent(a *AgentCtx, dt float64) {
	self := domain.SelfStateOf(a.Tank)
	alive := a.Tank.Alive()
	if !a.wasAlive && alive {
		a.Gateway.Reset()
		a.Sensing.Reset()
	}
	a.wasAlive = alive
	a.Gateway.SetSelfState(self)

	if a.reactivate {
		a.reactivate = false
		if s.aiEnabled && alive {
			a.Controller.SetActive(true)
		}
	}

	// Мёртвый танк не видит, не слышит и не шумит до возрождения
	if !alive {
		return
	}

	// 1. Восприятие и доставка событий
	a.Gateway.TickSensing(dt)
	a.Gateway.Dispatch()

	// 2. Решение
	a.Controller.Update(dt)

	// 3. Исполнение
	a.Motion.Tick(dt)
	a.Combat.Tick(dt)
	a.Gateway.CollectServiceEvents()
}
