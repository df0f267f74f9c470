package engine

import (
	"tankai-server/internal/pathfinding"
	"tankai-server/internal/systems"
	"tankai-server/pkg/api"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/logger"
	"tankai-server/pkg/utils"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Match - один изолированный матч: физика арены и ИИ всех танков.
// Не потокобезопасен, принадлежит горутине игрового цикла.
type Match struct {
	ID     uuid.UUID
	cfg    Config
	layout arena.Layout

	world *systems.World
	pf    *pathfinding.Service
	ai    *Subsystem

	frame uint64
	clock float64

	log *logrus.Entry
}

// NewMatch загружает арену из конфига (или берёт классическую) и собирает матч.
func NewMatch(cfg Config) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "new match")
	}
	layout := arena.Classic()
	if cfg.Arena != "" {
		var err error
		if layout, err = arena.Load(cfg.Arena); err != nil {
			return nil, errors.Wrap(err, "new match")
		}
	}
	return NewMatchWithLayout(cfg, layout), nil
}

// NewMatchWithLayout собирает матч на готовой раскладке: строит граф,
// расставляет танки по слотам и включает ИИ, если это разрешено конфигом.
func NewMatchWithLayout(cfg Config, layout arena.Layout) *Match {
	id := uuid.New()
	m := &Match{
		ID:     id,
		cfg:    cfg,
		layout: layout,
		world:  systems.NewWorld(layout),
		log:    logger.Component("match").WithField("match", id.String()),
	}

	m.pf = pathfinding.NewService(cfg.Pathfinding.WithPlayable(layout), utils.NewRand(cfg.Seed))
	m.pf.Rebuild(layout.Structures)

	m.ai = NewSubsystem(cfg, m.world, m.pf)
	for _, kind := range cfg.Controllers {
		tank := m.world.AddTank()
		m.ai.AddAgent(tank, kind)
	}
	m.ai.SetAIEnabled(cfg.AIEnabled)

	m.log.WithFields(logrus.Fields{
		"arena":  layout.Name,
		"tanks":  len(cfg.Controllers),
		"seed":   cfg.Seed,
		"ai":     cfg.AIEnabled,
		"sounds": cfg.EmitSounds,
	}).Info("match created")
	return m
}

func (m *Match) Config() Config { return m.cfg }

func (m *Match) Layout() arena.Layout { return m.layout }

func (m *Match) World() *systems.World { return m.world }

func (m *Match) AI() *Subsystem { return m.ai }

func (m *Match) Pathfinding() *pathfinding.Service { return m.pf }

func (m *Match) Frame() uint64 { return m.frame }

// Clock - симулированное время матча в секундах.
func (m *Match) Clock() float64 { return m.clock }

// Tick продвигает матч на dt: сначала ИИ решает и отдаёт команды танкам,
// затем физика двигает снаряды, наносит урон и возрождает погибших.
func (m *Match) Tick(dt float64) {
	m.frame++
	m.clock += dt
	m.ai.Update(dt)
	m.world.Update(dt)
}

// Snapshot строит снимок матча для зрителей. withArena добавляет статическую раскладку.
func (m *Match) Snapshot(withArena bool) api.Snapshot {
	snap := api.Snapshot{
		Type:      api.TypeSnapshot,
		MatchID:   m.ID.String(),
		Frame:     m.frame,
		Time:      m.clock,
		AIEnabled: m.ai.AIEnabled(),
		Tanks:     make([]api.TankView, 0, len(m.world.Tanks())),
		Bullets:   make([]api.BulletView, 0, len(m.world.Bullets())),
		Agents:    make([]api.AgentView, 0, len(m.ai.Agents())),
	}
	if withArena {
		snap.Arena = ArenaView(m.layout)
	}

	for _, t := range m.world.Tanks() {
		snap.Tanks = append(snap.Tanks, api.TankView{
			ID:       t.ID().String(),
			Pos:      vec(t.Position()),
			Rotation: t.Rotation(),
			Radius:   t.Radius(),
			HP:       t.Health(),
			MaxHP:    systems.TankMaxHealth,
			IsDead:   !t.Alive(),
			Charging: t.Charging(),
			Charge:   t.ChargeTime(),
		})
	}
	for _, b := range m.world.Bullets() {
		snap.Bullets = append(snap.Bullets, api.BulletView{
			Owner: b.Owner.String(),
			Pos:   vec(b.Pos),
			Vel:   vec(b.Vel),
		})
	}
	for _, a := range m.ai.Agents() {
		snap.Agents = append(snap.Agents, agentView(a))
	}
	return snap
}

func agentView(a *AgentCtx) api.AgentView {
	counts := a.Gateway.DebugCounts()
	view := api.AgentView{
		ID:         a.Tank.ID().String(),
		Controller: string(a.Controller.Kind()),
		Active:     a.Controller.Active(),
		State:      a.Controller.DebugState(),
		Motion:     a.Motion.Status().String(),
		Charge:     a.Gateway.ChargeAccum(),
		Counts: api.EventCounts{
			Spotted: counts.Spotted,
			Lost:    counts.Lost,
			Sounds:  counts.Sounds,
			Arrived: counts.Arrived,
			Blocked: counts.Blocked,
			Damage:  counts.Damage,
		},
	}

	if path := a.Motion.Path(); len(path) > 0 {
		view.Path = vecs(path)
		goal := vec(a.Motion.Goal())
		view.Goal = &goal
	}
	if p, _, ok := a.Motion.Lookahead(); ok {
		la := vec(p)
		view.Lookahead = &la
	}
	if p, ok := a.Motion.AimTarget(); ok {
		aim := vec(p)
		view.AimTarget = &aim
	}

	for _, c := range a.Gateway.VisibleEnemies() {
		view.Visible = append(view.Visible, c.ID.String())
	}
	for _, c := range a.Gateway.Memory() {
		view.Memory = append(view.Memory, api.ContactView{
			ID:         c.ID.String(),
			Pos:        vec(c.Pos),
			Age:        c.LastSeenSec,
			Confidence: c.Confidence,
		})
	}
	return view
}

// ArenaView переводит раскладку в DTO.
func ArenaView(layout arena.Layout) *api.ArenaView {
	view := &api.ArenaView{
		Name:     layout.Name,
		Boundary: rect(layout.Boundary()),
		Spawns:   vecs(layout.Spawns),
	}
	for _, s := range layout.Obstacles() {
		view.Structures = append(view.Structures, rect(s))
	}
	return view
}

func rect(s arena.Structure) api.RectView {
	return api.RectView{X: s.Origin[0], Y: s.Origin[1], W: s.Size[0], H: s.Size[1]}
}

func vec(p orb.Point) api.Vec { return api.Vec{X: p[0], Y: p[1]} }

func vecs[S ~[]orb.Point](ps S) []api.Vec {
	out := make([]api.Vec, len(ps))
	for i, p := range ps {
		out[i] = vec(p)
	}
	return out
}
