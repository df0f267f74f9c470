// Package aitest - управляемый шлюз для тестов контроллеров.
package aitest

import (
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/internal/motion"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Gateway записывает намерения контроллера и отдаёт заданное тестом состояние мира.
type Gateway struct {
	SelfState domain.SelfState
	Subs      gateway.Subscriptions

	Bounds  orb.Bound
	Random  orb.Point
	Visible []domain.Contact
	Memory  map[domain.AgentID]domain.Contact
	LOS     bool

	Status    motion.Status
	OnTarget  bool
	Aiming    bool
	AimTarget orb.Point
	Charging  bool
	Charge    float64

	Moves    []orb.Point
	Turns    []float64
	Cancels  int
	Stops    int
	Releases int
	Shots    int
}

func New() *Gateway {
	return &Gateway{
		SelfState: domain.SelfState{Radius: domain.DefaultRadius, HP: 3, ID: 1},
		Bounds:    orb.Bound{Min: orb.Point{-2000, -2000}, Max: orb.Point{2000, 2000}},
		Memory:    make(map[domain.AgentID]domain.Contact),
		LOS:       true,
	}
}

// --- Управление из теста ---

// See делает контакт видимым и запоминает его.
func (g *Gateway) See(c domain.Contact) {
	g.Visible = append(g.Visible, c)
	g.Memory[c.ID] = c
}

// Hide убирает контакт из видимых, память остаётся.
func (g *Gateway) Hide(id domain.AgentID) {
	kept := g.Visible[:0]
	for _, c := range g.Visible {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	g.Visible = kept
}

func (g *Gateway) Forget(id domain.AgentID) {
	g.Hide(id)
	delete(g.Memory, id)
}

func (g *Gateway) LastMove() (orb.Point, bool) {
	if len(g.Moves) == 0 {
		return orb.Point{}, false
	}
	return g.Moves[len(g.Moves)-1], true
}

// --- ai.Gateway ---

func (g *Gateway) Self() domain.SelfState { return g.SelfState }

func (g *Gateway) SetSubscriptions(subs gateway.Subscriptions) { g.Subs = subs }

func (g *Gateway) Project(p orb.Point) gateway.Projection {
	return gateway.Projection{
		Projected: geom.ClampToRect(p, g.Bounds),
		Valid:     geom.PointStrictlyInRect(p, g.Bounds),
	}
}

func (g *Gateway) ProjectToWalkable(p orb.Point) orb.Point { return p }

func (g *Gateway) FindPath(start, goal orb.Point) domain.Path {
	return domain.Path{start, goal}
}

func (g *Gateway) RandomReachable() orb.Point { return g.Random }

func (g *Gateway) VisibleEnemies() []domain.Contact {
	return append([]domain.Contact(nil), g.Visible...)
}

func (g *Gateway) LastKnown(id domain.AgentID) (domain.Contact, bool) {
	c, ok := g.Memory[id]
	return c, ok
}

func (g *Gateway) HasLOS(a, b orb.Point) bool { return g.LOS }

func (g *Gateway) MoveTo(goal orb.Point) {
	g.Moves = append(g.Moves, goal)
	g.Status = motion.StatusFollowing
}

func (g *Gateway) CancelMove() {
	g.Cancels++
	g.Status = motion.StatusIdle
}

func (g *Gateway) Stop() {
	g.Stops++
	g.Status = motion.StatusIdle
}

func (g *Gateway) Drive(float64) {}

func (g *Gateway) Turn(intent float64) { g.Turns = append(g.Turns, intent) }

func (g *Gateway) AimAt(target orb.Point) {
	g.Aiming = true
	g.AimTarget = target
	g.Status = motion.StatusIdle
}

func (g *Gateway) CancelAim() { g.Aiming = false }

func (g *Gateway) BeginFire() { g.Charging = true }

func (g *Gateway) ReleaseFire() {
	g.Releases++
	if g.Charging {
		g.Shots++
		g.Charge = 0
	}
	g.Charging = false
}

func (g *Gateway) IsAiming() bool { return g.Aiming }

func (g *Gateway) IsOnTarget() bool { return g.Aiming && g.OnTarget }

func (g *Gateway) MotionStatus() motion.Status { return g.Status }

func (g *Gateway) IsCharging() bool { return g.Charging }

func (g *Gateway) ChargeAccum() float64 { return g.Charge }
