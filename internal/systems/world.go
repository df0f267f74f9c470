package systems

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/geom"
	"tankai-server/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// World - физика матча: танки, пули и статическая арена.
type World struct {
	layout    arena.Layout
	obstacles []orb.Bound
	boundary  orb.Bound

	tanks   []*Tank
	bullets []*Bullet

	log *logrus.Entry
}

func NewWorld(layout arena.Layout) *World {
	return &World{
		layout:    layout,
		obstacles: layout.ObstacleBounds(),
		boundary:  layout.Boundary().Bound(),
		log:       logger.Component("world"),
	}
}

func (w *World) Layout() arena.Layout { return w.layout }

// AddTank создаёт танк в следующем слоте появления. ID танка равен номеру слота.
func (w *World) AddTank() *Tank {
	id := domain.AgentID(len(w.tanks))
	spawn := w.layout.Spawn(len(w.tanks))
	t := &Tank{
		world:  w,
		log:    w.log.WithField("tank", id),
		id:     id,
		spawn:  spawn,
		pos:    spawn,
		radius: TankRadius,
		health: TankMaxHealth,
		alive:  true,
	}
	w.tanks = append(w.tanks, t)
	return t
}

func (w *World) Tanks() []*Tank { return w.tanks }

func (w *World) Tank(id domain.AgentID) (*Tank, bool) {
	if int(id) >= len(w.tanks) {
		return nil, false
	}
	return w.tanks[id], true
}

func (w *World) Bullets() []*Bullet { return w.bullets }

// Contacts - живые танки, кроме self, в виде кандидатов для зрения.
func (w *World) Contacts(self domain.AgentID) []domain.Contact {
	out := make([]domain.Contact, 0, len(w.tanks))
	for _, t := range w.tanks {
		if t.id == self || !t.alive {
			continue
		}
		out = append(out, domain.Contact{ID: t.id, Pos: t.pos, Confidence: 1, Type: domain.ContactTank})
	}
	return out
}

func (w *World) spawnBullet(pos, vel orb.Point, maxDistance float64, owner domain.AgentID) *Bullet {
	b := &Bullet{Owner: owner, Pos: pos, Vel: vel, MaxDistance: maxDistance}
	w.bullets = append(w.bullets, b)
	return b
}

// Update продвигает таймеры появления и пули, затем убирает погасшие пули.
func (w *World) Update(dt float64) {
	for _, t := range w.tanks {
		t.Update(dt)
	}
	for _, b := range w.bullets {
		if b.Alive() {
			w.updateBullet(b, dt)
		}
	}

	alive := w.bullets[:0]
	for _, b := range w.bullets {
		if b.Alive() {
			alive = append(alive, b)
		}
	}
	clear(w.bullets[len(alive):])
	w.bullets = alive
}

func (w *World) updateBullet(b *Bullet, dt float64) {
	b.Pos = geom.Add(b.Pos, geom.Scale(b.Vel, dt))
	b.Traveled += geom.Length(b.Vel) * dt

	// 1. Танки
	for _, t := range w.tanks {
		if t.id == b.Owner || !t.alive {
			continue
		}
		if CirclesOverlap(b.Pos, BulletRadius, t.pos, t.radius) {
			ApplyHit(b, t)
		}
	}

	// 2. Встречные пули
	for _, other := range w.bullets {
		if other == b || !other.Alive() {
			continue
		}
		if CirclesOverlap(b.Pos, BulletRadius, other.Pos, BulletRadius) {
			b.Kill()
			other.Kill()
		}
	}

	// 3. Стена и постройки
	if !geom.CircleIntersectsRect(b.Pos, BulletRadius, w.boundary) {
		b.leftWall = true
	}
	if b.leftWall || w.layout.BlocksCircle(b.Pos, BulletRadius) {
		b.Kill()
	}
}
