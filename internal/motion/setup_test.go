package motion

import (
	"os"
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"
	"tankai-server/pkg/logger"
	"testing"

	"github.com/paulmach/orb"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeAgent - тело без столкновений. frozen запрещает перемещение.
type fakeAgent struct {
	pos    orb.Point
	rot    float64
	frozen bool
	moves  []float64
}

func (a *fakeAgent) ID() domain.AgentID    { return 1 }
func (a *fakeAgent) Position() orb.Point   { return a.pos }
func (a *fakeAgent) Rotation() float64     { return a.rot }
func (a *fakeAgent) Radius() float64       { return domain.DefaultRadius }
func (a *fakeAgent) Health() int           { return 3 }
func (a *fakeAgent) Alive() bool           { return true }
func (a *fakeAgent) Rotate(delta float64)  { a.rot += delta }
func (a *fakeAgent) Shoot(bool, float64)   {}
func (a *fakeAgent) ChargeTime() float64   { return 0 }
func (a *fakeAgent) Move(distance float64) {
	a.moves = append(a.moves, distance)
	if a.frozen {
		return
	}
	a.pos = geom.Add(a.pos, geom.Scale(geom.Heading(a.rot), distance))
}

func selfAt(p orb.Point, rot float64) domain.SelfState {
	return domain.SelfState{Pos: p, Rot: rot, Radius: domain.DefaultRadius, HP: 3, ID: 1}
}
