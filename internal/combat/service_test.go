package combat

import (
	"tankai-server/internal/domain"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shot struct {
	want bool
	dt   float64
}

type fakeAgent struct {
	shots []shot
}

func (a *fakeAgent) ID() domain.AgentID  { return 7 }
func (a *fakeAgent) Position() orb.Point { return orb.Point{10, 20} }
func (a *fakeAgent) Rotation() float64   { return 0 }
func (a *fakeAgent) Radius() float64     { return domain.DefaultRadius }
func (a *fakeAgent) Health() int         { return 3 }
func (a *fakeAgent) Alive() bool         { return true }
func (a *fakeAgent) Move(float64)        {}
func (a *fakeAgent) Rotate(float64)      {}
func (a *fakeAgent) ChargeTime() float64 { return 0 }
func (a *fakeAgent) Shoot(want bool, dt float64) {
	a.shots = append(a.shots, shot{want: want, dt: dt})
}

func TestChargeAndRelease(t *testing.T) {
	agent := &fakeAgent{}
	s := NewService(agent)

	s.BeginCharge()
	assert.True(t, s.IsCharging())
	for i := 0; i < 4; i++ {
		s.Tick(0.25)
	}
	assert.InDelta(t, 1.0, s.ChargeAccum(), 1e-9)
	assert.Empty(t, s.DrainFired())

	s.Release()
	s.Tick(0.25)

	fired := s.DrainFired()
	require.Len(t, fired, 1)
	assert.InDelta(t, 1.0, fired[0].Charge, 1e-9)
	assert.Equal(t, domain.LoudnessShot, fired[0].Loudness)
	assert.Equal(t, orb.Point{10, 20}, fired[0].Pos)
	assert.Zero(t, s.ChargeAccum())

	// Тело танка получает намерение каждый тик
	require.Len(t, agent.shots, 5)
	assert.False(t, agent.shots[4].want)
}

func TestReleaseWithoutChargeDoesNotFire(t *testing.T) {
	s := NewService(&fakeAgent{})
	s.Release()
	s.Tick(0.1)
	s.Tick(0.1)
	assert.Empty(t, s.DrainFired())
}
