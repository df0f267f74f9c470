package bt

import (
	"tankai-server/internal/ai/aitest"
	"tankai-server/internal/domain"
	"tankai-server/internal/motion"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spotted(env *Env, gw *aitest.Gateway, pos orb.Point) {
	gw.See(domain.Contact{ID: 2, Pos: pos, Confidence: 1, Type: domain.ContactTank})
	env.BB.HandleSpotted(2)
}

func TestSearchFailsOnArrival(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	env.BB.SetLastKnown(orb.Point{200, 0})

	s := NewSearch(env)
	s.OnEnter()
	goal, ok := gw.LastMove()
	require.True(t, ok)
	assert.Equal(t, orb.Point{200, 0}, goal)
	assert.Equal(t, Running, s.Tick(0.1))

	gw.Status = motion.StatusArrived
	assert.Equal(t, Failure, s.Tick(0.1))
	_, ok = env.BB.LastKnown()
	assert.False(t, ok)
}

func TestSearchTimesOut(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	env.BB.SetLastKnown(orb.Point{200, 0})

	s := NewSearch(env)
	s.OnEnter()
	assert.Equal(t, Running, s.Tick(1.0))
	assert.Equal(t, Failure, s.Tick(env.Cfg.SearchTimeoutSec))
}

func TestSearchForgetsExpiredTarget(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{300, 0})
	gw.Hide(2)

	s := NewSearch(env)
	s.OnEnter()
	goal, _ := gw.LastMove()
	assert.Equal(t, orb.Point{300, 0}, goal)

	gw.Forget(2)
	assert.Equal(t, Failure, s.Tick(0.1))
	_, ok := env.BB.Target()
	assert.False(t, ok)
}

func TestSearchFailureFallsThroughSameTick(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	env.BB.SetLastKnown(orb.Point{200, 0})

	fallback := leaf("fallback", Running)
	sel := NewSelector(NewSequence(HasLastKnown(env), NewSearch(env)), fallback)
	sel.OnEnter()

	assert.Equal(t, Running, sel.Tick(0.1))
	assert.Len(t, gw.Moves, 1)
	assert.Equal(t, 0, fallback.ticks)

	gw.Status = motion.StatusBlocked
	assert.Equal(t, Running, sel.Tick(0.1))
	assert.Equal(t, 1, fallback.ticks)
	assert.Same(t, Node(fallback), sel.ActiveChild())
}

func TestEngageFiresWhenChargedAndOnTarget(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{100, 0})
	gw.OnTarget = true
	gw.Charge = 1.0

	e := NewEngage(env)
	e.OnEnter()
	assert.True(t, gw.Charging)

	assert.Equal(t, Running, e.Tick(0.1))
	assert.Equal(t, orb.Point{100, 0}, gw.AimTarget)
	assert.Equal(t, 1, gw.Shots)
	// Перезарядка короче тика: заряд снова копится
	assert.True(t, gw.Charging)

	// Заряда нет - выстрела нет
	e.Tick(0.1)
	assert.Equal(t, 1, gw.Shots)
}

func TestEngageHoldsFireWithoutLOS(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{100, 0})
	gw.OnTarget = true
	gw.Charge = 1.0
	gw.LOS = false

	e := NewEngage(env)
	e.OnEnter()
	e.Tick(0.1)
	assert.Equal(t, 0, gw.Shots)
}

func TestEngageChasesAndReplansOnlyOnMove(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{500, 0})

	e := NewEngage(env)
	e.OnEnter()
	e.Tick(0.1)
	e.Tick(0.1)
	require.Len(t, gw.Moves, 1)
	assert.Equal(t, orb.Point{500, 0}, gw.Moves[0])

	gw.Forget(2)
	gw.See(domain.Contact{ID: 2, Pos: orb.Point{600, 0}})
	e.Tick(0.1)
	require.Len(t, gw.Moves, 2)
	assert.Equal(t, orb.Point{600, 0}, gw.Moves[1])

	// Цель вошла в радиус атаки: погоня прекращается
	gw.Forget(2)
	gw.See(domain.Contact{ID: 2, Pos: orb.Point{200, 0}})
	cancels := gw.Cancels
	e.Tick(0.1)
	assert.Equal(t, cancels+1, gw.Cancels)
	assert.True(t, gw.Aiming)
}

func TestEngageGivesUpAfterLostGrace(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{100, 0})

	e := NewEngage(env)
	e.OnEnter()
	assert.Equal(t, Running, e.Tick(0.1))

	gw.Hide(2)
	assert.Equal(t, Running, e.Tick(0.2))
	assert.Equal(t, Failure, e.Tick(0.2))

	e.OnExit()
	assert.False(t, gw.Aiming)
	assert.False(t, gw.Charging)
}

func TestFleeRespectsCooldown(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{100, 0})
	env.BB.FleeCooldown = 1

	f := NewFlee(env)
	f.OnEnter()
	assert.Equal(t, Failure, f.Tick(0.1))
	assert.Empty(t, gw.Moves)
	assert.False(t, env.BB.Fleeing)
}

func TestFleeRunsAwayUntilArrived(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)
	spotted(env, gw, orb.Point{100, 0})

	f := NewFlee(env)
	f.OnEnter()
	assert.Equal(t, Running, f.Tick(0.1))
	assert.True(t, env.BB.Fleeing)

	goal, ok := gw.LastMove()
	require.True(t, ok)
	assert.Less(t, goal[0], 0.0)

	gw.Status = motion.StatusArrived
	assert.Equal(t, Success, f.Tick(0.1))
	assert.False(t, env.BB.Fleeing)
	assert.Equal(t, env.Cfg.FleeCooldownSec, env.BB.FleeCooldown)
	_, ok = env.BB.LastKnown()
	assert.False(t, ok)
}

func TestLookAroundTurnsBothWays(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)

	l := NewLookAround(env)
	l.OnEnter()

	st := Running
	for i := 0; i < 100 && st == Running; i++ {
		st = l.Tick(0.05)
	}
	assert.Equal(t, Success, st)
	assert.Equal(t, int(lookDone), env.BB.LookPhase)

	require.NotEmpty(t, gw.Turns)
	first, last := gw.Turns[0], gw.Turns[len(gw.Turns)-1]
	assert.Equal(t, -first, last)
}

func TestPatrolSucceedsWhenMovementEnds(t *testing.T) {
	gw := aitest.New()
	gw.Random = orb.Point{400, 400}
	env := newEnv(gw)

	p := NewPatrol(env)
	p.OnEnter()
	assert.Equal(t, []orb.Point{{400, 400}}, gw.Moves)
	assert.Equal(t, Running, p.Tick(0.1))

	gw.Status = motion.StatusIdle
	assert.Equal(t, Success, p.Tick(0.1))
}

func TestMicroPatrolIsShort(t *testing.T) {
	gw := aitest.New()
	env := newEnv(gw)

	m := NewMicroPatrol(env)
	m.OnEnter()
	assert.Equal(t, Running, m.Tick(1.0))
	assert.Equal(t, Success, m.Tick(env.Cfg.LowHPMicroPatrolSec))
}
