package fsm

import (
	"math/rand"
	"tankai-server/internal/ai"
	"tankai-server/internal/ai/aitest"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/internal/motion"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(gw *aitest.Gateway, pos orb.Point) {
	gw.See(domain.Contact{ID: 2, Pos: pos, Confidence: 1, Type: domain.ContactTank})
	gw.Subs.OnSpotted(2)
}

func TestInactiveControllerIgnoresEvents(t *testing.T) {
	gw := aitest.New()
	c := NewController(gw, DefaultConfig(), rand.New(rand.NewSource(1)))
	assert.Equal(t, ai.KindFSM, c.Kind())
	assert.Equal(t, StateIdle, c.State())

	gw.Subs.OnDamage(1)
	spot(gw, orb.Point{100, 0})
	c.Update(0.1)

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, gw.Moves)
	_, ok := c.Target()
	assert.False(t, ok)
}

func TestIdleGoesToPatrolWhenActive(t *testing.T) {
	gw := aitest.New()
	gw.Random = orb.Point{300, 200}
	c := newActive(gw)
	assert.Equal(t, "Idle", c.DebugState())

	c.Update(0.1)
	assert.Equal(t, StatePatrol, c.State())
	assert.Equal(t, []orb.Point{{300, 200}}, gw.Moves)

	// Не едем - перепланируем
	gw.Status = motion.StatusIdle
	c.Update(0.1)
	assert.Len(t, gw.Moves, 2)
	c.Update(0.1)
	assert.Len(t, gw.Moves, 2)
}

func TestBlockedPatrolReenters(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)
	require.Equal(t, StatePatrol, c.State())

	gw.Subs.OnBlocked(orb.Point{})
	assert.Equal(t, StatePatrol, c.State())
	assert.Len(t, gw.Moves, 2)
}

func TestArrivedPatrolLooksAroundThenPatrols(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)

	gw.Subs.OnArrived(orb.Point{})
	require.Equal(t, StateLookAround, c.State())

	ticks := 0
	for c.State() == StateLookAround && ticks < 200 {
		c.Update(0.016)
		ticks++
	}
	assert.Equal(t, StatePatrol, c.State())

	// 40°..270° шагами по 0.05 рад
	assert.GreaterOrEqual(t, ticks, 13)
	assert.LessOrEqual(t, ticks, 95)
	for _, turn := range gw.Turns {
		assert.Equal(t, gw.Turns[0], turn)
	}
}

func TestSpottedEngagesAndFiresScaledCharge(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)

	spot(gw, orb.Point{100, 0})
	require.Equal(t, StateEngage, c.State())
	assert.True(t, gw.Charging)

	// На 100 px нужен заряд 100/300
	gw.OnTarget = true
	gw.Charge = 0.5
	c.Update(0.1)
	assert.Equal(t, orb.Point{100, 0}, gw.AimTarget)
	assert.Equal(t, 1, gw.Shots)
	assert.False(t, gw.Charging)

	// Перезарядка на следующем тике, затем пауза между выстрелами
	gw.Charge = 0.5
	c.Update(0.1)
	assert.True(t, gw.Charging)
	assert.Equal(t, 1, gw.Shots)
}

func TestEngageFarTargetNeedsMoreCharge(t *testing.T) {
	gw := aitest.New()
	cfg := DefaultConfig()
	cfg.EngageAttackRadius = 300
	c := NewController(gw, cfg, rand.New(rand.NewSource(1)))
	c.SetActive(true)
	c.Update(0.1)

	spot(gw, orb.Point{290, 0})
	gw.OnTarget = true
	gw.Charge = 0.5
	c.Update(0.1)
	assert.Equal(t, 0, gw.Shots)

	gw.Charge = 0.97
	c.Update(0.1)
	assert.Equal(t, 1, gw.Shots)
}

func TestEngageHysteresis(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)
	moves := len(gw.Moves)

	move := func(p orb.Point) {
		gw.Forget(2)
		gw.See(domain.Contact{ID: 2, Pos: p})
		c.Update(0.1)
	}

	spot(gw, orb.Point{270, 0})
	c.Update(0.1)
	assert.Len(t, gw.Moves, moves+1, "between radii starts chasing")

	move(orb.Point{200, 0})
	assert.True(t, gw.Aiming)

	move(orb.Point{270, 0})
	assert.True(t, gw.Aiming, "between radii keeps attacking")
	assert.Len(t, gw.Moves, moves+1)

	move(orb.Point{350, 0})
	assert.False(t, gw.Aiming)
	assert.Len(t, gw.Moves, moves+2)
	assert.Equal(t, StateEngage, c.State())
}

func TestLostSightTransitions(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)

	spot(gw, orb.Point{100, 0})
	gw.Hide(2)
	gw.Subs.OnLostSight(2)
	require.Equal(t, StateSearch, c.State())
	last, _ := gw.LastMove()
	assert.Equal(t, orb.Point{100, 0}, last)

	gw.Subs.OnArrived(last)
	assert.Equal(t, StateLookAround, c.State())

	// Память истекла
	spot(gw, orb.Point{100, 0})
	gw.Forget(2)
	gw.Subs.OnLostSight(2)
	assert.Equal(t, StateLookAround, c.State())
	_, ok := c.Target()
	assert.False(t, ok)
}

func TestLostSightOfOtherAgentIgnored(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	spot(gw, orb.Point{100, 0})

	gw.Subs.OnLostSight(9)
	assert.Equal(t, StateEngage, c.State())
}

func TestSearchReacquiresAndTimesOut(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)

	gw.Subs.OnSound(gateway.SoundHeard{Center: orb.Point{0, 250}, Radius: domain.LoudnessShot})
	require.Equal(t, StateSearch, c.State())
	assert.True(t, gw.Charging)

	c.Update(c.Config().SearchTimeoutSec)
	assert.Equal(t, StateLookAround, c.State())
	assert.False(t, gw.Charging)

	// Видимая цель во время поиска
	spot(gw, orb.Point{100, 0})
	gw.Hide(2)
	gw.Subs.OnLostSight(2)
	require.Equal(t, StateSearch, c.State())
	gw.See(domain.Contact{ID: 2, Pos: orb.Point{120, 0}})
	c.Update(0.1)
	assert.Equal(t, StateEngage, c.State())
}

func TestSoundDuringEngageIgnored(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	spot(gw, orb.Point{100, 0})

	gw.Subs.OnSound(gateway.SoundHeard{Center: orb.Point{0, 250}})
	assert.Equal(t, StateEngage, c.State())
}

func TestSearchWithoutKnowledgeLooksAround(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.ChangeState(StateSearch)
	assert.Equal(t, StateLookAround, c.State())
}

func TestEngageLostTargetWithoutMemory(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	spot(gw, orb.Point{100, 0})

	gw.Forget(2)
	c.Update(0.1)
	assert.Equal(t, StateLookAround, c.State())
	assert.False(t, gw.Charging)
}

func TestDamageFleesAndHoldsFlee(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)
	spot(gw, orb.Point{100, 0})

	gw.Subs.OnDamage(1)
	require.Equal(t, StateFlee, c.State())
	away, _ := gw.LastMove()
	assert.Less(t, away[0], 0.0)
	assert.False(t, gw.Aiming)

	// Новые сведения об угрозе только обновляют точку отступления
	moves := len(gw.Moves)
	spot(gw, orb.Point{100, 0})
	gw.Subs.OnDamage(1)
	gw.Subs.OnSound(gateway.SoundHeard{Center: orb.Point{50, 0}})
	gw.Subs.OnBlocked(orb.Point{})
	gw.Hide(2)
	gw.Subs.OnLostSight(2)
	assert.Equal(t, StateFlee, c.State())
	assert.Len(t, gw.Moves, moves+4)

	c.Update(1.0)
	assert.Equal(t, StateFlee, c.State())

	gw.Status = motion.StatusArrived
	c.Update(0.1)
	assert.Equal(t, StateLookAround, c.State())
}

func TestFleeTimesOut(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	c.Update(0.1)
	gw.Subs.OnDamage(1)

	c.Update(2.0)
	gw.Subs.OnDamage(1)
	c.Update(4.0)
	assert.Equal(t, StateFlee, c.State())
	c.Update(1.0)
	assert.Equal(t, StateLookAround, c.State())
}

func TestDeathAndDeactivationForceIdle(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	spot(gw, orb.Point{100, 0})

	gw.SelfState.HP = 0
	c.Update(0.1)
	assert.Equal(t, StateIdle, c.State())

	gw.SelfState.HP = 3
	c.Update(0.1)
	assert.Equal(t, StatePatrol, c.State())

	releases := gw.Releases
	c.SetActive(false)
	assert.Equal(t, StateIdle, c.State())
	assert.Greater(t, gw.Releases, releases)
	assert.False(t, c.Active())
}

func TestStateObjectsBuiltOnce(t *testing.T) {
	gw := aitest.New()
	c := newActive(gw)
	first := c.states

	c.SetActive(false)
	c.SetActive(true)
	assert.Same(t, first[StateEngage], c.states[StateEngage])
}
