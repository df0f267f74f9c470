package bt

import (
	"tankai-server/internal/ai"
	"tankai-server/internal/ai/aitest"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func soundAt(p orb.Point) gateway.SoundHeard {
	return gateway.SoundHeard{Center: p, Radius: domain.LoudnessShot, Kind: domain.SoundBullet}
}

func scriptedController(gw *aitest.Gateway, root *scripted) *Controller {
	c := newController(gw)
	c.SetTreeBuilder(func(*Env) Node { return root })
	return c
}

func TestControllerStartsInactiveAndDropsEvents(t *testing.T) {
	gw := aitest.New()
	c := newController(gw)
	assert.Equal(t, ai.KindBT, c.Kind())
	assert.False(t, c.Active())
	assert.Equal(t, "NoTree", c.DebugState())

	gw.See(domain.Contact{ID: 2, Pos: orb.Point{10, 0}})
	gw.Subs.OnSpotted(2)
	gw.Subs.OnSound(soundAt(orb.Point{1, 1}))
	_, ok := c.Blackboard().Target()
	assert.False(t, ok)
	_, ok = c.Blackboard().LastKnown()
	assert.False(t, ok)

	c.Update(0.1)
	assert.Nil(t, c.Root())
}

func TestControllerActivationLifecycle(t *testing.T) {
	gw := aitest.New()
	root := leaf("root", Running)
	c := scriptedController(gw, root)

	c.SetActive(true)
	c.SetActive(true)
	assert.Equal(t, 1, root.enters)

	c.Update(0.1)
	assert.Equal(t, 1, root.ticks)
	assert.Equal(t, "root", c.DebugState())

	c.Blackboard().Fleeing = true
	c.SetActive(false)
	assert.Equal(t, 1, root.exits)
	assert.False(t, c.Blackboard().Fleeing)

	// Выключенный контроллер не тикает
	c.Update(0.1)
	assert.Equal(t, 1, root.ticks)
}

func TestControllerDamageRestartsTree(t *testing.T) {
	gw := aitest.New()
	root := leaf("root", Running)
	c := scriptedController(gw, root)
	c.SetActive(true)
	c.Update(0.5)
	assert.InDelta(t, 0.5, c.Blackboard().DamagedTimer, 1e-9)

	gw.Subs.OnDamage(1)
	assert.Zero(t, c.Blackboard().DamagedTimer)
	assert.Equal(t, 1, root.exits)
	assert.Equal(t, 2, root.enters)
}

func TestControllerDeathAndRespawn(t *testing.T) {
	gw := aitest.New()
	root := leaf("root", Running)
	c := scriptedController(gw, root)
	c.SetActive(true)

	gw.See(domain.Contact{ID: 2, Pos: orb.Point{10, 0}})
	gw.Subs.OnSpotted(2)
	c.Update(0.1)

	gw.SelfState.HP = 0
	c.Update(0.1)
	assert.Equal(t, 1, root.ticks)
	assert.Equal(t, 1, root.exits)
	_, ok := c.Blackboard().Target()
	assert.False(t, ok)

	c.Update(0.1)
	assert.Equal(t, 1, root.ticks)

	gw.SelfState.HP = 3
	c.Update(0.1)
	assert.Equal(t, 2, root.ticks)
	assert.Equal(t, 2, root.exits)
	assert.Equal(t, 2, root.enters)
}

func TestControllerFleeCooldownDecays(t *testing.T) {
	gw := aitest.New()
	c := scriptedController(gw, leaf("root", Running))
	c.SetActive(true)
	c.Blackboard().FleeCooldown = 0.15

	c.Update(0.1)
	assert.InDelta(t, 0.05, c.Blackboard().FleeCooldown, 1e-9)
	c.Update(0.1)
	assert.Zero(t, c.Blackboard().FleeCooldown)
}
