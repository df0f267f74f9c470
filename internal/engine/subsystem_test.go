package engine

import (
	"tankai-server/internal/ai"
	"tankai-server/internal/systems"
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentsStartActiveWithConfiguredKinds(t *testing.T) {
	m := newTestMatch(t, ai.KindBT, ai.KindFSM, ai.KindFSM)

	agents := m.AI().Agents()
	require.Len(t, agents, 3)
	assert.Equal(t, ai.KindBT, agents[0].Controller.Kind())
	assert.Equal(t, ai.KindFSM, agents[1].Controller.Kind())
	for _, a := range agents {
		assert.True(t, a.Controller.Active())
		assert.Equal(t, a.Tank.SpawnPoint(), a.Tank.Position())
	}
}

func TestSetAIEnabled(t *testing.T) {
	m := newTestMatch(t)
	sub := m.AI()

	sub.SetAIEnabled(false)
	for _, a := range sub.Agents() {
		assert.False(t, a.Controller.Active())
	}

	// Мёртвый танк не активируется
	dead := sub.Agents()[1]
	dead.Tank.TakeDamage(systems.TankMaxHealth)

	sub.SetAIEnabled(true)
	assert.True(t, sub.Agents()[0].Controller.Active())
	assert.False(t, dead.Controller.Active())
}

func TestSetControllerSwapsKind(t *testing.T) {
	m := newTestMatch(t, ai.KindBT, ai.KindBT)
	sub := m.AI()
	a, ok := sub.Agent(1)
	require.True(t, ok)
	old := a.Controller

	require.NoError(t, sub.SetController(1, ai.KindFSM))
	assert.Equal(t, ai.KindFSM, a.Controller.Kind())
	assert.True(t, a.Controller.Active())
	assert.False(t, old.Active())

	err := sub.SetController(7, ai.KindFSM)
	assert.True(t, errors.Is(err, ErrUnknownAgent))
	err = sub.SetController(0, "planner")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDeathDeactivatesAndOthersForget(t *testing.T) {
	m := newTestMatch(t)
	victim, _ := m.AI().Agent(0)
	witness, _ := m.AI().Agent(1)

	witness.Sensing.RegisterSound(0, orb.Point{400, 120}, 50)
	_, known := witness.Sensing.LastKnown(0)
	require.True(t, known)

	victim.Tank.TakeDamage(systems.TankMaxHealth)

	assert.False(t, victim.Tank.Alive())
	assert.False(t, victim.Controller.Active())
	assert.Equal(t, 1, victim.Gateway.DebugCounts().Damage)
	_, known = witness.Sensing.LastKnown(0)
	assert.False(t, known)
}

func TestRespawnResetsAndReactivates(t *testing.T) {
	m := newTestMatch(t)
	sub := m.AI()
	a, _ := sub.Agent(0)
	dt := 1 / float64(m.cfg.TickRate)

	a.Tank.TakeDamage(systems.TankMaxHealth)
	sub.Update(dt)
	assert.False(t, a.Controller.Active())

	a.Tank.Update(systems.TankRespawnSec)
	require.True(t, a.Tank.Alive())
	assert.False(t, a.Controller.Active(), "reactivation happens on the next AI frame")

	sub.Update(dt)
	assert.True(t, a.Controller.Active())
	assert.Equal(t, 0, a.Gateway.DebugCounts().Damage)
}

func TestRespawnWithAIDisabledStaysInactive(t *testing.T) {
	m := newTestMatch(t)
	sub := m.AI()
	a, _ := sub.Agent(0)
	dt := 1 / float64(m.cfg.TickRate)

	a.Tank.TakeDamage(systems.TankMaxHealth)
	sub.SetAIEnabled(false)
	a.Tank.Update(systems.TankRespawnSec)
	sub.Update(dt)

	assert.True(t, a.Tank.Alive())
	assert.False(t, a.Controller.Active())
}

func TestDamageReachesController(t *testing.T) {
	m := newTestMatch(t, ai.KindFSM, ai.KindFSM)
	a, _ := m.AI().Agent(0)
	dt := 1 / float64(m.cfg.TickRate)

	m.AI().Update(dt)
	a.Tank.TakeDamage(1)
	m.AI().Update(dt)

	assert.Equal(t, "Flee", a.Controller.DebugState())
}

func TestDeadTankMakesNoSound(t *testing.T) {
	m := newTestMatch(t)
	require.True(t, m.Config().EmitSounds)
	victim, _ := m.AI().Agent(1)
	dt := 1 / float64(m.cfg.TickRate)

	// Прогреваем: живой танк шумит двигателем раз в секунду
	runFrames(m, 90)

	victim.Tank.TakeDamage(systems.TankMaxHealth)
	require.False(t, victim.Tank.Alive())

	// 2.5 с меньше задержки возрождения
	frames := int(2.5 / dt)
	for i := 0; i < frames; i++ {
		m.Tick(dt)
		require.False(t, victim.Tank.Alive())
		for _, ev := range m.AI().Bus().Events() {
			assert.NotEqual(t, victim.Tank.ID(), ev.SourceID, "frame %d", i)
		}
	}

	witness, _ := m.AI().Agent(0)
	_, known := witness.Sensing.LastKnown(victim.Tank.ID())
	assert.False(t, known)
}

func TestRemoveAgent(t *testing.T) {
	m := newTestMatch(t, ai.KindBT, ai.KindFSM, ai.KindBT)
	sub := m.AI()
	removed, _ := sub.Agent(1)
	witness, _ := sub.Agent(0)

	witness.Sensing.RegisterSound(1, orb.Point{400, 120}, 50)
	removed.Combat.BeginCharge()

	require.NoError(t, sub.RemoveAgent(1))

	require.Len(t, sub.Agents(), 2)
	_, ok := sub.Agent(1)
	assert.False(t, ok)
	assert.False(t, removed.Controller.Active())
	assert.False(t, removed.Combat.IsCharging())
	_, known := witness.Sensing.LastKnown(1)
	assert.False(t, known)

	// Хуки отвязаны: урон и смерть больше не доходят до ИИ
	removed.Tank.TakeDamage(systems.TankMaxHealth)
	assert.Equal(t, 0, removed.Gateway.DebugCounts().Damage)

	runFrames(m, 10)
	assert.Len(t, m.Snapshot(false).Agents, 2)

	err := sub.RemoveAgent(1)
	assert.True(t, errors.Is(err, ErrUnknownAgent))
	assert.Error(t, sub.SetController(1, ai.KindFSM))
}
