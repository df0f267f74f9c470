package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatRestartsChild(t *testing.T) {
	c := leaf("c", Success)
	r := NewRepeat(c)

	r.OnEnter()
	for i := 0; i < 3; i++ {
		assert.Equal(t, Running, r.Tick(0.1))
	}
	assert.Equal(t, 4, c.enters)
	assert.Equal(t, 3, c.exits)

	r.OnExit()
	r.OnExit()
	assert.Equal(t, 4, c.exits)
}

func TestGuardGatesChild(t *testing.T) {
	open := true
	c := leaf("c", Running)
	g := NewGuard("G", func() bool { return open }, c)

	g.OnEnter()
	assert.Equal(t, Running, g.Tick(0.1))
	assert.Equal(t, 1, c.enters)

	open = false
	assert.Equal(t, Failure, g.Tick(0.1))
	assert.Equal(t, 1, c.exits)
	assert.Nil(t, g.ActiveChild())

	// Закрытый Guard не входит в ребёнка
	g.OnEnter()
	assert.Equal(t, 1, c.enters)

	open = true
	assert.Equal(t, Running, g.Tick(0.1))
	assert.Equal(t, 2, c.enters)
}

func TestHPGuards(t *testing.T) {
	env := newEnv(nil)
	env.BB.Self.HP = 3
	high := NewGuardHighHP(env, leaf("h", Running))
	low := NewGuardLowHP(env, leaf("l", Running))

	assert.Equal(t, Running, high.Tick(0.1))
	assert.Equal(t, Failure, low.Tick(0.1))

	// Идущее отступление держит ветку раненого
	env.BB.Fleeing = true
	assert.Equal(t, Failure, high.Tick(0.1))
	assert.Equal(t, Running, low.Tick(0.1))

	env.BB.Fleeing = false
	env.BB.Self.HP = 1
	assert.Equal(t, Failure, high.Tick(0.1))
	assert.Equal(t, Running, low.Tick(0.1))
}
