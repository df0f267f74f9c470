package systems

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMove(t *testing.T) {
	w := NewWorld(testLayout())
	tank := w.AddTank()
	w.AddTank()

	// Test 1: Move into empty space
	res := CalculateMove(tank, 50, w)
	assert.True(t, res.HasMoved)
	assert.InDelta(t, 150, res.Pos[0], 1e-9)
	assert.InDelta(t, 50, res.Pos[1], 1e-9)

	// Test 2: Move into a structure (right edge 196 -> 206 > 200)
	tank.Place(orb.Point{180, 50}, 0)
	res = CalculateMove(tank, 10, w)
	assert.False(t, res.HasMoved)
	assert.True(t, res.BlockedX)
	assert.Nil(t, res.BlockedBy)

	// Test 3: Slide along the structure
	tank.Place(orb.Point{180, 50}, math.Pi/4)
	res = CalculateMove(tank, 10, w)
	assert.True(t, res.BlockedX)
	assert.False(t, res.BlockedY)
	assert.InDelta(t, 180, res.Pos[0], 1e-9)
	assert.InDelta(t, 50+10*math.Sin(math.Pi/4), res.Pos[1], 1e-9)
}

func TestCalculateMoveBlockedByTank(t *testing.T) {
	w := NewWorld(testLayout())
	tank := w.AddTank()
	other := w.AddTank() // (500,500)

	tank.Place(orb.Point{450, 500}, 0)
	res := CalculateMove(tank, 20, w)
	assert.False(t, res.HasMoved)
	assert.Same(t, other, res.BlockedBy)

	// Мёртвый танк не мешает
	other.TakeDamage(TankMaxHealth)
	res = CalculateMove(tank, 20, w)
	assert.True(t, res.HasMoved)
}

func TestCalculateMoveClampsToOuterWall(t *testing.T) {
	w := NewWorld(testLayout())
	tank := w.AddTank()
	tank.Place(orb.Point{20, 500}, math.Pi)

	tank.Move(50)
	assert.InDelta(t, TankRadius, tank.Position()[0], 1e-9)
	assert.InDelta(t, 500, tank.Position()[1], 1e-6)
}
