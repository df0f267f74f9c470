package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSegmentIntersectsRect(t *testing.T) {
	r := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	tests := []struct {
		name string
		a, b orb.Point
		want bool
	}{
		{"crosses through", orb.Point{-5, 5}, orb.Point{15, 5}, true},
		{"fully inside", orb.Point{2, 2}, orb.Point{3, 3}, true},
		{"misses above", orb.Point{-5, -1}, orb.Point{15, -1}, false},
		{"touches corner", orb.Point{-5, -5}, orb.Point{0, 0}, true},
		{"stops short", orb.Point{-10, 5}, orb.Point{-1, 5}, false},
		{"parallel outside", orb.Point{11, -5}, orb.Point{11, 15}, false},
		{"diagonal miss", orb.Point{12, 0}, orb.Point{20, 8}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SegmentIntersectsRect(tt.a, tt.b, r))
		})
	}
}

func TestPointInRect(t *testing.T) {
	r := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	assert.True(t, PointInRect(orb.Point{0, 10}, r), "border is inside")
	assert.False(t, PointStrictlyInRect(orb.Point{0, 5}, r), "border is outside for strict check")
	assert.True(t, PointStrictlyInRect(orb.Point{5, 5}, r))
	assert.False(t, PointInRect(orb.Point{10.0001, 5}, r))
}

func TestProjectToSegment(t *testing.T) {
	p, tt := ProjectToSegment(orb.Point{5, 3}, orb.Point{0, 0}, orb.Point{10, 0})
	assert.Equal(t, orb.Point{5, 0}, p)
	assert.InDelta(t, 0.5, tt, 1e-9)

	p, tt = ProjectToSegment(orb.Point{-5, 3}, orb.Point{0, 0}, orb.Point{10, 0})
	assert.Equal(t, orb.Point{0, 0}, p)
	assert.Equal(t, 0.0, tt)

	// Вырожденный отрезок
	p, tt = ProjectToSegment(orb.Point{4, 4}, orb.Point{1, 1}, orb.Point{1, 1})
	assert.Equal(t, orb.Point{1, 1}, p)
	assert.Equal(t, 0.0, tt)
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, math.Pi, WrapAngle(-math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, 0.5, WrapAngle(0.5), 1e-12)
}

func TestCircleIntersectsRect(t *testing.T) {
	r := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	assert.True(t, CircleIntersectsRect(orb.Point{-3, 5}, 3, r))
	assert.False(t, CircleIntersectsRect(orb.Point{-3.1, 5}, 3, r))
	assert.False(t, CircleIntersectsRect(orb.Point{-3, -3}, 4, r))
}
