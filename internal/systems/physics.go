package systems

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// CirclesOverlap - круги касаются или пересекаются.
func CirclesOverlap(a orb.Point, ra float64, b orb.Point, rb float64) bool {
	r := ra + rb
	return geom.Dist2(a, b) <= r*r
}

// circleBlocked проверяет круг против построек (без стены) и живых танков,
// кроме self. Если мешает танк, он возвращается первым значением.
func (w *World) circleBlocked(c orb.Point, radius float64, self domain.AgentID) (*Tank, bool) {
	if w.layout.BlocksCircle(c, radius) {
		return nil, true
	}
	for _, other := range w.tanks {
		if other.id == self || !other.alive {
			continue
		}
		if CirclesOverlap(c, radius, other.pos, other.radius) {
			return other, true
		}
	}
	return nil, false
}

// HasLineOfSight - отрезок ab не пересекает ни одной постройки.
func HasLineOfSight(w *World, a, b orb.Point) bool {
	if a == b {
		return true
	}
	return !geom.SegmentHitsAny(a, b, w.obstacles)
}
