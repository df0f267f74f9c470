package sensing

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// InCone - направление dir попадает в конус вокруг forward (единичный вектор).
// Граница конуса входит в конус.
func InCone(forward, dir orb.Point, cosHalf float64) bool {
	return geom.Dot(geom.Normalize(dir), forward) >= cosHalf
}

// HasLOS - отрезок не пересекает ни одного препятствия.
func HasLOS(a, b orb.Point, obstacles []orb.Bound) bool {
	return !geom.SegmentHitsAny(a, b, obstacles)
}

// CanSee проверяет три независимых условия: дальность, угол обзора и прямую видимость.
func CanSee(self domain.SelfState, target orb.Point, cfg Config, obstacles []orb.Bound) bool {
	dir := geom.Sub(target, self.Pos)
	if geom.Dot(dir, dir) > cfg.ViewDistance*cfg.ViewDistance {
		return false
	}
	if !InCone(geom.Heading(self.Rot), dir, cfg.CosHalfFOV()) {
		return false
	}
	return HasLOS(self.Pos, target, obstacles)
}
