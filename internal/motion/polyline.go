package motion

import (
	"math"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// ProjectToPolyline возвращает ближайшую точку полилинии, индекс отрезка и
// параметр t на нём. Для полилинии из одной точки возвращает её саму.
func ProjectToPolyline(p orb.Point, poly orb.LineString) (int, float64, orb.Point) {
	if len(poly) == 1 {
		return 0, 0, poly[0]
	}

	bestD2 := math.Inf(1)
	var bestP orb.Point
	bestI, bestT := 0, 0.0

	for i := 0; i+1 < len(poly); i++ {
		q, t := geom.ProjectToSegment(p, poly[i], poly[i+1])
		if d2 := geom.Dist2(p, q); d2 < bestD2 {
			bestD2 = d2
			bestP = q
			bestI = i
			bestT = t
		}
	}
	return bestI, bestT, bestP
}

// AdvanceAlongPolyline сдвигается вдоль полилинии на длину s от точки (seg, t).
// Если полилиния кончилась раньше, возвращает последнюю точку.
func AdvanceAlongPolyline(poly orb.LineString, seg int, t, s float64) orb.Point {
	if len(poly) == 0 {
		return orb.Point{}
	}
	if len(poly) == 1 {
		return poly[0]
	}

	i := seg
	remaining := s
	cur := poly[i]
	if t > geom.Eps {
		cur = geom.Lerp(poly[i], poly[i+1], t)
	}

	for remaining > 0 && i+1 < len(poly) {
		next := poly[i+1]
		segLen := math.Max(geom.Eps, geom.Dist(cur, next))
		if remaining <= segLen {
			return geom.Lerp(cur, next, remaining/segLen)
		}

		remaining -= segLen
		i++
		if i+1 >= len(poly) {
			return poly[len(poly)-1]
		}
		cur = poly[i]
	}
	return poly[len(poly)-1]
}
