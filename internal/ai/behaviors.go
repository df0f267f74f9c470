package ai

import (
	"math"
	"math/rand"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

const (
	fleeDistance     = 1000.0
	fleeMaxDeviation = math.Pi / 3
)

// PatrolToRandomPoint снимает наведение и едет в случайную достижимую точку.
func PatrolToRandomPoint(gw Gateway) {
	gw.CancelAim()
	gw.MoveTo(gw.RandomReachable())
}

// FindFleeLocation ищет точку отступления: от угрозы с отклонением до 60°
// в случайную сторону, без угрозы - в случайном направлении. Точка
// прижимается к игровой области.
func FindFleeLocation(self orb.Point, threat orb.Point, hasThreat bool, gw Gateway, rng *rand.Rand) orb.Point {
	var dir orb.Point
	if hasThreat {
		dir = geom.Sub(self, threat)
	}
	if !hasThreat || geom.Length(dir) < 1e-3 {
		a := rng.Float64() * 2 * math.Pi
		dir = orb.Point{math.Cos(a), math.Sin(a)}
	}
	dir = geom.Normalize(dir)

	if hasThreat {
		dev := rng.Float64() * fleeMaxDeviation
		if rng.Intn(2) == 1 {
			dev = -dev
		}
		c, s := math.Cos(dev), math.Sin(dev)
		dir = orb.Point{dir[0]*c - dir[1]*s, dir[0]*s + dir[1]*c}
	}

	ideal := geom.Add(self, geom.Scale(dir, fleeDistance))
	return gw.Project(ideal).Projected
}
