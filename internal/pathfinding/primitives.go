package pathfinding

import (
	"math"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Straight - прямой участок сглаженного маршрута.
type Straight struct {
	A, B orb.Point
}

// Arc - дуга постоянного радиуса, касательная к соседним участкам.
type Arc struct {
	Center     orb.Point
	Radius     float64
	A, B       orb.Point // точки касания: вход и выход
	StartAngle float64
	EndAngle   float64
	CW         bool
}

// MotionPrimitives - разложение полилинии на прямые и дуги.
// Используется только для отображения, движение идёт по исходной полилинии.
type MotionPrimitives struct {
	Straights []Straight
	Arcs      []Arc
}

type MotionStats struct {
	CornersConsidered      int
	PrimsPlaced            int
	PrimsRejectedShort     int
	PrimsRejectedClearance int
}

const (
	collinearEps = 1e-4
	minTangent   = 2.0
	tangentEps   = 1e-3
)

// Simplify убирает промежуточные точки, лежащие почти на одной прямой с соседями.
func Simplify(in orb.LineString) orb.LineString {
	if len(in) == 0 {
		return nil
	}
	out := orb.LineString{in[0]}
	for i := 1; i+1 < len(in); i++ {
		ab := geom.Sub(in[i], in[i-1])
		bc := geom.Sub(in[i+1], in[i])
		if math.Abs(geom.Cross(ab, bc)) >= collinearEps {
			out = append(out, in[i])
		}
	}
	if len(in) >= 2 {
		out = append(out, in[len(in)-1])
	}
	return out
}

type cut struct {
	ok     bool
	t1, t2 orb.Point
	arc    Arc
}

type rejectReason int

const (
	rejectNone rejectReason = iota
	rejectShort
	rejectClearance
)

// BuildMotionPrimitives вписывает в каждый внутренний угол дугу радиуса r.
// Дуга принимается, если обе точки касания строго внутри игровой области,
// отстоят от вершины хотя бы на minTangent и оставляют на каждом отрезке
// прямую не короче minTangent (с учётом дуги соседнего угла).
// Прямые обрезаются по точкам касания.
func BuildMotionPrimitives(polyline orb.LineString, r float64, cfg Config) (MotionPrimitives, MotionStats, bool) {
	var out MotionPrimitives
	var stats MotionStats
	if len(polyline) < 2 {
		return out, stats, false
	}

	pts := Simplify(polyline)
	if len(pts) < 2 {
		return out, stats, false
	}
	n := len(pts)
	cuts := make([]cut, n)

	for i := 1; i <= n-2; i++ {
		stats.CornersConsidered++

		prev, cur, next := pts[i-1], pts[i], pts[i+1]
		tanIn := geom.Normalize(geom.Sub(cur, prev))
		tanOut := geom.Normalize(geom.Sub(next, cur))

		angle := math.Acos(geom.Clamp(geom.Dot(tanIn, tanOut), -1, 1))
		if angle < 1e-3 || math.IsNaN(angle) {
			continue
		}
		turn := geom.Cross(tanIn, tanOut)
		if math.Abs(turn) < geom.Eps {
			continue
		}

		normIn, normOut := geom.RightNormal(tanIn), geom.RightNormal(tanOut)
		if turn > 0 {
			normIn, normOut = geom.LeftNormal(tanIn), geom.LeftNormal(tanOut)
		}

		// Входящий отрезок делим с выходом предыдущей дуги
		budgetIn := geom.Dist(prev, cur) - minTangent
		if cuts[i-1].ok {
			budgetIn -= geom.Dist(prev, cuts[i-1].t2)
		}
		budgetOut := geom.Dist(cur, next) - minTangent

		c, why := placeArc(cur, tanIn, tanOut, normIn, normOut, r, turn, budgetIn, budgetOut, cfg)
		switch why {
		case rejectNone:
			cuts[i] = c
			stats.PrimsPlaced++
		case rejectShort:
			stats.PrimsRejectedShort++
		case rejectClearance:
			stats.PrimsRejectedClearance++
		}
	}

	for k := 0; k < n-1; k++ {
		s, e := pts[k], pts[k+1]
		if k+1 <= n-2 && cuts[k+1].ok {
			e = cuts[k+1].t1
		}
		if k >= 1 && cuts[k].ok {
			s = cuts[k].t2
		}
		if geom.Dist(s, e) > tangentEps {
			out.Straights = append(out.Straights, Straight{A: s, B: e})
		}
	}

	for i := 1; i <= n-2; i++ {
		if cuts[i].ok {
			out.Arcs = append(out.Arcs, cuts[i].arc)
		}
	}
	return out, stats, true
}

// placeArc строит дугу в вершине cur. budgetIn и budgetOut - сколько длины
// касательной можно забрать у входящего и исходящего отрезков.
func placeArc(cur, tanIn, tanOut, normIn, normOut orb.Point, r, turn, budgetIn, budgetOut float64, cfg Config) (cut, rejectReason) {
	p := geom.Add(cur, geom.Scale(normIn, r))
	q := geom.Add(cur, geom.Scale(normOut, r))

	a, _, ok := intersectLines(p, tanIn, q, tanOut)
	if !ok {
		return cut{}, rejectShort
	}
	center := geom.Add(p, geom.Scale(tanIn, a))

	sIn := geom.Dot(geom.Sub(center, cur), tanIn)
	sOut := geom.Dot(geom.Sub(center, cur), tanOut)
	t1 := geom.Add(cur, geom.Scale(tanIn, sIn))
	t2 := geom.Add(cur, geom.Scale(tanOut, sOut))

	if !(sIn < -tangentEps && sOut > tangentEps && -sIn >= minTangent && sOut >= minTangent) {
		return cut{}, rejectShort
	}
	if -sIn > budgetIn || sOut > budgetOut {
		return cut{}, rejectClearance
	}
	if !PointInOuterPlayable(t1, cfg) || !PointInOuterPlayable(t2, cfg) {
		return cut{}, rejectClearance
	}

	ra, rb := geom.Sub(t1, center), geom.Sub(t2, center)
	return cut{
		ok: true,
		t1: t1,
		t2: t2,
		arc: Arc{
			Center:     center,
			Radius:     r,
			A:          t1,
			B:          t2,
			CW:         turn < 0,
			StartAngle: math.Atan2(ra[1], ra[0]),
			EndAngle:   math.Atan2(rb[1], rb[0]),
		},
	}, rejectNone
}

// intersectLines решает P + a*u = Q + b*v. Для параллельных прямых ok = false.
func intersectLines(p, u, q, v orb.Point) (a, b float64, ok bool) {
	denom := geom.Cross(u, v)
	if math.Abs(denom) < geom.Eps {
		return 0, 0, false
	}
	w := geom.Sub(q, p)
	return geom.Cross(w, v) / denom, geom.Cross(w, u) / denom, true
}
