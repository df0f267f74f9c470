// Package geom содержит плоскую геометрию арены поверх github.com/paulmach/orb.
// Координаты экранные: X вправо, Y вниз. Угол поворота 0 смотрит вдоль +X,
// положительное приращение угла поворачивает вектор от +X к +Y.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Eps - общий порог для вырожденных длин.
const Eps = 1e-6

func Add(a, b orb.Point) orb.Point { return orb.Point{a[0] + b[0], a[1] + b[1]} }

func Sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }

func Scale(a orb.Point, k float64) orb.Point { return orb.Point{a[0] * k, a[1] * k} }

func Dot(a, b orb.Point) float64 { return a[0]*b[0] + a[1]*b[1] }

// Cross возвращает z-компоненту векторного произведения.
func Cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }

func Length(a orb.Point) float64 { return math.Hypot(a[0], a[1]) }

func Dist(a, b orb.Point) float64 { return planar.Distance(a, b) }

func Dist2(a, b orb.Point) float64 { return planar.DistanceSquared(a, b) }

// Normalize возвращает единичный вектор. Для нулевого вектора возвращает ноль.
func Normalize(a orb.Point) orb.Point {
	l := Length(a)
	if l < Eps {
		return orb.Point{}
	}
	return orb.Point{a[0] / l, a[1] / l}
}

func Lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// Heading - единичный вектор направления для угла rot.
func Heading(rot float64) orb.Point { return orb.Point{math.Cos(rot), math.Sin(rot)} }

// LeftNormal и RightNormal поворачивают вектор на четверть оборота.
func LeftNormal(t orb.Point) orb.Point { return orb.Point{-t[1], t[0]} }

func RightNormal(t orb.Point) orb.Point { return orb.Point{t[1], -t[0]} }

// WrapAngle приводит угол к диапазону (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect строит прямоугольник из левого верхнего угла и размера.
func Rect(origin, size orb.Point) orb.Bound {
	return orb.Bound{Min: origin, Max: Add(origin, size)}
}

// Inflate расширяет прямоугольник на d во все стороны.
func Inflate(r orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.Min[0] - d, r.Min[1] - d},
		Max: orb.Point{r.Max[0] + d, r.Max[1] + d},
	}
}

// PointInRect - включительная проверка принадлежности.
func PointInRect(p orb.Point, r orb.Bound) bool {
	return p[0] >= r.Min[0] && p[0] <= r.Max[0] && p[1] >= r.Min[1] && p[1] <= r.Max[1]
}

// PointStrictlyInRect - строгая проверка, граница не считается внутренностью.
func PointStrictlyInRect(p orb.Point, r orb.Bound) bool {
	return p[0] > r.Min[0] && p[0] < r.Max[0] && p[1] > r.Min[1] && p[1] < r.Max[1]
}

// ClampToRect прижимает точку к прямоугольнику.
func ClampToRect(p orb.Point, r orb.Bound) orb.Point {
	return orb.Point{Clamp(p[0], r.Min[0], r.Max[0]), Clamp(p[1], r.Min[1], r.Max[1])}
}

// SegmentIntersectsRect - отсечение Лианга-Барски.
// Касание границы считается пересечением.
func SegmentIntersectsRect(a, b orb.Point, r orb.Bound) bool {
	dx := b[0] - a[0]
	dy := b[1] - a[1]

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a[0] - r.Min[0], r.Max[0] - a[0], a[1] - r.Min[1], r.Max[1] - a[1]}

	u1, u2 := 0.0, 1.0
	for i := 0; i < 4; i++ {
		if math.Abs(p[i]) < Eps {
			// Отрезок параллелен этой границе и лежит снаружи
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1 {
				return false
			}
			if t < u2 {
				u2 = t
			}
		}
	}
	return true
}

// SegmentHitsAny проверяет отрезок против набора прямоугольников.
func SegmentHitsAny(a, b orb.Point, rects []orb.Bound) bool {
	for _, r := range rects {
		if SegmentIntersectsRect(a, b, r) {
			return true
		}
	}
	return false
}

// ProjectToSegment возвращает ближайшую к p точку отрезка ab и параметр t в [0, 1].
// Вырожденный отрезок даёт t = 0 и точку a.
func ProjectToSegment(p, a, b orb.Point) (orb.Point, float64) {
	ab := Sub(b, a)
	ab2 := Dot(ab, ab)
	if ab2 <= Eps {
		return a, 0
	}
	t := Clamp(Dot(Sub(p, a), ab)/ab2, 0, 1)
	return Add(a, Scale(ab, t)), t
}

// CircleIntersectsRect - круг против прямоугольника через ближайшую точку.
func CircleIntersectsRect(c orb.Point, radius float64, r orb.Bound) bool {
	closest := ClampToRect(c, r)
	return Dist2(c, closest) <= radius*radius
}
