// Package arena описывает статическую геометрию поля боя: прямоугольные
// постройки и точки появления танков.
package arena

import (
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Structure - прямоугольная постройка, задаётся левым верхним углом и размером.
type Structure struct {
	Origin orb.Point
	Size   orb.Point
}

// Bound возвращает прямоугольник постройки.
func (s Structure) Bound() orb.Bound {
	return geom.Rect(s.Origin, s.Size)
}

// Layout - полная раскладка арены.
// Последняя постройка в списке всегда внешняя стена (граница поля).
type Layout struct {
	Name       string
	Structures []Structure
	Spawns     []orb.Point
}

// Boundary возвращает внешнюю стену.
func (l Layout) Boundary() Structure {
	return l.Structures[len(l.Structures)-1]
}

// Obstacles возвращает все постройки, кроме внешней стены.
func (l Layout) Obstacles() []Structure {
	if len(l.Structures) == 0 {
		return nil
	}
	return l.Structures[:len(l.Structures)-1]
}

// ObstacleBounds - прямоугольники препятствий без стены.
func (l Layout) ObstacleBounds() []orb.Bound {
	obstacles := l.Obstacles()
	out := make([]orb.Bound, 0, len(obstacles))
	for _, s := range obstacles {
		out = append(out, s.Bound())
	}
	return out
}

// Spawn возвращает точку появления для слота. Слоты идут по кругу.
func (l Layout) Spawn(slot int) orb.Point {
	if len(l.Spawns) == 0 {
		b := l.Boundary().Bound()
		return geom.Lerp(b.Min, b.Max, 0.5)
	}
	return l.Spawns[slot%len(l.Spawns)]
}

// BlocksCircle проверяет, пересекает ли круг любое препятствие.
// Внешняя стена не проверяется, для неё используется ClampInside.
func (l Layout) BlocksCircle(c orb.Point, radius float64) bool {
	for _, s := range l.Obstacles() {
		if geom.CircleIntersectsRect(c, radius, s.Bound()) {
			return true
		}
	}
	return false
}

// ClampInside удерживает центр круга внутри внешней стены.
func (l Layout) ClampInside(c orb.Point, radius float64) orb.Point {
	b := l.Boundary().Bound()
	return orb.Point{
		geom.Clamp(c[0], b.Min[0]+radius, b.Max[0]-radius),
		geom.Clamp(c[1], b.Min[1]+radius, b.Max[1]-radius),
	}
}

// Classic - стандартная арена: девять блоков в центре и стена по периметру.
func Classic() Layout {
	box := func(x, y, w, h float64) Structure {
		return Structure{Origin: orb.Point{x, y}, Size: orb.Point{w, h}}
	}

	return Layout{
		Name: "classic",
		Structures: []Structure{
			// Углы
			box(405, 135, 65, 65),
			box(795, 135, 65, 65),
			box(795, 525, 65, 65),
			box(405, 525, 65, 65),
			// Рёбра
			box(405, 300, 65, 125),
			box(795, 300, 65, 125),
			box(570, 135, 125, 65),
			box(570, 525, 125, 65),
			// Центр
			box(570, 300, 125, 125),
			// Внешняя стена
			box(325, 50, 615, 625),
		},
		Spawns: []orb.Point{
			{375, 100},
			{895, 625},
			{895, 100},
			{375, 625},
		},
	}
}
