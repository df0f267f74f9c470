package systems

import (
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	Pos      orb.Point
	HasMoved bool
	BlockedX bool
	BlockedY bool
	// BlockedBy - танк, в который упёрлись (если упёрлись в танк)
	BlockedBy *Tank
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
// Оси проверяются по отдельности, поэтому вдоль стены танк скользит.
// Результат прижимается к внешней стене.
func CalculateMove(t *Tank, distance float64, w *World) MovementResult {
	dir := geom.Heading(t.rot)
	dx, dy := dir[0]*distance, dir[1]*distance
	pos := t.pos
	res := MovementResult{}

	// 1. Ось X
	if dx != 0 {
		test := orb.Point{pos[0] + dx, pos[1]}
		if other, blocked := w.circleBlocked(test, t.radius, t.id); blocked {
			res.BlockedX = true
			res.BlockedBy = other
		} else {
			pos = test
		}
	}

	// 2. Ось Y
	if dy != 0 {
		test := orb.Point{pos[0], pos[1] + dy}
		if other, blocked := w.circleBlocked(test, t.radius, t.id); blocked {
			res.BlockedY = true
			if res.BlockedBy == nil {
				res.BlockedBy = other
			}
		} else {
			pos = test
		}
	}

	// 3. Внешняя стена
	res.Pos = w.layout.ClampInside(pos, t.radius)
	res.HasMoved = res.Pos != t.pos
	return res
}
