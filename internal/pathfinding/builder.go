package pathfinding

import (
	"math"
	"sort"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Порог склейки близких границ и минимальная ширина прохода между ними
const (
	breakpointEps = 1e-3
	minGap        = 2.0
	wallClearance = 1.0
)

// BuildCenterlineGraph строит граф по осевым линиям проходов.
// 1. Собираем X/Y границы внешнего прямоугольника и препятствий.
// 2. Между соседними границами ставим осевые линии (если зазор шире minGap).
// 3. Узлы - пересечения осевых, кроме точек внутри препятствий и у стены.
// 4. Соседние узлы в строке и в столбце соединяются, если отрезок не задевает препятствие.
func BuildCenterlineGraph(outer orb.Bound, obstacles []orb.Bound) *Graph {
	g := NewGraph()

	xs := []float64{outer.Min[0], outer.Max[0]}
	ys := []float64{outer.Min[1], outer.Max[1]}
	for _, r := range obstacles {
		xs = append(xs, r.Min[0], r.Max[0])
		ys = append(ys, r.Min[1], r.Max[1])
	}
	xs = uniqSorted(xs)
	ys = uniqSorted(ys)

	cxs := centerlines(xs)
	cys := centerlines(ys)
	rows, cols := len(cys), len(cxs)
	if rows == 0 || cols == 0 {
		return g
	}

	idx := make([]int, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx[r*cols+c] = -1

			p := orb.Point{cxs[c], cys[r]}
			if insideAny(p, obstacles) {
				continue
			}
			if !(p[0] > outer.Min[0]+wallClearance && p[0] < outer.Max[0]-wallClearance &&
				p[1] > outer.Min[1]+wallClearance && p[1] < outer.Max[1]-wallClearance) {
				continue
			}
			idx[r*cols+c] = g.AddNode(p)
		}
	}

	// Строки: слева направо
	for r := 0; r < rows; r++ {
		prev := -1
		for c := 0; c < cols; c++ {
			prev = linkNext(g, obstacles, prev, idx[r*cols+c])
		}
	}
	// Столбцы: сверху вниз
	for c := 0; c < cols; c++ {
		prev := -1
		for r := 0; r < rows; r++ {
			prev = linkNext(g, obstacles, prev, idx[r*cols+c])
		}
	}

	return g
}

// linkNext соединяет предыдущий валидный узел с текущим и возвращает новый "предыдущий".
func linkNext(g *Graph, obstacles []orb.Bound, prev, cur int) int {
	if cur < 0 {
		return prev
	}
	if prev >= 0 {
		a, b := g.Nodes[prev].Pos, g.Nodes[cur].Pos
		if !geom.SegmentHitsAny(a, b, obstacles) {
			g.AddEdge(prev, cur, geom.Dist(a, b))
		}
	}
	return cur
}

func insideAny(p orb.Point, rects []orb.Bound) bool {
	for _, r := range rects {
		if geom.PointInRect(p, r) {
			return true
		}
	}
	return false
}

// uniqSorted сортирует и схлопывает значения, отличающиеся меньше чем на breakpointEps.
func uniqSorted(v []float64) []float64 {
	sort.Float64s(v)
	out := v[:0]
	for _, x := range v {
		if len(out) > 0 && math.Abs(x-out[len(out)-1]) < breakpointEps {
			continue
		}
		out = append(out, x)
	}
	return out
}

func centerlines(breaks []float64) []float64 {
	var out []float64
	for i := 0; i+1 < len(breaks); i++ {
		a, b := breaks[i], breaks[i+1]
		if b-a > minGap {
			out = append(out, (a+b)*0.5)
		}
	}
	return out
}
