package pathfinding

import (
	"math"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// PathResult - найденный маршрут.
type PathResult struct {
	Polyline orb.LineString
	Cost     float64
}

// AttachPointToGraph привязывает точку к графу.
// Если в радиусе snap есть узел base - возвращается он. Иначе точка проецируется
// на ближайшее ребро base, в augmented добавляется новый узел, а ребро A-B
// заменяется парой A-new, new-B. Возвращает -1, если рёбер нет.
func AttachPointToGraph(base, augmented *Graph, p orb.Point, snap float64) int {
	idx, _, _ := attachPoint(base, augmented, p, snap)
	return idx
}

// attachPoint дополнительно сообщает, какое ребро base было разрезано.
func attachPoint(base, augmented *Graph, p orb.Point, snap float64) (int, EdgePair, bool) {
	best := snap * snap
	bestIdx := -1
	for i, node := range base.Nodes {
		if d2 := geom.Dist2(node.Pos, p); d2 <= best {
			best = d2
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx, EdgePair{}, false
	}

	edge, proj, ok := closestEdge(base, p)
	if !ok {
		return -1, EdgePair{}, false
	}

	idx := augmented.AddNode(proj)
	augmented.RemoveEdge(edge.A, edge.B)
	augmented.Connect(edge.A, idx)
	augmented.Connect(idx, edge.B)
	return idx, edge, true
}

// closestEdge находит ребро с ближайшей к p проекцией.
func closestEdge(g *Graph, p orb.Point) (EdgePair, orb.Point, bool) {
	bestD2 := math.Inf(1)
	var bestEdge EdgePair
	var bestProj orb.Point
	found := false

	for _, e := range g.EdgePairs() {
		q, _ := geom.ProjectToSegment(p, g.Nodes[e.A].Pos, g.Nodes[e.B].Pos)
		if d2 := geom.Dist2(p, q); d2 < bestD2 {
			bestD2 = d2
			bestEdge = e
			bestProj = q
			found = true
		}
	}
	return bestEdge, bestProj, found
}

// FindAttachedPath прокладывает путь между произвольными точками.
// Базовый граф не меняется: обе точки привязываются к его копии.
func FindAttachedPath(base *Graph, start, goal orb.Point, snap float64) (PathResult, bool) {
	if base.Empty() {
		return PathResult{}, false
	}

	augmented := base.Clone()
	si, startEdge, startSplit := attachPoint(base, augmented, start, snap)
	gi, goalEdge, goalSplit := attachPoint(base, augmented, goal, snap)
	if si < 0 || gi < 0 {
		return PathResult{}, false
	}
	// Обе точки легли на одно ребро: соединяем их напрямую
	if startSplit && goalSplit && startEdge == goalEdge {
		augmented.Connect(si, gi)
	}

	ids, cost, ok := AStar(augmented, si, gi)
	if !ok {
		return PathResult{}, false
	}

	poly := make(orb.LineString, 0, len(ids))
	for _, id := range ids {
		poly = append(poly, augmented.Nodes[id].Pos)
	}
	return PathResult{Polyline: poly, Cost: cost}, true
}
