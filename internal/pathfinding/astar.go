package pathfinding

import (
	"container/heap"
	"tankai-server/pkg/geom"
)

// openItem - элемент открытого списка A*.
type openItem struct {
	Node     int
	Priority float64 // f = g + h. Чем меньше, тем раньше раскрываем.
	Seq      int     // порядок вставки, разрешает равенство f
	Index    int     // индекс в куче
}

// openQueue реализует heap.Interface (min-heap по Priority).
type openQueue []*openItem

func (pq openQueue) Len() int { return len(pq) }

func (pq openQueue) Less(i, j int) bool {
	if pq[i].Priority == pq[j].Priority {
		return pq[i].Seq < pq[j].Seq
	}
	return pq[i].Priority < pq[j].Priority
}

func (pq openQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *openQueue) Push(x interface{}) {
	item := x.(*openItem)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *openQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[:n-1]
	return item
}

// AStar ищет кратчайший путь между узлами. Эвристика - евклидово расстояние.
// Узлы из открытого списка не обновляются на месте: устаревшие записи
// пропускаются при извлечении (ленивое закрытое множество).
func AStar(g *Graph, start, goal int) ([]int, float64, bool) {
	if !g.valid(start) || !g.valid(goal) {
		return nil, 0, false
	}
	if start == goal {
		return []int{start}, 0, true
	}

	n := g.Len()
	gScore := make([]float64, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	seen := make([]bool, n)
	for i := range parent {
		parent[i] = -1
	}

	goalPos := g.Nodes[goal].Pos
	h := func(i int) float64 { return geom.Dist(g.Nodes[i].Pos, goalPos) }

	open := make(openQueue, 0, n)
	seq := 0
	heap.Push(&open, &openItem{Node: start, Priority: h(start), Seq: seq})
	seen[start] = true

	for open.Len() > 0 {
		cur := heap.Pop(&open).(*openItem).Node
		if closed[cur] {
			continue
		}
		if cur == goal {
			return reconstruct(parent, goal), gScore[goal], true
		}
		closed[cur] = true

		for _, e := range g.Nodes[cur].Edges {
			if closed[e.To] {
				continue
			}
			tentative := gScore[cur] + e.Cost
			if seen[e.To] && tentative >= gScore[e.To] {
				continue
			}
			seen[e.To] = true
			gScore[e.To] = tentative
			parent[e.To] = cur
			seq++
			heap.Push(&open, &openItem{Node: e.To, Priority: tentative + h(e.To), Seq: seq})
		}
	}

	return nil, 0, false
}

func reconstruct(parent []int, goal int) []int {
	var path []int
	for cur := goal; cur >= 0; cur = parent[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
