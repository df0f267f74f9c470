package pathfinding

import (
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Edge - направленное ребро. Граф держит оба направления с одинаковой ценой.
type Edge struct {
	To   int
	Cost float64
}

type Node struct {
	Pos   orb.Point
	Edges []Edge
}

// EdgePair - неориентированное ребро, A < B.
type EdgePair struct {
	A, B int
}

// Graph - граф проходимости со списками смежности.
type Graph struct {
	Nodes []Node
}

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) Len() int { return len(g.Nodes) }

func (g *Graph) Empty() bool { return len(g.Nodes) == 0 }

func (g *Graph) Clear() { g.Nodes = g.Nodes[:0] }

// AddNode добавляет узел и возвращает его индекс.
func (g *Graph) AddNode(p orb.Point) int {
	g.Nodes = append(g.Nodes, Node{Pos: p})
	return len(g.Nodes) - 1
}

func (g *Graph) valid(i int) bool { return i >= 0 && i < len(g.Nodes) }

// HasEdge проверяет наличие ребра a -> b.
func (g *Graph) HasEdge(a, b int) bool {
	if !g.valid(a) {
		return false
	}
	for _, e := range g.Nodes[a].Edges {
		if e.To == b {
			return true
		}
	}
	return false
}

// AddEdge добавляет ребро в обе стороны. Петли и неверные индексы игнорируются,
// повторное ребро не дублируется.
func (g *Graph) AddEdge(a, b int, cost float64) {
	if !g.valid(a) || !g.valid(b) || a == b {
		return
	}
	if !g.HasEdge(a, b) {
		g.Nodes[a].Edges = append(g.Nodes[a].Edges, Edge{To: b, Cost: cost})
	}
	if !g.HasEdge(b, a) {
		g.Nodes[b].Edges = append(g.Nodes[b].Edges, Edge{To: a, Cost: cost})
	}
}

// Connect добавляет ребро с евклидовой ценой.
func (g *Graph) Connect(a, b int) {
	if !g.valid(a) || !g.valid(b) {
		return
	}
	g.AddEdge(a, b, geom.Dist(g.Nodes[a].Pos, g.Nodes[b].Pos))
}

// RemoveEdge удаляет ребро в обе стороны.
func (g *Graph) RemoveEdge(a, b int) {
	if !g.valid(a) || !g.valid(b) {
		return
	}
	g.Nodes[a].Edges = withoutEdge(g.Nodes[a].Edges, b)
	g.Nodes[b].Edges = withoutEdge(g.Nodes[b].Edges, a)
}

func withoutEdge(edges []Edge, to int) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.To != to {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount - число неориентированных рёбер.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.Nodes {
		n += len(node.Edges)
	}
	return n / 2
}

// EdgePairs возвращает каждое ребро один раз (A < B).
func (g *Graph) EdgePairs() []EdgePair {
	var out []EdgePair
	for a, node := range g.Nodes {
		for _, e := range node.Edges {
			if a < e.To {
				out = append(out, EdgePair{A: a, B: e.To})
			}
		}
	}
	return out
}

// Clone делает глубокую копию. Запросы пути работают только с копией.
func (g *Graph) Clone() *Graph {
	c := &Graph{Nodes: make([]Node, len(g.Nodes))}
	for i, node := range g.Nodes {
		c.Nodes[i] = Node{Pos: node.Pos, Edges: append([]Edge(nil), node.Edges...)}
	}
	return c
}
