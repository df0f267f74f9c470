package pathfinding

import (
	"math/rand"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/geom"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridorLayout - длинный коридор с двумя маленькими препятствиями по краям,
// прямая y=0 между x=0 и x=500 свободна.
func corridorLayout() []arena.Structure {
	return []arena.Structure{
		{Origin: orb.Point{-60, -80}, Size: orb.Point{20, 20}},
		{Origin: orb.Point{540, 60}, Size: orb.Point{20, 20}},
		{Origin: orb.Point{-100, -100}, Size: orb.Point{700, 200}},
	}
}

func corridorService() *Service {
	cfg := Config{
		PlayableOrigin: orb.Point{-100, -100},
		PlayableSize:   orb.Point{700, 200},
		TurnRadius:     40,
	}
	s := NewService(cfg, rand.New(rand.NewSource(1)))
	s.Rebuild(corridorLayout())
	return s
}

func TestPlanPathStraight(t *testing.T) {
	s := corridorService()

	res, ok := s.PlanPath(orb.Point{0, 0}, orb.Point{500, 0})
	require.True(t, ok)

	assert.InDelta(t, 500, res.Cost, 1e-9)
	assert.Equal(t, orb.LineString{{0, 0}, {250, 0}, {500, 0}}, res.Polyline)
	assert.True(t, s.IsReachable(orb.Point{0, 0}, orb.Point{500, 0}))
}

func TestPlanPathDoesNotMutateBaseGraph(t *testing.T) {
	s := corridorService()
	g := s.Graph()
	nodes, edges := g.Len(), g.EdgeCount()

	for i := 0; i < 10; i++ {
		_, ok := s.PlanPath(orb.Point{float64(i * 7), 3}, orb.Point{480 - float64(i*11), -5})
		require.True(t, ok)
	}

	assert.Equal(t, nodes, g.Len())
	assert.Equal(t, edges, g.EdgeCount())
}

func TestPlanPathOnEmptyGraph(t *testing.T) {
	s := NewService(DefaultConfig(), rand.New(rand.NewSource(1)))

	_, ok := s.PlanPath(orb.Point{0, 0}, orb.Point{10, 0})
	assert.False(t, ok)

	// Слишком маленькая игровая область
	cfg := DefaultConfig()
	cfg.PlayableSize = orb.Point{4, 100}
	s.SetConfig(cfg)
	s.Rebuild(corridorLayout())
	assert.True(t, s.Graph().Empty())
	assert.Equal(t, orb.Point{}, s.RandomReachablePoint())
}

func TestPlanPathSnapsToNode(t *testing.T) {
	s := corridorService()

	// (250,0) - узел графа, точка в пределах SnapDistance прилипает к нему
	res, ok := s.PlanPath(orb.Point{245, 10}, orb.Point{500, 0})
	require.True(t, ok)
	assert.Equal(t, orb.Point{250, 0}, res.Polyline[0])
	assert.InDelta(t, 250, res.Cost, 1e-9)
}

func TestPlanPathBothEndsOnOneEdge(t *testing.T) {
	s := corridorService()

	// Обе точки режут ребро (-50,0)-(250,0): маршрут не заходит в его концы
	res, ok := s.PlanPath(orb.Point{0, 0}, orb.Point{100, 0})
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{0, 0}, {100, 0}}, res.Polyline)
	assert.InDelta(t, 100, res.Cost, 1e-9)
}

func TestAStarSameNode(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(orb.Point{1, 1})

	ids, cost, ok := AStar(g, a, a)
	require.True(t, ok)
	assert.Equal(t, []int{a}, ids)
	assert.Zero(t, cost)

	_, _, ok = AStar(g, a, 3)
	assert.False(t, ok)
}

func TestAStarPrefersCheaperRoute(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(orb.Point{0, 0})
	b := g.AddNode(orb.Point{10, 0})
	c := g.AddNode(orb.Point{5, 1})
	d := g.AddNode(orb.Point{5, 40})
	g.Connect(a, c)
	g.Connect(c, b)
	g.Connect(a, d)
	g.Connect(d, b)

	ids, _, ok := AStar(g, a, b)
	require.True(t, ok)
	assert.Equal(t, []int{a, c, b}, ids)
}

func TestAttachPointSplitsEdge(t *testing.T) {
	base := NewGraph()
	a := base.AddNode(orb.Point{0, 0})
	b := base.AddNode(orb.Point{100, 0})
	base.Connect(a, b)

	aug := base.Clone()
	idx := AttachPointToGraph(base, aug, orb.Point{40, 30}, SnapDistance)

	require.Equal(t, 2, idx)
	assert.Equal(t, orb.Point{40, 0}, aug.Nodes[idx].Pos)
	assert.False(t, aug.HasEdge(a, b))
	assert.True(t, aug.HasEdge(a, idx))
	assert.True(t, aug.HasEdge(idx, b))
	assert.True(t, base.HasEdge(a, b))

	// Граф без рёбер
	lonely := NewGraph()
	lonely.AddNode(orb.Point{0, 0})
	assert.Equal(t, -1, AttachPointToGraph(lonely, lonely.Clone(), orb.Point{500, 500}, SnapDistance))
}

func TestProjectToWalkable(t *testing.T) {
	s := corridorService()

	assert.Equal(t, orb.Point{250, 0}, s.ProjectToWalkable(orb.Point{260, 5}))
	assert.Equal(t, orb.Point{100, 0}, s.ProjectToWalkable(orb.Point{100, 30}))
}

func TestRandomReachablePointIsOnGraph(t *testing.T) {
	s := corridorService()
	g := s.Graph()

	for i := 0; i < 50; i++ {
		p := s.RandomReachablePoint()
		assert.Truef(t, onGraph(g, p), "point %v is off graph", p)
	}
}

func onGraph(g *Graph, p orb.Point) bool {
	for _, e := range g.EdgePairs() {
		q, _ := geom.ProjectToSegment(p, g.Nodes[e.A].Pos, g.Nodes[e.B].Pos)
		if geom.Dist(p, q) < 1e-6 {
			return true
		}
	}
	return false
}
