package pathfinding

import (
	"math/rand"
	"sync"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/geom"
	"tankai-server/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// Service хранит базовый граф арены и отвечает на запросы маршрутов.
// После Rebuild граф только читается, поэтому запросы безопасны из
// отладочных HTTP-обработчиков.
type Service struct {
	mu        sync.RWMutex
	cfg       Config
	graph     *Graph
	obstacles []orb.Bound

	rng *rand.Rand
	log *logrus.Entry
}

func NewService(cfg Config, rng *rand.Rand) *Service {
	return &Service{
		cfg:   cfg,
		graph: NewGraph(),
		rng:   rng,
		log:   logger.Component("pathfinding"),
	}
}

func (s *Service) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Graph возвращает базовый граф. Вызывающий не должен его менять.
func (s *Service) Graph() *Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Obstacles возвращает раздутые препятствия, по которым строился граф.
func (s *Service) Obstacles() []orb.Bound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.obstacles
}

// Rebuild перестраивает граф по постройкам арены (последняя - внешняя стена).
func (s *Service) Rebuild(structures []arena.Structure) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = NewGraph()
	s.obstacles = nil
	if len(structures) == 0 {
		s.log.Warn("rebuild skipped: no structures")
		return
	}

	outer := OuterPlayableRect(s.cfg)
	if outer.Max[0] <= outer.Min[0]+4 || outer.Max[1] <= outer.Min[1]+4 {
		s.log.WithField("outer", outer).Warn("rebuild skipped: playable area too small")
		return
	}

	s.obstacles = InflatedObstacles(structures, s.cfg)
	s.graph = BuildCenterlineGraph(outer, s.obstacles)

	s.log.WithFields(logrus.Fields{
		"nodes": s.graph.Len(),
		"edges": s.graph.EdgeCount(),
	}).Info("navigation graph rebuilt")
}

// PlanPath прокладывает маршрут от start до goal.
func (s *Service) PlanPath(start, goal orb.Point) (PathResult, bool) {
	g := s.Graph()
	res, ok := FindAttachedPath(g, start, goal, SnapDistance)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"start": start,
			"goal":  goal,
		}).Debug("no path")
	}
	return res, ok
}

// IsReachable - есть ли маршрут между точками.
func (s *Service) IsReachable(start, goal orb.Point) bool {
	_, ok := s.PlanPath(start, goal)
	return ok
}

// ProjectToWalkable переносит точку на граф: к первому узлу в радиусе
// привязки или к ближайшей точке ближайшего ребра.
func (s *Service) ProjectToWalkable(p orb.Point) orb.Point {
	g := s.Graph()
	if g.Empty() {
		return p
	}

	snap2 := SnapDistance * SnapDistance
	for _, node := range g.Nodes {
		if geom.Dist2(node.Pos, p) <= snap2 {
			return node.Pos
		}
	}

	if _, proj, ok := closestEdge(g, p); ok {
		return proj
	}
	return p
}

// RandomReachablePoint - случайная точка игровой области, перенесённая на граф.
func (s *Service) RandomReachablePoint() orb.Point {
	g := s.Graph()
	if g.Empty() {
		return orb.Point{}
	}

	r := OuterPlayableRect(s.Config())
	p := orb.Point{
		r.Min[0] + s.rng.Float64()*(r.Max[0]-r.Min[0]),
		r.Min[1] + s.rng.Float64()*(r.Max[1]-r.Min[1]),
	}
	return s.ProjectToWalkable(p)
}
