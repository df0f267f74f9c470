package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"tankai-server/internal/engine"
	"tankai-server/internal/pathfinding"
	"tankai-server/pkg/api"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/agents", h.handleAgents)
	mux.HandleFunc("/debug/graph", h.handleGraph)
	mux.HandleFunc("/debug/path", h.handlePath)
}

// /debug/agents - отладочный вид агентов из последнего снимка
func (h *DebugHandler) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Latest().Agents)
}

// /debug/graph - навигационный граф арены
func (h *DebugHandler) handleGraph(w http.ResponseWriter, r *http.Request) {
	pf := h.Service.Match.Pathfinding()
	g := pf.Graph()

	view := api.GraphView{
		Nodes: make([]api.Vec, 0, g.Len()),
		Edges: [][2]int{},
	}
	for _, n := range g.Nodes {
		view.Nodes = append(view.Nodes, api.Vec{X: n.Pos[0], Y: n.Pos[1]})
	}
	for _, e := range g.EdgePairs() {
		view.Edges = append(view.Edges, [2]int{e.A, e.B})
	}
	writeJSON(w, view)
}

// /debug/path?sx=..&sy=..&gx=..&gy=.. - маршрут и его разложение на примитивы
func (h *DebugHandler) handlePath(w http.ResponseWriter, r *http.Request) {
	start, goal, err := parsePathQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pf := h.Service.Match.Pathfinding()
	res, ok := pf.PlanPath(start, goal)
	if !ok {
		writeJSON(w, api.PathView{Found: false})
		return
	}

	poly := pathfinding.Simplify(res.Polyline)
	cfg := pf.Config()
	prims, stats, _ := pathfinding.BuildMotionPrimitives(poly, cfg.TurnRadius, cfg)

	view := api.PathView{
		Found: true,
		Cost:  res.Cost,
		Stats: &api.PrimitiveLog{
			Corners:           stats.CornersConsidered,
			Placed:            stats.PrimsPlaced,
			RejectedShort:     stats.PrimsRejectedShort,
			RejectedClearance: stats.PrimsRejectedClearance,
		},
	}
	for _, p := range poly {
		view.Polyline = append(view.Polyline, api.Vec{X: p[0], Y: p[1]})
	}
	for _, s := range prims.Straights {
		view.Straights = append(view.Straights, [2]api.Vec{
			{X: s.A[0], Y: s.A[1]},
			{X: s.B[0], Y: s.B[1]},
		})
	}
	for _, a := range prims.Arcs {
		view.Arcs = append(view.Arcs, api.ArcView{
			Center:     api.Vec{X: a.Center[0], Y: a.Center[1]},
			Radius:     a.Radius,
			StartAngle: a.StartAngle,
			EndAngle:   a.EndAngle,
			CW:         a.CW,
		})
	}
	writeJSON(w, view)
}

func parsePathQuery(r *http.Request) (orb.Point, orb.Point, error) {
	q := r.URL.Query()
	var vals [4]float64
	for i, key := range []string{"sx", "sy", "gx", "gy"} {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return orb.Point{}, orb.Point{}, errors.Wrapf(err, "bad %s", key)
		}
		vals[i] = v
	}
	return orb.Point{vals[0], vals[1]}, orb.Point{vals[2], vals[3]}, nil
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
