package motion

import (
	"math"
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Command - решение следователя пути на один тик.
// Rotate > 0 увеличивает угол поворота танка.
type Command struct {
	Move      float64
	Rotate    float64
	Status    Status
	Lookahead orb.Point
	// Дальность упреждения, с которой получен Lookahead
	LookaheadDist float64
}

// PathFollower - преследование точки на полилинии (pure pursuit)
// с поворотом на месте перед стартом и доводкой у цели.
type PathFollower struct {
	cfg          Config
	path         orb.LineString
	initialAlign bool
}

func NewPathFollower(cfg Config) *PathFollower {
	return &PathFollower{cfg: cfg}
}

func (f *PathFollower) SetConfig(cfg Config) { f.cfg = cfg }

func (f *PathFollower) Config() Config { return f.cfg }

// SetPath задаёт новый маршрут и включает начальное выравнивание.
func (f *PathFollower) SetPath(p orb.LineString) {
	f.path = append(orb.LineString(nil), p...)
	f.initialAlign = len(p) > 0
}

func (f *PathFollower) Cancel() {
	f.path = nil
	f.initialAlign = false
}

func (f *PathFollower) HasPath() bool { return len(f.path) > 0 }

func (f *PathFollower) Path() orb.LineString { return f.path }

// Tick вычисляет команду для текущего положения танка.
func (f *PathFollower) Tick(self domain.SelfState) Command {
	if len(f.path) == 0 {
		return Command{Status: StatusIdle}
	}

	goal := f.path[len(f.path)-1]

	// 1. Доводка: у цели сначала доворачиваем, потом делаем последний короткий шаг.
	dGoal := geom.Dist(self.Pos, goal)
	if dGoal <= f.cfg.ArriveTolPx {
		alpha := bearingError(self, goal)
		if math.Abs(alpha) > f.cfg.AngTol {
			return Command{Rotate: f.turnStep(alpha), Status: StatusFollowing, Lookahead: goal}
		}
		return Command{Move: math.Min(f.cfg.VStep, dGoal), Status: StatusArrived, Lookahead: goal}
	}

	seg, t, _ := ProjectToPolyline(self.Pos, f.path)

	// 2. Один раз перед стартом разворачиваемся на месте к первой точке упреждения.
	if f.initialAlign {
		seed := math.Max(f.cfg.LookaheadBase, self.Radius+6)
		look0 := AdvanceAlongPolyline(f.path, seg, t, seed)
		alpha0 := bearingError(self, look0)
		if math.Abs(alpha0) > f.cfg.AngTol {
			return Command{Rotate: f.turnStep(alpha0), Status: StatusFollowing, Lookahead: look0, LookaheadDist: seed}
		}
		f.initialAlign = false
	}

	// 3. Pure pursuit. Дальность растёт с ошибкой курса, но не меньше радиуса разворота.
	rMin := math.Max(geom.Eps, f.cfg.VStep/math.Max(geom.Eps, f.cfg.WStep))
	lMin := math.Max(rMin, self.Radius+6)
	lBase := math.Max(f.cfg.LookaheadBase, lMin)
	lMax := math.Max(3*lBase, lMin)

	look := AdvanceAlongPolyline(f.path, seg, t, lBase)
	alpha := bearingError(self, look)

	lEff := geom.Clamp(lBase*(1+f.cfg.KAlpha*math.Abs(alpha)), lMin, lMax)
	if math.Abs(lEff-lBase) > 1e-3 {
		look = AdvanceAlongPolyline(f.path, seg, t, lEff)
		alpha = bearingError(self, look)
	}

	cmd := Command{
		Move:          f.cfg.VStep,
		Status:        StatusFollowing,
		Lookahead:     look,
		LookaheadDist: lEff,
	}
	if math.Abs(alpha) > f.cfg.AngTol {
		cmd.Rotate = f.turnStep(alpha)
	}
	return cmd
}

func (f *PathFollower) turnStep(alpha float64) float64 {
	if alpha > 0 {
		return f.cfg.WStep
	}
	return -f.cfg.WStep
}

// bearingError - угол от текущего курса до направления на точку, в (-π, π].
func bearingError(self domain.SelfState, target orb.Point) float64 {
	d := geom.Sub(target, self.Pos)
	return geom.WrapAngle(math.Atan2(d[1], d[0]) - self.Rot)
}
