// Package gateway - единственная точка доступа слоя решений к сервисам агента:
// навигации, восприятию, движению и бою.
package gateway

import (
	"math"
	"tankai-server/internal/combat"
	"tankai-server/internal/domain"
	"tankai-server/internal/motion"
	"tankai-server/internal/pathfinding"
	"tankai-server/internal/sensing"
	"tankai-server/pkg/geom"
	"tankai-server/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Минимальный интервал между повторами одного звука от одного источника
const (
	bulletRetrigger = 1.0
	tankRetrigger   = 0.5
)

// CandidateSource возвращает всех живых танков матча как кандидатов для зрения.
type CandidateSource func() []domain.Contact

// Projection - результат проекции точки на игровую область.
type Projection struct {
	Projected orb.Point
	Valid     bool
}

// Gateway - фасад одного агента. Сервисы движения, боя и восприятия личные,
// навигация и звуковая шина общие для всех агентов матча.
type Gateway struct {
	pf      *pathfinding.Service
	motion  *motion.Service
	combat  *combat.Service
	sensing *sensing.Service
	bus     *sensing.Bus

	emitSounds bool
	candidates CandidateSource

	self domain.SelfState
	subs Subscriptions

	queue    []Event
	observer func(Event)

	visible     []domain.Contact
	prevVisible map[domain.AgentID]struct{}

	clock     float64
	lastSeq   map[domain.SoundKey]uint64
	lastHeard map[domain.SoundKey]float64

	counts Counts
	log    *logrus.Entry
}

// New собирает шлюз. Любой из личных сервисов может быть nil: соответствующие
// запросы тогда возвращают пустые значения.
func New(pf *pathfinding.Service, mot *motion.Service, sens *sensing.Service, cmb *combat.Service,
	bus *sensing.Bus, emitSounds bool) *Gateway {
	g := &Gateway{
		pf:          pf,
		motion:      mot,
		combat:      cmb,
		sensing:     sens,
		bus:         bus,
		emitSounds:  emitSounds,
		self:        domain.DefaultSelfState(),
		prevVisible: make(map[domain.AgentID]struct{}),
		lastSeq:     make(map[domain.SoundKey]uint64),
		lastHeard:   make(map[domain.SoundKey]float64),
		log:         logger.Component("gateway"),
	}
	if mot != nil {
		mot.SetSoundEnabled(emitSounds && bus != nil)
	}
	return g
}

func (g *Gateway) SetCandidates(src CandidateSource) { g.candidates = src }

func (g *Gateway) SetSubscriptions(subs Subscriptions) { g.subs = subs }

// SetObserver задаёт наблюдателя, который видит каждое доставляемое событие (журнал, телеметрия).
func (g *Gateway) SetObserver(fn func(Event)) { g.observer = fn }

func (g *Gateway) SetSelfState(s domain.SelfState) { g.self = s }

func (g *Gateway) Self() domain.SelfState { return g.self }

// --- События ---

func (g *Gateway) emit(ev Event) {
	switch ev.Kind {
	case EventArrived:
		g.counts.Arrived++
	case EventBlocked:
		g.counts.Blocked++
	case EventSpotted:
		g.counts.Spotted++
	case EventLostSight:
		g.counts.Lost++
	case EventSoundHeard:
		g.counts.Sounds++
	case EventDamage:
		g.counts.Damage++
	}
	g.queue = append(g.queue, ev)
}

// Dispatch доставляет накопленные события подписчикам в порядке поступления.
// События, порождённые обработчиками, уйдут в следующий Dispatch.
func (g *Gateway) Dispatch() int {
	events := g.queue
	g.queue = nil
	for _, ev := range events {
		if g.observer != nil {
			g.observer(ev)
		}
		g.subs.deliver(ev)
	}
	return len(events)
}

// Pending - число недоставленных событий.
func (g *Gateway) Pending() int { return len(g.queue) }

// CollectServiceEvents забирает исходящие события движения и боя.
// Вызывается после исполнения команд в том же тике.
func (g *Gateway) CollectServiceEvents() {
	if g.motion != nil {
		for _, ev := range g.motion.DrainEvents() {
			switch ev.Kind {
			case motion.EventArrived:
				g.emit(Event{Kind: EventArrived, Pos: ev.Pos})
			case motion.EventBlocked:
				g.emit(Event{Kind: EventBlocked, Pos: ev.Pos})
			case motion.EventSound:
				g.pushSound(ev.Pos, ev.Loudness, domain.SoundTank)
			}
		}
	}
	if g.combat != nil {
		for _, f := range g.combat.DrainFired() {
			g.pushSound(f.Pos, f.Loudness, domain.SoundBullet)
		}
	}
}

func (g *Gateway) pushSound(pos orb.Point, loudness float64, kind domain.SoundKind) {
	if !g.emitSounds || g.bus == nil {
		return
	}
	g.bus.Push(g.self.ID, pos, loudness, kind)
}

// NotifyDamage ставит в очередь событие урона.
func (g *Gateway) NotifyDamage(amount int) {
	g.emit(Event{Kind: EventDamage, Amount: amount})
}

// DebugCounts - копия счётчиков событий.
func (g *Gateway) DebugCounts() Counts { return g.counts }

// Reset очищает всё временное состояние. Вызывается при каждом возрождении агента.
func (g *Gateway) Reset() {
	g.queue = nil
	g.visible = nil
	g.prevVisible = make(map[domain.AgentID]struct{})
	g.lastSeq = make(map[domain.SoundKey]uint64)
	g.lastHeard = make(map[domain.SoundKey]float64)
	g.clock = 0
	g.counts = Counts{}
}

// --- Восприятие ---

// TickSensing обновляет восприятие: старит память, находит появившихся и
// пропавших из вида, забирает новые звуки с шины.
func (g *Gateway) TickSensing(dt float64) {
	if g.sensing == nil {
		return
	}
	if g.emitSounds && g.bus == nil {
		panic("gateway: sound emission enabled without an audio bus")
	}
	g.clock += dt
	g.sensing.Update(dt)

	// 1. Видимые сейчас
	var candidates []domain.Contact
	if g.candidates != nil {
		candidates = g.candidates()
	}
	g.visible = g.sensing.VisibleNow(g.self, candidates)

	curr := make(map[domain.AgentID]struct{}, len(g.visible))
	for _, c := range g.visible {
		curr[c.ID] = struct{}{}
	}

	// 2. Разность множеств: появились и пропали
	currIDs := maps.Keys(curr)
	slices.Sort(currIDs)
	for _, id := range currIDs {
		if _, ok := g.prevVisible[id]; !ok {
			g.emit(Event{Kind: EventSpotted, ID: id})
		}
	}
	prevIDs := maps.Keys(g.prevVisible)
	slices.Sort(prevIDs)
	for _, id := range prevIDs {
		if _, ok := curr[id]; !ok {
			g.emit(Event{Kind: EventLostSight, ID: id})
		}
	}
	g.prevVisible = curr

	// 3. Звуки
	if g.bus == nil {
		return
	}
	for _, ev := range g.bus.QueryInRadius(g.self.Pos) {
		if ev.SourceID == g.self.ID {
			continue
		}
		key := domain.PackSoundKey(ev.SourceID, ev.Kind)

		if ev.Seq <= g.lastSeq[key] {
			continue
		}
		g.lastSeq[key] = ev.Seq

		minInterval := tankRetrigger
		if ev.Kind == domain.SoundBullet {
			minInterval = bulletRetrigger
		}
		if last, ok := g.lastHeard[key]; ok && g.clock-last < minInterval {
			continue
		}
		g.lastHeard[key] = g.clock

		if _, seen := curr[ev.SourceID]; !seen {
			g.sensing.RegisterSound(ev.SourceID, ev.Pos, ev.Radius)
		}
		g.emit(Event{Kind: EventSoundHeard, Pos: ev.Pos, Radius: ev.Radius, Sound: ev.Kind})
	}
}

// VisibleEnemies - контакты, видимые на последнем TickSensing.
func (g *Gateway) VisibleEnemies() []domain.Contact {
	return append([]domain.Contact(nil), g.visible...)
}

func (g *Gateway) LastKnown(id domain.AgentID) (domain.Contact, bool) {
	if g.sensing == nil {
		return domain.Contact{}, false
	}
	return g.sensing.LastKnown(id)
}

// Memory - содержимое памяти, для отладки.
func (g *Gateway) Memory() []domain.Contact {
	if g.sensing == nil {
		return nil
	}
	return g.sensing.Memory()
}

func (g *Gateway) HasLOS(a, b orb.Point) bool {
	if g.sensing == nil {
		return false
	}
	return g.sensing.HasLOS(a, b)
}

// --- Навигация ---

// Project прижимает точку к игровой области. Valid - точка была строго внутри.
func (g *Gateway) Project(p orb.Point) Projection {
	cfg := g.pf.Config()
	return Projection{
		Projected: geom.ClampToRect(p, pathfinding.OuterPlayableRect(cfg)),
		Valid:     pathfinding.PointInOuterPlayable(p, cfg),
	}
}

// ProjectToWalkable - ближайшая к p точка графа проходимости.
func (g *Gateway) ProjectToWalkable(p orb.Point) orb.Point {
	return g.pf.ProjectToWalkable(p)
}

// FindPath возвращает маршрут или пустой путь, если его нет.
func (g *Gateway) FindPath(start, goal orb.Point) domain.Path {
	res, ok := g.pf.PlanPath(start, goal)
	if !ok {
		return nil
	}
	return res.Polyline
}

func (g *Gateway) RandomReachable() orb.Point {
	return g.pf.RandomReachablePoint()
}

// --- Намерения ---

// MoveTo запускает движение к цели. Если цель уже рядом - сразу Arrived,
// если маршрута нет - Blocked.
func (g *Gateway) MoveTo(goal orb.Point) {
	if g.motion == nil {
		g.emit(Event{Kind: EventBlocked, Pos: g.self.Pos})
		return
	}

	// 1. Уже на месте
	tol := math.Max(10, 0.5*g.self.Radius)
	if geom.Dist(g.self.Pos, goal) <= tol {
		g.motion.CancelFollow()
		g.emit(Event{Kind: EventArrived, Pos: goal})
		return
	}

	// 2. Планируем
	path := g.FindPath(g.self.Pos, goal)
	if len(path) == 0 {
		g.log.WithFields(logrus.Fields{"agent": g.self.ID, "goal": goal}).Debug("no route")
		g.emit(Event{Kind: EventBlocked, Pos: g.self.Pos})
		return
	}

	// 3. Дальность упреждения примерно в два радиуса разворота
	profile := g.motion.Config()
	profile.LookaheadBase = geom.Clamp(2*g.pf.Config().TurnRadius, 24, 120)
	g.motion.FollowPath(path, profile)
}

func (g *Gateway) MoveToRandom() {
	g.MoveTo(g.RandomReachable())
}

func (g *Gateway) CancelMove() {
	if g.motion != nil {
		g.motion.CancelFollow()
	}
}

func (g *Gateway) Stop() {
	if g.motion != nil {
		g.motion.Stop()
	}
}

// Drive и Turn - прямое управление в обход маршрута, intent в [-1, 1].
func (g *Gateway) Drive(intent float64) {
	if g.motion != nil {
		g.motion.Move(intent)
	}
}

func (g *Gateway) Turn(intent float64) {
	if g.motion != nil {
		g.motion.Rotate(intent)
	}
}

func (g *Gateway) AimAt(target orb.Point) {
	if g.motion != nil {
		g.motion.AimAt(target)
	}
}

func (g *Gateway) CancelAim() {
	if g.motion != nil {
		g.motion.CancelAim()
	}
}

func (g *Gateway) BeginFire() {
	if g.combat != nil {
		g.combat.BeginCharge()
	}
}

func (g *Gateway) ReleaseFire() {
	if g.combat != nil {
		g.combat.Release()
	}
}

// --- Запросы ---

func (g *Gateway) IsAiming() bool { return g.motion != nil && g.motion.IsAiming() }

func (g *Gateway) IsOnTarget() bool { return g.motion != nil && g.motion.IsOnTarget() }

func (g *Gateway) MotionStatus() motion.Status {
	if g.motion == nil {
		return motion.StatusIdle
	}
	return g.motion.Status()
}

func (g *Gateway) IsCharging() bool { return g.combat != nil && g.combat.IsCharging() }

func (g *Gateway) ChargeAccum() float64 {
	if g.combat == nil {
		return 0
	}
	return g.combat.ChargeAccum()
}
