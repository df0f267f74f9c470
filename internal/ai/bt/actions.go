package bt

import (
	"tankai-server/internal/ai"
	"tankai-server/internal/motion"
	"tankai-server/pkg/geom"
	"tankai-server/pkg/utils"

	"github.com/paulmach/orb"
)

const (
	engageNeededCharge = 1.0
	engageLostGraceSec = 0.30
	engageRearmSec     = 0.05
	chaseRepathPx      = 24.0
	fleeDegeneratePx   = 1.0
)

// moveDone - движение закончилось: приехали, упёрлись или стоим.
func moveDone(st motion.Status) bool {
	return st == motion.StatusArrived || st == motion.StatusBlocked || st == motion.StatusIdle
}

// Patrol едет в случайную достижимую точку. Успех по любому завершению движения.
type Patrol struct {
	env    *Env
	active bool
}

func NewPatrol(env *Env) *Patrol { return &Patrol{env: env} }

func (a *Patrol) Name() string { return "Patrol" }

func (a *Patrol) OnEnter() {
	ai.PatrolToRandomPoint(a.env.GW)
	a.active = true
}

func (a *Patrol) Tick(float64) Status {
	if !a.active {
		return Success
	}
	if moveDone(a.env.GW.MotionStatus()) {
		a.active = false
		return Success
	}
	return Running
}

func (a *Patrol) OnExit() {
	if a.active {
		a.env.GW.CancelMove()
		a.active = false
	}
}

type lookPhase int

const (
	lookIdle lookPhase = iota
	lookRotateA
	lookPause
	lookRotateB
	lookDone
)

// LookAround - осмотр на месте: пауза, поворот, пауза, поворот обратно.
type LookAround struct {
	env      *Env
	phase    lookPhase
	timer    float64
	duration float64
	first    float64
	second   float64
}

func NewLookAround(env *Env) *LookAround { return &LookAround{env: env} }

func (a *LookAround) Name() string { return "LookAround" }

func (a *LookAround) OnEnter() {
	cfg := a.env.Cfg
	a.env.GW.CancelMove()

	a.first = -1
	if utils.Chance(a.env.Rng, cfg.LookSwapDirChance) {
		a.first = 1
	}
	a.second = -a.first

	a.phase = lookIdle
	a.env.BB.LookPhase = int(lookIdle)
	a.timer = 0
	a.duration = utils.RandFloat(a.env.Rng, cfg.LookIdleMin, cfg.LookIdleMax)
}

func (a *LookAround) Tick(dt float64) Status {
	cfg := a.env.Cfg
	a.timer += dt

	switch a.phase {
	case lookIdle:
		if a.timer >= a.duration {
			a.advance(lookRotateA, utils.RandFloat(a.env.Rng, cfg.LookRotateMin, cfg.LookRotateMax))
		}
	case lookRotateA:
		a.env.GW.Turn(a.first)
		if a.timer >= a.duration {
			a.advance(lookPause, utils.RandFloat(a.env.Rng, cfg.LookPauseMin, cfg.LookPauseMax))
		}
	case lookPause:
		if a.timer >= a.duration {
			a.advance(lookRotateB, utils.RandFloat(a.env.Rng, cfg.LookRotateMin, cfg.LookRotateMax))
		}
	case lookRotateB:
		a.env.GW.Turn(a.second)
		if a.timer >= a.duration {
			a.advance(lookDone, 0)
		}
	case lookDone:
		return Success
	}
	return Running
}

func (a *LookAround) advance(next lookPhase, dur float64) {
	a.phase = next
	a.env.BB.LookPhase = int(next)
	a.timer = 0
	a.duration = dur
}

func (a *LookAround) OnExit() {}

// Search едет к последнему известному положению цели.
// Прибытие, тупик, истёкшая память и таймаут дают Failure: родительский
// Selector в том же тике переходит к патрулю.
type Search struct {
	env     *Env
	active  bool
	goal    orb.Point
	hasGoal bool
}

func NewSearch(env *Env) *Search { return &Search{env: env} }

func (a *Search) Name() string { return "Search" }

func (a *Search) OnEnter() {
	bb := a.env.BB
	a.active = false
	a.hasGoal = false
	bb.SearchTimer = 0

	if id, ok := bb.Target(); ok {
		if c, ok := a.env.GW.LastKnown(id); ok {
			a.goal, a.hasGoal = c.Pos, true
		}
	}
	if !a.hasGoal {
		a.goal, a.hasGoal = bb.LastKnown()
	}
	if a.hasGoal {
		a.env.GW.MoveTo(a.goal)
		a.active = true
	}
}

func (a *Search) Tick(dt float64) Status {
	bb := a.env.BB
	if !a.hasGoal {
		return Failure
	}
	bb.SearchTimer += dt

	if id, ok := bb.Target(); ok {
		if _, ok := a.env.GW.LastKnown(id); !ok {
			bb.ClearKnowledge()
			return Failure
		}
	}
	if bb.SearchTimer >= a.env.Cfg.SearchTimeoutSec || moveDone(a.env.GW.MotionStatus()) {
		bb.ClearLastKnown()
		return Failure
	}
	return Running
}

func (a *Search) OnExit() {
	if a.active {
		a.env.GW.CancelMove()
		a.active = false
	}
}

// Engage - погоня вне радиуса атаки, наведение и стрельба полным зарядом внутри.
type Engage struct {
	env *Env

	chasing   bool
	chaseGoal orb.Point
	aiming    bool
	rearming  bool

	rearmTimer   float64
	fireCooldown float64
	lostVisTimer float64
}

func NewEngage(env *Env) *Engage { return &Engage{env: env} }

func (a *Engage) Name() string { return "Engage" }

func (a *Engage) OnEnter() {
	a.chasing, a.aiming, a.rearming = false, false, false
	a.fireCooldown, a.lostVisTimer = 0, 0
	// Заряд копится сразу
	a.env.GW.BeginFire()
}

func (a *Engage) Tick(dt float64) Status {
	gw, bb := a.env.GW, a.env.BB

	id, ok := bb.Target()
	if !ok {
		return Failure
	}

	// 1. Где цель
	var target orb.Point
	havePos := false
	c, visible := bb.TargetVisible()
	if visible {
		target, havePos = c.Pos, true
		a.lostVisTimer = 0
	} else {
		if lk, ok := gw.LastKnown(id); ok {
			target, havePos = lk.Pos, true
		}
		a.lostVisTimer += dt
		if a.lostVisTimer >= engageLostGraceSec {
			return Failure
		}
	}
	if !havePos {
		return Failure
	}

	// 2. Погоня или атака
	d := geom.Dist(bb.Self.Pos, target)
	a.fireCooldown = max(0, a.fireCooldown-dt)

	if d > a.env.Cfg.EngageAttackRadius {
		if a.aiming {
			gw.CancelAim()
			a.aiming = false
		}
		if !a.chasing || gw.MotionStatus() != motion.StatusFollowing || geom.Dist(a.chaseGoal, target) > chaseRepathPx {
			gw.MoveTo(target)
			a.chaseGoal = target
		}
		a.chasing = true
	} else {
		if a.chasing {
			gw.CancelMove()
			a.chasing = false
		}
		if !a.aiming || !gw.IsOnTarget() || visible {
			gw.AimAt(target)
			a.aiming = true
		}

		charged := gw.ChargeAccum() >= engageNeededCharge
		if charged && gw.HasLOS(bb.Self.Pos, target) && gw.IsOnTarget() && a.fireCooldown <= 0 && !a.rearming {
			gw.ReleaseFire()
			a.rearming = true
			a.rearmTimer = engageRearmSec
			a.fireCooldown = a.env.Cfg.FireCadenceSec
		}
	}

	// 3. Перезарядка
	if a.rearming {
		a.rearmTimer -= dt
		if a.rearmTimer <= 0 {
			gw.BeginFire()
			a.rearming = false
		}
	}
	return Running
}

func (a *Engage) OnExit() {
	gw := a.env.GW
	if a.chasing {
		gw.CancelMove()
	}
	if a.aiming {
		gw.CancelAim()
	}
	if gw.IsCharging() {
		gw.ReleaseFire()
	}
	a.chasing, a.aiming, a.rearming = false, false, false
}

// MicroPatrol - осторожный короткий патруль раненого танка.
type MicroPatrol struct {
	env    *Env
	timer  float64
	active bool
}

func NewMicroPatrol(env *Env) *MicroPatrol { return &MicroPatrol{env: env} }

func (a *MicroPatrol) Name() string { return "MicroPatrol" }

func (a *MicroPatrol) OnEnter() {
	a.timer = 0
	a.env.GW.MoveTo(a.env.GW.RandomReachable())
	a.active = true
}

func (a *MicroPatrol) Tick(dt float64) Status {
	if !a.active {
		return Success
	}
	a.timer += dt
	if moveDone(a.env.GW.MotionStatus()) || a.timer >= a.env.Cfg.LowHPMicroPatrolSec {
		a.active = false
		return Success
	}
	return Running
}

func (a *MicroPatrol) OnExit() {
	if a.active {
		a.env.GW.CancelMove()
		a.active = false
	}
}

// Flee уходит от угрозы. Начатое отступление держит флаг Fleeing до
// прибытия, поэтому лечение его не прерывает. После удачного отступления
// следующее возможно только через FleeCooldownSec.
type Flee struct {
	env    *Env
	active bool
	point  orb.Point
}

func NewFlee(env *Env) *Flee { return &Flee{env: env} }

func (a *Flee) Name() string { return "Flee" }

func (a *Flee) OnEnter() {}

func (a *Flee) Tick(float64) Status {
	gw, bb := a.env.GW, a.env.BB

	if !a.active {
		if bb.FleeCooldown > 0 {
			return Failure
		}
		gw.ReleaseFire()
		gw.CancelAim()

		threat, ok := a.resolveThreat()
		if !ok {
			return Failure
		}
		a.point = ai.FindFleeLocation(bb.Self.Pos, threat, true, gw, a.env.Rng)
		if geom.Dist(a.point, bb.Self.Pos) <= fleeDegeneratePx {
			bb.ClearLastKnown()
			return Failure
		}
		gw.MoveTo(a.point)
		a.active = true
		bb.Fleeing = true
		return Running
	}

	if moveDone(gw.MotionStatus()) {
		a.active = false
		bb.Fleeing = false
		bb.FleeCooldown = a.env.Cfg.FleeCooldownSec
		bb.ClearLastKnown()
		return Success
	}
	return Running
}

func (a *Flee) OnExit() {
	if a.active {
		a.env.GW.CancelMove()
		a.active = false
	}
	a.env.BB.Fleeing = false
}

// resolveThreat - видимая цель, иначе последнее известное положение.
func (a *Flee) resolveThreat() (orb.Point, bool) {
	if c, ok := a.env.BB.TargetVisible(); ok {
		return c.Pos, true
	}
	return a.env.BB.LastKnown()
}
