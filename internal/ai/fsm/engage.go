package fsm

import (
	"tankai-server/internal/motion"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

const (
	minNeededCharge = 0.25
	chaseRepathPx   = 24.0
)

type engageMode uint8

const (
	modeChase engageMode = iota
	modeAttack
)

// engageState - бой с гистерезисом по дистанции: погоня дальше радиуса
// погони, атака внутри радиуса атаки, между ними режим сохраняется.
// Нужный для выстрела заряд растёт с дистанцией.
type engageState struct {
	c *Controller

	mode      engageMode
	chaseGoal orb.Point
	rearm     bool
	cooldown  float64
}

func (s *engageState) OnEnter() {
	s.c.GW.BeginFire()
	s.mode = modeChase
	s.chaseGoal = orb.Point{}
	s.rearm = false
	s.cooldown = 0
}

func (s *engageState) Tick(dt float64) {
	gw, cfg := s.c.GW, s.c.cfg
	if !s.c.Active() || s.c.self.HP <= 0 {
		gw.ReleaseFire()
		gw.CancelAim()
		gw.Stop()
		s.c.ChangeState(StateIdle)
		return
	}

	s.cooldown = max(0, s.cooldown-dt)
	if s.rearm {
		gw.BeginFire()
		s.rearm = false
	}

	target, ok := s.c.TargetVisible()
	if !ok {
		if id, has := s.c.Target(); has {
			if _, mem := gw.LastKnown(id); mem {
				s.c.ChangeState(StateSearch)
				return
			}
		}
		gw.ReleaseFire()
		s.c.ChangeState(StateLookAround)
		return
	}

	self := s.c.self.Pos
	d := geom.Dist(self, target.Pos)
	switch {
	case d > cfg.EngageChaseRadius:
		s.mode = modeChase
	case d <= cfg.EngageAttackRadius:
		s.mode = modeAttack
	}

	if s.mode == modeChase {
		gw.CancelAim()
		if gw.MotionStatus() != motion.StatusFollowing || geom.Dist(s.chaseGoal, target.Pos) > chaseRepathPx {
			gw.MoveTo(target.Pos)
			s.chaseGoal = target.Pos
		}
		return
	}

	gw.CancelMove()
	gw.AimAt(target.Pos)

	needed := geom.Clamp(d/max(1, cfg.EngageChaseRadius), minNeededCharge, 1)
	if gw.ChargeAccum() >= needed && s.cooldown <= 0 && gw.IsOnTarget() && gw.HasLOS(self, target.Pos) {
		gw.ReleaseFire()
		s.rearm = true
		s.cooldown = cfg.FireCadenceSec
	}
}

func (s *engageState) OnExit() {}
