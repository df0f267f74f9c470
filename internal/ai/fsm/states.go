package fsm

import (
	"math"
	"tankai-server/internal/ai"
	"tankai-server/internal/motion"
	"tankai-server/pkg/utils"
)

// idleState гасит движение, наведение и стрельбу и ждёт включения.
type idleState struct{ c *Controller }

func (s *idleState) OnEnter() {
	gw := s.c.GW
	gw.CancelMove()
	gw.CancelAim()
	gw.ReleaseFire()
}

func (s *idleState) Tick(float64) {
	if !s.c.Active() || s.c.self.HP <= 0 {
		return
	}
	s.c.ChangeState(StatePatrol)
}

func (s *idleState) OnExit() {}

// patrolState ездит по случайным точкам и перепланирует, как только не едет.
type patrolState struct{ c *Controller }

func (s *patrolState) OnEnter() { ai.PatrolToRandomPoint(s.c.GW) }

func (s *patrolState) Tick(float64) {
	if !s.c.alive() {
		return
	}
	if s.c.GW.MotionStatus() != motion.StatusFollowing {
		ai.PatrolToRandomPoint(s.c.GW)
	}
}

func (s *patrolState) OnExit() {}

// lookAroundState поворачивается на случайный угол и возвращается в патруль.
type lookAroundState struct {
	c         *Controller
	remaining float64 // радианы
	dir       float64
}

func (s *lookAroundState) OnEnter() {
	cfg := s.c.cfg
	s.c.GW.CancelMove()
	s.remaining = utils.RandFloat(s.c.rng, cfg.LookMinDeg, cfg.LookMaxDeg) * math.Pi / 180
	s.dir = -1
	if utils.Chance(s.c.rng, 0.5) {
		s.dir = 1
	}
}

func (s *lookAroundState) Tick(float64) {
	if !s.c.alive() {
		return
	}
	s.c.GW.Turn(s.dir)
	s.remaining -= min(s.c.cfg.LookStepRad, s.remaining)
	if s.remaining <= 1e-3 {
		s.c.ChangeState(StatePatrol)
	}
}

func (s *lookAroundState) OnExit() {}
