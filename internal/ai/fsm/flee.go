package fsm

import (
	"tankai-server/internal/ai"
	"tankai-server/internal/motion"
)

// fleeState уходит от угрозы и держится, пока не доедет или пока
// FleeTimeoutSec не будет новых сведений об угрозе.
type fleeState struct {
	c         *Controller
	sinceHint float64
}

func (s *fleeState) OnEnter() {
	gw := s.c.GW
	gw.ReleaseFire()
	gw.CancelAim()
	s.refresh()
}

// refresh пересчитывает точку отступления и сбрасывает таймер.
func (s *fleeState) refresh() {
	s.sinceHint = 0
	threat, ok := s.c.LastKnown()
	p := ai.FindFleeLocation(s.c.GW.Self().Pos, threat, ok, s.c.GW, s.c.rng)
	s.c.GW.MoveTo(p)
}

func (s *fleeState) Tick(dt float64) {
	if !s.c.alive() {
		return
	}
	s.sinceHint += dt
	if s.c.GW.MotionStatus() == motion.StatusArrived || s.sinceHint >= s.c.cfg.FleeTimeoutSec {
		s.c.ChangeState(StateLookAround)
	}
}

func (s *fleeState) OnExit() { s.c.GW.CancelMove() }
