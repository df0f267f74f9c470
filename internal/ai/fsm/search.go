package fsm

import (
	"tankai-server/internal/motion"

	"github.com/paulmach/orb"
)

// searchState едет к лучшему известному положению цели, держа заряд наготове.
type searchState struct {
	c       *Controller
	goal    orb.Point
	hasGoal bool
	elapsed float64
}

func (s *searchState) OnEnter() {
	gw := s.c.GW
	gw.BeginFire()
	s.elapsed = 0
	s.hasGoal = false

	if id, ok := s.c.Target(); ok {
		if lk, ok := gw.LastKnown(id); ok {
			s.goal, s.hasGoal = lk.Pos, true
		}
	}
	if !s.hasGoal {
		s.goal, s.hasGoal = s.c.LastKnown()
	}

	if !s.hasGoal {
		gw.ReleaseFire()
		s.c.ChangeState(StateLookAround)
		return
	}
	gw.MoveTo(s.goal)
}

func (s *searchState) Tick(dt float64) {
	gw := s.c.GW
	if !s.c.Active() || s.c.self.HP <= 0 {
		gw.ReleaseFire()
		s.c.ChangeState(StateIdle)
		return
	}

	if _, ok := s.c.TargetVisible(); ok {
		s.c.ChangeState(StateEngage)
		return
	}

	s.elapsed += dt
	if s.elapsed >= s.c.cfg.SearchTimeoutSec {
		gw.ReleaseFire()
		s.c.ChangeState(StateLookAround)
		return
	}

	switch gw.MotionStatus() {
	case motion.StatusFollowing:
		gw.CancelAim()
	case motion.StatusArrived:
		gw.ReleaseFire()
		s.c.ChangeState(StateLookAround)
	}
}

func (s *searchState) OnExit() {}
