// Package combat управляет зарядом и выстрелом танка.
package combat

import (
	"tankai-server/internal/domain"

	"github.com/paulmach/orb"
)

// Fired - выстрел на отпускании заряда.
type Fired struct {
	Pos      orb.Point
	Charge   float64
	Loudness float64
}

// Service копит заряд, пока он запрошен, и стреляет на отпускании.
type Service struct {
	agent domain.Agent

	want  bool
	prev  bool
	accum float64

	fired []Fired
}

func NewService(agent domain.Agent) *Service {
	return &Service{agent: agent}
}

func (s *Service) BeginCharge() { s.want = true }

func (s *Service) Release() { s.want = false }

func (s *Service) IsCharging() bool { return s.want }

// ChargeAccum - сколько секунд копится текущий заряд.
func (s *Service) ChargeAccum() float64 { return s.accum }

// Tick передаёт намерение телу танка и фиксирует выстрел по спаду запроса.
func (s *Service) Tick(dt float64) {
	s.agent.Shoot(s.want, dt)
	if s.want {
		s.accum += dt
	}
	if s.prev && !s.want {
		s.fired = append(s.fired, Fired{
			Pos:      s.agent.Position(),
			Charge:   s.accum,
			Loudness: domain.LoudnessShot,
		})
		s.accum = 0
	}
	s.prev = s.want
}

// DrainFired отдаёт выстрелы с прошлого вызова.
func (s *Service) DrainFired() []Fired {
	out := s.fired
	s.fired = nil
	return out
}
