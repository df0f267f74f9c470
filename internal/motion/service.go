package motion

import (
	"math"
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Период звука двигателя и порог "танк двигался"
const (
	enginePeriodSec = 1.0
	soundMoveEps    = 2.0
)

type EventKind uint8

const (
	EventArrived EventKind = iota
	EventBlocked
	EventSound
)

// Event - исходящее событие сервиса. Забирается вызывающим через DrainEvents.
type Event struct {
	Kind     EventKind
	Pos      orb.Point
	Loudness float64
}

// Service ведёт танк по маршруту и наводит его на цель.
// Наведение и следование не крутят танк одновременно: если есть цель
// наведения, поворот решает она, а ход вперёд остаётся за маршрутом.
type Service struct {
	agent    domain.Agent
	base     Config
	profile  Config
	follower *PathFollower

	status Status
	goal   orb.Point

	aiming    bool
	aimTarget orb.Point

	stuck        int
	soundEnabled bool
	soundTimer   float64
	lastSoundPos orb.Point

	lastCmd Command
	events  []Event
}

func NewService(agent domain.Agent, cfg Config) *Service {
	return &Service{
		agent:        agent,
		base:         cfg,
		profile:      cfg,
		follower:     NewPathFollower(cfg),
		lastSoundPos: agent.Position(),
	}
}

// Config - базовый профиль, от которого считаются профили маршрутов.
func (s *Service) Config() Config { return s.base }

func (s *Service) SetSoundEnabled(on bool) { s.soundEnabled = on }

// FollowPath начинает движение по маршруту с заданным профилем.
func (s *Service) FollowPath(path domain.Path, profile Config) {
	s.profile = profile
	s.follower.SetConfig(profile)
	s.follower.SetPath(path)

	if len(path) > 0 {
		s.goal = path[len(path)-1]
		s.status = StatusFollowing
	} else {
		s.status = StatusIdle
	}
	s.stuck = 0
}

// CancelFollow сбрасывает маршрут без событий.
func (s *Service) CancelFollow() {
	s.follower.Cancel()
	s.status = StatusIdle
	s.stuck = 0
}

// Stop сбрасывает маршрут и гасит ход.
func (s *Service) Stop() {
	s.CancelFollow()
	s.Move(0)
}

// Move - прямое управление ходом, intent в [-1, 1].
func (s *Service) Move(intent float64) {
	if intent == 0 {
		return
	}
	s.agent.Move(intent * s.profile.VStep)
}

// Rotate - прямое управление поворотом, intent в [-1, 1].
func (s *Service) Rotate(intent float64) {
	if intent == 0 {
		return
	}
	s.agent.Rotate(intent * s.profile.WStep)
}

// AimAt задаёт цель наведения. Текущий маршрут сбрасывается.
func (s *Service) AimAt(p orb.Point) {
	s.aiming = true
	s.aimTarget = p
	s.follower.Cancel()
	s.status = StatusIdle
}

func (s *Service) CancelAim() { s.aiming = false }

func (s *Service) IsAiming() bool { return s.aiming }

func (s *Service) AimTarget() (orb.Point, bool) { return s.aimTarget, s.aiming }

// IsOnTarget - ошибка наведения в пределах допуска.
func (s *Service) IsOnTarget() bool {
	if !s.aiming {
		return false
	}
	return math.Abs(s.aimError()) <= s.profile.AngTol
}

func (s *Service) Status() Status { return s.status }

func (s *Service) Goal() orb.Point { return s.goal }

func (s *Service) Path() orb.LineString { return s.follower.Path() }

// Lookahead - текущая точка упреждения, если есть маршрут.
func (s *Service) Lookahead() (orb.Point, float64, bool) {
	if !s.follower.HasPath() {
		return orb.Point{}, 0, false
	}
	return s.lastCmd.Lookahead, s.lastCmd.LookaheadDist, true
}

// DrainEvents отдаёт накопленные события и очищает очередь.
func (s *Service) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// Tick выполняет один шаг управления.
func (s *Service) Tick(dt float64) {
	s.soundTimer += dt

	cmd := s.follower.Tick(domain.SelfStateOf(s.agent))
	s.lastCmd = cmd

	// 1. Поворот: наведение перекрывает поворот от маршрута
	rotate := cmd.Rotate
	if s.aiming {
		rotate = 0
		if diff := s.aimError(); math.Abs(diff) > s.profile.AngTol {
			rotate = s.profile.WStep
			if diff < 0 {
				rotate = -s.profile.WStep
			}
		}
	}

	// 2. Применяем команды
	before := s.agent.Position()
	if rotate != 0 {
		s.agent.Rotate(rotate)
	}
	if cmd.Move != 0 {
		s.agent.Move(cmd.Move)
	}
	after := s.agent.Position()

	// 3. Звук двигателя с постоянной периодичностью
	if s.soundEnabled && s.soundTimer >= enginePeriodSec {
		s.soundTimer = 0
		loud := domain.LoudnessIdle
		if geom.Dist(s.lastSoundPos, after) > soundMoveEps {
			loud = domain.LoudnessMoving
		}
		s.lastSoundPos = after
		s.events = append(s.events, Event{Kind: EventSound, Pos: after, Loudness: loud})
	}

	// 4. Прибытие сообщается один раз
	if cmd.Status == StatusArrived && s.status != StatusArrived {
		s.events = append(s.events, Event{Kind: EventArrived, Pos: s.goal})
		s.follower.Cancel()
		s.status = StatusArrived
		s.stuck = 0
		return
	}

	// 5. Застревание: считаем только тики с командой хода
	if math.Abs(cmd.Move) > geom.Eps {
		if geom.Dist(before, after) <= s.profile.ProgressEps {
			s.stuck++
			if s.stuck >= s.profile.StuckFrames {
				s.follower.Cancel()
				s.events = append(s.events, Event{Kind: EventBlocked, Pos: after})
				s.status = StatusBlocked
				s.stuck = 0
				return
			}
		} else {
			s.stuck = 0
		}
	}

	// 6. Нетерминальные переходы
	if cmd.Status != s.status {
		s.status = cmd.Status
	} else if s.status == StatusArrived && !s.follower.HasPath() {
		s.status = StatusIdle
	}
}

func (s *Service) aimError() float64 {
	d := geom.Sub(s.aimTarget, s.agent.Position())
	return geom.WrapAngle(math.Atan2(d[1], d[0]) - s.agent.Rotation())
}
