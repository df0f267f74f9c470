// Package ai - общий слой решений: контракт шлюза, базовый контроллер
// и поведение, разделяемое деревом поведения и конечным автоматом.
package ai

import (
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/internal/motion"

	"github.com/paulmach/orb"
)

// Kind - тип стратегии принятия решений.
type Kind string

const (
	KindFSM Kind = "fsm"
	KindBT  Kind = "bt"
)

// Gateway - всё, что контроллеры могут делать с миром. Реализуется *gateway.Gateway.
type Gateway interface {
	Self() domain.SelfState
	SetSubscriptions(subs gateway.Subscriptions)

	Project(p orb.Point) gateway.Projection
	ProjectToWalkable(p orb.Point) orb.Point
	FindPath(start, goal orb.Point) domain.Path
	RandomReachable() orb.Point

	VisibleEnemies() []domain.Contact
	LastKnown(id domain.AgentID) (domain.Contact, bool)
	HasLOS(a, b orb.Point) bool

	MoveTo(goal orb.Point)
	CancelMove()
	Stop()
	Drive(intent float64)
	Turn(intent float64)
	AimAt(target orb.Point)
	CancelAim()
	BeginFire()
	ReleaseFire()

	IsAiming() bool
	IsOnTarget() bool
	MotionStatus() motion.Status
	IsCharging() bool
	ChargeAccum() float64
}

// Controller - стратегия одного агента.
type Controller interface {
	Kind() Kind
	SetActive(on bool)
	Active() bool
	Update(dt float64)
	// DebugState - короткое описание текущего состояния для телеметрии.
	DebugState() string
}

var _ Gateway = (*gateway.Gateway)(nil)
