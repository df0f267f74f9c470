package fsm

import (
	"math/rand"
	"tankai-server/internal/ai"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

type Controller struct {
	ai.Base

	cfg  Config
	rng  *rand.Rand
	self domain.SelfState

	stateID StateID
	current State
	states  [stateCount]State

	log *logrus.Entry
}

var _ ai.Controller = (*Controller)(nil)

func NewController(gw ai.Gateway, cfg Config, rng *rand.Rand) *Controller {
	c := &Controller{
		Base: ai.NewBase(gw),
		cfg:  cfg,
		rng:  rng,
		self: domain.DefaultSelfState(),
		log:  logger.Component("fsm").WithField("agent", gw.Self().ID),
	}
	gw.SetSubscriptions(c.subscriptions())
	return c
}

func (c *Controller) Kind() ai.Kind { return ai.KindFSM }

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Self() domain.SelfState { return c.self }

// State - текущее состояние. До первой активации Idle.
func (c *Controller) State() StateID { return c.stateID }

func (c *Controller) DebugState() string { return c.stateID.String() }

// SetActive при включении строит состояния и встаёт в Idle, при выключении
// сразу уходит в Idle.
func (c *Controller) SetActive(on bool) {
	if on == c.Active() {
		return
	}
	c.Base.SetActive(on)
	if on {
		if c.current == nil {
			c.ChangeState(StateIdle)
		}
		c.log.Debug("activated")
		return
	}
	if c.current != nil {
		c.ChangeState(StateIdle)
	}
	c.log.Debug("deactivated")
}

// ChangeState переходит в s. Переход в текущее состояние ничего не делает.
func (c *Controller) ChangeState(s StateID) {
	if c.stateID == s && c.current != nil {
		return
	}
	c.transition(s)
}

// ForceChangeState переходит в s даже из s: OnExit, затем OnEnter.
func (c *Controller) ForceChangeState(s StateID) {
	c.transition(s)
}

func (c *Controller) transition(s StateID) {
	c.ensureStates()
	if s >= stateCount {
		s = StateIdle
	}
	if c.current != nil {
		c.current.OnExit()
	}
	if c.current != nil && c.stateID != s {
		c.log.WithFields(logrus.Fields{"from": c.stateID, "to": s}).Debug("state change")
	}
	c.stateID = s
	c.current = c.states[s]
	// OnEnter может сам перейти дальше, поэтому он последний
	c.current.OnEnter()
}

func (c *Controller) ensureStates() {
	if c.states[StateIdle] != nil {
		return
	}
	c.states = [stateCount]State{
		StateIdle:       &idleState{c: c},
		StatePatrol:     &patrolState{c: c},
		StateLookAround: &lookAroundState{c: c},
		StateEngage:     &engageState{c: c},
		StateSearch:     &searchState{c: c},
		StateFlee:       &fleeState{c: c},
	}
}

func (c *Controller) flee() *fleeState { return c.states[StateFlee].(*fleeState) }

// Update - один шаг решения.
func (c *Controller) Update(dt float64) {
	c.self = c.GW.Self()
	if !c.Active() {
		return
	}
	if c.current == nil {
		c.ChangeState(StateIdle)
	}
	if c.self.HP <= 0 && c.stateID != StateIdle {
		c.ChangeState(StateIdle)
	}
	c.current.Tick(dt)
}

// alive - контроллер включён и танк жив. Иначе состояние уходит в Idle.
func (c *Controller) alive() bool {
	if c.Active() && c.self.HP > 0 {
		return true
	}
	c.ChangeState(StateIdle)
	return false
}

func (c *Controller) subscriptions() gateway.Subscriptions {
	return gateway.Subscriptions{
		OnArrived:   c.onArrived,
		OnBlocked:   c.onBlocked,
		OnSpotted:   c.onSpotted,
		OnLostSight: c.onLostSight,
		OnSound:     c.onSound,
		OnDamage:    c.onDamage,
	}
}

func (c *Controller) onSpotted(id domain.AgentID) {
	if !c.Active() {
		return
	}
	c.HandleSpotted(id)
	if c.stateID == StateFlee {
		c.flee().refresh()
		return
	}
	c.ChangeState(StateEngage)
}

func (c *Controller) onLostSight(id domain.AgentID) {
	if !c.Active() {
		return
	}
	target, ok := c.Target()
	if !ok || target != id {
		return
	}
	c.HandleLostSight(id)
	if c.stateID == StateFlee {
		return
	}
	if _, ok := c.LastKnown(); ok {
		c.ChangeState(StateSearch)
	} else {
		c.ChangeState(StateLookAround)
	}
}

func (c *Controller) onSound(ev gateway.SoundHeard) {
	if !c.Active() {
		return
	}
	c.HandleSound(ev)
	switch c.stateID {
	case StateFlee:
		c.flee().refresh()
	case StateEngage:
	default:
		c.ChangeState(StateSearch)
	}
}

func (c *Controller) onArrived(orb.Point) {
	if !c.Active() {
		return
	}
	if c.stateID == StatePatrol || c.stateID == StateSearch {
		c.ChangeState(StateLookAround)
	}
}

func (c *Controller) onBlocked(orb.Point) {
	if !c.Active() {
		return
	}
	switch c.stateID {
	case StatePatrol:
		c.ForceChangeState(StatePatrol)
	case StateFlee:
		c.flee().refresh()
	}
}

func (c *Controller) onDamage(amount int) {
	if !c.Active() {
		return
	}
	if c.stateID == StateFlee {
		c.flee().refresh()
		return
	}
	c.log.WithField("amount", amount).Debug("damage: fleeing")
	c.ChangeState(StateFlee)
}
