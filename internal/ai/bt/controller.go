package bt

import (
	"math/rand"
	"strings"
	"tankai-server/internal/ai"
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"
	"tankai-server/pkg/logger"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// TreeBuilder строит дерево для окружения контроллера.
type TreeBuilder func(env *Env) Node

// Controller - стратегия на дереве поведения. Дерево строится при первой
// активации и живёт до конца жизни контроллера.
type Controller struct {
	env      *Env
	bb       *Blackboard
	builder  TreeBuilder
	root     Node
	wasAlive bool
	log      *logrus.Entry
}

var _ ai.Controller = (*Controller)(nil)

func NewController(gw ai.Gateway, cfg Config, rng *rand.Rand) *Controller {
	bb := NewBlackboard(gw)
	c := &Controller{
		env:      &Env{BB: bb, GW: gw, Cfg: cfg, Rng: rng},
		bb:       bb,
		builder:  BuildCombatTree,
		wasAlive: true,
		log:      logger.Component("bt").WithField("agent", gw.Self().ID),
	}
	gw.SetSubscriptions(c.subscriptions())
	return c
}

// SetTreeBuilder подменяет дерево. Действует до первой активации.
func (c *Controller) SetTreeBuilder(b TreeBuilder) { c.builder = b }

func (c *Controller) Kind() ai.Kind { return ai.KindBT }

func (c *Controller) Active() bool { return c.bb.Active() }

func (c *Controller) Blackboard() *Blackboard { return c.bb }

func (c *Controller) Root() Node { return c.root }

func (c *Controller) SetActive(on bool) {
	if on == c.bb.Active() {
		return
	}
	c.bb.SetActive(on)
	if on {
		c.ensureTree()
		c.root.OnEnter()
		c.log.Debug("activated")
		return
	}
	if c.root != nil {
		c.root.OnExit()
	}
	c.bb.ClearTransient()
	c.log.Debug("deactivated")
}

func (c *Controller) ensureTree() {
	if c.root == nil {
		c.root = c.builder(c.env)
	}
}

// Update - один шаг решения.
func (c *Controller) Update(dt float64) {
	if !c.Active() {
		return
	}
	self := c.env.GW.Self()
	alive := self.HP > 0

	// 1. Переходы жизни и смерти
	if !c.wasAlive && alive {
		c.bb.ClearAll()
		c.ensureTree()
		c.root.OnExit()
		c.root.OnEnter()
	}
	if c.wasAlive && !alive {
		c.bb.ClearAll()
		if c.root != nil {
			c.root.OnExit()
		}
	}
	c.wasAlive = alive

	// 2. Зеркало и таймеры
	c.bb.Self = self
	c.bb.SoundTimer += dt
	c.bb.DamagedTimer += dt
	c.bb.FleeCooldown = max(0, c.bb.FleeCooldown-dt)

	c.ensureTree()
	if alive {
		c.root.Tick(dt)
	}
}

// CurrentPath - имена узлов активной ветви.
func (c *Controller) CurrentPath() []string {
	if c.root == nil {
		return nil
	}
	nodes := ActivePath(c.root)
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	return names
}

func (c *Controller) DebugState() string {
	if c.root == nil {
		return "NoTree"
	}
	return strings.Join(c.CurrentPath(), "/")
}

func (c *Controller) subscriptions() gateway.Subscriptions {
	return gateway.Subscriptions{
		OnArrived: func(orb.Point) {},
		OnBlocked: func(orb.Point) {},
		OnSpotted: func(id domain.AgentID) {
			if c.Active() {
				c.bb.HandleSpotted(id)
			}
		},
		OnLostSight: func(id domain.AgentID) {
			if c.Active() {
				c.bb.HandleLostSight(id)
			}
		},
		OnSound: func(ev gateway.SoundHeard) {
			if c.Active() {
				c.bb.HandleSound(ev)
				c.bb.SoundTimer = 0
			}
		},
		OnDamage: func(amount int) {
			if !c.Active() {
				return
			}
			c.bb.DamagedTimer = 0
			c.log.WithField("amount", amount).Debug("damage: re-evaluating tree")
			// Полный перезапуск с корня
			if c.root != nil {
				c.root.OnExit()
				c.root.OnEnter()
			}
		},
	}
}
