package ai

import (
	"tankai-server/internal/domain"
	"tankai-server/internal/gateway"

	"github.com/paulmach/orb"
)

// Base хранит общее знание контроллера: текущую цель и её последнее известное
// положение. Конкретные контроллеры встраивают Base и вызывают его обработчики
// из своих подписок.
type Base struct {
	GW Gateway

	active bool

	target    domain.AgentID
	hasTarget bool

	lastKnown    orb.Point
	hasLastKnown bool
}

func NewBase(gw Gateway) Base {
	return Base{GW: gw}
}

// SetActive включает или выключает контроллер. Выключение гасит движение и наведение.
func (b *Base) SetActive(on bool) {
	b.active = on
	if !on {
		b.GW.CancelMove()
		b.GW.CancelAim()
	}
}

func (b *Base) Active() bool { return b.active }

func (b *Base) Target() (domain.AgentID, bool) { return b.target, b.hasTarget }

func (b *Base) SetTarget(id domain.AgentID) {
	b.target = id
	b.hasTarget = true
}

func (b *Base) LastKnown() (orb.Point, bool) { return b.lastKnown, b.hasLastKnown }

func (b *Base) SetLastKnown(p orb.Point) {
	b.lastKnown = p
	b.hasLastKnown = true
}

func (b *Base) ClearLastKnown() { b.hasLastKnown = false }

// ClearKnowledge забывает цель и её положение.
func (b *Base) ClearKnowledge() {
	b.hasTarget = false
	b.hasLastKnown = false
}

// HandleSpotted - цель становится замеченным агентом.
func (b *Base) HandleSpotted(id domain.AgentID) {
	b.SetTarget(id)
	if c, ok := b.GW.LastKnown(id); ok {
		b.SetLastKnown(c.Pos)
	}
}

// HandleLostSight держит последнее положение, пока оно есть в памяти, иначе забывает цель.
func (b *Base) HandleLostSight(id domain.AgentID) {
	if !b.hasTarget || b.target != id {
		return
	}
	if c, ok := b.GW.LastKnown(id); ok {
		b.SetLastKnown(c.Pos)
		return
	}
	b.ClearKnowledge()
}

// HandleSound обновляет последнее положение. Цель по звуку не назначается.
func (b *Base) HandleSound(ev gateway.SoundHeard) {
	b.SetLastKnown(ev.Center)
}

// TargetVisible ищет текущую цель среди видимых.
func (b *Base) TargetVisible() (domain.Contact, bool) {
	if !b.hasTarget {
		return domain.Contact{}, false
	}
	for _, c := range b.GW.VisibleEnemies() {
		if c.ID == b.target {
			return c, true
		}
	}
	return domain.Contact{}, false
}
