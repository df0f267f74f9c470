package bt

import (
	"tankai-server/internal/ai"
	"tankai-server/internal/domain"
)

// Blackboard - общая память узлов дерева. Знание о цели берётся из ai.Base.
type Blackboard struct {
	ai.Base

	Self domain.SelfState

	DamagedTimer float64 // с последнего урона
	SoundTimer   float64 // с последнего услышанного звука
	SearchTimer  float64 // сколько длится текущий поиск
	LookPhase    int

	// Fleeing - отступление начато и ещё не закончено
	Fleeing      bool
	FleeCooldown float64
}

func NewBlackboard(gw ai.Gateway) *Blackboard {
	return &Blackboard{Base: ai.NewBase(gw), Self: domain.DefaultSelfState()}
}

// ClearTransient сбрасывает таймеры и флаги, знание о цели остаётся.
func (b *Blackboard) ClearTransient() {
	b.DamagedTimer = 0
	b.SoundTimer = 0
	b.SearchTimer = 0
	b.LookPhase = 0
	b.Fleeing = false
	b.FleeCooldown = 0
}

func (b *Blackboard) ClearAll() {
	b.ClearTransient()
	b.ClearKnowledge()
}
