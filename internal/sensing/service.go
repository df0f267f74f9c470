// Package sensing отвечает за восприятие агента: зрение, слух и память о контактах.
package sensing

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// Service - восприятие одного агента.
type Service struct {
	cfg       Config
	obstacles []orb.Bound
	store     *Store
}

// NewService создаёт восприятие. obstacles - препятствия арены без внешней стены.
func NewService(cfg Config, obstacles []orb.Bound) *Service {
	return &Service{
		cfg:       cfg,
		obstacles: obstacles,
		store:     NewStore(cfg.MemoryTTL),
	}
}

func (s *Service) Config() Config { return s.cfg }

// Update старит память.
func (s *Service) Update(dt float64) {
	s.store.Decay(dt)
}

// VisibleNow отбирает видимых кандидатов и обновляет о них память.
func (s *Service) VisibleNow(self domain.SelfState, candidates []domain.Contact) []domain.Contact {
	var out []domain.Contact
	for _, c := range candidates {
		if c.ID == self.ID || !CanSee(self, c.Pos, s.cfg, s.obstacles) {
			continue
		}
		s.store.RememberSeen(c.ID, c.Pos)
		e, _ := s.store.LastKnown(c.ID)

		c.Vel = e.Vel
		c.LastSeenSec = 0
		c.Confidence = 1
		out = append(out, c)
	}
	return out
}

// RegisterSound запоминает услышанный источник. Неточность равна громкости.
func (s *Service) RegisterSound(src domain.AgentID, pos orb.Point, radius float64) {
	s.store.RememberHeard(src, pos, radius)
}

func (s *Service) Forget(id domain.AgentID) { s.store.Forget(id) }

// Reset очищает всю память.
func (s *Service) Reset() { s.store.Clear() }

// LastKnown - последнее известное положение контакта.
func (s *Service) LastKnown(id domain.AgentID) (domain.Contact, bool) {
	e, ok := s.store.LastKnown(id)
	if !ok {
		return domain.Contact{}, false
	}
	return s.contactOf(e), true
}

// Memory - все записи памяти в виде контактов, для отладки.
func (s *Service) Memory() []domain.Contact {
	entries := s.store.Entries()
	out := make([]domain.Contact, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.contactOf(e))
	}
	return out
}

func (s *Service) HasLOS(a, b orb.Point) bool {
	return HasLOS(a, b, s.obstacles)
}

// contactOf переводит запись памяти в контакт. Уверенность падает линейно
// с возрастом записи, услышанное вдвое менее надёжно увиденного.
func (s *Service) contactOf(e Entry) domain.Contact {
	conf := geom.Clamp(1-e.Age/s.cfg.MemoryTTL, 0, 1)
	if e.Heard {
		conf *= 0.5
	}
	return domain.Contact{
		ID:          e.ID,
		Pos:         e.Pos,
		Vel:         e.Vel,
		LastSeenSec: e.Age,
		Confidence:  conf,
		Type:        domain.ContactTank,
	}
}
