package sensing

import (
	"tankai-server/internal/domain"

	"github.com/paulmach/orb"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Entry - запись памяти о контакте.
type Entry struct {
	ID          domain.AgentID
	Pos         orb.Point
	Vel         orb.Point
	Age         float64
	Uncertainty float64
	Heard       bool
}

// Store - затухающая память: отдельно увиденное и услышанное.
type Store struct {
	ttl   float64
	seen  map[domain.AgentID]Entry
	heard map[domain.AgentID]Entry
}

func NewStore(ttl float64) *Store {
	return &Store{
		ttl:   ttl,
		seen:  make(map[domain.AgentID]Entry),
		heard: make(map[domain.AgentID]Entry),
	}
}

// RememberSeen обновляет запись о видимом контакте. Скорость оценивается
// по предыдущей записи, если она ещё жива.
func (s *Store) RememberSeen(id domain.AgentID, pos orb.Point) {
	e := Entry{ID: id, Pos: pos}
	if prev, ok := s.seen[id]; ok {
		if prev.Age > 0 {
			e.Vel = orb.Point{(pos[0] - prev.Pos[0]) / prev.Age, (pos[1] - prev.Pos[1]) / prev.Age}
		} else {
			e.Vel = prev.Vel
		}
	}
	s.seen[id] = e
}

// RememberHeard обновляет запись об услышанном источнике.
func (s *Store) RememberHeard(id domain.AgentID, pos orb.Point, uncertainty float64) {
	s.heard[id] = Entry{ID: id, Pos: pos, Uncertainty: uncertainty, Heard: true}
}

// Decay старит записи и удаляет те, что старше TTL.
func (s *Store) Decay(dt float64) {
	decay(s.seen, dt, s.ttl)
	decay(s.heard, dt, s.ttl)
}

func decay(m map[domain.AgentID]Entry, dt, ttl float64) {
	for id, e := range m {
		e.Age += dt
		if e.Age > ttl {
			delete(m, id)
			continue
		}
		m[id] = e
	}
}

// LastKnown выбирает более свежую запись. При равном возрасте побеждает зрение.
func (s *Store) LastKnown(id domain.AgentID) (Entry, bool) {
	seen, okSeen := s.seen[id]
	heard, okHeard := s.heard[id]
	switch {
	case okSeen && okHeard:
		if heard.Age < seen.Age {
			return heard, true
		}
		return seen, true
	case okSeen:
		return seen, true
	case okHeard:
		return heard, true
	}
	return Entry{}, false
}

func (s *Store) Forget(id domain.AgentID) {
	delete(s.seen, id)
	delete(s.heard, id)
}

func (s *Store) Clear() {
	s.seen = make(map[domain.AgentID]Entry)
	s.heard = make(map[domain.AgentID]Entry)
}

func (s *Store) TTL() float64 { return s.ttl }

// Entries возвращает лучшую запись для каждого известного ID, по возрастанию ID.
func (s *Store) Entries() []Entry {
	ids := maps.Keys(s.seen)
	for id := range s.heard {
		if _, ok := s.seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, _ := s.LastKnown(id)
		out = append(out, e)
	}
	return out
}
