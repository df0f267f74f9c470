package sensing

import (
	"tankai-server/internal/domain"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// BusEvent - звук на общей шине. Radius - громкость: на каком расстоянии слышно.
type BusEvent struct {
	SourceID domain.AgentID
	Pos      orb.Point
	Radius   float64
	Kind     domain.SoundKind
	Age      float64
	Seq      uint64
}

// Bus - общая для всех агентов звуковая шина. Один экземпляр на матч,
// доступ только из игрового цикла.
type Bus struct {
	ttl    float64
	seq    uint64
	events []BusEvent
}

func NewBus(ttl float64) *Bus {
	return &Bus{ttl: ttl}
}

// Push добавляет событие. Каждое событие получает строго возрастающий номер.
func (b *Bus) Push(src domain.AgentID, pos orb.Point, radius float64, kind domain.SoundKind) BusEvent {
	b.seq++
	ev := BusEvent{SourceID: src, Pos: pos, Radius: radius, Kind: kind, Seq: b.seq}
	b.events = append(b.events, ev)
	return ev
}

// Decay старит события и удаляет просроченные.
func (b *Bus) Decay(dt float64) {
	kept := b.events[:0]
	for _, ev := range b.events {
		ev.Age += dt
		if ev.Age <= b.ttl {
			kept = append(kept, ev)
		}
	}
	b.events = kept
}

// QueryInRadius возвращает события, слышимые в точке p: расстояние
// сравнивается с радиусом самого события.
func (b *Bus) QueryInRadius(p orb.Point) []BusEvent {
	var out []BusEvent
	for _, ev := range b.events {
		if geom.Dist2(p, ev.Pos) <= ev.Radius*ev.Radius {
			out = append(out, ev)
		}
	}
	return out
}

// Forget удаляет все события источника. Номера событий не переиспользуются.
func (b *Bus) Forget(src domain.AgentID) {
	kept := b.events[:0]
	for _, ev := range b.events {
		if ev.SourceID != src {
			kept = append(kept, ev)
		}
	}
	b.events = kept
}

func (b *Bus) Len() int { return len(b.events) }

// Events возвращает копию текущих событий.
func (b *Bus) Events() []BusEvent {
	return append([]BusEvent(nil), b.events...)
}
