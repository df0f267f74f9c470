package gateway

import (
	"tankai-server/internal/domain"

	"github.com/paulmach/orb"
)

type EventKind uint8

const (
	EventArrived EventKind = iota
	EventBlocked
	EventSpotted
	EventLostSight
	EventSoundHeard
	EventDamage
)

func (k EventKind) String() string {
	switch k {
	case EventArrived:
		return "ARRIVED"
	case EventBlocked:
		return "BLOCKED"
	case EventSpotted:
		return "SPOTTED"
	case EventLostSight:
		return "LOST_SIGHT"
	case EventSoundHeard:
		return "SOUND_HEARD"
	case EventDamage:
		return "DAMAGE"
	default:
		return "UNKNOWN"
	}
}

// Event - типизированное событие для слоя решений.
// Заполнены только поля, имеющие смысл для данного Kind.
type Event struct {
	Kind   EventKind
	Pos    orb.Point      // Arrived: цель, Blocked: где застряли, SoundHeard: источник
	ID     domain.AgentID // Spotted / LostSight
	Radius float64        // SoundHeard: громкость
	Sound  domain.SoundKind
	Amount int // Damage
}

// SoundHeard - услышанный звук, как его видит подписчик.
type SoundHeard struct {
	Center orb.Point
	Radius float64
	Kind   domain.SoundKind
}

// Subscriptions - по одному обработчику на тип события. Пустые обработчики пропускаются.
type Subscriptions struct {
	OnArrived   func(goal orb.Point)
	OnBlocked   func(at orb.Point)
	OnSpotted   func(id domain.AgentID)
	OnLostSight func(id domain.AgentID)
	OnSound     func(ev SoundHeard)
	OnDamage    func(amount int)
}

// Counts - счётчики событий для отладки.
type Counts struct {
	Spotted int `json:"spotted"`
	Lost    int `json:"lost"`
	Sounds  int `json:"sounds"`
	Arrived int `json:"arrived"`
	Blocked int `json:"blocked"`
	Damage  int `json:"damage"`
}

func (s Subscriptions) deliver(ev Event) {
	switch ev.Kind {
	case EventArrived:
		if s.OnArrived != nil {
			s.OnArrived(ev.Pos)
		}
	case EventBlocked:
		if s.OnBlocked != nil {
			s.OnBlocked(ev.Pos)
		}
	case EventSpotted:
		if s.OnSpotted != nil {
			s.OnSpotted(ev.ID)
		}
	case EventLostSight:
		if s.OnLostSight != nil {
			s.OnLostSight(ev.ID)
		}
	case EventSoundHeard:
		if s.OnSound != nil {
			s.OnSound(SoundHeard{Center: ev.Pos, Radius: ev.Radius, Kind: ev.Sound})
		}
	case EventDamage:
		if s.OnDamage != nil {
			s.OnDamage(ev.Amount)
		}
	}
}
