// Package fsm - стратегия на конечном автомате.
//
// Активно ровно одно состояние. Переходы идут в основном от событий шлюза,
// часть состояний сама переключается по условиям в Tick.
package fsm

// StateID - идентификатор состояния автомата.
type StateID uint8

const (
	StateIdle StateID = iota
	StatePatrol
	StateLookAround
	StateEngage
	StateSearch
	StateFlee

	stateCount
)

func (s StateID) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePatrol:
		return "Patrol"
	case StateLookAround:
		return "LookAround"
	case StateEngage:
		return "Engage"
	case StateSearch:
		return "Search"
	case StateFlee:
		return "Flee"
	default:
		return "Unknown"
	}
}

// State - одно состояние автомата.
type State interface {
	OnEnter()
	Tick(dt float64)
	OnExit()
}
