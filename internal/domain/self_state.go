package domain

import "github.com/paulmach/orb"

const (
	DefaultRadius = 16.0
	DefaultHP     = 100
)

// SelfState - снимок собственного состояния агента на начало тика.
type SelfState struct {
	Pos    orb.Point
	Rot    float64
	Radius float64
	HP     int
	ID     AgentID
}

// DefaultSelfState возвращает состояние по умолчанию.
func DefaultSelfState() SelfState {
	return SelfState{Radius: DefaultRadius, HP: DefaultHP}
}

// SelfStateOf снимает состояние с физического тела.
func SelfStateOf(a Agent) SelfState {
	return SelfState{
		Pos:    a.Position(),
		Rot:    a.Rotation(),
		Radius: a.Radius(),
		HP:     a.Health(),
		ID:     a.ID(),
	}
}
