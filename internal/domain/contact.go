package domain

import "github.com/paulmach/orb"

type ContactType uint8

const (
	ContactNone ContactType = iota
	ContactTank
	ContactProjectile
	ContactObstacle
)

func (t ContactType) String() string {
	switch t {
	case ContactTank:
		return "tank"
	case ContactProjectile:
		return "projectile"
	case ContactObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// Contact - то, что агент знает о другом объекте.
// LastSeenSec - возраст сведений, Confidence падает от 1 к 0 по мере старения.
type Contact struct {
	ID          AgentID
	Pos         orb.Point
	Vel         orb.Point
	LastSeenSec float64
	Confidence  float64
	Type        ContactType
}
