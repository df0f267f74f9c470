package motion

type Status uint8

const (
	StatusIdle Status = iota
	StatusFollowing
	StatusArrived
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusFollowing:
		return "following"
	case StatusArrived:
		return "arrived"
	case StatusBlocked:
		return "blocked"
	default:
		return "idle"
	}
}
