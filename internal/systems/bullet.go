package systems

import (
	"tankai-server/internal/domain"

	"github.com/paulmach/orb"
)

const BulletRadius = 4.0

// Bullet живёт, пока не пролетит MaxDistance или не столкнётся.
type Bullet struct {
	Owner       domain.AgentID
	Pos         orb.Point
	Vel         orb.Point
	MaxDistance float64
	Traveled    float64

	leftWall bool
}

func (b *Bullet) Alive() bool { return b.Traveled < b.MaxDistance }

// Kill гасит пулю. Убирается из мира на следующем обновлении.
func (b *Bullet) Kill() { b.Traveled = b.MaxDistance }
