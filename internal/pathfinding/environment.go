package pathfinding

import (
	"math"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
)

// OuterPlayableRect - игровая область, сжатая на OuterInset (отрицательный отступ считается нулём).
func OuterPlayableRect(cfg Config) orb.Bound {
	inset := math.Max(0, cfg.OuterInset)
	return orb.Bound{
		Min: orb.Point{cfg.PlayableOrigin[0] + inset, cfg.PlayableOrigin[1] + inset},
		Max: orb.Point{
			cfg.PlayableOrigin[0] + cfg.PlayableSize[0] - inset,
			cfg.PlayableOrigin[1] + cfg.PlayableSize[1] - inset,
		},
	}
}

// PointInOuterPlayable - строгая проверка: точка на границе снаружи.
func PointInOuterPlayable(p orb.Point, cfg Config) bool {
	return geom.PointStrictlyInRect(p, OuterPlayableRect(cfg))
}

// InflatedObstacles раздувает все постройки, кроме последней (внешней стены),
// на радиус танка плюс запас.
func InflatedObstacles(structures []arena.Structure, cfg Config) []orb.Bound {
	if len(structures) == 0 {
		return nil
	}
	pad := cfg.TankRadius + cfg.SafetyMargin
	out := make([]orb.Bound, 0, len(structures)-1)
	for _, s := range structures[:len(structures)-1] {
		out = append(out, geom.Inflate(s.Bound(), pad))
	}
	return out
}
