package pathfinding

import (
	"tankai-server/pkg/arena"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// SnapDistance - радиус, в котором точка прилипает к существующему узлу графа.
const SnapDistance = 24.0

// Config - параметры построения графа проходимости.
type Config struct {
	// Игровая область (обычно совпадает с внешней стеной арены)
	PlayableOrigin orb.Point `yaml:"-"`
	PlayableSize   orb.Point `yaml:"-"`

	TankRadius   float64 `yaml:"tank_radius"`
	SafetyMargin float64 `yaml:"safety_margin"`
	OuterInset   float64 `yaml:"outer_inset"`
	TurnRadius   float64 `yaml:"turn_radius"`
}

// DefaultConfig возвращает базовые значения.
func DefaultConfig() Config {
	return Config{
		TankRadius:   20,
		SafetyMargin: 6,
		OuterInset:   0,
		TurnRadius:   40,
	}
}

// MatchConfig - настройка, с которой работает матч на реальной арене:
// танки крупнее базовых, а от стены держится отступ.
func MatchConfig(layout arena.Layout) Config {
	boundary := layout.Boundary()
	return Config{
		PlayableOrigin: boundary.Origin,
		PlayableSize:   boundary.Size,
		TankRadius:     32,
		SafetyMargin:   6,
		OuterInset:     38,
		TurnRadius:     28,
	}
}

// WithPlayable возвращает копию конфига с игровой областью по внешней стене.
func (c Config) WithPlayable(layout arena.Layout) Config {
	boundary := layout.Boundary()
	c.PlayableOrigin = boundary.Origin
	c.PlayableSize = boundary.Size
	return c
}

// Validate проверяет конфиг на явные ошибки.
func (c Config) Validate() error {
	if c.TankRadius < 0 {
		return errors.Errorf("pathfinding: tank_radius must be >= 0, got %v", c.TankRadius)
	}
	if c.SafetyMargin < 0 {
		return errors.Errorf("pathfinding: safety_margin must be >= 0, got %v", c.SafetyMargin)
	}
	if c.TurnRadius <= 0 {
		return errors.Errorf("pathfinding: turn_radius must be > 0, got %v", c.TurnRadius)
	}
	return nil
}
