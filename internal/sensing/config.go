package sensing

import (
	"math"

	"github.com/pkg/errors"
)

// Время жизни событий на звуковой шине, секунд
const BusTTL = 1.5

type Config struct {
	FOVDeg       float64 `yaml:"fov_deg"`
	ViewDistance float64 `yaml:"view_distance"`
	MemoryTTL    float64 `yaml:"memory_ttl"`
}

func DefaultConfig() Config {
	return Config{
		FOVDeg:       120,
		ViewDistance: 600,
		MemoryTTL:    5,
	}
}

// CosHalfFOV - косинус половины угла обзора.
func (c Config) CosHalfFOV() float64 {
	return math.Cos(c.FOVDeg * math.Pi / 180 / 2)
}

func (c Config) Validate() error {
	if c.FOVDeg <= 0 || c.FOVDeg > 360 {
		return errors.Errorf("sensing: fov_deg must be in (0, 360], got %v", c.FOVDeg)
	}
	if c.ViewDistance <= 0 {
		return errors.Errorf("sensing: view_distance must be positive, got %v", c.ViewDistance)
	}
	if c.MemoryTTL <= 0 {
		return errors.Errorf("sensing: memory_ttl must be positive, got %v", c.MemoryTTL)
	}
	return nil
}
