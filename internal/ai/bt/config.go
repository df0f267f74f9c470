package bt

import "github.com/pkg/errors"

// Config - тайминги и радиусы дерева поведения.
type Config struct {
	FleeCooldownSec     float64 `yaml:"flee_cooldown_sec"`
	SearchTimeoutSec    float64 `yaml:"search_timeout_sec"`
	FireCadenceSec      float64 `yaml:"fire_cadence_sec"`
	LowHPMicroPatrolSec float64 `yaml:"low_hp_micro_patrol_sec"`

	EngageAttackRadius float64 `yaml:"engage_attack_radius"`
	EngageChaseRadius  float64 `yaml:"engage_chase_radius"`

	LowHPThreshold int `yaml:"low_hp_threshold"`

	// Диапазоны фаз осмотра, секунды
	LookIdleMin   float64 `yaml:"look_idle_min"`
	LookIdleMax   float64 `yaml:"look_idle_max"`
	LookRotateMin float64 `yaml:"look_rotate_min"`
	LookRotateMax float64 `yaml:"look_rotate_max"`
	LookPauseMin  float64 `yaml:"look_pause_min"`
	LookPauseMax  float64 `yaml:"look_pause_max"`

	LookSwapDirChance float64 `yaml:"look_swap_dir_chance"`
}

func DefaultConfig() Config {
	return Config{
		FleeCooldownSec:     4.0,
		SearchTimeoutSec:    3.0,
		FireCadenceSec:      0.35,
		LowHPMicroPatrolSec: 2.0,
		EngageAttackRadius:  240,
		EngageChaseRadius:   300,
		LowHPThreshold:      1,
		LookIdleMin:         0.4,
		LookIdleMax:         0.8,
		LookRotateMin:       0.8,
		LookRotateMax:       1.3,
		LookPauseMin:        0.4,
		LookPauseMax:        0.7,
		LookSwapDirChance:   0.5,
	}
}

func (c Config) Validate() error {
	if c.EngageAttackRadius <= 0 || c.EngageChaseRadius < c.EngageAttackRadius {
		return errors.Errorf("bt: engage radii must satisfy 0 < attack <= chase (attack=%v, chase=%v)",
			c.EngageAttackRadius, c.EngageChaseRadius)
	}
	if c.FireCadenceSec < 0 || c.SearchTimeoutSec <= 0 {
		return errors.New("bt: fire cadence must be >= 0 and search timeout > 0")
	}
	if c.LookIdleMax < c.LookIdleMin || c.LookRotateMax < c.LookRotateMin || c.LookPauseMax < c.LookPauseMin {
		return errors.New("bt: look-around ranges must have max >= min")
	}
	return nil
}
