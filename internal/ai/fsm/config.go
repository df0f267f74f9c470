package fsm

import "github.com/pkg/errors"

// Config - радиусы и тайминги автомата.
type Config struct {
	// Гистерезис боя: атака не дальше AttackRadius, погоня дальше ChaseRadius
	EngageAttackRadius float64 `yaml:"engage_attack_radius"`
	EngageChaseRadius  float64 `yaml:"engage_chase_radius"`

	SearchTimeoutSec float64 `yaml:"search_timeout_sec"`
	FleeTimeoutSec   float64 `yaml:"flee_timeout_sec"`
	FireCadenceSec   float64 `yaml:"fire_cadence_sec"`

	LookMinDeg  float64 `yaml:"look_min_deg"`
	LookMaxDeg  float64 `yaml:"look_max_deg"`
	LookStepRad float64 `yaml:"look_step_rad"`
}

func DefaultConfig() Config {
	return Config{
		EngageAttackRadius: 240,
		EngageChaseRadius:  300,
		SearchTimeoutSec:   3.5,
		FleeTimeoutSec:     5.0,
		FireCadenceSec:     0.35,
		LookMinDeg:         40,
		LookMaxDeg:         270,
		LookStepRad:        0.05,
	}
}

func (c Config) Validate() error {
	if c.EngageAttackRadius <= 0 || c.EngageChaseRadius < c.EngageAttackRadius {
		return errors.Errorf("fsm: engage radii must satisfy 0 < attack <= chase (attack=%v, chase=%v)",
			c.EngageAttackRadius, c.EngageChaseRadius)
	}
	if c.SearchTimeoutSec <= 0 || c.FleeTimeoutSec <= 0 {
		return errors.New("fsm: search and flee timeouts must be positive")
	}
	if c.LookStepRad <= 0 || c.LookMaxDeg < c.LookMinDeg {
		return errors.New("fsm: look-around step must be positive and max >= min")
	}
	return nil
}
