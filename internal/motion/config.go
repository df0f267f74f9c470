package motion

import "github.com/pkg/errors"

// Config - профиль движения. Шаги заданы на один тик.
type Config struct {
	VStep         float64 `yaml:"v_step"`         // пикселей за тик
	WStep         float64 `yaml:"w_step"`         // радиан за тик
	LookaheadBase float64 `yaml:"lookahead_base"` // базовая дальность точки преследования
	AngTol        float64 `yaml:"ang_tol"`
	ArriveTolPx   float64 `yaml:"arrive_tol_px"`

	// Столько тиков хода без прогресса - и маршрут считается заблокированным
	StuckFrames int `yaml:"stuck_frames"`

	KAlpha      float64 `yaml:"k_alpha"`      // рост дальности от ошибки курса
	ProgressEps float64 `yaml:"progress_eps"` // смещение меньше этого - нет прогресса
}

func DefaultConfig() Config {
	return Config{
		VStep:         2.0,
		WStep:         0.05,
		LookaheadBase: 56.0,
		AngTol:        0.04,
		ArriveTolPx:   10.0,
		StuckFrames:   30,
		KAlpha:        0.7,
		ProgressEps:   0.5,
	}
}

func (c Config) Validate() error {
	if c.VStep <= 0 || c.WStep <= 0 {
		return errors.Errorf("motion: steps must be positive (v_step=%v, w_step=%v)", c.VStep, c.WStep)
	}
	if c.AngTol <= 0 {
		return errors.New("motion: ang_tol must be positive")
	}
	if c.StuckFrames <= 0 {
		return errors.New("motion: stuck_frames must be positive")
	}
	return nil
}
