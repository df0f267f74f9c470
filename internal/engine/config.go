package engine

import (
	"os"
	"tankai-server/internal/ai"
	"tankai-server/internal/ai/bt"
	"tankai-server/internal/ai/fsm"
	"tankai-server/internal/motion"
	"tankai-server/internal/pathfinding"
	"tankai-server/internal/sensing"
	"tankai-server/pkg/arena"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ControllerKind - стратегия, которой управляется танк в слоте.
type ControllerKind = ai.Kind

// Предел числа танков в одном матче
const maxAgentsPerMatch = 16

var (
	ErrNoControllers  = errors.New("engine: controller list is empty")
	ErrBadTickRate    = errors.New("engine: tick_rate must be positive")
	ErrUnknownKind    = errors.New("engine: unknown controller kind")
	ErrNegativeBusTTL = errors.New("engine: sound_ttl_sec must be >= 0")
	ErrTooManyAgents  = errors.New("engine: more controllers than supported agents")
)

var defaultControllers = []ControllerKind{ai.KindBT, ai.KindFSM, ai.KindBT, ai.KindFSM}

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно матча. От него зависят все генераторы агентов.
	Seed int64 `yaml:"seed"`
	// TickRate - кадров симуляции в секунду
	TickRate   int  `yaml:"tick_rate"`
	AIEnabled  bool `yaml:"ai_enabled"`
	EmitSounds bool `yaml:"emit_sounds"`
	// SoundTTLSec - время жизни звука на общей шине
	SoundTTLSec float64 `yaml:"sound_ttl_sec"`

	// Controllers - по одному элементу на танк, в порядке слотов появления
	Controllers []ControllerKind `yaml:"controllers"`

	// Arena - путь к YAML-раскладке. Пусто - классическая арена.
	Arena string `yaml:"arena"`

	Pathfinding pathfinding.Config `yaml:"pathfinding"`
	Motion      motion.Config      `yaml:"motion"`
	Sensing     sensing.Config     `yaml:"sensing"`
	BT          bt.Config          `yaml:"bt"`
	FSM         fsm.Config         `yaml:"fsm"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:        time.Now().UnixNano(),
		TickRate:    60,
		AIEnabled:   true,
		EmitSounds:  true,
		SoundTTLSec: sensing.BusTTL,
		Controllers: append([]ControllerKind(nil), defaultControllers...),
		Pathfinding: pathfinding.MatchConfig(arena.Classic()),
		Motion:      motion.DefaultConfig(),
		Sensing:     sensing.DefaultConfig(),
		BT:          bt.DefaultConfig(),
		FSM:         fsm.DefaultConfig(),
	}
}

// LoadConfig накладывает YAML-файл поверх значений по умолчанию.
// Ключи, которых нет в файле, сохраняют значения NewConfig.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// FrameDuration - длительность одного кадра симуляции.
func (c Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate проверяет конфиг движка и всех подсистем.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return ErrBadTickRate
	}
	if c.SoundTTLSec < 0 {
		return ErrNegativeBusTTL
	}
	if len(c.Controllers) == 0 {
		return ErrNoControllers
	}
	if len(c.Controllers) > maxAgentsPerMatch {
		return errors.Wrapf(ErrTooManyAgents, "%d > %d", len(c.Controllers), maxAgentsPerMatch)
	}
	for i, k := range c.Controllers {
		if k != ai.KindBT && k != ai.KindFSM {
			return errors.Wrapf(ErrUnknownKind, "slot %d: %q", i, k)
		}
	}

	checks := []struct {
		name string
		fn   func() error
	}{
		{"pathfinding", c.Pathfinding.Validate},
		{"motion", c.Motion.Validate},
		{"sensing", c.Sensing.Validate},
		{"bt", c.BT.Validate},
		{"fsm", c.FSM.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return errors.Wrap(err, ch.name)
		}
	}
	return nil
}
