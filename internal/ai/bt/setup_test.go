package bt

import (
	"math/rand"
	"os"
	"tankai-server/internal/ai/aitest"
	"tankai-server/pkg/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// scripted - лист с заранее заданными результатами. Последний результат повторяется.
type scripted struct {
	name    string
	results []Status
	ticks   int
	enters  int
	exits   int
}

func leaf(name string, results ...Status) *scripted {
	return &scripted{name: name, results: results}
}

func (s *scripted) Name() string { return s.name }
func (s *scripted) OnEnter()     { s.enters++ }
func (s *scripted) OnExit()      { s.exits++ }

func (s *scripted) Tick(float64) Status {
	i := min(s.ticks, len(s.results)-1)
	s.ticks++
	return s.results[i]
}

func newEnv(gw *aitest.Gateway) *Env {
	return &Env{
		BB:  NewBlackboard(gw),
		GW:  gw,
		Cfg: DefaultConfig(),
		Rng: rand.New(rand.NewSource(7)),
	}
}
