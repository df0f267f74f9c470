package engine

import (
	"os"
	"tankai-server/internal/ai"
	"tankai-server/pkg/arena"
	"tankai-server/pkg/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testConfig(kinds ...ControllerKind) Config {
	cfg := NewConfig()
	cfg.Seed = 1
	if len(kinds) > 0 {
		cfg.Controllers = kinds
	}
	return cfg
}

func newTestMatch(t *testing.T, kinds ...ControllerKind) *Match {
	t.Helper()
	if len(kinds) == 0 {
		kinds = []ControllerKind{ai.KindBT, ai.KindFSM}
	}
	return NewMatchWithLayout(testConfig(kinds...), arena.Classic())
}

func runFrames(m *Match, n int) {
	dt := 1 / float64(m.cfg.TickRate)
	for i := 0; i < n; i++ {
		m.Tick(dt)
	}
}
