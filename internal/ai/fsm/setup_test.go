package fsm

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

func newActive(gw *aitest.Gateway) *Controller {
	c := NewController(gw, DefaultConfig(), rand.New(rand.NewSource(5)))
	c.SetActive(true)
	return c
}
