package pathfinding

import (
	"os"
	"tankai-server/pkg/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
