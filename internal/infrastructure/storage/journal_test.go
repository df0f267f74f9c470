package storage

import (
	"os"
	"path/filepath"
	"tankai-server/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func openMemory(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournalBatching(t *testing.T) {
	j := openMemory(t)
	j.SetBatchSize(3)
	require.NoError(t, j.StartMatch(MatchRecord{ID: "m1", Seed: 42, Arena: "classic", Tanks: 2}))

	require.NoError(t, j.Record(EventRecord{MatchID: "m1", Frame: 1, Agent: 0, Kind: "SPOTTED", Target: 1}))
	require.NoError(t, j.Record(EventRecord{MatchID: "m1", Frame: 2, Agent: 1, Kind: "DAMAGE", Amount: 1}))
	assert.Equal(t, 2, j.Pending())

	events, err := j.Events("m1", -1)
	require.NoError(t, err)
	assert.Empty(t, events, "batch is not full yet")

	require.NoError(t, j.Record(EventRecord{MatchID: "m1", Frame: 3, Agent: 0, Kind: "ARRIVED", X: 10, Y: 20}))
	assert.Equal(t, 0, j.Pending())

	events, err = j.Events("m1", -1)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "SPOTTED", events[0].Kind)
	assert.Equal(t, uint32(1), events[0].Target)
	assert.Equal(t, uint64(3), events[2].Frame)
	assert.Equal(t, 10.0, events[2].X)
	assert.Equal(t, 20.0, events[2].Y)
}

func TestJournalFilterAndCount(t *testing.T) {
	j := openMemory(t)
	for i, kind := range []string{"SPOTTED", "LOST_SIGHT", "SPOTTED", "SOUND_HEARD"} {
		require.NoError(t, j.Record(EventRecord{MatchID: "m2", Frame: uint64(i), Agent: uint32(i % 2), Kind: kind}))
	}
	require.NoError(t, j.Record(EventRecord{MatchID: "other", Kind: "SPOTTED"}))
	require.NoError(t, j.Flush())

	agent1, err := j.Events("m2", 1)
	require.NoError(t, err)
	require.Len(t, agent1, 2)
	assert.Equal(t, "LOST_SIGHT", agent1[0].Kind)
	assert.Equal(t, "SOUND_HEARD", agent1[1].Kind)

	counts, err := j.CountByKind("m2")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SPOTTED": 2, "LOST_SIGHT": 1, "SOUND_HEARD": 1}, counts)
}

func TestJournalMatches(t *testing.T) {
	j := openMemory(t)
	require.NoError(t, j.StartMatch(MatchRecord{ID: "old", Seed: 1, Arena: "classic", Tanks: 4, StartedAt: 100}))
	require.NoError(t, j.StartMatch(MatchRecord{ID: "new", Seed: 2, Arena: "custom", Tanks: 2, StartedAt: 200}))

	matches, err := j.Matches()
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "new", matches[0].ID)
	assert.Equal(t, "custom", matches[0].Arena)
	assert.Equal(t, int64(1), matches[1].Seed)
}

func TestJournalCloseFlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(EventRecord{MatchID: "m", Frame: 7, Kind: "BLOCKED"}))
	require.NoError(t, j.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Events("m", -1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(7), events[0].Frame)
}
