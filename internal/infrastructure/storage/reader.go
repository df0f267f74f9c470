package storage

import "github.com/pkg/errors"

// Matches возвращает все записанные матчи, новые первыми.
func (j *Journal) Matches() ([]MatchRecord, error) {
	var out []MatchRecord
	err := j.db.Select(&out, "SELECT id, seed, arena, tanks, started_at FROM matches ORDER BY started_at DESC, id")
	return out, errors.Wrap(err, "select matches")
}

// Events возвращает события матча в порядке записи.
// agent < 0 - события всех агентов.
func (j *Journal) Events(matchID string, agent int) ([]EventRecord, error) {
	var out []EventRecord
	var err error
	if agent < 0 {
		err = j.db.Select(&out, `SELECT match_id, frame, agent, kind, x, y, target, amount
			FROM events WHERE match_id = ? ORDER BY id`, matchID)
	} else {
		err = j.db.Select(&out, `SELECT match_id, frame, agent, kind, x, y, target, amount
			FROM events WHERE match_id = ? AND agent = ? ORDER BY id`, matchID, agent)
	}
	return out, errors.Wrapf(err, "select events of %s", matchID)
}

// CountByKind - сколько событий каждого типа записано для матча.
func (j *Journal) CountByKind(matchID string) (map[string]int, error) {
	rows := []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}{}
	err := j.db.Select(&rows, "SELECT kind, COUNT(*) AS n FROM events WHERE match_id = ? GROUP BY kind", matchID)
	if err != nil {
		return nil, errors.Wrapf(err, "count events of %s", matchID)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Count
	}
	return out, nil
}
