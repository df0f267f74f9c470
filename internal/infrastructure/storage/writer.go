// Package storage - журнал матчей в SQLite: какие события ИИ
// получил каждый агент и на каком кадре.
package storage

import (
	"sync"
	"tankai-server/pkg/logger"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DefaultBatchSize - сколько событий копится в памяти до записи одной транзакцией.
const DefaultBatchSize = 256

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	seed INTEGER NOT NULL,
	arena TEXT NOT NULL,
	tanks INTEGER NOT NULL,
	started_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id TEXT NOT NULL,
	frame INTEGER NOT NULL,
	agent INTEGER NOT NULL,
	kind TEXT NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	target INTEGER NOT NULL,
	amount INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_match ON events(match_id, frame);
`

// MatchRecord - строка таблицы matches.
type MatchRecord struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Arena     string `db:"arena"`
	Tanks     int    `db:"tanks"`
	StartedAt int64  `db:"started_at"`
}

// EventRecord - одно доставленное контроллеру событие.
type EventRecord struct {
	MatchID string  `db:"match_id"`
	Frame   uint64  `db:"frame"`
	Agent   uint32  `db:"agent"`
	Kind    string  `db:"kind"`
	X       float64 `db:"x"`
	Y       float64 `db:"y"`
	Target  uint32  `db:"target"`
	Amount  int     `db:"amount"`
}

// Journal копит события и пишет их пачками.
type Journal struct {
	mu        sync.Mutex
	db        *sqlx.DB
	pending   []EventRecord
	batchSize int
	written   int

	log *logrus.Entry
}

// Open открывает или создаёт базу по пути. ":memory:" - база в памяти.
func Open(path string) (*Journal, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}
	// Одно соединение: у in-memory базы каждое соединение видит свою копию
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate journal")
	}

	j := &Journal{
		db:        db,
		batchSize: DefaultBatchSize,
		log:       logger.Component("journal").WithField("path", path),
	}
	j.log.Info("journal opened")
	return j, nil
}

// SetBatchSize меняет размер пачки. Значения меньше 1 означают запись каждого события.
func (j *Journal) SetBatchSize(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.batchSize = max(1, n)
}

// StartMatch регистрирует матч.
func (j *Journal) StartMatch(m MatchRecord) error {
	if m.StartedAt == 0 {
		m.StartedAt = time.Now().Unix()
	}
	_, err := j.db.NamedExec(`INSERT OR REPLACE INTO matches (id, seed, arena, tanks, started_at)
		VALUES (:id, :seed, :arena, :tanks, :started_at)`, m)
	return errors.Wrapf(err, "insert match %s", m.ID)
}

// Record добавляет событие в пачку и сбрасывает её, когда она заполнена.
func (j *Journal) Record(rec EventRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pending = append(j.pending, rec)
	if len(j.pending) < j.batchSize {
		return nil
	}
	return j.flushLocked()
}

// Flush записывает накопленные события.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

func (j *Journal) flushLocked() error {
	if len(j.pending) == 0 {
		return nil
	}

	tx, err := j.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`INSERT INTO events
		(match_id, frame, agent, kind, x, y, target, amount)
		VALUES (:match_id, :frame, :agent, :kind, :x, :y, :target, :amount)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, rec := range j.pending {
		if _, err := stmt.Exec(rec); err != nil {
			return errors.Wrapf(err, "insert event frame=%d agent=%d", rec.Frame, rec.Agent)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}

	j.written += len(j.pending)
	j.log.WithFields(logrus.Fields{
		"batch": len(j.pending),
		"total": j.written,
	}).Debug("events flushed")
	j.pending = j.pending[:0]
	return nil
}

// Pending - число событий, ещё не записанных в базу.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Close сбрасывает остаток и закрывает базу.
func (j *Journal) Close() error {
	flushErr := j.Flush()
	if err := j.db.Close(); err != nil {
		return errors.Wrap(err, "close journal")
	}
	return flushErr
}
