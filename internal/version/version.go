package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
)

// Заполняются через -ldflags "-X tankai-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Protocol - версия формата снимков и команд зрителя.
const Protocol = 1

// Номер сборки считается в днях от этой даты
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

var (
	ErrNoBuildDate = errors.New("build date is not set")
	ErrBeforeEpoch = errors.New("build date is before epoch")
)

// Build - метаданные сборки, как их отдаёт /version.
type Build struct {
	Number    int    `json:"build"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch,omitempty"`
	GoVersion string `json:"go"`
	Protocol  int    `json:"protocol"`
	Dirty     bool   `json:"dirty,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BuildNumber переводит дату сборки в номер: дни от buildEpoch.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, ErrNoBuildDate
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(err, "parse build date %q", date)
	}
	if t.Before(buildEpoch) {
		return 0, errors.Wrap(ErrBeforeEpoch, date)
	}
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает метаданные. Коммит без -ldflags берётся из vcs-настроек,
// которые go build вшивает в бинарник.
func Info() Build {
	b := Build{
		Date:      BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		GoVersion: runtime.Version(),
		Protocol:  Protocol,
	}

	if b.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					b.Commit = s.Value
				case "vcs.modified":
					b.Dirty = s.Value == "true"
				}
			}
		}
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}

	n, err := BuildNumber(BuildDate)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	return b
}

// String - строка для лога при старте.
func String() string {
	b := Info()
	commit := b.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if b.Dirty {
		commit += "+dirty"
	}

	if b.Error != "" {
		return fmt.Sprintf("Build unknown (%s) commit[%s] %s protocol v%d", b.Error, commit, b.GoVersion, b.Protocol)
	}
	return fmt.Sprintf("Build %d (%s) commit[%s] %s protocol v%d", b.Number, b.Date, commit, b.GoVersion, b.Protocol)
}
