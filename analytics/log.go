package analytics

import (
	"errors"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/meta-betties/gatekeeper/model"
	"github.com/meta-betties/gatekeeper/pkg/log"
)

// Log is the append-only record of verification lifecycle events, stored as
// one JSON object per line. Appends from concurrent resolutions are
// serialized; nothing ever rewrites the file.
type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry at the end of the log.
func (l *Log) Append(e model.LogEntry) error {
	b, err := jsoniter.Marshal(&e)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Scan returns every entry in insertion order. A missing file is an empty
// log. Lines that fail to decode are skipped; a half-written tail line must
// not make the whole history unreadable.
func (l *Log) Scan() ([]model.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var entries []model.LogEntry
	for _, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e model.LogEntry
		if err := jsoniter.Unmarshal([]byte(line), &e); err != nil {
			log.Warn("analytics: skip unreadable line: %v", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
