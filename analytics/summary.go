package analytics

import "github.com/meta-betties/gatekeeper/model"

type Summary struct {
	TotalVerified int
	TotalRemoved  int
	Recent        []model.LogEntry
}

// Summarize counts entries by status and returns the last n entries in
// insertion order. An empty or missing log yields zero counts.
func (l *Log) Summarize(n int) (Summary, error) {
	entries, err := l.Scan()
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for _, e := range entries {
		switch e.Status {
		case model.StatusVerified:
			s.TotalVerified++
		case model.StatusRemoved:
			s.TotalRemoved++
		}
	}
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	s.Recent = entries[len(entries)-n:]
	return s, nil
}
