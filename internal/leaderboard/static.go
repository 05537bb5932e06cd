package leaderboard

import "context"

// StaticSource serves a fixed set of entries. It is the terminal fallback in
// the source chain so an empty or unreachable store never blanks the
// leaderboard.
type StaticSource struct {
	entries []Entry
}

// NewStaticSource creates a fallback source. With no entries given it uses a
// small built-in demo set.
func NewStaticSource(entries []Entry) *StaticSource {
	if len(entries) == 0 {
		entries = defaultEntries()
	}
	return &StaticSource{entries: entries}
}

func (s *StaticSource) Name() string { return "static" }

// Top returns the fixed entries, re-ranked from 1.
func (s *StaticSource) Top(_ context.Context, limit int) ([]Entry, error) {
	n := len(s.entries)
	if limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func defaultEntries() []Entry {
	return []Entry{
		{Name: "Asha", LevelsCompleted: 12, CorrectSubmissions: 48},
		{Name: "Ravi", LevelsCompleted: 10, CorrectSubmissions: 41},
		{Name: "Meena", LevelsCompleted: 9, CorrectSubmissions: 37},
		{Name: "Karthik", LevelsCompleted: 7, CorrectSubmissions: 30},
		{Name: "Priya", LevelsCompleted: 5, CorrectSubmissions: 22},
	}
}
