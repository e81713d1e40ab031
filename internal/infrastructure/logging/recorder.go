package logging

import "sync"

type Entry struct {
	Level   Level
	Message string
}

// Recorder is a Logger that keeps every line in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Info(args ...any)  { r.record(LevelInfo, args) }
func (r *Recorder) Warn(args ...any)  { r.record(LevelWarn, args) }
func (r *Recorder) Error(args ...any) { r.record(LevelError, args) }

func (r *Recorder) record(level Level, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: render(args)})
}

// Entries returns a copy of everything logged so far, in order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the messages logged at level, in order.
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, entry := range r.entries {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}
	return out
}
