package automaton

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"steamwork/history"
	"steamwork/process_blob"
	"steamwork/steamworks"
)

type logEntry struct {
	level string
	msg   string
}

// recordingLogger keeps every line for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: fmt.Sprint(v...)})
}

func (l *recordingLogger) Infoln(v ...interface{})  { l.add("info", v...) }
func (l *recordingLogger) Debugln(v ...interface{}) { l.add("debug", v...) }
func (l *recordingLogger) Warn(v ...interface{})    { l.add("warn", v...) }
func (l *recordingLogger) Error(v ...interface{})   { l.add("error", v...) }

func (l *recordingLogger) count(level, contains string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.level == level && (contains == "" || containsFold(e.msg, contains)) {
			n++
		}
	}
	return n
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// memoryJournal stands in for history.Journal
type memoryJournal struct {
	mu     sync.Mutex
	rounds []history.Round
}

func (j *memoryJournal) Record(_ context.Context, r history.Round) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rounds = append(j.rounds, r)
	return nil
}

func (j *memoryJournal) all() []history.Round {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]history.Round(nil), j.rounds...)
}

func newGame(t *testing.T, title string) *steamworks.Game {
	t.Helper()
	sim := process_blob.NewSimulatedProcess(1, "MonsterHunterWorld.exe", title)
	g, err := steamworks.NewGame(sim, steamworks.Layouts[410013])
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}
