// Package narration provides text narrators for guided sessions.
package narration

import (
	"sync"
	"time"

	"alcyxob/workout-coach/internal/session"

	"github.com/sirupsen/logrus"
)

// Line is one spoken line. Seq starts at 1 and increases by one per line.
type Line struct {
	Seq  uint64    `json:"seq"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript keeps the most recent lines of a session so a client can poll
// for what it has not shown yet.
type Transcript struct {
	mu    sync.Mutex
	lines []Line
	last  uint64
	size  int
	now   func() time.Time
}

func NewTranscript(size int) *Transcript {
	if size <= 0 {
		size = 200
	}
	return &Transcript{size: size, now: func() time.Time { return time.Now().UTC() }}
}

func (t *Transcript) Speak(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last++
	t.lines = append(t.lines, Line{Seq: t.last, Text: text, At: t.now()})
	if over := len(t.lines) - t.size; over > 0 {
		t.lines = append(t.lines[:0:0], t.lines[over:]...)
	}
}

// Since returns the retained lines with Seq greater than seq.
func (t *Transcript) Since(seq uint64) []Line {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []Line{}
	for _, l := range t.lines {
		if l.Seq > seq {
			out = append(out, l)
		}
	}
	return out
}

// Last returns the Seq of the newest line, 0 if nothing was spoken.
func (t *Transcript) Last() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// LogNarrator writes every line to the log at debug level.
type LogNarrator struct {
	log logrus.FieldLogger
}

func NewLogNarrator(log logrus.FieldLogger) *LogNarrator {
	return &LogNarrator{log: log}
}

func (n *LogNarrator) Speak(text string) {
	n.log.WithField("line", text).Debug("narration")
}

// Multi fans a line out to several narrators in order.
type Multi []session.Narrator

func (m Multi) Speak(text string) {
	for _, n := range m {
		n.Speak(text)
	}
}
