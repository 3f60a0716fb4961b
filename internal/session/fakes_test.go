package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/workout-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Manual clock ---

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, firing due timers in order. Callbacks run
// without the clock lock so they can schedule new timers.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Pending counts timers that are neither stopped nor fired.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Stopped returns the callbacks of cancelled timers, oldest first. Calling one
// simulates a timer that fired while its transition was being superseded.
func (c *manualClock) Stopped() []func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var fs []func()
	for _, t := range c.timers {
		if t.stopped {
			fs = append(fs, t.f)
		}
	}
	return fs
}

// --- Narrator ---

type recordingNarrator struct {
	mu    sync.Mutex
	lines []string
}

func (n *recordingNarrator) Speak(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = append(n.lines, text)
}

func (n *recordingNarrator) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.lines...)
}

// --- Collaborators ---

type fakePlanStore struct {
	entries    []domain.WorkoutExercise
	name       string
	entriesErr error
	metaErr    error
}

func (s *fakePlanStore) PlanExercises(_ context.Context, _ primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	if s.entriesErr != nil {
		return nil, s.entriesErr
	}
	return s.entries, nil
}

func (s *fakePlanStore) PlanMeta(_ context.Context, _ primitive.ObjectID) (*PlanMeta, error) {
	if s.metaErr != nil {
		return nil, s.metaErr
	}
	return &PlanMeta{Name: s.name}, nil
}

type fakeCatalog struct {
	exercises map[primitive.ObjectID]ExerciseInfo
	err       error
	calls     int
}

func (c *fakeCatalog) Exercise(_ context.Context, id primitive.ObjectID) (*ExerciseInfo, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	info, ok := c.exercises[id]
	if !ok {
		return nil, errors.New("exercise not found")
	}
	return &info, nil
}

type fakeSink struct {
	mu             sync.Mutex
	completions    []Completion
	records        []PerformanceRecord
	historyIDs     []string
	completionErr  error
	performanceErr error

	// When set, RecordCompletion signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (s *fakeSink) RecordCompletion(ctx context.Context, c Completion) error {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("persistence called without a deadline")
	}
	s.completions = append(s.completions, c)
	return s.completionErr
}

func (s *fakeSink) RecordPerformance(_ context.Context, historyID string, rec PerformanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.performanceErr != nil {
		return s.performanceErr
	}
	s.historyIDs = append(s.historyIDs, historyID)
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeSink) Calls() (completions, records int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completions), len(s.records)
}

// --- Fixture ---

type fixture struct {
	plans    *fakePlanStore
	catalog  *fakeCatalog
	sink     *fakeSink
	narrator *recordingNarrator
	clock    *manualClock
	userID   primitive.ObjectID
	planID   primitive.ObjectID
	outcomes chan Outcome
}

type entrySpec struct {
	sets, reps, order int
}

func newFixture(entries ...entrySpec) *fixture {
	f := &fixture{
		plans:    &fakePlanStore{name: "Push day"},
		catalog:  &fakeCatalog{exercises: map[primitive.ObjectID]ExerciseInfo{}},
		sink:     &fakeSink{},
		narrator: &recordingNarrator{},
		clock:    newManualClock(),
		userID:   primitive.NewObjectID(),
		planID:   primitive.NewObjectID(),
		outcomes: make(chan Outcome, 1),
	}
	for i, e := range entries {
		exID := primitive.NewObjectID()
		f.catalog.exercises[exID] = ExerciseInfo{ID: exID, Name: exerciseNames[i%len(exerciseNames)]}
		f.plans.entries = append(f.plans.entries, domain.WorkoutExercise{
			ID:          primitive.NewObjectID(),
			PlanID:      f.planID,
			ExerciseID:  exID,
			Sets:        e.sets,
			Reps:        e.reps,
			OrderIndex:  e.order,
			RestSeconds: domain.DefaultRestSeconds,
		})
	}
	return f
}

var exerciseNames = []string{"Bench press", "Squat", "Deadlift", "Pull-up"}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Plans:    f.plans,
		Catalog:  f.catalog,
		History:  f.sink,
		Narrator: f.narrator,
		Clock:    f.clock,
	}
}

func (f *fixture) options() Options {
	p := PhrasesFor("en")
	return Options{
		Phrases:  &p,
		OnFinish: func(o Outcome) { f.outcomes <- o },
	}
}

func (f *fixture) load() (*Runner, error) {
	return Load(context.Background(), f.deps(), f.userID, f.planID, f.options())
}
