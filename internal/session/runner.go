package session

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync"
	"time"

	"alcyxob/workout-coach/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultSetTimeoutPerRep = 10 * time.Second
	defaultTickInterval     = time.Second
	defaultPersistTimeout   = 10 * time.Second
)

// Dependencies are the collaborators a Runner talks to.
// Clock and Narrator are optional.
type Dependencies struct {
	Plans    PlanStore
	Catalog  ExerciseCatalog
	History  HistorySink
	Narrator Narrator
	Clock    Clock
}

// Options tune a Runner. Zero values fall back to defaults.
type Options struct {
	RestSeconds      int           // Initial rest-duration setting, clamped
	SetTimeoutPerRep time.Duration // Per-set timeout is reps * SetTimeoutPerRep
	TickInterval     time.Duration // Rest countdown tick
	PersistTimeout   time.Duration // Bound for each history sink call
	Phrases          *Phrases
	Rand             *rand.Rand
	Logger           logrus.FieldLogger
	OnFinish         func(Outcome) // Called once, after completion is reported or on termination
}

// Runner is the state machine of one guided workout session.
// It is safe for concurrent use; timer callbacks and user actions serialise on mu.
type Runner struct {
	mu sync.Mutex

	history  HistorySink
	narrator Narrator
	clock    Clock
	opts     Options
	phrases  Phrases
	rand     *rand.Rand
	log      logrus.FieldLogger

	planID    primitive.ObjectID
	userID    primitive.ObjectID
	planName  string
	historyID string
	exercises []domain.WorkoutExercise
	infos     map[string]ExerciseInfo

	phase         Phase
	index         int
	set           int
	restRemaining int
	restSetting   int
	performance   []PerformanceRecord

	// epoch changes on every transition. Timer callbacks carry the epoch they
	// were scheduled under and do nothing once it is stale.
	epoch     uint64
	setTimer  Timer
	restTimer Timer

	summary *Summary // Set on completion, before reporting starts
	outcome *Outcome
	done    chan struct{}
}

// effects are produced under the lock and carried out after it is released.
type effects struct {
	lines      []string
	finish     *finish
	terminated bool
}

func (fx *effects) say(lines ...string) {
	fx.lines = append(fx.lines, lines...)
}

type finish struct {
	completion Completion
	records    []PerformanceRecord
	summary    Summary
}

type nopNarrator struct{}

func (nopNarrator) Speak(string) {}

// Load fetches the plan's entries and exercise details and returns a Runner in
// the overview phase. Nothing is created when loading fails.
func Load(ctx context.Context, deps Dependencies, userID, planID primitive.ObjectID, opts Options) (*Runner, error) {
	if deps.Plans == nil || deps.Catalog == nil || deps.History == nil {
		return nil, fmt.Errorf("session: plan store, exercise catalog and history sink are required")
	}
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if deps.Narrator == nil {
		deps.Narrator = nopNarrator{}
	}
	opts = withDefaults(opts)

	historyID := uuid.NewString()
	logger := opts.Logger.WithFields(logrus.Fields{
		"plan_id":    planID.Hex(),
		"user_id":    userID.Hex(),
		"history_id": historyID,
	})

	entries, err := deps.Plans.PlanExercises(ctx, planID)
	if err != nil {
		return nil, &LoadError{Source: "plan exercises", Err: err}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyPlan
	}

	exercises := slices.Clone(entries)
	slices.SortStableFunc(exercises, func(a, b domain.WorkoutExercise) int {
		return cmp.Compare(a.OrderIndex, b.OrderIndex)
	})
	for _, e := range exercises {
		if e.Sets <= 0 || e.Reps < 0 {
			return nil, fmt.Errorf("%w: entry %s has %d sets of %d reps", ErrInvalidPlan, e.ID.Hex(), e.Sets, e.Reps)
		}
	}

	infos := make(map[string]ExerciseInfo, len(exercises))
	for _, e := range exercises {
		key := e.ExerciseID.Hex()
		if _, seen := infos[key]; seen {
			continue
		}
		info, err := deps.Catalog.Exercise(ctx, e.ExerciseID)
		if err != nil {
			return nil, &LoadError{Source: "exercise " + key, Err: err}
		}
		infos[key] = *info
	}

	planName := ""
	if meta, err := deps.Plans.PlanMeta(ctx, planID); err != nil {
		logger.WithError(err).Warn("could not load plan name, summary will use a fallback")
	} else if meta != nil {
		planName = meta.Name
	}

	r := &Runner{
		history:     deps.History,
		narrator:    deps.Narrator,
		clock:       deps.Clock,
		opts:        opts,
		phrases:     *opts.Phrases,
		rand:        opts.Rand,
		log:         logger,
		planID:      planID,
		userID:      userID,
		planName:    planName,
		historyID:   historyID,
		exercises:   exercises,
		infos:       infos,
		phase:       PhaseOverview,
		set:         1,
		restSetting: opts.RestSeconds,
		done:        make(chan struct{}),
	}
	r.restRemaining = r.restSetting
	logger.WithField("exercises", len(exercises)).Debug("session loaded")
	return r, nil
}

func withDefaults(opts Options) Options {
	if opts.RestSeconds == 0 {
		opts.RestSeconds = DefaultRestSeconds
	}
	opts.RestSeconds = ClampRestSeconds(opts.RestSeconds)
	if opts.SetTimeoutPerRep <= 0 {
		opts.SetTimeoutPerRep = defaultSetTimeoutPerRep
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	if opts.Phrases == nil {
		p := PhrasesFor("en")
		opts.Phrases = &p
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return opts
}

// --- User actions ---

// SetRestDuration changes the rest between sets. Only allowed before the
// session starts; the value is clamped and the effective value returned.
func (r *Runner) SetRestDuration(seconds int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseOverview {
		return r.restSetting, r.rejectLocked("set rest duration")
	}
	r.restSetting = ClampRestSeconds(seconds)
	r.restRemaining = r.restSetting
	return r.restSetting, nil
}

// Start moves from the overview to the first set of the first exercise.
func (r *Runner) Start() error {
	return r.transition("start", PhaseOverview, func(fx *effects) {
		r.index, r.set = 0, 1
		fx.say(r.phrases.Start)
		r.enterActiveLocked()
	})
}

// CompleteSet logs the current set and starts the rest period, or completes
// the session when it was the final set of the final exercise.
func (r *Runner) CompleteSet() error {
	return r.transition("complete set", PhaseActive, func(fx *effects) {
		cur := r.exercises[r.index]
		r.performance = append(r.performance, PerformanceRecord{
			ID:            uuid.NewString(),
			ExerciseID:    cur.ExerciseID,
			SetsCompleted: 1,
			RepsCompleted: cur.Reps,
			WeightUsed:    copyWeight(cur.Weight),
		})
		fx.say(r.phrases.setDone(r.motivationLocked()))

		if r.index == len(r.exercises)-1 && r.set >= cur.Sets {
			r.completeLocked(fx)
			return
		}
		fx.say(r.phrases.RestStarts)
		r.enterRestLocked()
	})
}

// SkipRest ends the rest period now. It has the same effect as the countdown
// reaching zero.
func (r *Runner) SkipRest() error {
	return r.transition("skip rest", PhaseResting, func(fx *effects) {
		r.restRemaining = 0
		fx.say(r.phrases.RestSkipped, r.phrases.RestOver)
		r.advanceLocked(fx)
	})
}

// SkipExercise abandons the remaining sets of the current exercise.
func (r *Runner) SkipExercise() error {
	return r.transition("skip exercise", PhaseActive, func(fx *effects) {
		if r.index < len(r.exercises)-1 {
			r.index++
			r.set = 1
			fx.say(r.phrases.ExerciseSkipped, r.phrases.nextExercise(r.exerciseNameLocked()))
			r.enterActiveLocked()
			return
		}
		fx.say(r.phrases.NoMoreExercises)
		r.completeLocked(fx)
	})
}

// Terminate ends the session immediately. Sets logged so far are not reported
// to the history sink.
func (r *Runner) Terminate() error {
	r.mu.Lock()
	if r.phase.Finished() {
		err := r.rejectLocked("terminate")
		r.mu.Unlock()
		return err
	}
	r.resetTimersLocked()
	r.phase = PhaseTerminated
	fx := effects{terminated: true}
	fx.say(r.phrases.Terminated)
	r.mu.Unlock()

	r.log.WithField("sets_logged", len(r.performance)).Info("session terminated early")
	r.apply(fx)
	return nil
}

// --- Observers ---

// State returns a copy of the session.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := State{
		PlanID:               r.planID,
		PlanName:             r.planName,
		HistoryID:            r.historyID,
		Phase:                r.phase,
		Exercises:            slices.Clone(r.exercises),
		ExerciseInfo:         maps.Clone(r.infos),
		CurrentExerciseIndex: r.index,
		CurrentSetNumber:     r.set,
		RestSecondsRemaining: r.restRemaining,
		RestDurationSetting:  r.restSetting,
		PerformanceLog:       slices.Clone(r.performance),
	}
	if s.PerformanceLog == nil {
		s.PerformanceLog = []PerformanceRecord{}
	}
	if r.summary != nil {
		summary := *r.summary
		s.Summary = &summary
	}
	return s
}

// Done is closed once the session is terminated, or completed and reported.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Outcome returns the terminal result once Done is closed.
func (r *Runner) Outcome() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// --- Transitions (mu held) ---

func (r *Runner) transition(action string, from Phase, fn func(fx *effects)) error {
	r.mu.Lock()
	if r.phase != from {
		err := r.rejectLocked(action)
		r.mu.Unlock()
		return err
	}
	r.resetTimersLocked()
	var fx effects
	fn(&fx)
	r.mu.Unlock()

	r.apply(fx)
	return nil
}

func (r *Runner) rejectLocked(action string) error {
	if r.phase.Finished() {
		return fmt.Errorf("%s: %w", action, ErrSessionFinished)
	}
	return fmt.Errorf("%s in phase %s: %w", action, r.phase, ErrInvalidTransition)
}

// resetTimersLocked cancels both timers and invalidates any callback already in flight.
func (r *Runner) resetTimersLocked() {
	r.epoch++
	if r.setTimer != nil {
		r.setTimer.Stop()
		r.setTimer = nil
	}
	if r.restTimer != nil {
		r.restTimer.Stop()
		r.restTimer = nil
	}
}

func (r *Runner) enterActiveLocked() {
	r.phase = PhaseActive
	r.restRemaining = r.restSetting

	// Zero reps would time out at once, so no automatic timeout for them.
	reps := r.exercises[r.index].Reps
	if reps <= 0 {
		return
	}
	epoch := r.epoch
	r.setTimer = r.clock.AfterFunc(time.Duration(reps)*r.opts.SetTimeoutPerRep, func() {
		r.onSetTimeout(epoch)
	})
}

func (r *Runner) enterRestLocked() {
	r.phase = PhaseResting
	r.restRemaining = r.restSetting
	r.scheduleTickLocked()
}

func (r *Runner) scheduleTickLocked() {
	epoch := r.epoch
	r.restTimer = r.clock.AfterFunc(r.opts.TickInterval, func() {
		r.onRestTick(epoch)
	})
}

// advanceLocked moves to the next set, the next exercise, or completion.
func (r *Runner) advanceLocked(fx *effects) {
	cur := r.exercises[r.index]
	switch {
	case r.set < cur.Sets:
		r.set++
		fx.say(r.phrases.nextSet(r.set))
		r.enterActiveLocked()
	case r.index < len(r.exercises)-1:
		r.index++
		r.set = 1
		fx.say(r.phrases.nextExercise(r.exerciseNameLocked()))
		r.enterActiveLocked()
	default:
		r.completeLocked(fx)
	}
}

func (r *Runner) completeLocked(fx *effects) {
	r.resetTimersLocked()
	r.phase = PhaseCompleted

	totalSets, totalReps := 0, 0
	for _, e := range r.exercises {
		totalSets += e.Sets
		totalReps += e.Sets * e.Reps
	}
	planName := r.planName
	if planName == "" {
		planName = r.phrases.DefaultPlanName
	}
	completedAt := r.clock.Now()

	summary := Summary{
		CompletedAt:        completedAt,
		PlanName:           planName,
		PlanID:             r.planID,
		UserID:             r.userID,
		ExercisesCompleted: len(r.exercises),
		TotalSets:          totalSets,
		TotalReps:          totalReps,
	}
	r.summary = &summary

	fx.say(r.phrases.Completed)
	fx.finish = &finish{
		completion: Completion{
			HistoryID:   r.historyID,
			PlanID:      r.planID,
			PlanName:    planName,
			CompletedAt: completedAt,
		},
		records: slices.Clone(r.performance),
		summary: summary,
	}
}

// --- Timer callbacks ---

func (r *Runner) onSetTimeout(epoch uint64) {
	r.mu.Lock()
	if epoch != r.epoch || r.phase != PhaseActive {
		r.mu.Unlock()
		return
	}
	r.resetTimersLocked()
	var fx effects
	fx.say(r.phrases.SetTimeout)
	index, set := r.index, r.set
	r.enterRestLocked()
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"exercise_index": index,
		"set_number":     set,
	}).Debug("set timed out")
	r.apply(fx)
}

func (r *Runner) onRestTick(epoch uint64) {
	r.mu.Lock()
	if epoch != r.epoch || r.phase != PhaseResting {
		r.mu.Unlock()
		return
	}
	r.restTimer = nil
	if r.restRemaining > 0 {
		r.restRemaining--
	}
	if r.restRemaining > 0 {
		r.scheduleTickLocked()
		r.mu.Unlock()
		return
	}

	r.resetTimersLocked()
	var fx effects
	fx.say(r.phrases.RestOver)
	r.advanceLocked(&fx)
	r.mu.Unlock()

	r.apply(fx)
}

// --- Effects (mu not held) ---

func (r *Runner) apply(fx effects) {
	for _, line := range fx.lines {
		r.narrator.Speak(line)
	}
	if fx.finish != nil {
		r.report(*fx.finish)
	}
	if fx.terminated {
		r.handOff(Outcome{Phase: PhaseTerminated})
	}
}

// report persists the completion and then each performance record, once and
// without retry. The first failure stops the flush; it is logged and never
// blocks the hand-off.
func (r *Runner) report(f finish) {
	if err := r.persist(func(ctx context.Context) error {
		return r.history.RecordCompletion(ctx, f.completion)
	}); err != nil {
		r.log.WithError(err).Error("failed to record workout completion")
	} else {
		for _, rec := range f.records {
			if err := r.persist(func(ctx context.Context) error {
				return r.history.RecordPerformance(ctx, f.completion.HistoryID, rec)
			}); err != nil {
				r.log.WithError(err).WithField("record_id", rec.ID).Error("failed to record set performance")
				break
			}
		}
	}

	r.log.WithFields(logrus.Fields{
		"total_sets":  f.summary.TotalSets,
		"total_reps":  f.summary.TotalReps,
		"sets_logged": len(f.records),
	}).Info("session completed")
	r.handOff(Outcome{Phase: PhaseCompleted, Summary: &f.summary})
}

func (r *Runner) persist(call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.PersistTimeout)
	defer cancel()
	return call(ctx)
}

func (r *Runner) handOff(outcome Outcome) {
	r.mu.Lock()
	r.outcome = &outcome
	close(r.done)
	r.mu.Unlock()

	if r.opts.OnFinish != nil {
		r.opts.OnFinish(outcome)
	}
}

// --- Helpers ---

func (r *Runner) exerciseNameLocked() string {
	return r.infos[r.exercises[r.index].ExerciseID.Hex()].Name
}

func (r *Runner) motivationLocked() string {
	if len(r.phrases.Motivational) == 0 {
		return ""
	}
	return r.phrases.Motivational[r.rand.Intn(len(r.phrases.Motivational))]
}

func copyWeight(w *float64) *float64 {
	if w == nil {
		return nil
	}
	v := *w
	return &v
}
