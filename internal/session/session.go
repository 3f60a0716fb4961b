// Package session drives a user through a workout plan: sets, rest periods,
// per-set timeouts, narration and completion reporting.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rest duration bounds, in seconds.
const (
	MinRestSeconds     = 10
	MaxRestSeconds     = 180
	RestStepSeconds    = 5
	DefaultRestSeconds = 60
)

// Phase is the state of a session.
type Phase string

const (
	PhaseOverview   Phase = "overview"
	PhaseActive     Phase = "active"
	PhaseResting    Phase = "resting"
	PhaseCompleted  Phase = "completed"
	PhaseTerminated Phase = "terminated"
)

// Finished reports whether the phase is absorbing.
func (p Phase) Finished() bool {
	return p == PhaseCompleted || p == PhaseTerminated
}

// --- Error Definitions ---
var (
	ErrEmptyPlan         = errors.New("workout plan has no exercises")
	ErrInvalidPlan       = errors.New("workout plan has an invalid exercise entry")
	ErrInvalidTransition = errors.New("action not allowed in the current phase")
	ErrSessionFinished   = errors.New("session already finished")
)

// LoadError reports which collaborator failed while a session was being loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ExerciseInfo is read-only reference data used for display and narration.
type ExerciseInfo struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
}

// PlanMeta is the plan metadata a session needs.
type PlanMeta struct {
	Name string
}

// PerformanceRecord is the outcome of one completed set. Records are appended
// once per completed set and never mutated.
type PerformanceRecord struct {
	ID            string             `json:"id"`
	ExerciseID    primitive.ObjectID `json:"exerciseId"`
	SetsCompleted int                `json:"setsCompleted"`
	RepsCompleted int                `json:"repsCompleted"`
	WeightUsed    *float64           `json:"weightUsed"`
}

// Completion is the workout-completion event handed to the HistorySink.
type Completion struct {
	HistoryID   string
	PlanID      primitive.ObjectID
	PlanName    string
	CompletedAt time.Time
}

// Summary is handed to the caller once a session completes.
type Summary struct {
	CompletedAt        time.Time          `json:"completedAt"`
	PlanName           string             `json:"planName"`
	PlanID             primitive.ObjectID `json:"planId"`
	UserID             primitive.ObjectID `json:"userId"`
	ExercisesCompleted int                `json:"exercisesCompleted"`
	TotalSets          int                `json:"totalSets"`
	TotalReps          int                `json:"totalReps"`
}

// Outcome is the terminal result of a session. Summary is nil for terminated sessions.
type Outcome struct {
	Phase   Phase    `json:"phase"`
	Summary *Summary `json:"summary,omitempty"`
}

// State is a point-in-time copy of a session.
type State struct {
	PlanID               primitive.ObjectID       `json:"planId"`
	PlanName             string                   `json:"planName"`
	HistoryID            string                   `json:"historyId"`
	Phase                Phase                    `json:"phase"`
	Exercises            []domain.WorkoutExercise `json:"exercises"`
	ExerciseInfo         map[string]ExerciseInfo  `json:"exerciseInfo"` // Keyed by exercise ID hex
	CurrentExerciseIndex int                      `json:"currentExerciseIndex"`
	CurrentSetNumber     int                      `json:"currentSetNumber"`
	RestSecondsRemaining int                      `json:"restSecondsRemaining"`
	RestDurationSetting  int                      `json:"restDurationSetting"`
	PerformanceLog       []PerformanceRecord      `json:"performanceLog"`
	Summary              *Summary                 `json:"summary,omitempty"`
}

// Current returns the entry being worked on, or false outside active/resting.
func (s State) Current() (domain.WorkoutExercise, bool) {
	if s.Phase != PhaseActive && s.Phase != PhaseResting {
		return domain.WorkoutExercise{}, false
	}
	return s.Exercises[s.CurrentExerciseIndex], true
}

// --- Collaborators ---

// PlanStore provides the exercise entries and metadata of a plan.
type PlanStore interface {
	PlanExercises(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	PlanMeta(ctx context.Context, planID primitive.ObjectID) (*PlanMeta, error)
}

// ExerciseCatalog looks up exercise reference data.
type ExerciseCatalog interface {
	Exercise(ctx context.Context, exerciseID primitive.ObjectID) (*ExerciseInfo, error)
}

// HistorySink persists finished workouts.
type HistorySink interface {
	RecordCompletion(ctx context.Context, completion Completion) error
	RecordPerformance(ctx context.Context, historyID string, record PerformanceRecord) error
}

// Narrator speaks a line of text. Implementations must not block.
type Narrator interface {
	Speak(text string)
}

// ClampRestSeconds bounds a rest duration to [MinRestSeconds, MaxRestSeconds]
// and snaps it to the nearest RestStepSeconds step.
func ClampRestSeconds(seconds int) int {
	if seconds < MinRestSeconds {
		return MinRestSeconds
	}
	if seconds > MaxRestSeconds {
		return MaxRestSeconds
	}
	return (seconds + RestStepSeconds/2) / RestStepSeconds * RestStepSeconds
}
