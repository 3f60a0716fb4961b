package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-coach/internal/config"
	"alcyxob/workout-coach/internal/narration"
	"alcyxob/workout-coach/internal/repository"
	"alcyxob/workout-coach/internal/session"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownAction   = errors.New("unknown session action")
)

// SessionAction is a user action on a running session.
type SessionAction string

const (
	ActionStart        SessionAction = "start"
	ActionCompleteSet  SessionAction = "complete-set"
	ActionSkipRest     SessionAction = "skip-rest"
	ActionSkipExercise SessionAction = "skip-exercise"
	ActionTerminate    SessionAction = "terminate"
)

// SessionView is what a client sees of a session: its state and the narration
// lines after the sequence number it asked for.
type SessionView struct {
	ID        string           `json:"id"`
	State     session.State    `json:"state"`
	Narration []narration.Line `json:"narration"`
	LastSeq   uint64           `json:"lastSeq"`
}

type SessionService interface {
	StartSession(ctx context.Context, userID, planID primitive.ObjectID) (*SessionView, error)
	GetSession(userID primitive.ObjectID, sessionID string, since uint64) (*SessionView, error)
	SetRestDuration(userID primitive.ObjectID, sessionID string, seconds int) (*SessionView, error)
	Act(userID primitive.ObjectID, sessionID string, action SessionAction, since uint64) (*SessionView, error)
	// Shutdown terminates every live session.
	Shutdown()
}

// liveSession is one registry entry.
type liveSession struct {
	userID     primitive.ObjectID
	runner     *session.Runner
	transcript *narration.Transcript
}

// sessionService implements the SessionService interface. Unfinished sessions
// expire after cfg.IdleTimeout without a request and are terminated on
// eviction; finished ones are kept for cfg.RetainFinished.
type sessionService struct {
	planRepo  repository.WorkoutPlanRepository
	entryRepo repository.WorkoutExerciseRepository
	exercises ExerciseService
	history   HistoryService
	cfg       config.SessionConfig
	registry  *cache.Cache
	clock     session.Clock
	log       logrus.FieldLogger
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	planRepo repository.WorkoutPlanRepository,
	entryRepo repository.WorkoutExerciseRepository,
	exercises ExerciseService,
	history HistoryService,
	cfg config.SessionConfig,
) SessionService {
	s := &sessionService{
		planRepo:  planRepo,
		entryRepo: entryRepo,
		exercises: exercises,
		history:   history,
		cfg:       cfg,
		registry:  cache.New(cache.NoExpiration, sweepInterval(cfg)),
		clock:     session.RealClock(),
		log:       logrus.StandardLogger(),
	}
	s.registry.OnEvicted(s.evicted)
	return s
}

// sweepInterval is how often expired sessions are evicted. It is at most a
// minute and never longer than half of either expiry.
func sweepInterval(cfg config.SessionConfig) time.Duration {
	interval := time.Minute
	for _, d := range []time.Duration{cfg.IdleTimeout, cfg.RetainFinished} {
		if d > 0 {
			interval = min(interval, max(d/2, time.Millisecond))
		}
	}
	return interval
}

// StartSession loads the user's plan into a new session in the overview phase.
func (s *sessionService) StartSession(ctx context.Context, userID, planID primitive.ObjectID) (*SessionView, error) {
	id := uuid.NewString()
	logger := s.log.WithField("session_id", id)
	transcript := narration.NewTranscript(s.cfg.TranscriptSize)
	phrases := session.PhrasesFor(s.cfg.Language)

	deps := session.Dependencies{
		Plans:    &planStore{plans: s.planRepo, entries: s.entryRepo, userID: userID},
		Catalog:  &exerciseCatalog{exercises: s.exercises},
		History:  &historySink{history: s.history, userID: userID},
		Narrator: narration.Multi{transcript, narration.NewLogNarrator(logger)},
		Clock:    s.clock,
	}
	opts := session.Options{
		RestSeconds:      s.cfg.DefaultRestSeconds,
		SetTimeoutPerRep: s.cfg.SetTimeoutPerRep,
		TickInterval:     s.cfg.TickInterval,
		PersistTimeout:   s.cfg.PersistTimeout,
		Phrases:          &phrases,
		Logger:           logger,
		OnFinish: func(outcome session.Outcome) {
			s.retire(id, outcome)
		},
	}

	runner, err := session.Load(ctx, deps, userID, planID, opts)
	if err != nil {
		return nil, err
	}

	live := &liveSession{userID: userID, runner: runner, transcript: transcript}
	s.registry.Set(id, live, s.cfg.IdleTimeout)
	logger.WithField("plan_id", planID.Hex()).Info("session created")
	return s.view(id, live, 0), nil
}

func (s *sessionService) GetSession(userID primitive.ObjectID, sessionID string, since uint64) (*SessionView, error) {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, live, since), nil
}

func (s *sessionService) SetRestDuration(userID primitive.ObjectID, sessionID string, seconds int) (*SessionView, error) {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err = live.runner.SetRestDuration(seconds); err != nil {
		return nil, err
	}
	return s.view(sessionID, live, live.transcript.Last()), nil
}

// Act applies a user action. The returned narration holds the lines after since.
func (s *sessionService) Act(userID primitive.ObjectID, sessionID string, action SessionAction, since uint64) (*SessionView, error) {
	live, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	var do func() error
	switch action {
	case ActionStart:
		do = live.runner.Start
	case ActionCompleteSet:
		do = live.runner.CompleteSet
	case ActionSkipRest:
		do = live.runner.SkipRest
	case ActionSkipExercise:
		do = live.runner.SkipExercise
	case ActionTerminate:
		do = live.runner.Terminate
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err = do(); err != nil {
		return nil, err
	}
	return s.view(sessionID, live, since), nil
}

func (s *sessionService) Shutdown() {
	terminated := 0
	for _, item := range s.registry.Items() {
		live, ok := item.Object.(*liveSession)
		if !ok {
			continue
		}
		if err := live.runner.Terminate(); err == nil {
			terminated++
		}
	}
	s.log.WithField("terminated", terminated).Info("session registry shut down")
}

// --- Helpers ---

func (s *sessionService) lookup(userID primitive.ObjectID, sessionID string) (*liveSession, error) {
	item, found := s.registry.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	live, ok := item.(*liveSession)
	if !ok || live.userID != userID {
		return nil, ErrSessionNotFound
	}
	if !live.runner.State().Phase.Finished() {
		s.registry.Set(sessionID, live, s.cfg.IdleTimeout)
	}
	return live, nil
}

// evicted runs when the registry drops an entry. An unfinished session at that
// point was abandoned, so its timers are cancelled.
func (s *sessionService) evicted(id string, item interface{}) {
	live, ok := item.(*liveSession)
	if !ok {
		return
	}
	if err := live.runner.Terminate(); err == nil {
		s.log.WithField("session_id", id).Info("idle session terminated")
	}
}

// retire starts the retention countdown of a finished session.
func (s *sessionService) retire(id string, outcome session.Outcome) {
	item, found := s.registry.Get(id)
	if !found {
		return
	}
	s.registry.Set(id, item, s.cfg.RetainFinished)
	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"phase":      outcome.Phase,
	}).Info("session finished")
}

func (s *sessionService) view(id string, live *liveSession, since uint64) *SessionView {
	return &SessionView{
		ID:        id,
		State:     live.runner.State(),
		Narration: live.transcript.Since(since),
		LastSeq:   live.transcript.Last(),
	}
}
