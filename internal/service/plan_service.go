package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("workout plan not found")
	ErrPlanAccessDenied  = errors.New("access denied to this workout plan")
	ErrPlanEntryNotFound = errors.New("workout exercise not found")
)

// PlanInput holds the editable fields of a workout plan.
type PlanInput struct {
	Name            string
	Description     string
	ExperienceLevel string
	Goal            string
}

// EntryInput holds the fields of a plan entry. RestSeconds nil means the default.
type EntryInput struct {
	PlanID      primitive.ObjectID
	ExerciseID  primitive.ObjectID
	Sets        int
	Reps        int
	OrderIndex  int
	RestSeconds *int
	Weight      *float64
}

type WorkoutPlanService interface {
	CreatePlan(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error

	ListEntries(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.WorkoutExercise, error)
	AddEntry(ctx context.Context, userID primitive.ObjectID, input EntryInput) (*domain.WorkoutExercise, error)
	UpdateEntry(ctx context.Context, userID, entryID primitive.ObjectID, input EntryInput) (*domain.WorkoutExercise, error)
	DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error
}

// --- Service Implementation ---

// workoutPlanService implements the WorkoutPlanService interface.
type workoutPlanService struct {
	planRepo     repository.WorkoutPlanRepository
	entryRepo    repository.WorkoutExerciseRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutPlanService creates a new instance of workoutPlanService.
func NewWorkoutPlanService(
	planRepo repository.WorkoutPlanRepository,
	entryRepo repository.WorkoutExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutPlanService {
	return &workoutPlanService{
		planRepo:     planRepo,
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
	}
}

// === Plans ===

func (s *workoutPlanService) CreatePlan(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidationFailed)
	}

	plan := &domain.WorkoutPlan{UserID: userID}
	input.apply(plan)
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns a plan owned by the user.
func (s *workoutPlanService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

func (s *workoutPlanService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.planRepo.GetByUserID(ctx, userID)
}

func (s *workoutPlanService) UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidationFailed)
	}

	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	input.apply(plan)

	if err = s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan and all of its entries. History keeps the plan name.
func (s *workoutPlanService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	if _, err := s.GetPlan(ctx, userID, planID); err != nil {
		return err
	}

	removed, err := s.entryRepo.DeleteByPlanID(ctx, planID)
	if err != nil {
		return fmt.Errorf("delete plan entries: %w", err)
	}
	if err = s.planRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	log.WithFields(log.Fields{
		"plan_id": planID.Hex(),
		"entries": removed,
	}).Info("workout plan deleted")
	return nil
}

// === Entries ===

// ListEntries returns the entries of an owned plan sorted by orderIndex.
func (s *workoutPlanService) ListEntries(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	if _, err := s.GetPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByPlanID(ctx, planID)
}

func (s *workoutPlanService) AddEntry(ctx context.Context, userID primitive.ObjectID, input EntryInput) (*domain.WorkoutExercise, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetPlan(ctx, userID, input.PlanID); err != nil {
		return nil, err
	}
	if err := s.exerciseExists(ctx, input.ExerciseID); err != nil {
		return nil, err
	}

	entry := &domain.WorkoutExercise{PlanID: input.PlanID}
	input.apply(entry)
	if _, err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry changes an entry's targets. The entry stays in its plan.
func (s *workoutPlanService) UpdateEntry(ctx context.Context, userID, entryID primitive.ObjectID, input EntryInput) (*domain.WorkoutExercise, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if input.ExerciseID != entry.ExerciseID {
		if err = s.exerciseExists(ctx, input.ExerciseID); err != nil {
			return nil, err
		}
	}

	input.apply(entry)
	if err = s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *workoutPlanService) DeleteEntry(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return err
	}
	err := s.entryRepo.Delete(ctx, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanEntryNotFound
	}
	return err
}

// --- Helpers ---

func (s *workoutPlanService) ownedEntry(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.WorkoutExercise, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanEntryNotFound
		}
		return nil, err
	}
	if _, err = s.GetPlan(ctx, userID, entry.PlanID); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *workoutPlanService) exerciseExists(ctx context.Context, exerciseID primitive.ObjectID) error {
	_, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

func (in PlanInput) apply(p *domain.WorkoutPlan) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ExperienceLevel = in.ExperienceLevel
	p.Goal = in.Goal
}

func (in EntryInput) validate() error {
	switch {
	case in.Sets <= 0:
		return fmt.Errorf("%w: sets must be positive", ErrValidationFailed)
	case in.Reps <= 0:
		return fmt.Errorf("%w: reps must be positive", ErrValidationFailed)
	case in.OrderIndex < 0:
		return fmt.Errorf("%w: orderIndex cannot be negative", ErrValidationFailed)
	case in.RestSeconds != nil && *in.RestSeconds < 0:
		return fmt.Errorf("%w: restSeconds cannot be negative", ErrValidationFailed)
	case in.Weight != nil && *in.Weight < 0:
		return fmt.Errorf("%w: weight cannot be negative", ErrValidationFailed)
	}
	return nil
}

func (in EntryInput) apply(e *domain.WorkoutExercise) {
	e.ExerciseID = in.ExerciseID
	e.Sets = in.Sets
	e.Reps = in.Reps
	e.OrderIndex = in.OrderIndex
	e.RestSeconds = domain.DefaultRestSeconds
	if in.RestSeconds != nil {
		e.RestSeconds = *in.RestSeconds
	}
	e.Weight = in.Weight
}
