package service

import (
	"context"
	"errors"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"
	"alcyxob/workout-coach/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// planStore serves a user's own plans to a session runner. Plans of other
// users look missing.
type planStore struct {
	plans   repository.WorkoutPlanRepository
	entries repository.WorkoutExerciseRepository
	userID  primitive.ObjectID
}

func (p *planStore) plan(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := p.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != p.userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (p *planStore) PlanExercises(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	if _, err := p.plan(ctx, planID); err != nil {
		return nil, err
	}
	return p.entries.GetByPlanID(ctx, planID)
}

func (p *planStore) PlanMeta(ctx context.Context, planID primitive.ObjectID) (*session.PlanMeta, error) {
	plan, err := p.plan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &session.PlanMeta{Name: plan.Name}, nil
}

// exerciseCatalog exposes the exercise service as session reference data.
type exerciseCatalog struct {
	exercises ExerciseService
}

func (c *exerciseCatalog) Exercise(ctx context.Context, exerciseID primitive.ObjectID) (*session.ExerciseInfo, error) {
	exercise, err := c.exercises.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	return &session.ExerciseInfo{
		ID:          exercise.ID,
		Name:        exercise.Name,
		Description: exercise.Description,
		ImageURL:    exercise.ImageURL,
	}, nil
}

// historySink records finished sessions through the history service, tagging
// every set with the session's history ID.
type historySink struct {
	history HistoryService
	userID  primitive.ObjectID
}

func (h *historySink) RecordCompletion(ctx context.Context, completion session.Completion) error {
	completedAt := completion.CompletedAt
	_, err := h.history.RecordWorkout(ctx, h.userID, HistoryInput{
		ID:          completion.HistoryID,
		PlanID:      completion.PlanID,
		PlanName:    completion.PlanName,
		CompletedAt: &completedAt,
	})
	return err
}

func (h *historySink) RecordPerformance(ctx context.Context, historyID string, record session.PerformanceRecord) error {
	_, err := h.history.RecordPerformance(ctx, h.userID, PerformanceInput{
		ID:            record.ID,
		HistoryID:     historyID,
		ExerciseID:    record.ExerciseID,
		SetsCompleted: record.SetsCompleted,
		RepsCompleted: record.RepsCompleted,
		WeightUsed:    record.WeightUsed,
	})
	return err
}
