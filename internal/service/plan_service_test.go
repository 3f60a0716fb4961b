package service

import (
	"context"
	"testing"

	"alcyxob/workout-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkoutPlanService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner := primitive.NewObjectID()

	squat, err := w.exerciseSvc.CreateExercise(ctx, owner, ExerciseInput{Name: "Squat"})
	require.NoError(t, err)

	plan, err := w.planSvc.CreatePlan(ctx, owner, PlanInput{Name: " Leg day "})
	require.NoError(t, err)
	assert.Equal(t, "Leg day", plan.Name)

	second, err := w.planSvc.AddEntry(ctx, owner, EntryInput{PlanID: plan.ID, ExerciseID: squat.ID, Sets: 3, Reps: 8, OrderIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRestSeconds, second.RestSeconds)

	rest := 90
	first, err := w.planSvc.AddEntry(ctx, owner, EntryInput{PlanID: plan.ID, ExerciseID: squat.ID, Sets: 5, Reps: 5, OrderIndex: 0, RestSeconds: &rest})
	require.NoError(t, err)
	assert.Equal(t, 90, first.RestSeconds)

	entries, err := w.planSvc.ListEntries(ctx, owner, plan.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)

	require.NoError(t, w.planSvc.DeletePlan(ctx, owner, plan.ID))
	_, err = w.planSvc.GetPlan(ctx, owner, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	left, err := w.entries.GetByPlanID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestWorkoutPlanService_Ownership(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()
	plan, exercises := w.seedPlan(owner, "Push day", [2]int{3, 10})

	_, err := w.planSvc.GetPlan(ctx, stranger, plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	_, err = w.planSvc.AddEntry(ctx, stranger, EntryInput{PlanID: plan.ID, ExerciseID: exercises[0].ID, Sets: 1, Reps: 1})
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	entries, err := w.planSvc.ListEntries(ctx, owner, plan.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, w.planSvc.DeleteEntry(ctx, stranger, entries[0].ID), ErrPlanAccessDenied)
	assert.ErrorIs(t, w.planSvc.DeleteEntry(ctx, owner, primitive.NewObjectID()), ErrPlanEntryNotFound)
}

func TestWorkoutPlanService_EntryValidation(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner := primitive.NewObjectID()
	plan, exercises := w.seedPlan(owner, "Push day", [2]int{3, 10})
	negative := -1

	tests := []struct {
		name  string
		input EntryInput
		want  error
	}{
		{"zero sets", EntryInput{Sets: 0, Reps: 5}, ErrValidationFailed},
		{"zero reps", EntryInput{Sets: 3, Reps: 0}, ErrValidationFailed},
		{"negative order", EntryInput{Sets: 3, Reps: 5, OrderIndex: -1}, ErrValidationFailed},
		{"negative rest", EntryInput{Sets: 3, Reps: 5, RestSeconds: &negative}, ErrValidationFailed},
		{"unknown exercise", EntryInput{Sets: 3, Reps: 5, ExerciseID: primitive.NewObjectID()}, ErrExerciseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.PlanID = plan.ID
			if tt.input.ExerciseID.IsZero() {
				tt.input.ExerciseID = exercises[0].ID
			}
			_, err := w.planSvc.AddEntry(ctx, owner, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
