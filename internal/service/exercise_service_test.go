package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExerciseService_CRUD(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	_, err := w.exerciseSvc.CreateExercise(ctx, owner, ExerciseInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidationFailed)

	ex, err := w.exerciseSvc.CreateExercise(ctx, owner, ExerciseInput{Name: "Bench press", MuscleGroup: "Chest"})
	require.NoError(t, err)

	_, err = w.exerciseSvc.UpdateExercise(ctx, stranger, ex.ID, ExerciseInput{Name: "Mine now"})
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	updated, err := w.exerciseSvc.UpdateExercise(ctx, owner, ex.ID, ExerciseInput{Name: "Incline bench press"})
	require.NoError(t, err)
	assert.Equal(t, "Incline bench press", updated.Name)

	list, err := w.exerciseSvc.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, w.exerciseSvc.DeleteExercise(ctx, stranger, ex.ID), ErrExerciseAccessDenied)
	require.NoError(t, w.exerciseSvc.DeleteExercise(ctx, owner, ex.ID))
	_, err = w.exerciseSvc.GetExerciseByID(ctx, ex.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_ImageUpload(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	owner := primitive.NewObjectID()
	ex, err := w.exerciseSvc.CreateExercise(ctx, owner, ExerciseInput{Name: "Squat", ImageURL: "https://img.test/squat.png"})
	require.NoError(t, err)

	_, err = w.exerciseSvc.RequestImageUploadURL(ctx, owner, ex.ID, "application/pdf")
	assert.ErrorIs(t, err, ErrValidationFailed)

	resp, err := w.exerciseSvc.RequestImageUploadURL(ctx, owner, ex.ID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ObjectKey, "exercises/"+ex.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".png"))

	_, err = w.exerciseSvc.ConfirmImageUpload(ctx, owner, ex.ID, resp.ObjectKey, "squat.png", 4, "image/png")
	assert.ErrorIs(t, err, ErrUploadMissing)

	_, err = w.exerciseSvc.ConfirmImageUpload(ctx, owner, ex.ID, "exercises/other/x.png", "x.png", 4, "image/png")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = w.exerciseSvc.ConfirmImageUpload(ctx, owner, ex.ID, resp.ObjectKey, "squat.png", MaxImageSize+1, "image/png")
	assert.ErrorIs(t, err, ErrValidationFailed)

	require.NoError(t, w.storage.PutObject(ctx, resp.ObjectKey, "image/png", bytes.NewReader([]byte("data"))))
	confirmed, err := w.exerciseSvc.ConfirmImageUpload(ctx, owner, ex.ID, resp.ObjectKey, "squat.png", 4, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/get/"+resp.ObjectKey, confirmed.ImageURL)

	fetched, err := w.exerciseSvc.GetExerciseByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.ImageURL, fetched.ImageURL)
}
