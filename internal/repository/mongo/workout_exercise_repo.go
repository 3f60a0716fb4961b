package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutExerciseRepository creates a new repository for plan entries.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
	}
}

// Create inserts a new plan entry.
func (r *mongoWorkoutExerciseRepository) Create(ctx context.Context, entry *domain.WorkoutExercise) (primitive.ObjectID, error) {
	if entry.PlanID == primitive.NilObjectID || entry.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout exercise requires workoutPlanId and exerciseId")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout exercise ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single entry by its ID.
func (r *mongoWorkoutExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error) {
	var entry domain.WorkoutExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByPlanID retrieves the entries of a plan sorted by orderIndex.
func (r *mongoWorkoutExerciseRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"workoutPlanId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.WorkoutExercise{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update changes the targets of an entry. The plan it belongs to never changes.
func (r *mongoWorkoutExerciseRepository) Update(ctx context.Context, entry *domain.WorkoutExercise) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("workout exercise ID is required for update")
	}

	entry.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"exerciseId":  entry.ExerciseID,
			"sets":        entry.Sets,
			"reps":        entry.Reps,
			"orderIndex":  entry.OrderIndex,
			"restSeconds": entry.RestSeconds,
			"weight":      entry.Weight,
			"updatedAt":   entry.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlanID removes every entry of a plan and returns how many were removed.
func (r *mongoWorkoutExerciseRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"workoutPlanId": planID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWorkoutExerciseIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutPlanId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	})
}
