package mongo

import (
	"context"
	"errors"

	"alcyxob/workout-coach/internal/domain"
	"alcyxob/workout-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const performanceCollectionName = "workout_performance"

// mongoPerformanceRepository implements repository.PerformanceRepository
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

// NewMongoPerformanceRepository creates a new performance repository.
func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

// Create inserts one set record. The caller chooses the ID.
func (r *mongoPerformanceRepository) Create(ctx context.Context, perf *domain.WorkoutPerformance) error {
	if perf.ID == "" || perf.HistoryID == "" || perf.ExerciseID == primitive.NilObjectID {
		return errors.New("workout performance requires id, workoutHistoryId and exerciseId")
	}
	_, err := r.collection.InsertOne(ctx, perf)
	return insertErr(err)
}

// GetByHistoryID returns the records of one workout in the order they were logged.
func (r *mongoPerformanceRepository) GetByHistoryID(ctx context.Context, historyID string) ([]domain.WorkoutPerformance, error) {
	return r.find(ctx, bson.M{"workoutHistoryId": historyID}, 1)
}

// GetByUserAndExercise returns a user's records for one exercise, newest first.
func (r *mongoPerformanceRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.WorkoutPerformance, error) {
	return r.find(ctx, bson.M{"userId": userID, "exerciseId": exerciseID}, -1)
}

// GetByUserID returns all of a user's records, oldest first.
func (r *mongoPerformanceRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPerformance, error) {
	return r.find(ctx, bson.M{"userId": userID}, 1)
}

func (r *mongoPerformanceRepository) find(ctx context.Context, filter bson.M, order int) ([]domain.WorkoutPerformance, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: order}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.WorkoutPerformance{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountSetsByUser sums setsCompleted over all of a user's records.
func (r *mongoPerformanceRepository) CountSetsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$setsCompleted"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// EnsurePerformanceIndexes creates necessary indexes. Call during startup.
func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutHistoryId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
