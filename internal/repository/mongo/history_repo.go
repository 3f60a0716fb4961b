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

const historyCollectionName = "workout_history"

// mongoHistoryRepository implements repository.HistoryRepository
type mongoHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoHistoryRepository creates a new history repository.
func NewMongoHistoryRepository(db *mongo.Database) repository.HistoryRepository {
	return &mongoHistoryRepository{
		collection: db.Collection(historyCollectionName),
	}
}

// Create inserts a finished workout. IDs are chosen by the caller, so
// inserting the same one twice yields repository.ErrDuplicate.
func (r *mongoHistoryRepository) Create(ctx context.Context, history *domain.WorkoutHistory) error {
	if history.ID == "" || history.UserID == primitive.NilObjectID {
		return errors.New("workout history requires id and userId")
	}
	_, err := r.collection.InsertOne(ctx, history)
	return insertErr(err)
}

func (r *mongoHistoryRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutHistory, error) {
	var history domain.WorkoutHistory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&history)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// GetByUserID lists a user's finished workouts by completion time.
func (r *mongoHistoryRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, newestFirst bool) ([]domain.WorkoutHistory, error) {
	order := 1
	if newestFirst {
		order = -1
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: order}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	history := []domain.WorkoutHistory{}
	if err = cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// EnsureHistoryIndexes creates necessary indexes. Call during startup.
func EnsureHistoryIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
