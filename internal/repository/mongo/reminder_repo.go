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

const reminderCollectionName = "reminders"

// mongoReminderRepository implements repository.ReminderRepository
type mongoReminderRepository struct {
	collection *mongo.Collection
}

// NewMongoReminderRepository creates a new reminder repository.
func NewMongoReminderRepository(db *mongo.Database) repository.ReminderRepository {
	return &mongoReminderRepository{
		collection: db.Collection(reminderCollectionName),
	}
}

func (r *mongoReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) (primitive.ObjectID, error) {
	if reminder.UserID == primitive.NilObjectID || reminder.Time == "" {
		return primitive.NilObjectID, errors.New("reminder requires userId and time")
	}
	reminder.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted reminder ID")
	}
	return insertedID, nil
}

func (r *mongoReminderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Reminder, error) {
	var reminder domain.Reminder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reminder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

// GetByUserID lists a user's reminders by time of day.
func (r *mongoReminderRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Reminder, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reminders := []domain.Reminder{}
	if err = cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *mongoReminderRepository) Update(ctx context.Context, reminder *domain.Reminder) error {
	if reminder.ID == primitive.NilObjectID {
		return errors.New("reminder ID is required for update")
	}

	reminder.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"time":          reminder.Time,
			"daysOfWeek":    reminder.DaysOfWeek,
			"workoutPlanId": reminder.PlanID,
			"enabled":       reminder.Enabled,
			"updatedAt":     reminder.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": reminder.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoReminderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureReminderIndexes creates necessary indexes. Call during startup.
func EnsureReminderIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	})
}
