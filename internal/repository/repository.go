package repository

import (
	"context"

	"alcyxob/workout-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) error
	UpdateGoal(ctx context.Context, id primitive.ObjectID, goal string) error
	UpdateWeight(ctx context.Context, id primitive.ObjectID, weight float64) error
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetImageUpload(ctx context.Context, id, uploadID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID primitive.ObjectID) error // Ensure the caller owns the exercise
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Upload, error) // Latest upload for the exercise
}

// WorkoutPlanRepository defines the interface for interacting with workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutExerciseRepository defines the interface for the entries of a plan.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutExercise, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WorkoutExercise, error) // Sorted by orderIndex
	Update(ctx context.Context, entry *domain.WorkoutExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
}

// HistoryRepository stores finished workouts.
type HistoryRepository interface {
	Create(ctx context.Context, history *domain.WorkoutHistory) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutHistory, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, newestFirst bool) ([]domain.WorkoutHistory, error)
}

// PerformanceRepository stores per-set performance records.
type PerformanceRepository interface {
	Create(ctx context.Context, perf *domain.WorkoutPerformance) error
	GetByHistoryID(ctx context.Context, historyID string) ([]domain.WorkoutPerformance, error)
	GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.WorkoutPerformance, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPerformance, error) // Oldest first
	CountSetsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ReminderRepository stores workout reminders.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Reminder, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Reminder, error)
	Update(ctx context.Context, reminder *domain.Reminder) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
