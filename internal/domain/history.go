package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHistory records one finished workout. The ID is a UUID string so a
// session can generate it up front and tag performance records with it.
type WorkoutHistory struct {
	ID          string             `bson:"_id" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID      primitive.ObjectID `bson:"workoutPlanId" json:"workoutPlanId"`
	PlanName    string             `bson:"workoutPlanName" json:"workoutPlanName"` // Denormalized, survives plan deletion
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
}

// WorkoutPerformance is the logged outcome of one completed set.
type WorkoutPerformance struct {
	ID            string             `bson:"_id" json:"id"`
	HistoryID     string             `bson:"workoutHistoryId" json:"workoutHistoryId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseID    primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetsCompleted int                `bson:"setsCompleted" json:"setsCompleted"`
	RepsCompleted int                `bson:"repsCompleted" json:"repsCompleted"`
	WeightUsed    *float64           `bson:"weightUsed,omitempty" json:"weightUsed"`
	RecordedAt    time.Time          `bson:"recordedAt" json:"recordedAt"`
}
