// internal/domain/workout_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRestSeconds is used for plan entries created without an explicit rest.
const DefaultRestSeconds = 60

// WorkoutPlan is an ordered collection of exercise entries a user follows during a session.
type WorkoutPlan struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"` // Owner
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ExperienceLevel string             `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	Goal            string             `bson:"goal,omitempty" json:"goal,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is one row of a plan: which exercise, its target sets/reps,
// rest seconds and optional target weight. Entries are ordered by OrderIndex ascending.
type WorkoutExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"workoutPlanId" json:"workoutPlanId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        int                `bson:"reps" json:"reps"`
	OrderIndex  int                `bson:"orderIndex" json:"orderIndex"`
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
	Weight      *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg, nil means bodyweight/unspecified
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
