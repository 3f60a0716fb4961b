package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account of the workout app.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`                       // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`                    // Never expose this via JSON
	Goal         string             `bson:"goal,omitempty" json:"goal,omitempty"`     // Picked during onboarding, e.g. "strength"
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // Body weight in kg
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
