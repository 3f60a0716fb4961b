// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"` // Only the creator may edit or delete it
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string              `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	Difficulty  string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g., "Beginner", "Advanced"
	ImageURL    string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`       // External image link
	ImageUpload *primitive.ObjectID `bson:"imageUploadId,omitempty" json:"-"`                   // Uploaded image, takes precedence over ImageURL
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
