package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder asks the device to notify the user at Time ("HH:MM") on the given
// ISO weekdays (1 = Monday ... 7 = Sunday). Scheduling itself happens on the device.
type Reminder struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"userId" json:"userId"`
	Time       string              `bson:"time" json:"time"`
	DaysOfWeek []int               `bson:"daysOfWeek" json:"daysOfWeek"`
	PlanID     *primitive.ObjectID `bson:"workoutPlanId,omitempty" json:"workoutPlanId"`
	Enabled    bool                `bson:"enabled" json:"enabled"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
