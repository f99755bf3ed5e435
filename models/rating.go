// models/rating.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating model. One user rates another in the context of a completed job.
type Rating struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RaterID     primitive.ObjectID `json:"raterId" bson:"raterId"`
	RatedUserID primitive.ObjectID `json:"ratedUserId" bson:"ratedUserId"`
	JobID       primitive.ObjectID `json:"jobId" bson:"jobId"`
	Rating      int                `json:"rating" bson:"rating"` // 1-5
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type RatingRequest struct {
	RatedUserID string `json:"ratedUserId" validate:"required"`
	JobID       string `json:"jobId" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment,omitempty"`
}
