// models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses
const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// JobApplication model
type JobApplication struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID        primitive.ObjectID `json:"jobId" bson:"jobId"`
	LabourerID   primitive.ObjectID `json:"labourerId" bson:"labourerId"`
	FarmerID     primitive.ObjectID `json:"farmerId" bson:"farmerId"`
	Message      string             `json:"message,omitempty" bson:"message,omitempty"`
	ProposedWage float64            `json:"proposedWage,omitempty" bson:"proposedWage,omitempty"`
	Status       string             `json:"status" bson:"status"`
	AppliedAt    time.Time          `json:"appliedAt" bson:"appliedAt"`
	RespondedAt  *time.Time         `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
}

type ApplyRequest struct {
	JobID        string  `json:"jobId" validate:"required"`
	Message      string  `json:"message,omitempty"`
	ProposedWage float64 `json:"proposedWage,omitempty"`
}

type RespondApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
