// models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job statuses
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// Job model
type Job struct {
	ID                primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	FarmerID          primitive.ObjectID   `json:"farmerId" bson:"farmerId"`
	Title             string               `json:"title" bson:"title"`
	Description       string               `json:"description" bson:"description"`
	CropType          string               `json:"cropType" bson:"cropType"`
	WorkType          string               `json:"workType" bson:"workType"`
	Location          Location             `json:"location" bson:"location"`
	Requirements      JobRequirements      `json:"requirements" bson:"requirements"`
	Schedule          JobSchedule          `json:"schedule" bson:"schedule"`
	Wages             Wages                `json:"wages" bson:"wages"`
	Status            string               `json:"status" bson:"status"`
	ApplicationsCount int                  `json:"applicationsCount" bson:"applicationsCount"`
	HiredWorkers      []primitive.ObjectID `json:"hiredWorkers,omitempty" bson:"hiredWorkers,omitempty"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type JobRequirements struct {
	WorkersNeeded      int      `json:"workersNeeded" bson:"workersNeeded"`
	ExperienceRequired string   `json:"experienceRequired" bson:"experienceRequired"` // beginner, intermediate, expert
	SkillsRequired     []string `json:"skillsRequired" bson:"skillsRequired"`
}

type JobSchedule struct {
	StartDate     time.Time    `json:"startDate" bson:"startDate"`
	EndDate       *time.Time   `json:"endDate,omitempty" bson:"endDate,omitempty"`
	EstimatedDays int          `json:"estimatedDays" bson:"estimatedDays"`
	WorkingHours  WorkingHours `json:"workingHours" bson:"workingHours"`
}

type WorkingHours struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

type Wages struct {
	Type    string  `json:"type" bson:"type"` // daily, hourly, contract
	Amount  float64 `json:"amount" bson:"amount"`
	Bonuses []Bonus `json:"bonuses,omitempty" bson:"bonuses,omitempty"`
}

type Bonus struct {
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount" bson:"amount"`
}

// JobPostRequest is the body for creating a job.
type JobPostRequest struct {
	Title              string     `json:"title" validate:"required"`
	Description        string     `json:"description" validate:"required"`
	CropType           string     `json:"cropType" validate:"required"`
	WorkType           string     `json:"workType" validate:"required"`
	Location           Location   `json:"location"`
	WorkersNeeded      int        `json:"workersNeeded" validate:"required,min=1"`
	ExperienceRequired string     `json:"experienceRequired" validate:"required,oneof=beginner intermediate expert"`
	SkillsRequired     []string   `json:"skillsRequired"`
	StartDate          time.Time  `json:"startDate" validate:"required"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	EstimatedDays      int        `json:"estimatedDays" validate:"required,min=1"`
	WorkingHours       WorkingHours `json:"workingHours"`
	WageType           string     `json:"wageType" validate:"required,oneof=daily hourly contract"`
	WageAmount         float64    `json:"wageAmount" validate:"required,gt=0"`
	Bonuses            []Bonus    `json:"bonuses,omitempty"`
}

// JobSearchFilters is bound from the search query string and passed through to
// the repository as-is.
type JobSearchFilters struct {
	State           string   `query:"state"`
	District        string   `query:"district"`
	CropTypes       []string `query:"cropType"`
	WorkTypes       []string `query:"workType"`
	ExperienceLevel string   `query:"experienceLevel"`
	MinWage         float64  `query:"minWage"`
	MaxWage         float64  `query:"maxWage"`
	SortBy          string   `query:"sortBy"`    // date or wage
	SortOrder       string   `query:"sortOrder"` // asc or desc
	Limit           int64    `query:"limit"`
	Skip            int64    `query:"skip"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in-progress completed cancelled"`
}
