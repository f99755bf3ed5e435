// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleFarmer   = "farmer"
	RoleLabourer = "labourer"
	RoleAdmin    = "admin"
)

// Supported languages
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangMarathi = "mr"
)

// User model
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Phone      string             `json:"phone" bson:"phone"`
	Role       string             `json:"role" bson:"role"`
	Language   string             `json:"language" bson:"language"`
	IsVerified bool               `json:"isVerified" bson:"isVerified"`
	Profile    Profile            `json:"profile" bson:"profile"`
	FCMToken   string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Profile carries the fields shared by both roles plus exactly one of the
// role-specific detail blocks. The user's role is the discriminant: Farmer is
// set for farmers, Labourer for labourers, never both.
type Profile struct {
	Name         string           `json:"name" bson:"name"`
	Avatar       string           `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Location     Location         `json:"location" bson:"location"`
	Rating       float64          `json:"rating" bson:"rating"`
	TotalRatings int              `json:"totalRatings" bson:"totalRatings"`
	Farmer       *FarmerDetails   `json:"farmer,omitempty" bson:"farmer,omitempty"`
	Labourer     *LabourerDetails `json:"labourer,omitempty" bson:"labourer,omitempty"`
}

// Location model. State and district are the minimum any location-carrying
// request must provide; village and coordinates refine it.
type Location struct {
	State       string       `json:"state" bson:"state" validate:"required"`
	District    string       `json:"district" bson:"district" validate:"required"`
	Village     string       `json:"village" bson:"village"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type FarmerDetails struct {
	FarmDetails FarmDetails `json:"farmDetails" bson:"farmDetails"`
	JobsPosted  int         `json:"jobsPosted" bson:"jobsPosted"`
	TotalSpent  float64     `json:"totalSpent" bson:"totalSpent"`
}

type FarmDetails struct {
	FarmSize          float64  `json:"farmSize" bson:"farmSize"` // acres
	PrimaryCrops      []string `json:"primaryCrops" bson:"primaryCrops"`
	FarmingExperience int      `json:"farmingExperience" bson:"farmingExperience"` // years
}

type LabourerDetails struct {
	Skills        []string     `json:"skills" bson:"skills"`
	Experience    int          `json:"experience" bson:"experience"` // years
	Availability  Availability `json:"availability" bson:"availability"`
	JobsCompleted int          `json:"jobsCompleted" bson:"jobsCompleted"`
	TotalEarned   float64      `json:"totalEarned" bson:"totalEarned"`
}

type Availability struct {
	IsAvailable        bool     `json:"isAvailable" bson:"isAvailable"`
	PreferredWorkTypes []string `json:"preferredWorkTypes" bson:"preferredWorkTypes"`
	MaxTravelDistance  int      `json:"maxTravelDistance" bson:"maxTravelDistance"` // km
}

// PublicUser is the user view returned by the auth endpoints and embedded in
// other users' responses. It never exposes the FCM token.
type PublicUser struct {
	ID         string `json:"id"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Language   string `json:"language"`
	IsVerified bool   `json:"isVerified"`
}

// PublicView converts a User into its public representation.
func (u *User) PublicView() PublicUser {
	return PublicUser{
		ID:         u.ID.Hex(),
		Phone:      u.Phone,
		Role:       u.Role,
		Name:       u.Profile.Name,
		Language:   u.Language,
		IsVerified: u.IsVerified,
	}
}

// Response is the uniform API envelope.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	RedirectTo string      `json:"redirectTo,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields. Role-specific
// blocks are applied only when they match the caller's role.
type UpdateProfileRequest struct {
	Name         string        `json:"name,omitempty"`
	Location     *Location     `json:"location,omitempty"`
	Language     string        `json:"language,omitempty"`
	FarmDetails  *FarmDetails  `json:"farmDetails,omitempty"`
	Skills       []string      `json:"skills,omitempty"`
	Experience   *int          `json:"experience,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcmToken" validate:"required"`
}
