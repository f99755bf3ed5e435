// models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation groups messages between two users, optionally tied to a job.
type Conversation struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Participants []primitive.ObjectID `json:"participants" bson:"participants"`
	JobID        *primitive.ObjectID  `json:"jobId,omitempty" bson:"jobId,omitempty"`
	LastMessage  *ChatMessage         `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ChatMessage model
type ChatMessage struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID   primitive.ObjectID `json:"conversationId" bson:"conversationId"`
	SenderID         primitive.ObjectID `json:"senderId" bson:"senderId"`
	ReceiverID       primitive.ObjectID `json:"receiverId" bson:"receiverId"`
	Content          string             `json:"content" bson:"content"`
	OriginalLanguage string             `json:"originalLanguage" bson:"originalLanguage"`
	MessageType      string             `json:"messageType" bson:"messageType"` // text, voice, image, location
	Timestamp        time.Time          `json:"timestamp" bson:"timestamp"`
	IsRead           bool               `json:"isRead" bson:"isRead"`
}

type StartConversationRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
	JobID         string `json:"jobId,omitempty"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	ReceiverID     string `json:"receiverId" validate:"required"`
	Content        string `json:"content" validate:"required"`
	MessageType    string `json:"messageType,omitempty"`
}
