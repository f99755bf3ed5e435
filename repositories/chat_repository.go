package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agriconnect/agriconnect_backend/config"
	"github.com/agriconnect/agriconnect_backend/models"
)

type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatRepository(db *mongo.Client) *ChatRepository {
	return &ChatRepository{
		conversations: config.GetCollection(db, "conversations"),
		messages:      config.GetCollection(db, "messages"),
	}
}

// FindOrCreateConversation returns the conversation between the participants
// (for the given job, when set), creating it on first contact.
func (r *ChatRepository) FindOrCreateConversation(ctx context.Context, participants []primitive.ObjectID, jobID *primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"participants": bson.M{"$all": participants, "$size": len(participants)}}
	if jobID != nil {
		query["jobId"] = *jobID
	}

	var conv models.Conversation
	err := r.conversations.FindOne(ctx, query).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	conv = models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		JobID:        jobID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.conversations.InsertOne(ctx, conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ChatRepository) FindConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var conv models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns a user's conversations, most recently active
// first.
func (r *ChatRepository) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	convs := []models.Conversation{}
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateMessage stores the message and refreshes the conversation's
// lastMessage snapshot.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg.ID = primitive.NewObjectID()
	msg.Timestamp = time.Now()
	msg.IsRead = false

	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return err
	}

	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": msg.ConversationID}, bson.M{
		"$set": bson.M{"lastMessage": msg, "updatedAt": msg.Timestamp},
	})
	return err
}

// ListMessages returns a page of messages, newest first.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID primitive.ObjectID, limit, skip int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	msgs := []models.ChatMessage{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkMessagesRead marks all messages addressed to the user in the
// conversation as read.
func (r *ChatRepository) MarkMessagesRead(ctx context.Context, conversationID, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.messages.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "receiverId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	return err
}
