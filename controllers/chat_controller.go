// controllers/chat_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/services"
	"github.com/agriconnect/agriconnect_backend/utils"
	"github.com/agriconnect/agriconnect_backend/websocket"
)

// ChatController handles conversations and messages between farmers and
// labourers.
type ChatController struct {
	chats  *repositories.ChatRepository
	users  *repositories.UserRepository
	notify *services.NotificationService
	hub    *websocket.Hub
}

func NewChatController(chats *repositories.ChatRepository, users *repositories.UserRepository, notify *services.NotificationService, hub *websocket.Hub) *ChatController {
	return &ChatController{chats: chats, users: users, notify: notify, hub: hub}
}

// StartConversation handles POST /api/chat/conversations
func (cc *ChatController) StartConversation(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "participantId is required"})
	}

	participantID, err := primitive.ObjectIDFromHex(req.ParticipantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid participant id"})
	}
	if participantID == userID {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Cannot start a conversation with yourself"})
	}

	if _, err := cc.users.FindByID(c.Request().Context(), participantID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Participant not found"})
		}
		log.Printf("start-conversation: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to start conversation"})
	}

	var jobID *primitive.ObjectID
	if req.JobID != "" {
		id, err := primitive.ObjectIDFromHex(req.JobID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid job id"})
		}
		jobID = &id
	}

	conv, err := cc.chats.FindOrCreateConversation(c.Request().Context(), []primitive.ObjectID{userID, participantID}, jobID)
	if err != nil {
		log.Printf("start-conversation: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to start conversation"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: conv})
}

// ListConversations handles GET /api/chat/conversations
func (cc *ChatController) ListConversations(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	convs, err := cc.chats.ListConversations(c.Request().Context(), userID)
	if err != nil {
		log.Printf("list-conversations: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch conversations"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: convs})
}

// SendMessage handles POST /api/chat/messages. The message is pushed over the
// receiver's socket when they are online, otherwise it becomes a push
// notification.
func (cc *ChatController) SendMessage(c echo.Context) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "conversationId, receiverId and content are required"})
	}

	convID, err := primitive.ObjectIDFromHex(req.ConversationID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid conversation id"})
	}
	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid receiver id"})
	}

	conv, err := cc.chats.FindConversationByID(c.Request().Context(), convID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Conversation not found"})
	}
	if err != nil {
		log.Printf("send-message: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to send message"})
	}

	if !isParticipant(conv, senderID) || !isParticipant(conv, receiverID) {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "You are not part of this conversation"})
	}

	sender, err := cc.users.FindByID(c.Request().Context(), senderID)
	if err != nil {
		log.Printf("send-message: sender lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to send message"})
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = "text"
	}

	msg := &models.ChatMessage{
		ConversationID:   convID,
		SenderID:         senderID,
		ReceiverID:       receiverID,
		Content:          utils.SanitizeInput(req.Content),
		OriginalLanguage: sender.Language,
		MessageType:      messageType,
	}

	if err := cc.chats.CreateMessage(c.Request().Context(), msg); err != nil {
		log.Printf("send-message: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to send message"})
	}

	if err := cc.hub.NotifyNewMessage(receiverID, msg); err != nil {
		// Receiver is offline, fall back to a push notification.
		if err := cc.notify.Notify(c.Request().Context(), receiverID,
			sender.Profile.Name, msg.Content,
			models.NotificationMessage, map[string]string{
				"conversationId": convID.Hex(),
				"senderId":       senderID.Hex(),
			}); err != nil {
			log.Printf("send-message: failed to save notification: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, models.Response{Success: true, Data: msg})
}

// ListMessages handles GET /api/chat/conversations/:id/messages. Fetching a
// page also marks the caller's unread messages in it as read.
func (cc *ChatController) ListMessages(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	convID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid conversation id"})
	}

	conv, err := cc.chats.FindConversationByID(c.Request().Context(), convID)
	if errors.Is(err, repositories.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Conversation not found"})
	}
	if err != nil {
		log.Printf("list-messages: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch messages"})
	}

	if !isParticipant(conv, userID) {
		return c.JSON(http.StatusForbidden, models.Response{Success: false, Message: "You are not part of this conversation"})
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)

	msgs, err := cc.chats.ListMessages(c.Request().Context(), convID, limit, skip)
	if err != nil {
		log.Printf("list-messages: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch messages"})
	}

	if err := cc.chats.MarkMessagesRead(c.Request().Context(), convID, userID); err != nil {
		log.Printf("list-messages: failed to mark read: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Data: msgs})
}

func isParticipant(conv *models.Conversation, userID primitive.ObjectID) bool {
	for _, p := range conv.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
