package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed over the socket
const (
	EventNewMessage          = "new_message"
	EventApplicationReceived = "application_received"
	EventApplicationUpdate   = "application_update"
	EventJobMatch            = "job_match"
)

// Event is a message sent over WebSocket
type Event struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID        primitive.ObjectID
	Conn          *websocket.Conn
	Authenticated bool
}

// Hub maintains the set of active clients and routes events to them
type Hub struct {
	clients                map[primitive.ObjectID]*Client
	unauthenticatedClients map[*Client]bool
	register               chan *Client
	unregister             chan *Client
	mu                     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:                make(map[primitive.ObjectID]*Client),
		unauthenticatedClients: make(map[*Client]bool),
		register:               make(chan *Client),
		unregister:             make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			} else {
				h.unauthenticatedClients[client] = true
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				if existing, ok := h.clients[client.UserID]; ok && existing == client {
					delete(h.clients, client.UserID)
				}
			} else {
				delete(h.unauthenticatedClients, client)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends an event to a specific user if they are connected
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(event)
}

// IsOnline reports whether the user currently has an authenticated socket
func (h *Hub) IsOnline(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// AuthenticateClient moves a client from unauthenticated to authenticated state
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.unauthenticatedClients, client)
	client.Authenticated = true
	client.UserID = userID
	h.clients[userID] = client
}

// NotifyNewMessage pushes a chat message to the receiver in real time
func (h *Hub) NotifyNewMessage(receiverID primitive.ObjectID, message interface{}) error {
	return h.SendToUser(receiverID, Event{
		Type:    EventNewMessage,
		Message: "New message received",
		Data:    message,
	})
}

// NotifyApplicationReceived tells a farmer a labourer applied to their job
func (h *Hub) NotifyApplicationReceived(farmerID primitive.ObjectID, application interface{}) error {
	return h.SendToUser(farmerID, Event{
		Type:    EventApplicationReceived,
		Message: "New application received",
		Data:    application,
	})
}

// NotifyApplicationUpdate tells a labourer their application was accepted or
// rejected
func (h *Hub) NotifyApplicationUpdate(labourerID primitive.ObjectID, application interface{}) error {
	return h.SendToUser(labourerID, Event{
		Type:    EventApplicationUpdate,
		Message: "Your application status has been updated",
		Data:    application,
	})
}
