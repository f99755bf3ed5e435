package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and runs the read loop. Connections
// without a valid JWT start unauthenticated and must send "AUTH:<token>"
// before any events are delivered to them.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:        userID,
		Conn:          conn,
		Authenticated: userID != primitive.NilObjectID,
	}

	hub.register <- client

	if client.Authenticated {
		conn.WriteJSON(Event{
			Type:    "connected",
			Message: "WebSocket connection established",
			UserID:  userID.Hex(),
		})
	} else {
		conn.WriteJSON(Event{
			Type:         "connected",
			Message:      "WebSocket connection established. Please authenticate to receive events.",
			RequiresAuth: true,
		})
	}

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			if messageType != websocket.TextMessage {
				continue
			}

			messageStr := string(message)
			if !strings.HasPrefix(messageStr, "AUTH:") {
				continue
			}

			token := strings.TrimPrefix(messageStr, "AUTH:")
			claims, err := middleware.ParseToken(token)
			if err != nil {
				conn.WriteJSON(Event{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				conn.WriteJSON(Event{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			hub.AuthenticateClient(client, id)
			conn.WriteJSON(Event{
				Type:    "auth_response",
				Message: "Authenticated",
				UserID:  id.Hex(),
			})
		}
	}()

	return nil
}
