package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/controllers"
	"github.com/agriconnect/agriconnect_backend/middleware"
	"github.com/agriconnect/agriconnect_backend/websocket"
)

// RegisterChatRoutes sets up messaging and notification endpoints plus the
// WebSocket upgrade.
func RegisterChatRoutes(e *echo.Echo, chatController *controllers.ChatController, notificationController *controllers.NotificationController, hub *websocket.Hub) {
	chat := e.Group("/api/chat")
	chat.Use(middleware.JWTMiddleware())

	chat.POST("/conversations", chatController.StartConversation)
	chat.GET("/conversations", chatController.ListConversations)
	chat.GET("/conversations/:id/messages", chatController.ListMessages)
	chat.POST("/messages", chatController.SendMessage)

	notifications := e.Group("/api/notifications")
	notifications.Use(middleware.JWTMiddleware())

	notifications.GET("", notificationController.List)
	notifications.PUT("/read-all", notificationController.MarkAllRead)
	notifications.PUT("/:id/read", notificationController.MarkRead)

	// The socket is public at upgrade time; clients authenticate in-band with
	// an AUTH:<token> frame.
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, primitive.NilObjectID)
	})
}
