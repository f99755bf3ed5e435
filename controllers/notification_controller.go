// controllers/notification_controller.go
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
)

// NotificationController handles the in-app notification feed.
type NotificationController struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationController(notifications *repositories.NotificationRepository) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List handles GET /api/notifications
func (nc *NotificationController) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	notifications, err := nc.notifications.ListForUser(c.Request().Context(), userID, limit)
	if err != nil {
		log.Printf("list-notifications: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to fetch notifications"})
	}

	unread, err := nc.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		log.Printf("list-notifications: unread count failed: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data: map[string]interface{}{
			"notifications": notifications,
			"unreadCount":   unread,
		},
	})
}

// MarkRead handles PUT /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: "Invalid notification id"})
	}

	if err := nc.notifications.MarkRead(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Notification not found"})
		}
		log.Printf("mark-notification-read: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update notification"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "Notification marked as read"})
}

// MarkAllRead handles PUT /api/notifications/read-all
func (nc *NotificationController) MarkAllRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{Success: false, Message: "Invalid token"})
	}

	if err := nc.notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		log.Printf("mark-all-notifications-read: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{Success: false, Message: "Failed to update notifications"})
	}

	return c.JSON(http.StatusOK, models.Response{Success: true, Message: "All notifications marked as read"})
}
