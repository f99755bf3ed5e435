package services

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/config"
	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
)

// NotificationService stores in-app notifications and, when Firebase is
// configured and the user has a device token, mirrors them as FCM pushes.
type NotificationService struct {
	notifications *repositories.NotificationRepository
	users         *repositories.UserRepository
	logger        *log.Logger
}

func NewNotificationService(notifications *repositories.NotificationRepository, users *repositories.UserRepository, logger *log.Logger) *NotificationService {
	if logger == nil {
		logger = log.Default()
	}
	return &NotificationService{
		notifications: notifications,
		users:         users,
		logger:        logger,
	}
}

// Notify saves the notification and attempts a push. Push failures are logged,
// never surfaced: the in-app copy is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data map[string]string) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Data:    data,
		IsRead:  false,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return err
	}

	go s.push(userID, title, message, data)
	return nil
}

func (s *NotificationService) push(userID primitive.ObjectID, title, message string, data map[string]string) {
	if config.FirebaseApp == nil {
		return
	}

	ctx := context.Background()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Printf("push: failed to load user %s: %v", userID.Hex(), err)
		return
	}
	if user.FCMToken == "" {
		return
	}

	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		s.logger.Printf("push: failed to get messaging client: %v", err)
		return
	}

	if data == nil {
		data = map[string]string{}
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "agriconnect_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
				},
			},
		},
	}

	if _, err := client.Send(ctx, fcmMessage); err != nil {
		s.logger.Printf("push: failed to send to user %s: %v", userID.Hex(), err)
	}
}
