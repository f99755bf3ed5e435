package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var FirebaseApp *firebase.App

// InitFirebase initializes the Firebase Admin SDK used for FCM push
// notifications. Firebase is optional: without credentials the app runs with
// push disabled and notifications stay in-app only.
func InitFirebase() {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	fbConfig := &firebase.Config{ProjectID: projectID}

	// Check for base64 encoded credentials first
	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			log.Printf("Error decoding base64 Firebase credentials: %v", err)
			return
		}

		app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsJSON(decoded))
		if err != nil {
			log.Printf("Error initializing firebase app: %v", err)
			return
		}
		FirebaseApp = app
		log.Println("Firebase initialized (push notifications enabled)")
		return
	}

	// Fallback to file-based credentials
	credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credFile == "" {
		log.Println("Firebase credentials not configured, push notifications disabled")
		return
	}

	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(credFile))
	if err != nil {
		log.Printf("Error initializing firebase app: %v", err)
		return
	}
	FirebaseApp = app
	log.Println("Firebase initialized (push notifications enabled)")
}
