package utils

import (
	"context"
	"log"

	"cleaningmanager/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp *firebase.App
	FCMClient   *messaging.Client
)

// FirebaseInit initializes the Firebase App shared by the record store, the
// identity provider and messaging.
func FirebaseInit() {
	ctx := context.Background()

	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	var cfg *firebase.Config
	if projectID := config.AppConfig.FirebaseProjectID; projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}
	FirebaseApp = app

	if config.AppConfig.NotificationsEnabled {
		client, err := app.Messaging(ctx)
		if err != nil {
			log.Fatalf("firebase: error getting Messaging client: %v", err)
		}
		FCMClient = client
	}
}

// GetFirebaseApp returns the shared app, initializing it on first use.
func GetFirebaseApp() *firebase.App {
	if FirebaseApp == nil {
		FirebaseInit()
	}
	return FirebaseApp
}
