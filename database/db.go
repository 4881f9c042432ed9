package database

import (
	"context"
	"fmt"
	"time"

	"cleaningmanager/config"
	"cleaningmanager/database/store"

	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Open connects the record store selected by STORE_BACKEND. The returned
// func releases the backend's client. app is only used by the firestore backend.
func Open(ctx context.Context, cfg config.Config, app *firebase.App, logger *zap.Logger) (store.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case "", "firestore":
		if app == nil {
			return nil, nil, fmt.Errorf("firestore backend requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open firestore: %w", err)
		}
		logger.Info("Connected to Firestore", zap.String("project", cfg.FirebaseProjectID))
		return store.NewFirestoreStore(client), func() { _ = client.Close() }, nil

	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		closer := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return store.NewMongoStore(client.Database(cfg.MongoDatabase), nil), closer, nil

	case "memory":
		logger.Warn("Using the in-memory record store; data is lost on exit")
		return store.NewMemoryStore(nil), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
