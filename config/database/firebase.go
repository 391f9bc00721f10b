package database

import (
	"RestaurantRoulette/config/environment"
	"RestaurantRoulette/logging"
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// InitFirestore builds a Firestore client from the base64 encoded service account.
func InitFirestore(ctx context.Context, cfg environment.StorageConfig) (*firestore.Client, error) {
	decodedCredentials, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.FirebaseProjectID,
	}, option.WithCredentialsJSON(decodedCredentials))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	logging.Info().Str("project_id", cfg.FirebaseProjectID).Msg("Firebase Firestore initialized successfully")
	return client, nil
}
