package db

import (
	"context"
	"strings"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/internal/db/migrations"
	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	// Credentials travel in the URI; MONGO_AUTH_DB appends the auth source
	// when the deployment needs one.
	uri := cfg.MongoURI
	if cfg.MongoAuthDB != "" && !strings.Contains(uri, "authSource=") {
		uri += "/?authSource=" + cfg.MongoAuthDB
	}
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err = client.Ping(ctxTimeout, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB!")
	return client, nil
}

func DisconnectMongoDB(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return err
	}
	logger.Info("Disconnected from MongoDB.")
	return nil
}

func RunMigrations(ctx context.Context, client *mongo.Client, cfg *config.Config) error {
	pending := []models.Migration{
		{Name: "countries_indexes", Func: migrations.CreateCountryIndexes(cfg)},
	}

	coll := client.Database(cfg.DBName).Collection(cfg.CollectionMigrations)

	for _, m := range pending {
		var result struct{ Name string }
		err := coll.FindOne(ctx, bson.M{"name": m.Name}).Decode(&result)
		if err == mongo.ErrNoDocuments {
			logger.Info("Running migration: %s", m.Name)
			if err := m.Func(ctx, client); err != nil {
				logger.Error("Error applying migration %s: %v", m.Name, err)
				return err
			}
			_, err = coll.InsertOne(ctx, bson.M{"name": m.Name, "applied_at": time.Now()})
			if err != nil {
				return err
			}
			logger.Info("Migration %s applied successfully.", m.Name)
		} else if err != nil {
			return err
		} else {
			logger.Info("Migration %s already applied, skipping.", m.Name)
		}
	}

	return nil
}
