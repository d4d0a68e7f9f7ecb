package migrations

import (
	"context"
	"fmt"

	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateCountryIndexes builds the indexes the countries collection relies on:
// the unique lower-cased name identity and the descending GDP sort used for
// the top-N summary read.
func CreateCountryIndexes(cfg *config.Config) func(ctx context.Context, client *mongo.Client) error {
	return func(ctx context.Context, client *mongo.Client) error {
		coll := client.Database(cfg.DBName).Collection(cfg.CollectionCountries)

		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_name_key"),
			},
			{
				Keys:    bson.D{{Key: "estimated_gdp", Value: -1}},
				Options: options.Index().SetName("estimated_gdp_desc"),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create country indexes: %w", err)
		}

		return nil
	}
}
