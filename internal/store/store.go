package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows a List call. Empty fields match everything; matching is
// exact but case-insensitive.
type Filter struct {
	Region   string
	Currency string
	Sort     string
}

var sortSpecs = map[string]bson.D{
	"gdp_desc":        {{Key: "estimated_gdp", Value: -1}},
	"gdp_asc":         {{Key: "estimated_gdp", Value: 1}},
	"population_desc": {{Key: "population", Value: -1}},
	"population_asc":  {{Key: "population", Value: 1}},
	"name_asc":        {{Key: "name_key", Value: 1}},
	"name_desc":       {{Key: "name_key", Value: -1}},
}

// Store persists the cached country set in a single MongoDB collection.
// Uniqueness on the lower-cased name is enforced by a migration-created index.
type Store struct {
	client   *mongo.Client
	dbName   string
	collName string
}

func New(client *mongo.Client, cfg *config.Config) *Store {
	return &Store{
		client:   client,
		dbName:   cfg.DBName,
		collName: cfg.CollectionCountries,
	}
}

func (s *Store) coll() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(s.collName)
}

// ReplaceAll swaps the entire cached set for the given records: delete all,
// insert all. There is no multi-document transaction on a standalone server,
// so a failure mid-insert leaves a partial set; callers accept this.
func (s *Store) ReplaceAll(ctx context.Context, countries []models.Country) (int, error) {
	coll := s.coll()

	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear countries: %w", err)
	}

	if len(countries) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(countries))
	for _, c := range countries {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		c.NameKey = models.NormalizeName(c.Name)
		docs = append(docs, c)
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert countries: %w", err)
	}

	return len(res.InsertedIDs), nil
}

// List returns cached records matching the filter, ordered by the sort token.
// Unknown or empty tokens fall back to name_asc.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Country, error) {
	query := bson.M{}
	if f.Region != "" {
		query["region"] = ciExact(f.Region)
	}
	if f.Currency != "" {
		query["currency_code"] = ciExact(f.Currency)
	}

	sort, ok := sortSpecs[f.Sort]
	if !ok {
		sort = sortSpecs["name_asc"]
	}

	cursor, err := s.coll().Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer cursor.Close(ctx)

	countries := []models.Country{}
	if err := cursor.All(ctx, &countries); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	return countries, nil
}

// GetByName looks a record up by its case-insensitive name.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Country, error) {
	var country models.Country
	err := s.coll().FindOne(ctx, bson.M{"name_key": models.NormalizeName(name)}).Decode(&country)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country %q: %w", name, err)
	}
	return &country, nil
}

// DeleteByName removes exactly one record, matched case-insensitively.
func (s *Store) DeleteByName(ctx context.Context, name string) error {
	res, err := s.coll().DeleteOne(ctx, bson.M{"name_key": models.NormalizeName(name)})
	if err != nil {
		return fmt.Errorf("failed to delete country %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Status aggregates the live row count and newest refresh timestamp. Nothing
// is cached; a delete is visible on the next call.
func (s *Store) Status(ctx context.Context) (models.Status, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total":          bson.M{"$sum": 1},
			"last_refreshed": bson.M{"$max": "$last_refreshed_at"},
		}}},
	}

	cursor, err := s.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return models.Status{}, fmt.Errorf("failed to aggregate status: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total         int64              `bson:"total"`
		LastRefreshed primitive.DateTime `bson:"last_refreshed"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return models.Status{}, fmt.Errorf("failed to decode status: %w", err)
	}

	if len(results) == 0 {
		return models.Status{TotalCountries: 0}, nil
	}

	ts := results[0].LastRefreshed.Time().UTC()
	return models.Status{
		TotalCountries:  results[0].Total,
		LastRefreshedAt: &ts,
	}, nil
}

// TopByGdp returns the n highest records by estimated GDP descending. Records
// with a nil GDP stay in the candidate pool and sort after every resolved
// value, which is what the descending sort gives us: BSON orders null below
// all numbers.
func (s *Store) TopByGdp(ctx context.Context, n int) ([]models.Country, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "estimated_gdp", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := s.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query top GDP: %w", err)
	}
	defer cursor.Close(ctx)

	countries := []models.Country{}
	if err := cursor.All(ctx, &countries); err != nil {
		return nil, fmt.Errorf("failed to decode top GDP: %w", err)
	}

	return countries, nil
}

// Count reports the current number of cached records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.coll().CountDocuments(ctx, bson.M{})
}

func ciExact(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}
