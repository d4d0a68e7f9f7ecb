package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared across services. Callers match them with errors.Is
// and map them to HTTP status codes at the edge.
var (
	// ErrSourceUnavailable means the upstream country catalog could not be
	// reached or returned a failure. A refresh that hits this leaves the
	// cached set untouched.
	ErrSourceUnavailable = errors.New("country data source unavailable")

	// ErrRateUnavailable means a single currency lookup failed. It never
	// aborts a refresh; the affected record keeps nil rate and GDP.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrNotFound is returned by name lookups and deletes that match no row.
	ErrNotFound = errors.New("country not found")
)

type RateLimitSettings struct {
	MaxRequests int
	PerDuration time.Duration
}

type Migration struct {
	Name string
	Func func(ctx context.Context, client *mongo.Client) error
}
