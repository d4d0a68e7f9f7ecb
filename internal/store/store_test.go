package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/internal/db"
	"github.com/AbdulWasayUl/country-cache-api/internal/store"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongoContainer(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	return uri, func() { container.Terminate(ctx) }
}

func setupStore(ctx context.Context, t *testing.T, uri string) (*store.Store, *mongo.Client) {
	t.Helper()

	cfg := &config.Config{
		MongoURI:             uri,
		DBName:               "country_cache_test",
		CollectionCountries:  "countries",
		CollectionMigrations: "migrations_history",
	}

	client, err := db.ConnectMongoDB(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, client, cfg))

	return store.New(client, cfg), client
}

func ptrStr(v string) *string     { return &v }
func ptrFloat(v float64) *float64 { return &v }

func seedCountries(refreshedAt time.Time) []models.Country {
	return []models.Country{
		{
			Name:            "Nigeria",
			Population:      206139589,
			Region:          ptrStr("Africa"),
			CurrencyCode:    ptrStr("NGN"),
			ExchangeRate:    ptrFloat(1520.5),
			EstimatedGdp:    ptrFloat(2.5e11),
			LastRefreshedAt: refreshedAt,
		},
		{
			Name:            "Germany",
			Population:      83240000,
			Region:          ptrStr("Europe"),
			CurrencyCode:    ptrStr("EUR"),
			ExchangeRate:    ptrFloat(0.92),
			EstimatedGdp:    ptrFloat(1.3e11),
			LastRefreshedAt: refreshedAt,
		},
		{
			Name:            "Ratless",
			Population:      1000,
			Region:          ptrStr("Africa"),
			CurrencyCode:    ptrStr("ZZZ"),
			LastRefreshedAt: refreshedAt,
		},
	}
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	uri, terminate := setupMongoContainer(ctx, t)
	defer terminate()

	s, client := setupStore(ctx, t, uri)
	defer db.DisconnectMongoDB(ctx, client)

	refreshedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ReplaceAll", func(t *testing.T) {
		count, err := s.ReplaceAll(ctx, seedCountries(refreshedAt))
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		// a second replace fully swaps the set, not append
		count, err = s.ReplaceAll(ctx, seedCountries(refreshedAt.Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		total, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("GetByName_CaseInsensitive", func(t *testing.T) {
		country, err := s.GetByName(ctx, "nIgErIa")
		require.NoError(t, err)
		assert.Equal(t, "Nigeria", country.Name)
		require.NotNil(t, country.ExchangeRate)
		assert.Equal(t, 1520.5, *country.ExchangeRate)
	})

	t.Run("GetByName_Miss", func(t *testing.T) {
		_, err := s.GetByName(ctx, "Wakanda")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("List_FilterRegion", func(t *testing.T) {
		countries, err := s.List(ctx, store.Filter{Region: "africa"})
		require.NoError(t, err)
		require.Len(t, countries, 2)
	})

	t.Run("List_FilterCurrency", func(t *testing.T) {
		countries, err := s.List(ctx, store.Filter{Currency: "eur"})
		require.NoError(t, err)
		require.Len(t, countries, 1)
		assert.Equal(t, "Germany", countries[0].Name)
	})

	t.Run("List_SortGdpDesc_NilLast", func(t *testing.T) {
		countries, err := s.List(ctx, store.Filter{Sort: "gdp_desc"})
		require.NoError(t, err)
		require.Len(t, countries, 3)
		assert.Equal(t, "Nigeria", countries[0].Name)
		assert.Equal(t, "Germany", countries[1].Name)
		// nil GDP sorts last on the descending read
		assert.Nil(t, countries[2].EstimatedGdp)
	})

	t.Run("List_UnknownSortFallsBackToName", func(t *testing.T) {
		countries, err := s.List(ctx, store.Filter{Sort: "bogus"})
		require.NoError(t, err)
		require.Len(t, countries, 3)
		assert.Equal(t, "Germany", countries[0].Name)
		assert.Equal(t, "Nigeria", countries[1].Name)
		assert.Equal(t, "Ratless", countries[2].Name)
	})

	t.Run("List_SortPopulationDesc", func(t *testing.T) {
		countries, err := s.List(ctx, store.Filter{Sort: "population_desc"})
		require.NoError(t, err)
		require.Len(t, countries, 3)
		assert.Equal(t, "Nigeria", countries[0].Name)
	})

	t.Run("TopByGdp_NilSortsLast", func(t *testing.T) {
		top, err := s.TopByGdp(ctx, 5)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "Nigeria", top[0].Name)
		assert.Equal(t, "Germany", top[1].Name)
		// the unresolved record stays in the pool but after every real value
		assert.Equal(t, "Ratless", top[2].Name)
		assert.Nil(t, top[2].EstimatedGdp)
	})

	t.Run("TopByGdp_RespectsLimit", func(t *testing.T) {
		top, err := s.TopByGdp(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "Nigeria", top[0].Name)
		assert.Equal(t, "Germany", top[1].Name)
	})

	t.Run("Status", func(t *testing.T) {
		status, err := s.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), status.TotalCountries)
		require.NotNil(t, status.LastRefreshedAt)
		assert.Equal(t, refreshedAt.Add(time.Hour), status.LastRefreshedAt.UTC())
	})

	t.Run("DeleteByName", func(t *testing.T) {
		require.NoError(t, s.DeleteByName(ctx, "RATLESS"))

		total, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		// status is a live aggregate, the delete shows immediately
		status, err := s.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), status.TotalCountries)

		assert.ErrorIs(t, s.DeleteByName(ctx, "Ratless"), models.ErrNotFound)
	})

	t.Run("Status_EmptyCache", func(t *testing.T) {
		_, err := s.ReplaceAll(ctx, nil)
		require.NoError(t, err)

		status, err := s.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), status.TotalCountries)
		assert.Nil(t, status.LastRefreshedAt)
	})
}
