package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/api"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratesPayload = `{
	"result": "success",
	"rates": {"USD": 1.0, "NGN": 1520.5, "EUR": 0.92}
}`

func newTestService(baseURL string) *Service {
	return &Service{
		Client: api.NewClient(models.RateLimitSettings{
			MaxRequests: 1000,
			PerDuration: time.Second,
		}),
		BaseURL: baseURL,
		Workers: 4,
	}
}

func TestResolveRate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratesPayload))
	}))
	defer srv.Close()

	rate, err := newTestService(srv.URL).ResolveRate(context.Background(), "ngn")
	require.NoError(t, err)
	assert.Equal(t, 1520.5, rate)
}

func TestResolveRate_USDSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(ratesPayload))
	}))
	defer srv.Close()

	rate, err := newTestService(srv.URL).ResolveRate(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestResolveRate_UnknownCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratesPayload))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).ResolveRate(context.Background(), "XXX")
	assert.ErrorIs(t, err, models.ErrRateUnavailable)
}

func TestResolveRate_UpstreamFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "error"}`))
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).ResolveRate(context.Background(), "NGN")
	assert.ErrorIs(t, err, models.ErrRateUnavailable)
}

func TestResolveRate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestService(srv.URL).ResolveRate(context.Background(), "NGN")
	assert.ErrorIs(t, err, models.ErrRateUnavailable)
}

func TestResolveRates_OneFailureNeverBlocksSiblings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratesPayload))
	}))
	defer srv.Close()

	resolved := newTestService(srv.URL).ResolveRates(context.Background(), []string{"NGN", "XXX", "EUR"})

	require.Len(t, resolved, 3)
	require.NotNil(t, resolved["NGN"])
	assert.Equal(t, 1520.5, *resolved["NGN"])
	require.NotNil(t, resolved["EUR"])
	assert.Equal(t, 0.92, *resolved["EUR"])

	// the failed entry is present but nil
	val, ok := resolved["XXX"]
	assert.True(t, ok)
	assert.Nil(t, val)
}

func TestResolveRates_DedupesAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratesPayload))
	}))
	defer srv.Close()

	resolved := newTestService(srv.URL).ResolveRates(context.Background(), []string{"ngn", "NGN", " ", ""})

	require.Len(t, resolved, 1)
	require.NotNil(t, resolved["NGN"])
}

func TestResolveRates_Empty(t *testing.T) {
	resolved := newTestService("http://unused.invalid").ResolveRates(context.Background(), nil)
	assert.Empty(t, resolved)
}
