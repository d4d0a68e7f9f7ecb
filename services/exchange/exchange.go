package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/api"
	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/models"
)

const (
	defaultWorkers   = 8
	perLookupTimeout = 30 * time.Second
)

// Service resolves currency exchange rates against USD from the external
// rate service.
type Service struct {
	Client  *api.Client
	BaseURL string
	Workers int
}

func NewService(cfg *config.Config) *Service {
	rlSettings := models.RateLimitSettings{
		MaxRequests: 600,
		PerDuration: time.Minute,
	}

	return &Service{
		Client:  api.NewClient(rlSettings),
		BaseURL: cfg.ExchangeAPIURL,
		Workers: defaultWorkers,
	}
}

// ResolveRate returns the USD rate for one currency code. USD itself is
// always 1.0 and costs no network call. Every failure mode (transport error,
// upstream failure flag, unknown code) is ErrRateUnavailable.
func (s *Service) ResolveRate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, fmt.Errorf("%w: empty currency code", models.ErrRateUnavailable)
	}
	if code == "USD" {
		return 1.0, nil
	}

	data, err := s.Client.Do(ctx, s.BaseURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrRateUnavailable, err)
	}

	var resp rateAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("%w: failed to parse rate response: %v", models.ErrRateUnavailable, err)
	}

	if resp.Result != "success" {
		return 0, fmt.Errorf("%w: rate service reported %q", models.ErrRateUnavailable, resp.Result)
	}

	rate, ok := resp.Rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for currency code %s", models.ErrRateUnavailable, code)
	}

	return rate, nil
}

// ResolveRates resolves every code in the set concurrently with a bounded
// worker fan-out. A failed lookup degrades its own entry to nil and never
// fails the batch, so one bad code cannot abort a refresh. Every requested
// code has an entry in the returned map.
func (s *Service) ResolveRates(ctx context.Context, codes []string) map[string]*float64 {
	resolved := make(map[string]*float64, len(codes))

	seen := make(map[string]bool, len(codes))
	jobs := make(chan string)

	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := s.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for code := range jobs {
				lookupCtx, cancel := context.WithTimeout(ctx, perLookupTimeout)
				rate, err := s.ResolveRate(lookupCtx, code)
				cancel()

				mu.Lock()
				if err != nil {
					logger.Error("Rate lookup failed for %s: %v", code, err)
					resolved[code] = nil
				} else {
					resolved[code] = &rate
				}
				mu.Unlock()
			}
		}()
	}

	for _, code := range codes {
		key := strings.ToUpper(strings.TrimSpace(code))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		jobs <- key
	}
	close(jobs)

	wg.Wait()
	return resolved
}
