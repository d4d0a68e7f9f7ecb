package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/api"
	"github.com/AbdulWasayUl/country-cache-api/internal/config"
	"github.com/AbdulWasayUl/country-cache-api/models"
)

// fieldList keeps the catalog payload down to what enrichment consumes.
const fieldList = "name,capital,region,population,flag,currencies"

// Service fetches the full raw country catalog from the external source.
type Service struct {
	Client  *api.Client
	BaseURL string
}

func NewService(cfg *config.Config) *Service {
	rlSettings := models.RateLimitSettings{
		MaxRequests: 20,
		PerDuration: time.Minute,
	}

	return &Service{
		Client:  api.NewClient(rlSettings),
		BaseURL: cfg.CountriesAPIURL,
	}
}

// FetchAll retrieves every country record in one bulk call. Any transport or
// HTTP failure surfaces as ErrSourceUnavailable so the caller can abort the
// refresh before touching the store.
func (s *Service) FetchAll(ctx context.Context) ([]models.RawCountry, error) {
	data, err := s.Client.Do(ctx, s.requestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}

	var resp []countryAPIRecord
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse catalog response: %v", models.ErrSourceUnavailable, err)
	}

	raws := make([]models.RawCountry, 0, len(resp))
	for _, r := range resp {
		raws = append(raws, r.toRaw())
	}

	return raws, nil
}

func (s *Service) requestURL() string {
	if strings.Contains(s.BaseURL, "fields=") {
		return s.BaseURL
	}
	sep := "?"
	if strings.Contains(s.BaseURL, "?") {
		sep = "&"
	}
	return s.BaseURL + sep + "fields=" + url.QueryEscape(fieldList)
}
