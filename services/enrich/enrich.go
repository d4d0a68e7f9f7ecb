package enrich

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/models"
)

// RateResolver is the capability the pipeline needs from the exchange
// service: resolve a set of codes in one concurrent batch, nil for failures.
type RateResolver interface {
	ResolveRates(ctx context.Context, codes []string) map[string]*float64
}

// Anomaly describes one record-level irregularity observed during a pass:
// a validation drop or a degraded rate.
type Anomaly struct {
	Kind   string
	Name   string
	Detail string
}

const (
	AnomalyValidationSkip  = "validation_skip"
	AnomalyRateUnavailable = "rate_unavailable"
)

// AnomalyFunc receives one call per anomaly. The pipeline never fails a
// record for one; the hook exists so callers can observe what was dropped or
// degraded without grepping logs.
type AnomalyFunc func(a Anomaly)

func logAnomaly(a Anomaly) {
	logger.Info("Enrichment anomaly [%s] %s: %s", a.Kind, a.Name, a.Detail)
}

// Pipeline turns raw catalog records into persisted-shape Country records:
// validate, extract the first currency code, resolve all distinct codes in
// one bulk batch, then fill rate and estimated GDP per record.
type Pipeline struct {
	Resolver RateResolver

	// Factor draws the synthetic GDP multiplier. Defaults to
	// uniform[1000,2000); injectable so tests can pin it. Drawn
	// independently per record, never cached.
	Factor func() float64

	// OnAnomaly defaults to logging.
	OnAnomaly AnomalyFunc
}

func NewPipeline(resolver RateResolver) *Pipeline {
	return &Pipeline{Resolver: resolver}
}

func defaultFactor() float64 {
	return 1000 + rand.Float64()*1000
}

// Run executes one enrichment pass. All produced records carry refreshedAt as
// their cycle timestamp. Records are only ever dropped for a missing name or
// a missing/negative population; missing currencies or failed rate lookups
// degrade fields instead.
func (p *Pipeline) Run(ctx context.Context, raws []models.RawCountry, refreshedAt time.Time) []models.Country {
	factor := p.Factor
	if factor == nil {
		factor = defaultFactor
	}
	onAnomaly := p.OnAnomaly
	if onAnomaly == nil {
		onAnomaly = logAnomaly
	}

	// First pass: validate and collect the distinct currency code set, so N
	// records sharing M<N currencies cost M lookups.
	type candidate struct {
		raw  models.RawCountry
		code string
	}

	candidates := make([]candidate, 0, len(raws))
	codeSet := make(map[string]bool)
	var codes []string

	for _, raw := range raws {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			onAnomaly(Anomaly{Kind: AnomalyValidationSkip, Name: raw.Name, Detail: "missing name"})
			continue
		}
		if raw.Population == nil {
			onAnomaly(Anomaly{Kind: AnomalyValidationSkip, Name: name, Detail: "missing population"})
			continue
		}
		if *raw.Population < 0 {
			onAnomaly(Anomaly{Kind: AnomalyValidationSkip, Name: name, Detail: "negative population"})
			continue
		}

		code := strings.ToUpper(raw.FirstCurrencyCode())
		if code != "" && !codeSet[code] {
			codeSet[code] = true
			codes = append(codes, code)
		}

		candidates = append(candidates, candidate{raw: raw, code: code})
	}

	resolved := map[string]*float64{}
	if len(codes) > 0 {
		resolved = p.Resolver.ResolveRates(ctx, codes)
	}

	// Second pass: fill rate and GDP. A record without a currency gets GDP
	// 0.0; a record whose lookup failed gets nil for both.
	countries := make([]models.Country, 0, len(candidates))
	for _, c := range candidates {
		country := models.Country{
			Name:            strings.TrimSpace(c.raw.Name),
			NameKey:         models.NormalizeName(c.raw.Name),
			Capital:         c.raw.Capital,
			Region:          c.raw.Region,
			Population:      *c.raw.Population,
			FlagURL:         c.raw.FlagURL,
			LastRefreshedAt: refreshedAt,
		}

		if c.code == "" {
			zero := 0.0
			country.EstimatedGdp = &zero
		} else {
			code := c.code
			country.CurrencyCode = &code

			if rate := resolved[c.code]; rate != nil {
				gdp := float64(country.Population) * factor() / *rate
				country.ExchangeRate = rate
				country.EstimatedGdp = &gdp
			} else {
				onAnomaly(Anomaly{
					Kind:   AnomalyRateUnavailable,
					Name:   country.Name,
					Detail: "no rate for " + c.code,
				})
			}
		}

		countries = append(countries, country)
	}

	return countries
}
