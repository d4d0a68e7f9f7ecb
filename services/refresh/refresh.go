package refresh

import (
	"context"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/models"
	"github.com/AbdulWasayUl/country-cache-api/services/enrich"
	"github.com/google/uuid"
)

const topGdpLimit = 5

// DataSource is the catalog capability: one bulk fetch of every raw record.
type DataSource interface {
	FetchAll(ctx context.Context) ([]models.RawCountry, error)
}

// Persistence is what a refresh cycle needs from the store.
type Persistence interface {
	ReplaceAll(ctx context.Context, countries []models.Country) (int, error)
	Status(ctx context.Context) (models.Status, error)
	TopByGdp(ctx context.Context, n int) ([]models.Country, error)
}

// Renderer regenerates the summary artifact. Its failures never fail a
// refresh.
type Renderer interface {
	Generate(totalCountries int64, top []models.Country, lastRefreshedAt time.Time) error
}

// Orchestrator drives one full refresh cycle: fetch, enrich, replace the
// cached set under a single cycle timestamp, recompute status, regenerate the
// summary image. Nothing serializes overlapping calls; two concurrent
// refreshes can interleave their delete/insert steps.
type Orchestrator struct {
	Source   DataSource
	Pipeline *enrich.Pipeline
	Store    Persistence
	Renderer Renderer

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewOrchestrator(source DataSource, pipeline *enrich.Pipeline, store Persistence, renderer Renderer) *Orchestrator {
	return &Orchestrator{
		Source:   source,
		Pipeline: pipeline,
		Store:    store,
		Renderer: renderer,
	}
}

// Refresh runs one cycle and returns the number of cached records. A source
// failure returns before any destructive step, leaving the store untouched.
func (o *Orchestrator) Refresh(ctx context.Context) (int, error) {
	cycle := uuid.NewString()[:8]
	now := o.Now
	if now == nil {
		now = time.Now
	}

	logger.Info("[refresh %s] cycle started", cycle)

	raws, err := o.Source.FetchAll(ctx)
	if err != nil {
		logger.Error("[refresh %s] source fetch failed: %v", cycle, err)
		return 0, err
	}

	refreshedAt := now().UTC().Truncate(time.Millisecond)
	countries := o.Pipeline.Run(ctx, raws, refreshedAt)
	logger.Info("[refresh %s] enriched %d of %d raw records", cycle, len(countries), len(raws))

	count, err := o.Store.ReplaceAll(ctx, countries)
	if err != nil {
		logger.Error("[refresh %s] persistence failed: %v", cycle, err)
		return 0, err
	}

	status, err := o.Store.Status(ctx)
	if err != nil {
		logger.Error("[refresh %s] status read failed: %v", cycle, err)
		return 0, err
	}

	if err := o.regenerateSummary(ctx, cycle, status, refreshedAt); err != nil {
		// Non-fatal: the refresh already succeeded.
		logger.Error("[refresh %s] summary regeneration failed: %v", cycle, err)
	}

	logger.Info("[refresh %s] cycle complete, %d countries cached", cycle, count)
	return count, nil
}

func (o *Orchestrator) regenerateSummary(ctx context.Context, cycle string, status models.Status, refreshedAt time.Time) error {
	top, err := o.Store.TopByGdp(ctx, topGdpLimit)
	if err != nil {
		return err
	}

	last := refreshedAt
	if status.LastRefreshedAt != nil {
		last = *status.LastRefreshedAt
	}

	logger.Debug("[refresh %s] rendering summary with %d top records", cycle, len(top))
	return o.Renderer.Generate(status.TotalCountries, top, last)
}
