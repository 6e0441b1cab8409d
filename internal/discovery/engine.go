// Package discovery orchestrates the source adapters: it fans searches out
// over a worker pool, funnels every candidate through a single collector
// that owns identity resolution, and streams unique companies downstream.
package discovery

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ikihsan/location-companyemails/internal/dedup"
	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/source"
)

const (
	defaultMaxResults  = 50
	defaultConcurrency = 5
	progressInterval   = 10
)

// DiscoverRequest parameterizes one discovery pass.
type DiscoverRequest struct {
	Location    string
	Roles       []string
	MaxResults  int
	Concurrency int
}

func (r *DiscoverRequest) applyDefaults() {
	if r.MaxResults <= 0 {
		r.MaxResults = defaultMaxResults
	}
	if r.Concurrency <= 0 {
		r.Concurrency = defaultConcurrency
	}
}

// Engine runs discovery over a registry of sources.
type Engine struct {
	registry *source.Registry
}

// NewEngine creates an Engine over the given registry.
func NewEngine(registry *source.Registry) *Engine {
	return &Engine{registry: registry}
}

// Discover streams unique companies for the request. The channel closes
// when every source is exhausted, the unique count reaches MaxResults, or
// ctx is cancelled. Ordering across sources is not deterministic; only
// membership and count are.
func (e *Engine) Discover(ctx context.Context, req DiscoverRequest) (<-chan model.CompanyRecord, error) {
	if req.Location == "" {
		return nil, eris.New("discovery: location is required")
	}
	if len(req.Roles) == 0 {
		return nil, eris.New("discovery: at least one role is required")
	}
	req.applyDefaults()

	sources := e.registry.Enabled()
	if len(sources) == 0 {
		return nil, eris.New("discovery: no sources enabled")
	}

	dctx, cancel := context.WithCancel(ctx)

	candidates := make(chan model.CompanyRecord)
	out := make(chan model.CompanyRecord)

	g, gctx := errgroup.WithContext(dctx)
	g.SetLimit(req.Concurrency)

	go func() {
		defer close(candidates)
		for _, src := range sources {
			g.Go(func() error {
				e.runSource(gctx, src, req, candidates)
				return nil
			})
		}
		_ = g.Wait()
	}()

	// Single collector owns the dedup state: no lock contention between
	// adapter workers.
	go func() {
		defer close(out)
		defer cancel()

		resolver := dedup.NewResolver()
		unique := 0
		dropped := 0
		for rec := range candidates {
			if unique >= req.MaxResults {
				continue // drain so blocked adapters can observe cancel
			}
			if resolver.IsDuplicate(&rec) {
				dropped++
				continue
			}
			resolver.Add(&rec)

			select {
			case <-ctx.Done():
				return
			case out <- rec:
			}
			unique++
			if unique >= req.MaxResults {
				zap.L().Info("discovery cap reached",
					zap.Int("unique", unique),
					zap.Int("duplicates_dropped", dropped))
				cancel()
			}
		}
		zap.L().Info("discovery finished",
			zap.Int("unique", unique),
			zap.Int("duplicates_dropped", dropped))
	}()

	return out, nil
}

// runSource drains one adapter into the shared candidate funnel. Adapter
// failures are logged and contribute zero candidates.
func (e *Engine) runSource(ctx context.Context, src source.Source, req DiscoverRequest, candidates chan<- model.CompanyRecord) {
	ch, err := src.Search(ctx, req.Location, req.Roles, req.MaxResults)
	if err != nil {
		zap.L().Warn("source search failed",
			zap.String("source", src.Name()),
			zap.Error(err))
		return
	}

	n := 0
	for rec := range ch {
		select {
		case <-ctx.Done():
			return
		case candidates <- rec:
			n++
		}
	}
	zap.L().Debug("source drained",
		zap.String("source", src.Name()),
		zap.Int("candidates", n))
}

// Run collects the discovery stream into a slice with progress logging.
func (e *Engine) Run(ctx context.Context, req DiscoverRequest) ([]model.CompanyRecord, error) {
	ch, err := e.Discover(ctx, req)
	if err != nil {
		return nil, err
	}

	var companies []model.CompanyRecord
	for rec := range ch {
		companies = append(companies, rec)
		if len(companies)%progressInterval == 0 {
			zap.L().Info("discovery progress",
				zap.Int("companies", len(companies)),
				zap.String("latest", rec.Name))
		}
	}
	return companies, ctx.Err()
}
