package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/fetch"
	"github.com/ikihsan/location-companyemails/internal/resilience"
	"github.com/ikihsan/location-companyemails/internal/source"
	"github.com/ikihsan/location-companyemails/internal/store"
)

func newFetcher() *fetch.HTTPFetcher {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Rate.Retries
	return fetch.NewHTTPFetcher(fetch.HTTPOptions{
		Timeout:      cfg.Rate.Timeout(),
		MaxBodyBytes: int64(cfg.Rate.MaxBodyKB) * 1024,
		MinDelay:     cfg.Rate.MinDelay(),
		MaxDelay:     cfg.Rate.MaxDelay(),
		Retry:        retry,
	})
}

// newRegistry wires the built-in sources and applies the optional overlay
// file on top.
func newRegistry(fetcher fetch.Fetcher) (*source.Registry, error) {
	reg := source.NewRegistry()
	for _, src := range []source.Source{
		source.NewJobBoardSource(fetcher),
		source.NewWebSearchSource(fetcher),
		source.NewDirectorySource(),
	} {
		if err := reg.Register(src); err != nil {
			return nil, err
		}
	}

	overlay, err := source.LoadOverlay(cfg.Sources.OverlayPath)
	if err != nil {
		return nil, err
	}
	overlay.Apply(reg)
	return reg, nil
}

func newStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	zap.L().Debug("store ready", zap.String("driver", cfg.Store.Driver))
	return st, nil
}
