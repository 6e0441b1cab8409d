// Package store persists run history and archived discovery results, with
// SQLite for local use and Postgres for shared deployments.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// IsNotFound reports whether err came from a lookup that matched no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Location string          `json:"location,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the scrape pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, locations, roles []string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Results
	ArchiveCompanies(ctx context.Context, runID string, companies []model.CompanyRecord) error
	ListArchivedCompanies(ctx context.Context, runID string) ([]model.CompanyRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
