package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRunLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, []string{"Kochi", "Bangalore"}, []string{"Go Developer"})
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kochi", "Bangalore"}, got.Locations)
	assert.Equal(t, []string{"Go Developer"}, got.Roles)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Nil(t, got.Summary)

	summary := &model.RunSummary{
		Locations:           run.Locations,
		Roles:               run.Roles,
		CompaniesDiscovered: 12,
		CompaniesWithEmails: 7,
		TotalEmails:         19,
		ElapsedSeconds:      4.2,
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, model.RunStatusComplete, summary))

	got, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 12, got.Summary.CompaniesDiscovered)
	assert.Equal(t, 19, got.Summary.TotalEmails)
}

func TestSQLiteFailRun(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, []string{"Kochi"}, []string{"Designer"})
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, assert.AnError))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, assert.AnError.Error(), got.Error)
}

func TestSQLiteUpdateMissingRun(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.CompleteRun(ctx, "no-such-run", model.RunStatusComplete, &model.RunSummary{})
	assert.Error(t, err)

	err = s.FailRun(ctx, "no-such-run", assert.AnError)
	assert.Error(t, err)

	_, err = s.GetRun(ctx, "no-such-run")
	assert.Error(t, err)
}

func TestSQLiteListRuns(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, []string{"Kochi"}, []string{"Go Developer"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := s.CreateRun(ctx, []string{"Pune"}, []string{"Designer"})
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, first.ID, model.RunStatusComplete, &model.RunSummary{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	completed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].ID)

	kochi, err := s.ListRuns(ctx, RunFilter{Location: "Kochi"})
	require.NoError(t, err)
	require.Len(t, kochi, 1)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteArchiveCompanies(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, []string{"Kochi"}, []string{"Go Developer"})
	require.NoError(t, err)

	acme := model.NewCompanyRecord("Acme Software", "Kochi", "https://portal.example/acme")
	acme.Website = "https://acme.com"
	acme.AddRole("Go Developer")
	acme.AddEmail(model.EmailCandidate{
		Address:   "hr@acme.com",
		SourceURL: "https://acme.com/careers",
		Score:     170,
	})
	beta := model.NewCompanyRecord("Beta Labs", "Kochi", "https://portal.example/beta")

	require.NoError(t, s.ArchiveCompanies(ctx, run.ID, []model.CompanyRecord{*acme, *beta}))

	// Re-archiving the same companies replaces rather than duplicates.
	require.NoError(t, s.ArchiveCompanies(ctx, run.ID, []model.CompanyRecord{*acme}))

	got, err := s.ListArchivedCompanies(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme Software", got[0].Name)
	require.Len(t, got[0].Emails, 1)
	assert.Equal(t, "hr@acme.com", got[0].Emails[0].Address)
	assert.Equal(t, "Beta Labs", got[1].Name)

	require.NoError(t, s.ArchiveCompanies(ctx, run.ID, nil), "empty archive is a no-op")
}
