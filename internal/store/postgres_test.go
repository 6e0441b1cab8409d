package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), `["Kochi"]`, `["Go Developer"]`, "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), []string{"Kochi"}, []string{"Go Developer"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	summary, err := json.Marshal(&model.RunSummary{CompaniesDiscovered: 3, TotalEmails: 5})
	require.NoError(t, err)
	summaryStr := string(summary)

	mock.ExpectQuery(`SELECT id, locations, roles, status, summary, error, created_at, updated_at FROM runs`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "locations", "roles", "status", "summary", "error", "created_at", "updated_at",
		}).AddRow("run-1", `["Kochi"]`, `["Go Developer"]`, "complete", &summaryStr, "", now, now))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kochi"}, run.Locations)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Summary)
	assert.Equal(t, 3, run.Summary.CompaniesDiscovered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, locations, roles, status, summary, error, created_at, updated_at FROM runs`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("complete", pgxmock.AnyArg(), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", model.RunStatusComplete, &model.RunSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ArchiveCompanies(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	acme := model.NewCompanyRecord("Acme Software", "Kochi", "https://portal.example/acme")
	acme.Website = "https://acme.com"

	mock.ExpectCopyFrom(pgx.Identifier{"run_companies"},
		[]string{"run_id", "company_key", "name", "location", "website", "email_count", "record"}).
		WillReturnResult(1)

	err := s.ArchiveCompanies(context.Background(), "run-1", []model.CompanyRecord{*acme})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// No rows, no COPY.
	require.NoError(t, s.ArchiveCompanies(context.Background(), "run-1", nil))
}
