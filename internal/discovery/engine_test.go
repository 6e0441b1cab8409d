package discovery

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/source"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fakeSource yields a fixed list of records.
type fakeSource struct {
	name    string
	records []model.CompanyRecord
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Info() model.DiscoverySource {
	return model.DiscoverySource{Name: f.name, Type: model.SourceTypeDirectory}
}

func (f *fakeSource) Search(ctx context.Context, _ string, _ []string, _ int) (<-chan model.CompanyRecord, error) {
	out := make(chan model.CompanyRecord)
	go func() {
		defer close(out)
		for _, rec := range f.records {
			select {
			case <-ctx.Done():
				return
			case out <- rec:
			}
		}
	}()
	return out, nil
}

func (f *fakeSource) Details(context.Context, *model.CompanyRecord) error { return nil }

func record(name, location string) model.CompanyRecord {
	return *model.NewCompanyRecord(name, location, "https://example.test/"+name)
}

func newEngine(t *testing.T, sources ...source.Source) *Engine {
	t.Helper()
	reg := source.NewRegistry()
	for _, s := range sources {
		require.NoError(t, reg.Register(s))
	}
	return NewEngine(reg)
}

func TestDiscoverDeduplicatesAcrossSources(t *testing.T) {
	t.Parallel()

	// The same company surfaces from two adapters under slightly
	// different spellings; exactly one record comes out.
	e := newEngine(t,
		&fakeSource{name: "a", records: []model.CompanyRecord{record("Acme Pvt Ltd", "Pune")}},
		&fakeSource{name: "b", records: []model.CompanyRecord{record("Acme", "Pune, India")}},
	)

	companies, err := e.Run(context.Background(), DiscoverRequest{
		Location: "Pune",
		Roles:    []string{"Go Developer"},
	})
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Contains(t, companies[0].Name, "Acme")
}

func TestDiscoverEnforcesMaxResults(t *testing.T) {
	t.Parallel()

	var records []model.CompanyRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(fmt.Sprintf("Company %02d", i), "Kochi"))
	}
	e := newEngine(t, &fakeSource{name: "bulk", records: records})

	companies, err := e.Run(context.Background(), DiscoverRequest{
		Location:   "Kochi",
		Roles:      []string{"Go Developer"},
		MaxResults: 3,
	})
	require.NoError(t, err)
	assert.Len(t, companies, 3)
}

func TestDiscoverSkipsDisabledSources(t *testing.T) {
	t.Parallel()

	reg := source.NewRegistry()
	require.NoError(t, reg.Register(&fakeSource{name: "on", records: []model.CompanyRecord{record("Acme", "Kochi")}}))
	require.NoError(t, reg.Register(&fakeSource{name: "off", records: []model.CompanyRecord{record("Beta", "Kochi")}}))
	reg.SetEnabled("off", false)

	companies, err := NewEngine(reg).Run(context.Background(), DiscoverRequest{
		Location: "Kochi",
		Roles:    []string{"Go Developer"},
	})
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)
}

func TestDiscoverValidation(t *testing.T) {
	t.Parallel()

	e := newEngine(t, &fakeSource{name: "a"})

	_, err := e.Discover(context.Background(), DiscoverRequest{Roles: []string{"x"}})
	assert.Error(t, err)

	_, err = e.Discover(context.Background(), DiscoverRequest{Location: "Kochi"})
	assert.Error(t, err)

	empty := NewEngine(source.NewRegistry())
	_, err = empty.Discover(context.Background(), DiscoverRequest{Location: "Kochi", Roles: []string{"x"}})
	assert.Error(t, err)
}

func TestDiscoverCancellation(t *testing.T) {
	t.Parallel()

	var records []model.CompanyRecord
	for i := 0; i < 100; i++ {
		records = append(records, record(fmt.Sprintf("Company %03d", i), "Kochi"))
	}
	e := newEngine(t, &fakeSource{name: "bulk", records: records})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := e.Discover(ctx, DiscoverRequest{Location: "Kochi", Roles: []string{"Go Developer"}, MaxResults: 1000})
	require.NoError(t, err)

	<-ch
	cancel()
	for range ch {
	}
}
