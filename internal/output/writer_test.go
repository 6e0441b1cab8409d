package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func fixedClock(sec int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, sec, 0, time.UTC)
	}
}

func sampleCompanies() []*model.CompanyRecord {
	acme := model.NewCompanyRecord("Acme Technologies", "Kochi, Kerala", "https://jobs.example/acme")
	acme.Website = "https://acme.com"
	acme.CareersURL = "https://acme.com/careers"
	acme.AddRole("Go Developer")
	acme.AddRole("Designer")
	acme.AddEmail(model.EmailCandidate{
		Address:     "careers@acme.com",
		SourceURL:   "https://acme.com/careers",
		Method:      model.MethodMailtoLink,
		Confidence:  model.ConfidenceHigh,
		Score:       165,
		IsHRContact: true,
	})
	acme.AddEmail(model.EmailCandidate{
		Address:    "rahul.kumar@acme.com",
		SourceURL:  "https://acme.com/about",
		Method:     model.MethodPlainRegex,
		Confidence: model.ConfidenceMedium,
		Score:      110,
	})

	quiet := model.NewCompanyRecord("Quiet Corp", "Kochi, Kerala", "https://jobs.example/quiet")
	return []*model.CompanyRecord{acme, quiet}
}

func newTestWriter(t *testing.T, dir string, sec int) *Writer {
	t.Helper()
	w, err := NewWriter(dir)
	require.NoError(t, err)
	w.now = fixedClock(sec)
	return w
}

func TestSaveAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWriter(t, dir, 0)

	paths, err := w.SaveAll(sampleCompanies(), "Kochi, Kerala")
	require.NoError(t, err)
	require.Len(t, paths, 4)

	assert.Equal(t, filepath.Join(dir, "companies_kochi_kerala_20260314_092600.csv"), paths["csv"])

	f, err := os.Open(paths["csv"])
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per company")
	assert.Equal(t, csvColumns, rows[0])

	acmeRow := rows[1]
	assert.Equal(t, "Acme Technologies", acmeRow[0])
	assert.Equal(t, "Go Developer; Designer", acmeRow[5])
	assert.Equal(t, "careers@acme.com", acmeRow[6])
	assert.Equal(t, "high", acmeRow[7])
	assert.Equal(t, "careers@acme.com; rahul.kumar@acme.com", acmeRow[8])
	assert.Equal(t, "2", acmeRow[9])

	quietRow := rows[2]
	assert.Equal(t, "Quiet Corp", quietRow[0])
	assert.Empty(t, quietRow[6], "no best email without candidates")
	assert.Equal(t, "0", quietRow[9])

	raw, err := os.ReadFile(paths["json"])
	require.NoError(t, err)
	var doc jsonDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.Metadata.TotalCompanies)
	assert.Equal(t, 2, doc.Metadata.TotalEmails)
	assert.False(t, doc.Metadata.IsPartial)
	require.Len(t, doc.Companies, 2)
	assert.Equal(t, "Acme Technologies", doc.Companies[0].Name)

	text, err := os.ReadFile(paths["txt"])
	require.NoError(t, err)
	listing := string(text)
	assert.Contains(t, listing, "COMPANY EMAIL LIST - KOCHI, KERALA")
	assert.Contains(t, listing, "careers@acme.com")
	assert.NotContains(t, listing, "Quiet Corp", "companies without emails stay off the listing")

	book, err := xlsx.OpenFile(paths["xlsx"])
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)
	assert.Len(t, book.Sheets[0].Rows, 3)
	assert.Equal(t, "Acme Technologies", book.Sheets[0].Rows[1].Cells[0].String())
}

func TestSaveAllEmptySet(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t, t.TempDir(), 0)
	paths, err := w.SaveAll(nil, "Pune")
	require.NoError(t, err)

	f, err := os.Open(paths["csv"])
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	text, err := os.ReadFile(paths["txt"])
	require.NoError(t, err)
	assert.Contains(t, string(text), "No companies with emails found.")

	for _, entry := range w.Manifest().Entries {
		assert.Zero(t, entry.RecordCount)
	}
}

func TestFlushPartial(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t, t.TempDir(), 0)
	paths, err := w.FlushPartial(sampleCompanies(), "Kochi")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.True(t, strings.HasSuffix(paths["csv"], "_partial.csv"))
	assert.True(t, strings.HasSuffix(paths["json"], "_partial.json"))

	raw, err := os.ReadFile(paths["json"])
	require.NoError(t, err)
	var doc jsonDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.True(t, doc.Metadata.IsPartial)

	assert.Empty(t, w.Manifest().Entries, "partial flushes stay out of the manifest")
}

func TestFlushPartialEmptySet(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t, t.TempDir(), 0)
	paths, err := w.FlushPartial(nil, "Kochi")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestManifestAccumulatesAcrossWriters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w1 := newTestWriter(t, dir, 0)
	_, err := w1.SaveAll(sampleCompanies(), "Kochi")
	require.NoError(t, err)

	w2 := newTestWriter(t, dir, 1)
	_, err = w2.SaveAll(sampleCompanies(), "Pune")
	require.NoError(t, err)

	m := LoadManifest(dir)
	require.Len(t, m.Entries, 8)
	assert.Equal(t, 8, m.TotalFiles)
	assert.Equal(t, "Kochi", m.Entries[0].Location)
	assert.Equal(t, "Pune", m.Entries[4].Location)
	for _, entry := range m.Entries {
		assert.Len(t, entry.Checksum, 16)
		assert.NotEmpty(t, entry.Filename)
	}
}

func TestLoadManifestTolerantOfCorruption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFilename), []byte("{not json"), 0o644))

	m := LoadManifest(dir)
	assert.Empty(t, m.Entries)
	require.NoError(t, m.Append(ManifestEntry{Filename: "x.csv", Format: "csv"}))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Kochi, Kerala", "kochi_kerala"},
		{"Pune", "pune"},
		{"", "all"},
		{"  Berlin / Mitte  ", "berlin_mitte"},
		{"!!!", "all"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, slugify(tc.in), tc.in)
	}
}
