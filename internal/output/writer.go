// Package output persists run results as CSV, JSON, text, and XLSX
// artifacts with timestamped filenames, tracked in a cumulative manifest.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// csvColumns defines the ordered company CSV output columns.
var csvColumns = []string{
	"company_name",
	"location",
	"website",
	"careers_url",
	"linkedin_url",
	"hiring_roles",
	"best_email",
	"best_email_confidence",
	"all_emails",
	"email_count",
	"source_url",
	"crawl_depth",
	"discovered_at",
}

// partialColumns is the reduced column set for interrupt flushes.
var partialColumns = []string{
	"company_name",
	"location",
	"website",
	"best_email",
	"all_emails",
	"source_url",
}

// Writer persists company records to the output directory.
type Writer struct {
	dir      string
	manifest *Manifest
	now      func() time.Time
}

// NewWriter creates the output directory if needed and loads any existing
// manifest from it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "output: create directory %s", dir)
	}
	return &Writer{dir: dir, manifest: LoadManifest(dir), now: time.Now}, nil
}

// Manifest exposes the artifact manifest for inspection.
func (w *Writer) Manifest() *Manifest { return w.manifest }

// SaveAll writes every artifact format and returns format -> path. An empty
// company set still produces artifacts with zero counts; that is a normal
// run outcome, not an error.
func (w *Writer) SaveAll(companies []*model.CompanyRecord, location string) (map[string]string, error) {
	stamp := w.now().Format("20060102_150405")
	slug := slugify(location)

	paths := make(map[string]string, 4)

	csvPath := filepath.Join(w.dir, fmt.Sprintf("companies_%s_%s.csv", slug, stamp))
	if err := w.writeCSV(csvPath, companies); err != nil {
		return nil, err
	}
	if err := w.record(csvPath, "csv", len(companies), location); err != nil {
		return nil, err
	}
	paths["csv"] = csvPath

	jsonPath := filepath.Join(w.dir, fmt.Sprintf("companies_%s_%s.json", slug, stamp))
	if err := w.writeJSON(jsonPath, companies, location, false); err != nil {
		return nil, err
	}
	if err := w.record(jsonPath, "json", len(companies), location); err != nil {
		return nil, err
	}
	paths["json"] = jsonPath

	txtPath := filepath.Join(w.dir, fmt.Sprintf("company_emails_%s_%s.txt", slug, stamp))
	if err := w.writeText(txtPath, companies, location); err != nil {
		return nil, err
	}
	if err := w.record(txtPath, "txt", len(companies), location); err != nil {
		return nil, err
	}
	paths["txt"] = txtPath

	xlsxPath := filepath.Join(w.dir, fmt.Sprintf("companies_%s_%s.xlsx", slug, stamp))
	if err := w.writeXLSX(xlsxPath, companies); err != nil {
		return nil, err
	}
	if err := w.record(xlsxPath, "xlsx", len(companies), location); err != nil {
		return nil, err
	}
	paths["xlsx"] = xlsxPath

	zap.L().Info("output: artifacts saved",
		zap.Int("companies", len(companies)),
		zap.String("location", location),
		zap.String("dir", w.dir))
	return paths, nil
}

// FlushPartial writes a reduced CSV and JSON snapshot during an interrupted
// run. Partial files carry a _partial suffix and are not recorded in the
// manifest. An empty set flushes nothing.
func (w *Writer) FlushPartial(companies []*model.CompanyRecord, location string) (map[string]string, error) {
	if len(companies) == 0 {
		return map[string]string{}, nil
	}
	stamp := w.now().Format("20060102_150405")
	slug := slugify(location)

	csvPath := filepath.Join(w.dir, fmt.Sprintf("companies_%s_%s_partial.csv", slug, stamp))
	if err := w.writePartialCSV(csvPath, companies); err != nil {
		return nil, err
	}
	jsonPath := filepath.Join(w.dir, fmt.Sprintf("companies_%s_%s_partial.json", slug, stamp))
	if err := w.writeJSON(jsonPath, companies, location, true); err != nil {
		return nil, err
	}

	zap.L().Info("output: partial results flushed",
		zap.Int("companies", len(companies)))
	return map[string]string{"csv": csvPath, "json": jsonPath}, nil
}

func (w *Writer) record(path, format string, count int, location string) error {
	checksum, err := fileChecksum(path)
	if err != nil {
		return err
	}
	return w.manifest.Append(ManifestEntry{
		Filename:    filepath.Base(path),
		Format:      format,
		RecordCount: count,
		CreatedAt:   w.now().UTC(),
		Location:    location,
		Checksum:    checksum,
	})
}

func (w *Writer) writeCSV(path string, companies []*model.CompanyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create csv")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "output: write csv header")
	}
	for _, c := range companies {
		if err := cw.Write(companyRow(c)); err != nil {
			return eris.Wrap(err, "output: write csv row")
		}
	}
	return nil
}

func (w *Writer) writePartialCSV(path string, companies []*model.CompanyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "output: create partial csv")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(partialColumns); err != nil {
		return eris.Wrap(err, "output: write partial csv header")
	}
	for _, c := range companies {
		best := c.BestContact()
		bestAddr := ""
		if best != nil {
			bestAddr = best.Address
		}
		row := []string{
			c.Name,
			c.Location,
			c.Website,
			bestAddr,
			strings.Join(c.UniqueAddresses(), "; "),
			c.SourceURL,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "output: write partial csv row")
		}
	}
	return nil
}

// jsonMetadata is the header block of the JSON artifact.
type jsonMetadata struct {
	CreatedAt      time.Time `json:"created_at"`
	Location       string    `json:"location"`
	IsPartial      bool      `json:"is_partial,omitempty"`
	TotalCompanies int       `json:"total_companies"`
	TotalEmails    int       `json:"total_emails"`
}

type jsonDocument struct {
	Metadata  jsonMetadata           `json:"metadata"`
	Companies []*model.CompanyRecord `json:"companies"`
}

func (w *Writer) writeJSON(path string, companies []*model.CompanyRecord, location string, partial bool) error {
	totalEmails := 0
	for _, c := range companies {
		totalEmails += len(c.Emails)
	}
	doc := jsonDocument{
		Metadata: jsonMetadata{
			CreatedAt:      w.now().UTC(),
			Location:       location,
			IsPartial:      partial,
			TotalCompanies: len(companies),
			TotalEmails:    totalEmails,
		},
		Companies: companies,
	}
	if doc.Companies == nil {
		doc.Companies = []*model.CompanyRecord{}
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal json artifact")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrap(err, "output: write json artifact")
	}
	return nil
}

const textWidth = 80

// writeText renders an aligned company -> email listing for quick reading.
// Only companies that yielded at least one address appear.
func (w *Writer) writeText(path string, companies []*model.CompanyRecord, location string) error {
	withEmails := make([]*model.CompanyRecord, 0, len(companies))
	for _, c := range companies {
		if len(c.Emails) > 0 {
			withEmails = append(withEmails, c)
		}
	}

	var b strings.Builder
	if len(withEmails) == 0 {
		b.WriteString("No companies with emails found.\n")
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return eris.Wrap(err, "output: write text artifact")
		}
		return nil
	}

	sort.Slice(withEmails, func(i, j int) bool {
		return strings.ToLower(withEmails[i].Name) < strings.ToLower(withEmails[j].Name)
	})

	nameWidth := 0
	for _, c := range withEmails {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}
	if nameWidth > 50 {
		nameWidth = 50
	}

	heading := location
	if heading == "" {
		heading = "all locations"
	}
	rule := strings.Repeat("=", textWidth)
	b.WriteString(rule + "\n")
	b.WriteString("COMPANY EMAIL LIST - " + strings.ToUpper(heading) + "\n")
	b.WriteString("Generated: " + w.now().Format("2006-01-02 15:04:05") + "\n")
	b.WriteString("Total Companies with Emails: " + strconv.Itoa(len(withEmails)) + "\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "%-*s  |  EMAIL\n", nameWidth, "COMPANY NAME")
	b.WriteString(strings.Repeat("-", textWidth) + "\n")

	for _, c := range withEmails {
		name := c.Name
		if len(name) > nameWidth {
			name = name[:nameWidth]
		}
		addrs := c.UniqueAddresses()
		fmt.Fprintf(&b, "%-*s  |  %s\n", nameWidth, name, addrs[0])
		for _, addr := range addrs[1:] {
			fmt.Fprintf(&b, "%-*s  |  %s\n", nameWidth, "", addr)
		}
	}

	b.WriteString("\n" + strings.Repeat("-", textWidth) + "\n")
	b.WriteString("END OF LIST - " + strconv.Itoa(len(withEmails)) + " companies\n")
	b.WriteString(rule + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrap(err, "output: write text artifact")
	}
	return nil
}

func (w *Writer) writeXLSX(path string, companies []*model.CompanyRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Companies")
	if err != nil {
		return eris.Wrap(err, "output: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range csvColumns {
		header.AddCell().SetString(col)
	}
	for _, c := range companies {
		row := sheet.AddRow()
		for _, value := range companyRow(c) {
			row.AddCell().SetString(value)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "output: save xlsx")
	}
	return nil
}

func companyRow(c *model.CompanyRecord) []string {
	best := c.BestContact()
	bestAddr, bestConfidence := "", ""
	if best != nil {
		bestAddr = best.Address
		bestConfidence = string(best.Confidence)
	}
	return []string{
		c.Name,
		c.Location,
		c.Website,
		c.CareersURL,
		c.LinkedInURL,
		strings.Join(c.HiringRoles, "; "),
		bestAddr,
		bestConfidence,
		strings.Join(c.UniqueAddresses(), "; "),
		strconv.Itoa(len(c.Emails)),
		c.SourceURL,
		strconv.Itoa(c.CrawlDepth),
		c.DiscoveredAt.UTC().Format(time.RFC3339),
	}
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// slugify turns a location into a filename-safe fragment.
func slugify(text string) string {
	if text == "" {
		return "all"
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugCollapseRe.ReplaceAllString(s, "_")
	if len(s) > 50 {
		s = s[:50]
	}
	if s == "" {
		return "all"
	}
	return s
}
