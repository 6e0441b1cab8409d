package output

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

const manifestFilename = "manifest.json"

// ManifestEntry describes one generated artifact.
type ManifestEntry struct {
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	Location    string    `json:"location"`
	Checksum    string    `json:"checksum"`
}

// Manifest accumulates artifact metadata across runs. It lives alongside
// the artifacts as manifest.json and only ever grows.
type Manifest struct {
	path        string
	LastUpdated time.Time       `json:"last_updated"`
	TotalFiles  int             `json:"total_files"`
	Entries     []ManifestEntry `json:"entries"`
}

// LoadManifest reads the manifest from dir. A missing or unreadable file
// yields an empty manifest, not an error: a corrupt manifest should never
// block a run from producing output.
func LoadManifest(dir string) *Manifest {
	m := &Manifest{path: filepath.Join(dir, manifestFilename)}
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(raw, m); err != nil {
		m.Entries = nil
	}
	return m
}

// Append records an artifact and persists the manifest immediately.
func (m *Manifest) Append(entry ManifestEntry) error {
	m.Entries = append(m.Entries, entry)
	return m.save()
}

func (m *Manifest) save() error {
	m.LastUpdated = time.Now().UTC()
	m.TotalFiles = len(m.Entries)
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal manifest")
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return eris.Wrap(err, "output: write manifest")
	}
	return nil
}

// fileChecksum returns the first 16 hex chars of a file's SHA-256 digest.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "output: open artifact for checksum")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", eris.Wrap(err, "output: hash artifact")
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
