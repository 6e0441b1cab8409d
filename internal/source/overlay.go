package source

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Overlay is the optional sources.yaml document: per-source toggles plus
// extra seed regions for the directory adapter.
type Overlay struct {
	Sources []OverlaySource        `yaml:"sources,omitempty"`
	Seeds   map[string][]SeedEntry `yaml:"seeds,omitempty"`
}

// OverlaySource toggles one registered adapter.
type OverlaySource struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// LoadOverlay reads a sources.yaml file. A missing file is not an error:
// the overlay is optional.
func LoadOverlay(path string) (*Overlay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}
		return nil, eris.Wrapf(err, "source: read overlay %s", path)
	}

	var ov Overlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, eris.Wrapf(err, "source: parse overlay %s", path)
	}
	return &ov, nil
}

// Apply pushes the overlay's toggles into the registry and its seeds into
// the directory adapter, if one is registered.
func (ov *Overlay) Apply(reg *Registry) {
	for _, s := range ov.Sources {
		if s.Enabled == nil {
			continue
		}
		reg.SetEnabled(s.Name, *s.Enabled)
		zap.L().Info("source toggled by overlay",
			zap.String("source", s.Name),
			zap.Bool("enabled", *s.Enabled))
	}

	if len(ov.Seeds) > 0 {
		if src, ok := reg.Get("directory"); ok {
			if dir, ok := src.(*DirectorySource); ok {
				dir.MergeSeeds(ov.Seeds)
			}
		}
	}
}
