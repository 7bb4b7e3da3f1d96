// Package source loads sitting days for the parser, either from the
// transcript website or from pages cached on disk by an earlier fetch.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hansard/pkg/hansard"
)

// Source produces the sub-day links of a sitting day.
type Source interface {
	Day(ctx context.Context, date time.Time, chamber hansard.Chamber) (hansard.Day, error)
}

// ErrNoSittingDay indicates the chamber did not sit on the requested date.
var ErrNoSittingDay = errors.New("no sitting day")

// manifestFile names the per-day index of cached pages.
const manifestFile = "links.yaml"

// Manifest lists the sub-day links of a cached sitting day. A link's File
// is only present on disk once its page has been fetched.
type Manifest struct {
	Date    string         `yaml:"date"`
	Chamber string         `yaml:"chamber"`
	Index   string         `yaml:"index"`
	Links   []ManifestLink `yaml:"links"`
}

// ManifestLink is one cached sub-day link.
type ManifestLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	File  string `yaml:"file,omitempty"`
}

// DayDir returns the cache directory of a sitting day:
// <root>/<YYYY-MM-DD>/<chamber>.
func DayDir(root string, date time.Time, chamber hansard.Chamber) string {
	return filepath.Join(root, date.Format("2006-01-02"), chamber.String())
}

func readManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile)) //#nosec G304
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
	}
	return &m, nil
}

func writeManifest(dir string, m *Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
}
