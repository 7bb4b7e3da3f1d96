package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/hansard/pkg/hansard"
)

// FileSource replays sitting days from a page cache written by WebSource.
type FileSource struct {
	root string
}

// NewFileSource creates a FileSource reading the cache under root.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Day returns the cached links of a sitting day. A day with no manifest
// gives ErrNoSittingDay.
func (s *FileSource) Day(_ context.Context, date time.Time, chamber hansard.Chamber) (hansard.Day, error) {
	dir := DayDir(s.root, date, chamber)
	m, err := readManifest(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return hansard.Day{}, fmt.Errorf("%s %s not cached: %w", date.Format("2006-01-02"), chamber, ErrNoSittingDay)
	}
	if err != nil {
		return hansard.Day{}, fmt.Errorf("read cache: %w", err)
	}

	day := hansard.Day{Date: date, Chamber: chamber, Links: make([]hansard.SubDayLink, 0, len(m.Links))}
	for _, l := range m.Links {
		day.Links = append(day.Links, hansard.SubDayLink{Label: l.Label, Load: s.loader(dir, l)})
	}
	return day, nil
}

func (s *FileSource) loader(dir string, l ManifestLink) hansard.PageLoader {
	return func(context.Context) (*goquery.Document, error) {
		if l.File == "" {
			return nil, fmt.Errorf("page %q was not cached", l.Label)
		}
		body, err := os.ReadFile(filepath.Join(dir, l.File)) //#nosec G304
		if err != nil {
			return nil, fmt.Errorf("read cached page: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse cached page %s: %w", l.File, err)
		}
		if l.URL != "" {
			if u, err := url.Parse(l.URL); err == nil {
				doc.Url = u
			}
		}
		return doc, nil
	}
}
