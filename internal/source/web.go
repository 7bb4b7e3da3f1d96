package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/hansard/internal/logger"
	"github.com/jmylchreest/hansard/internal/version"
	"github.com/jmylchreest/hansard/pkg/hansard"
)

// DefaultIndexURL is the ParlInfo Web browse page listing a sitting day.
const DefaultIndexURL = "http://parlinfoweb.aph.gov.au/piweb/browse.aspx?path=Chamber%20%3E%20{house}%20Hansard%20%3E%20{year}%20%3E%20{day}%20{month}%20{year}"

// WebConfig holds configuration for the web source.
type WebConfig struct {
	// IndexURL is a template for a sitting day's index page. Placeholders:
	// {date} (2006-01-02), {chamber}, {house} (House or Senate), {year},
	// {month} (January), {day} (unpadded).
	IndexURL string

	// LinkSelector picks the sub-day links out of the index page.
	LinkSelector string

	// Window is the slice of selected links that belongs to the sitting
	// day. nil means DefaultLinkWindow.
	Window *LinkWindow

	// ErrorTitle is the page title the site serves instead of a 404 when
	// there was no sitting.
	ErrorTitle string

	UserAgent string
	Timeout   time.Duration

	// CacheDir, when set, receives every fetched page in the layout
	// FileSource reads.
	CacheDir string
}

// LinkWindow drops the site navigation that surrounds a sitting day's
// table of contents: Skip links at the start of the index page and Drop
// links at the end.
type LinkWindow struct {
	Skip int `yaml:"skip"`
	Drop int `yaml:"drop"`
}

// DefaultLinkWindow matches the ParlInfo Web index layout: 30 navigation
// links before the table of contents and 3 after it.
var DefaultLinkWindow = LinkWindow{Skip: 30, Drop: 3}

// apply returns the links inside the window. An index with no more links
// than the window removes gives none.
func (w LinkWindow) apply(links []*goquery.Selection) []*goquery.Selection {
	skip, end := max(w.Skip, 0), len(links)-max(w.Drop, 0)
	if skip >= end {
		return nil
	}
	return links[skip:end]
}

// DefaultWebConfig returns sensible defaults.
func DefaultWebConfig() WebConfig {
	window := DefaultLinkWindow
	return WebConfig{
		IndexURL:     DefaultIndexURL,
		LinkSelector: "a[href]",
		Window:       &window,
		ErrorTitle:   "ParlInfo Web - Error",
		UserAgent:    version.UserAgent(),
		Timeout:      30 * time.Second,
	}
}

// WebSource fetches sitting days with Colly. Requests are not retried;
// a failed day is simply requested again by the caller.
type WebSource struct {
	config WebConfig
}

// NewWebSource creates a WebSource. Zero fields take their defaults.
func NewWebSource(cfg WebConfig) *WebSource {
	def := DefaultWebConfig()
	if cfg.IndexURL == "" {
		cfg.IndexURL = def.IndexURL
	}
	if cfg.LinkSelector == "" {
		cfg.LinkSelector = def.LinkSelector
	}
	if cfg.Window == nil {
		cfg.Window = def.Window
	}
	if cfg.ErrorTitle == "" {
		cfg.ErrorTitle = def.ErrorTitle
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return &WebSource{config: cfg}
}

// IndexURL expands the index template for a sitting day.
func (s *WebSource) IndexURL(date time.Time, chamber hansard.Chamber) string {
	house := "House"
	if chamber == hansard.Senate {
		house = "Senate"
	}
	return strings.NewReplacer(
		"{date}", date.Format("2006-01-02"),
		"{chamber}", chamber.String(),
		"{house}", house,
		"{year}", strconv.Itoa(date.Year()),
		"{month}", date.Month().String(),
		"{day}", strconv.Itoa(date.Day()),
	).Replace(s.config.IndexURL)
}

// Day fetches the index page of a sitting day and returns its links. Pages
// behind the links are fetched when loaded.
func (s *WebSource) Day(ctx context.Context, date time.Time, chamber hansard.Chamber) (hansard.Day, error) {
	log := logger.Component("source").With("date", date.Format("2006-01-02"), "chamber", chamber.String())
	indexURL := s.IndexURL(date, chamber)

	doc, body, err := s.fetch(ctx, indexURL)
	if err != nil {
		log.Warn("could not retrieve overview page", "url", indexURL, "error", err)
		return hansard.Day{}, err
	}
	if strings.TrimSpace(doc.Find("title").First().Text()) == s.config.ErrorTitle {
		return hansard.Day{}, fmt.Errorf("%s: %w", indexURL, ErrNoSittingDay)
	}

	links, selected := s.extractLinks(doc)
	if len(links) == 0 {
		log.Warn("no sub-day links inside link window", "url", indexURL, "selected", selected, "skip", s.config.Window.Skip, "drop", s.config.Window.Drop)
	}
	log.Debug("index fetched", "url", indexURL, "selected", selected, "links", len(links))

	dir := ""
	if s.config.CacheDir != "" {
		dir = DayDir(s.config.CacheDir, date, chamber)
		m := &Manifest{Date: date.Format("2006-01-02"), Chamber: chamber.String(), Index: indexURL, Links: links}
		if err := writeManifest(dir, m); err != nil {
			return hansard.Day{}, fmt.Errorf("write cache: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "index.html"), body, 0o644); err != nil {
			return hansard.Day{}, fmt.Errorf("write cache: %w", err)
		}
	}

	day := hansard.Day{Date: date, Chamber: chamber, Links: make([]hansard.SubDayLink, 0, len(links))}
	for _, l := range links {
		day.Links = append(day.Links, hansard.SubDayLink{Label: l.Label, Load: s.loader(dir, l)})
	}
	return day, nil
}

// extractLinks returns the anchors inside the link window with absolute
// URLs, and how many anchors the selector matched. Each link is given the
// cache file name it would be stored under.
func (s *WebSource) extractLinks(doc *goquery.Document) ([]ManifestLink, int) {
	var anchors []*goquery.Selection
	doc.Find(s.config.LinkSelector).Each(func(_ int, a *goquery.Selection) {
		anchors = append(anchors, a)
	})

	var links []ManifestLink
	for _, a := range s.config.Window.apply(anchors) {
		href, ok := a.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		if doc.Url != nil {
			ref = doc.Url.ResolveReference(ref)
		}
		links = append(links, ManifestLink{
			Label: strings.Join(strings.Fields(a.Text()), " "),
			URL:   ref.String(),
			File:  fmt.Sprintf("%03d.html", len(links)+1),
		})
	}
	return links, len(anchors)
}

func (s *WebSource) loader(cacheDir string, l ManifestLink) hansard.PageLoader {
	return func(ctx context.Context) (*goquery.Document, error) {
		doc, body, err := s.fetch(ctx, l.URL)
		if err != nil {
			return nil, err
		}
		if cacheDir != "" {
			if err := os.WriteFile(filepath.Join(cacheDir, l.File), body, 0o644); err != nil {
				return nil, fmt.Errorf("write cache: %w", err)
			}
		}
		return doc, nil
	}
}

// fetch retrieves one page. A new collector is used for each request so
// that ctx governs only that request.
func (s *WebSource) fetch(ctx context.Context, target string) (*goquery.Document, []byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.config.Timeout)

	var (
		body     []byte
		finalURL *url.URL
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		finalURL = r.Request.URL
		logger.Debug("page fetched", "url", finalURL.String(), "status", r.StatusCode, "body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch %s (status %d): %w", target, status, err)
	})

	if err := c.Visit(target); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("visit %s: %w", target, err)
	}
	if fetchErr != nil {
		return nil, nil, fetchErr
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", target, err)
	}
	doc.Url = finalURL
	return doc, body, nil
}
