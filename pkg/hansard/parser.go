package hansard

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/hansard/internal/logger"
	"github.com/jmylchreest/hansard/pkg/cleaner"
)

// Parser parses sitting days. A Parser holds no per-day state and may be
// reused; each day is parsed synchronously.
type Parser struct {
	resolver *Resolver
	cleaner  cleaner.Cleaner
	log      *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger for parse events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// WithCleaner sets the cleaner that canonicalizes speech markup.
func WithCleaner(c cleaner.Cleaner) Option {
	return func(p *Parser) {
		p.cleaner = c
	}
}

// New creates a Parser resolving speakers against dir.
func New(dir Directory, opts ...Option) *Parser {
	p := &Parser{
		cleaner: cleaner.New(nil),
		log:     logger.Component("hansard"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = NewResolver(dir, p.log)
	return p
}

// ParseDay parses every link of day into acc. The major count is advanced
// after each link, including skipped ones, so ordinals stay stable when
// more categories become supported.
//
// A structural error stops the day and is returned as a *DayError; records
// already passed to acc are left in place. ctx is checked between links.
func (p *Parser) ParseDay(ctx context.Context, day Day, acc Accumulator) error {
	log := p.log.With("date", day.Date.Format("2006-01-02"), "chamber", day.Chamber.String())
	log.Info("parsing sitting day", "links", len(day.Links))

	for _, link := range day.Links {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.parseLink(ctx, day, link, acc, log.With("link", link.Label)); err != nil {
			log.Error("aborting sitting day", "link", link.Label, "error", err)
			return &DayError{Date: day.Date, Chamber: day.Chamber, Link: link.Label, Err: err}
		}
		acc.IncrementMajor()
	}
	return nil
}

func (p *Parser) parseLink(ctx context.Context, day Day, link SubDayLink, acc Accumulator, log *slog.Logger) error {
	action := ClassifyLink(link.Label)

	switch action.Kind {
	case LinkSpeech:
		if action.Malformed() {
			log.Warn("expected speech label to have 3 fields", "fields", action.Fields)
		}
		if link.Load == nil {
			return fmt.Errorf("%w: no page for link", ErrMissingContent)
		}
		doc, err := link.Load(ctx)
		if err != nil {
			return fmt.Errorf("load page: %w", err)
		}
		page := Page{Date: day.Date, Chamber: day.Chamber, Time: action.Time, Doc: doc}
		return p.parsePage(page, acc, log)
	case LinkSkip:
		log.Debug("skipping link")
		return nil
	case LinkLoggedUnsupported:
		log.Info("not yet supporting link category", "category", action.Category)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedLink, link.Label)
	}
}

// Page is a loaded speech page with the context it was linked from.
type Page struct {
	Date    time.Time
	Chamber Chamber
	Time    string
	Doc     *goquery.Document
}

// ParsePage walks one speech page into acc: a heading, then a speech per
// content block.
func (p *Parser) ParsePage(page Page, acc Accumulator) error {
	return p.parsePage(page, acc, p.log.With("date", page.Date.Format("2006-01-02"), "chamber", page.Chamber.String()))
}

func (p *Parser) parsePage(page Page, acc Accumulator, log *slog.Logger) error {
	content := page.Doc.Find("div#contentstart").First()
	if content.Length() == 0 {
		return fmt.Errorf("%w: page on %s at time %q", ErrMissingContent, page.Date.Format("2006-01-02"), page.Time)
	}

	permalink, err := findPermalink(page.Doc)
	if err != nil {
		return err
	}

	acc.AddHeading(Heading{
		Title:     replaceUnicode(innerHTML(content.Find("div.hansardtitle")), log),
		Subtitle:  replaceUnicode(innerHTML(content.Find("div.hansardsubtitle")), log),
		Permalink: permalink,
	})

	w := &pageWalker{parser: p, page: page, permalink: permalink, acc: acc, log: log}
	return w.walk(content)
}

// walkState is carried from one block to the next.
type walkState struct {
	// speaker holds the floor; nil until the first speaker is named.
	speaker SpeakerRef
}

type pageWalker struct {
	parser    *Parser
	page      Page
	permalink string
	acc       Accumulator
	log       *slog.Logger
}

func (w *pageWalker) walk(content *goquery.Selection) error {
	var st walkState
	var err error

	content.Children().EachWithBreak(func(_ int, block *goquery.Selection) bool {
		st, err = w.block(st, block)
		return err == nil
	})
	return err
}

func (w *pageWalker) block(st walkState, block *goquery.Selection) (walkState, error) {
	switch ClassifyBlock(block) {
	case BlockHeadingGroup:
		return st, nil
	case BlockSpeechGroup:
		// The first child is the speaker header of the group.
		children := block.Children()
		if children.Length() < 2 {
			return st, nil
		}
		var err error
		children.Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, child *goquery.Selection) bool {
			st, err = w.speech(st, child)
			w.acc.IncrementMinor()
			return err == nil
		})
		return st, err
	case BlockSpeech:
		var err error
		st, err = w.speech(st, block)
		w.acc.IncrementMinor()
		return st, err
	case BlockDivision:
		w.log.Debug("ignoring division table")
		w.acc.IncrementMinor()
		return st, nil
	default:
		class, _ := block.Attr("class")
		return st, fmt.Errorf("%w: unexpected class %q for tag %s", ErrUnrecognizedBlock, class, goquery.NodeName(block))
	}
}

// speech records one block. An interjection is attributed to the
// interjector but the floor stays with the previous speaker.
func (w *pageWalker) speech(st walkState, block *goquery.Selection) (walkState, error) {
	name := ExtractSpeakerName(block)

	speaker := st.speaker
	if name.Found {
		var err error
		speaker, err = w.parser.resolver.Resolve(name.Name, w.page.Date, w.page.Chamber)
		if err != nil {
			return st, err
		}
	}

	raw, err := goquery.OuterHtml(block)
	if err != nil {
		return st, fmt.Errorf("render block: %w", err)
	}
	content, err := w.clean(raw)
	if err != nil {
		return st, err
	}

	w.acc.AddSpeech(SpeechRecord{
		Speaker:   speaker,
		Time:      w.page.Time,
		Permalink: w.permalink,
		Content:   content,
	})

	if !name.Interjection {
		st.speaker = speaker
	}
	return st, nil
}

// reportingCleaner is a cleaner that also reports data-quality warnings.
type reportingCleaner interface {
	CleanWithStats(baseURL, markup string) *cleaner.Result
}

// clean canonicalizes one block against the page permalink. Warnings from
// a reporting cleaner are logged; they never stop the page.
func (w *pageWalker) clean(raw string) (string, error) {
	rc, ok := w.parser.cleaner.(reportingCleaner)
	if !ok {
		return w.parser.cleaner.Clean(w.permalink, raw)
	}

	result := rc.CleanWithStats(w.permalink, raw)
	for _, warning := range result.Warnings {
		w.log.Warn("speech content warning", "phase", warning.Phase, "message", warning.Message, "context", warning.Context)
	}
	if result.Error != nil {
		return "", result.Error
	}
	return result.Content, nil
}

const permalinkText = "[Permalink]"

// findPermalink returns the absolute target of the page's permalink anchor.
func findPermalink(doc *goquery.Document) (string, error) {
	anchor := doc.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return strings.TrimSpace(a.Text()) == permalinkText
	}).First()
	if anchor.Length() == 0 {
		return "", ErrMissingPermalink
	}

	href, _ := anchor.Attr("href")
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingPermalink, err)
	}
	if doc.Url != nil {
		ref = doc.Url.ResolveReference(ref)
	}
	return ref.String(), nil
}

// innerHTML joins the inner markup of every node in s with "; ".
func innerHTML(s *goquery.Selection) string {
	parts := make([]string, 0, s.Length())
	s.Each(func(_ int, n *goquery.Selection) {
		h, err := n.Html()
		if err == nil {
			parts = append(parts, h)
		}
	})
	return strings.Join(parts, "; ")
}

var unicodeReplacer = strings.NewReplacer("‘", "'", "’", "'", "—", "-")

// replaceUnicode swaps typographic quotes and dashes for ASCII and warns
// about any other non-ASCII text left.
func replaceUnicode(text string, log *slog.Logger) string {
	text = unicodeReplacer.Replace(text)
	for _, r := range text {
		if r > 127 {
			log.Warn("found invalid characters", "text", fmt.Sprintf("%q", text))
			break
		}
	}
	return text
}
