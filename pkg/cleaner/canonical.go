package cleaner

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Canonicalizer rewrites transcript speech markup into canonical form.
// It implements the Cleaner interface.
type Canonicalizer struct {
	config *Config

	layoutClasses map[string]bool
	italicAliases map[string]bool
	allowedTags   map[string]bool
}

// New creates a new Canonicalizer with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Canonicalizer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Canonicalizer{
		config:        config,
		layoutClasses: toSet(config.LayoutClasses),
		italicAliases: toSet(config.ItalicAliases),
		allowedTags:   toSet(config.AllowedTags),
	}
}

// Name returns the cleaner name for logging.
func (c *Canonicalizer) Name() string {
	return "canonical"
}

// Clean canonicalizes one block of markup.
// This method implements the Cleaner interface.
func (c *Canonicalizer) Clean(baseURL, markup string) (string, error) {
	result := c.CleanWithStats(baseURL, markup)
	if result.Error != nil {
		return "", result.Error
	}
	return result.Content, nil
}

// CleanWithStats canonicalizes one block and returns detailed stats.
func (c *Canonicalizer) CleanWithStats(baseURL, markup string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(markup)

	base, err := url.Parse(baseURL)
	if err != nil {
		result.Error = fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		return result
	}

	parseStart := time.Now()
	doc, err := parseFragment(markup)
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		result.Error = fmt.Errorf("parse markup: %w", err)
		return result
	}

	transformStart := time.Now()
	c.transform(doc, base, result)
	result.Stats.TransformDuration = time.Since(transformStart)

	rendered, err := doc.Html()
	if err != nil {
		result.Error = fmt.Errorf("render markup: %w", err)
		return result
	}

	text := cleanupText(rendered)

	if err := c.validate(text); err != nil {
		result.Error = err
		return result
	}

	if c.config.WarnNonASCII {
		if r, ok := firstNonASCII(text); ok {
			result.AddWarning("text", "non-ASCII character survived cleanup", fmt.Sprintf("%q", r))
		}
	}

	result.Content = text
	result.Stats.OutputBytes = len(text)
	result.Stats.TotalDuration = time.Since(startTime)
	return result
}

// transform applies the structural rewrites. Order matters: later steps
// assume the containers handled by earlier steps are already gone.
func (c *Canonicalizer) transform(doc *goquery.Document, base *url.URL, result *Result) {
	// 1. Speaker metadata and presentational tags
	c.removeQualifiers(doc, result)
	for _, selector := range c.config.RemoveSelectors {
		c.removeElements(doc, selector, result)
	}

	// 2. Amendments, then motions and quotes
	c.makeItalic(doc, "div.amendments div.amendment0 p, div.amendments div.amendment1 p", result)
	c.unwrapElements(doc, "div.amendment0", result)
	c.unwrapElements(doc, "div.amendment1", result)
	c.unwrapElements(doc, "div.amendments", result)
	c.makeItalic(doc, "div.motion p", result)
	c.unwrapElements(doc, "div.motion", result)
	c.makeItalic(doc, "div.quote p", result)
	c.unwrapElements(doc, "div.quote", result)

	// 3. Sub-speech containers
	c.unwrapElements(doc, "div.subspeech0", result)
	c.unwrapElements(doc, "div.subspeech1", result)

	// 4. Links and images
	c.fixLinks(doc, base, result)

	// 5. Paragraph and table attributes
	c.fixParagraphs(doc, result)
	c.fixTables(doc, result)

	// 6. No-speech motions
	c.fixMotionNoSpeech(doc, result)
}

// removeElements removes all elements matching selector.
func (c *Canonicalizer) removeElements(doc *goquery.Document, selector string, result *Result) {
	sel := doc.Find(selector)
	result.Stats.RecordRemoval(selector, sel.Length())
	sel.Remove()
}

// removeQualifiers removes the bracketed qualifier that follows a talker
// name, e.g. <b>(Mr Hunt)</b>. It must run before the name itself goes.
func (c *Canonicalizer) removeQualifiers(doc *goquery.Document, result *Result) {
	doc.Find("span.talkername ~ b").Each(func(_ int, s *goquery.Selection) {
		if qualifierRegex.MatchString(s.Text()) {
			result.Stats.RecordRemoval("span.talkername ~ b", 1)
			s.Remove()
		}
	})
}

// unwrapElements replaces every element matching selector with its contents.
func (c *Canonicalizer) unwrapElements(doc *goquery.Document, selector string, result *Result) {
	sel := doc.Find(selector)
	result.Stats.RecordUnwrap(selector, sel.Length())
	unwrap(sel)
}

// makeItalic sets the italic class on every matching paragraph.
func (c *Canonicalizer) makeItalic(doc *goquery.Document, selector string, result *Result) {
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("class", c.config.ItalicClass)
		result.Stats.ClassesRewritten++
	})
}

// fixLinks makes anchor and image targets absolute. Anchors without an
// href carry no link and are replaced by their contents.
func (c *Canonicalizer) fixLinks(doc *goquery.Document, base *url.URL, result *Result) {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			result.Stats.RecordUnwrap("a", 1)
			unwrap(s)
			return
		}
		s.SetAttr("href", resolveURL(base, href, result))
		result.Stats.LinksRewritten++
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		s.SetAttr("src", resolveURL(base, src, result))
		result.Stats.LinksRewritten++
	})
}

// fixParagraphs normalizes paragraph classes and styles.
func (c *Canonicalizer) fixParagraphs(doc *goquery.Document, result *Result) {
	if c.config.BoldClass != "" {
		bold := &html.Node{Type: html.ElementNode, Data: "b", DataAtom: atom.B}
		doc.Find("p." + c.config.BoldClass).WrapNode(bold)
	}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		class, ok := s.Attr("class")
		if !ok {
			return
		}
		switch {
		case c.layoutClasses[class]:
			s.RemoveAttr("class")
			result.Stats.AttributesRemoved++
		case c.italicAliases[class]:
			s.SetAttr("class", c.config.ItalicClass)
			result.Stats.ClassesRewritten++
		}
	})

	doc.Find("p." + c.config.ItalicClass + "[style]").Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("style")
		result.Stats.AttributesRemoved++
	})
}

// fixTables drops cell styles and the tbody the HTML parser inserts,
// neither of which is part of the canonical vocabulary.
func (c *Canonicalizer) fixTables(doc *goquery.Document, result *Result) {
	doc.Find("td[style]").Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("style")
		result.Stats.AttributesRemoved++
	})
	c.unwrapElements(doc, "tbody", result)
}

// fixMotionNoSpeech turns a no-speech motion into a paragraph and strips
// the speech metadata spans that came with it. Containers holding block
// content are unwrapped without the paragraph so that paragraphs never nest.
func (c *Canonicalizer) fixMotionNoSpeech(doc *goquery.Document, result *Result) {
	doc.Find("div.motionnospeech").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Filter(blockSelector).Length() == 0 {
			s.WrapNode(&html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P})
		}
		result.Stats.RecordUnwrap("div.motionnospeech", 1)
		unwrap(s)
	})
	for _, selector := range c.config.MetadataSelectors {
		c.removeElements(doc, selector, result)
	}
}

// blockSelector matches children that cannot sit inside a paragraph.
const blockSelector = "p, div, table, ul, dl"

// qualifierRegex matches a bracketed qualifier such as "(Mr Hunt)".
var qualifierRegex = regexp.MustCompile(`\((.*)\)`)

// unwrap replaces each node in sel with its children, as goquery's own
// Unwrap does for parents.
func unwrap(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})
}

// resolveURL resolves ref against base. Unparseable references are left
// untouched and reported as a warning.
func resolveURL(base *url.URL, ref string, result *Result) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		result.AddWarning("links", "unparseable link target", ref)
		return ref
	}
	return base.ResolveReference(u).String()
}

// parseFragment parses markup as body content. The fragment is attached to
// a detached container so the rendered output carries no html/body wrapper.
func parseFragment(markup string) (*goquery.Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}
