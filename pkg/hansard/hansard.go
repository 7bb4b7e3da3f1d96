// Package hansard turns the sub-pages of a parliamentary sitting day into an
// ordered stream of headings and speeches with resolved speakers and
// canonical markup.
//
// A sitting day arrives as an ordered list of sub-day links. Each link label
// is classified; speech links have their page loaded and walked block by
// block. The walker tracks who holds the floor so that interjections are
// attributed without changing the current speaker.
package hansard

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/hansard/pkg/people"
)

// Chamber identifies a house of parliament.
type Chamber = people.Chamber

const (
	Representatives = people.Representatives
	Senate          = people.Senate
)

// Directory is the member directory consulted when resolving speakers.
type Directory = people.Directory

// PageLoader returns the parsed content of a sub-day page. Loaders are only
// called for links that are parsed, so fetching can be deferred.
type PageLoader func(ctx context.Context) (*goquery.Document, error)

// SubDayLink is one entry in a sitting day's table of contents.
type SubDayLink struct {
	Label string
	Load  PageLoader
}

// Day is a sitting day of one chamber.
type Day struct {
	Date    time.Time
	Chamber Chamber
	Links   []SubDayLink
}

// Heading introduces the speeches of one sub-day page.
type Heading struct {
	Title     string
	Subtitle  string
	Permalink string
}

// SpeechRecord is one block of speech attributed to a speaker. Speaker is
// nil when no speaker has been named yet on the page.
type SpeechRecord struct {
	Speaker   SpeakerRef
	Time      string // empty when the link carried no time
	Permalink string
	Content   string
}

// Accumulator receives the records of a sitting day in emission order.
// The major count advances once per sub-day link and the minor count once
// per content block, together giving each speech a stable ordinal.
type Accumulator interface {
	AddHeading(h Heading)
	AddSpeech(s SpeechRecord)
	IncrementMajor()
	IncrementMinor()
}
