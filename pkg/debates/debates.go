// Package debates collects the headings and speeches of one sitting day and
// gives each a stable ordinal id.
package debates

import (
	"fmt"
	"time"

	"github.com/jmylchreest/hansard/pkg/hansard"
)

// Item kinds.
const (
	KindHeading = "heading"
	KindSpeech  = "speech"
)

// Item is one entry of a Document, a heading or a speech.
type Item struct {
	Kind      string `json:"kind" yaml:"kind"`
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle  string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	SpeakerID string `json:"speaker_id,omitempty" yaml:"speaker_id,omitempty"`
	Speaker   string `json:"speaker,omitempty" yaml:"speaker,omitempty"`
	Time      string `json:"time,omitempty" yaml:"time,omitempty"`
	URL       string `json:"url" yaml:"url"`
	Content   string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Document is the serializable record of a sitting day.
type Document struct {
	Date    string `json:"date" yaml:"date"`
	Chamber string `json:"chamber" yaml:"chamber"`
	Items   []Item `json:"items" yaml:"items"`
}

// Speeches returns the number of speech items.
func (d *Document) Speeches() int {
	n := 0
	for _, it := range d.Items {
		if it.Kind == KindSpeech {
			n++
		}
	}
	return n
}

// Debates accumulates a sitting day. Ids take the form
// <date>.<major>.<minor>; a heading always has minor 0 and the speeches
// under it count up from 1.
type Debates struct {
	date    time.Time
	chamber hansard.Chamber
	major   int
	minor   int
	items   []Item
}

var _ hansard.Accumulator = (*Debates)(nil)

// New creates an empty Debates for date and chamber.
func New(date time.Time, chamber hansard.Chamber) *Debates {
	return &Debates{date: date, chamber: chamber, major: 1, minor: 1}
}

func (d *Debates) id(minor int) string {
	return fmt.Sprintf("%s.%d.%d", d.date.Format("2006-01-02"), d.major, minor)
}

// AddHeading records a heading.
func (d *Debates) AddHeading(h hansard.Heading) {
	d.items = append(d.items, Item{
		Kind:     KindHeading,
		ID:       d.id(0),
		Title:    h.Title,
		Subtitle: h.Subtitle,
		URL:      h.Permalink,
	})
}

// AddSpeech records a speech. A speech with no speaker is kept with empty
// speaker fields.
func (d *Debates) AddSpeech(s hansard.SpeechRecord) {
	it := Item{
		Kind:    KindSpeech,
		ID:      d.id(d.minor),
		Time:    s.Time,
		URL:     s.Permalink,
		Content: s.Content,
	}
	if s.Speaker != nil {
		it.SpeakerID = s.Speaker.ID()
		it.Speaker = s.Speaker.DisplayName()
	}
	d.items = append(d.items, it)
}

// IncrementMajor moves on to the next sub-day page and restarts the minor
// count.
func (d *Debates) IncrementMajor() {
	d.major++
	d.minor = 1
}

// IncrementMinor moves on to the next block.
func (d *Debates) IncrementMinor() {
	d.minor++
}

// Len returns the number of items recorded.
func (d *Debates) Len() int {
	return len(d.items)
}

// Document returns a copy of everything recorded so far.
func (d *Debates) Document() *Document {
	items := make([]Item, len(d.items))
	copy(items, d.items)
	return &Document{
		Date:    d.date.Format("2006-01-02"),
		Chamber: d.chamber.String(),
		Items:   items,
	}
}
