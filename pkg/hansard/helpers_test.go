package hansard

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hansard/pkg/people"
)

var sittingDate = time.Date(2009, time.March, 12, 0, 0, 0, 0, time.UTC)

func member(id, raw string, chamber Chamber) *people.Member {
	return &people.Member{ID: id, PersonID: id, Name: people.ParseName(raw), Chamber: chamber}
}

// fakeDirectory records every lookup it answers.
type fakeDirectory struct {
	calls   []string
	members []*people.Member

	speaker, deputySpeaker, president, deputyPresident *people.Member
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members: []*people.Member{
			member("hunt", "Mr Greg HUNT", Representatives),
			member("abbott", "Mr Tony ABBOTT", Representatives),
			member("burke", "Ms Anna BURKE", Representatives),
			member("carr", "Senator Kim CARR", Senate),
			member("ferguson", "Senator Alan FERGUSON", Senate),
		},
		speaker:         member("jenkins", "Mr Harry JENKINS", Representatives),
		deputySpeaker:   member("burke", "Ms Anna BURKE", Representatives),
		president:       member("hogg", "Senator John HOGG", Senate),
		deputyPresident: member("ferguson", "Senator Alan FERGUSON", Senate),
	}
}

func (d *fakeDirectory) office(name string, m *people.Member) (*people.Member, error) {
	d.calls = append(d.calls, name)
	if m == nil {
		return nil, people.ErrMemberNotFound
	}
	return m, nil
}

func (d *fakeDirectory) HouseSpeaker(time.Time) (*people.Member, error) {
	return d.office("HouseSpeaker", d.speaker)
}

func (d *fakeDirectory) DeputyHouseSpeaker(time.Time) (*people.Member, error) {
	return d.office("DeputyHouseSpeaker", d.deputySpeaker)
}

func (d *fakeDirectory) SenatePresident(time.Time) (*people.Member, error) {
	return d.office("SenatePresident", d.president)
}

func (d *fakeDirectory) DeputySenatePresident(time.Time) (*people.Member, error) {
	return d.office("DeputySenatePresident", d.deputyPresident)
}

func (d *fakeDirectory) FindMemberByNameCurrentOnDate(name people.Name, _ time.Time, chamber Chamber) (*people.Member, error) {
	d.calls = append(d.calls, "FindMemberByNameCurrentOnDate:"+name.Last)
	for _, m := range d.members {
		if m.Chamber == chamber && m.Name.Matches(name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name.Full(), people.ErrMemberNotFound)
}

// recorder is an Accumulator that keeps everything it is given.
type recorder struct {
	headings []Heading
	speeches []SpeechRecord
	major    int
	minor    int
}

func (r *recorder) AddHeading(h Heading)     { r.headings = append(r.headings, h) }
func (r *recorder) AddSpeech(s SpeechRecord) { r.speeches = append(r.speeches, s) }
func (r *recorder) IncrementMajor()          { r.major++ }
func (r *recorder) IncrementMinor()          { r.minor++ }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

// blockOf parses markup and returns its first top-level element.
func blockOf(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Find("body").Children().First()
}

func pageDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	doc.Url, err = url.Parse("http://parlinfoweb.aph.gov.au/piweb/view.aspx")
	require.NoError(t, err)
	return doc
}

func speakerID(s SpeakerRef) string {
	if s == nil {
		return ""
	}
	return s.ID()
}
