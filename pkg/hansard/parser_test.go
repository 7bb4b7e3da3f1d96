package hansard

import (
	"context"
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hansard/pkg/cleaner"
)

const speechPage = `<html><body>
<a href="/piweb/permalink.aspx?id=1&amp;page=2">[Permalink]</a>
<div id="contentstart">
  <div class="hansardtitlegroup"><div class="hansardtitle">BILLS</div></div>
  <div class="hansardsubtitlegroup">
    <div class="hansardsubtitle">Some Bill</div>
    <div class="hansardsubtitle">Second Reading</div>
  </div>
  <div class="speech0">
    <div class="speechType">Speech</div>
    <p><span class="talkername"><a href="x">Mr HUNT</a></span> <span class="talkerelectorate">(Flinders)</span>—I rise.</p>
    <p>More text.</p>
  </div>
  <div class="subspeech0"><div class="speechType">Interjection</div><p>Mr ABBOTT interjecting—</p></div>
  <p>Continuing.</p>
  <table class="division"><tr><td>Ayes</td></tr></table>
  <p>Honourable members—Hear, hear!</p>
  <div class="motion"><p>That the bill be read a second time.</p></div>
</div>
</body></html>`

const permalink = "http://parlinfoweb.aph.gov.au/piweb/permalink.aspx?id=1&page=2"

func newTestParser(dir Directory) *Parser {
	return New(dir, WithLogger(discardLogger()))
}

func TestParsePage(t *testing.T) {
	p := newTestParser(newFakeDirectory())
	acc := &recorder{}

	err := p.ParsePage(Page{Date: sittingDate, Chamber: Representatives, Time: "10:15:00", Doc: pageDoc(t, speechPage)}, acc)
	require.NoError(t, err)

	require.Len(t, acc.headings, 1)
	assert.Equal(t, Heading{Title: "BILLS", Subtitle: "Some Bill; Second Reading", Permalink: permalink}, acc.headings[0])

	require.Len(t, acc.speeches, 6)
	wantSpeakers := []string{"hunt", "hunt", "abbott", "hunt", "hunt", "hunt"}
	for i, s := range acc.speeches {
		assert.Equal(t, wantSpeakers[i], speakerID(s.Speaker), "speech %d", i)
		assert.Equal(t, "10:15:00", s.Time)
		assert.Equal(t, permalink, s.Permalink)
	}

	assert.Equal(t, "<p> I rise.</p>", acc.speeches[0].Content)
	assert.Equal(t, "<p>More text.</p>", acc.speeches[1].Content)
	assert.Equal(t, "<p>Mr ABBOTT interjecting—</p>", acc.speeches[2].Content)
	assert.Equal(t, `<p class="italic">That the bill be read a second time.</p>`, acc.speeches[5].Content)

	// Two speeches in the group, four single blocks and a division.
	assert.Equal(t, 7, acc.minor)
	assert.Equal(t, 0, acc.major)
}

func TestParsePage_InterjectionKeepsFloor(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart">
  <p><span class="talkername"><a>Mr HUNT</a></span>—First.</p>
  <div class="subspeech0"><div class="speechType">Interjection</div><p>Ms BURKE—Order!</p></div>
  <p>Opposition members interjecting</p>
  <p>Second.</p>
</div></body></html>`

	p := newTestParser(newFakeDirectory())
	acc := &recorder{}
	require.NoError(t, p.ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc))

	require.Len(t, acc.speeches, 4)
	assert.Equal(t, "hunt", speakerID(acc.speeches[0].Speaker))
	assert.Equal(t, "burke", speakerID(acc.speeches[1].Speaker))
	assert.Equal(t, UnknownSpeaker{RawName: "Opposition members"}, acc.speeches[2].Speaker)
	assert.Equal(t, "hunt", speakerID(acc.speeches[3].Speaker))
}

func TestParsePage_NoSpeakerYet(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart"><p>Prayers.</p></div></body></html>`

	acc := &recorder{}
	require.NoError(t, newTestParser(newFakeDirectory()).ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc))

	require.Len(t, acc.speeches, 1)
	assert.Nil(t, acc.speeches[0].Speaker)
	assert.Empty(t, acc.speeches[0].Time)
}

func TestParsePage_HeadingUnicode(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart">
  <div class="hansardtitlegroup"><div class="hansardtitle">‘Quoted’ — title</div></div>
  <div class="hansardsubtitlegroup"><div class="hansardsubtitle">Café</div></div>
</div></body></html>`

	log, buf := bufferLogger()
	p := New(newFakeDirectory(), WithLogger(log))
	acc := &recorder{}
	require.NoError(t, p.ParsePage(Page{Date: sittingDate, Chamber: Senate, Doc: pageDoc(t, page)}, acc))

	require.Len(t, acc.headings, 1)
	assert.Equal(t, "'Quoted' - title", acc.headings[0].Title)
	assert.Equal(t, "Café", acc.headings[0].Subtitle)
	assert.Contains(t, buf.String(), "found invalid characters")
	assert.Empty(t, acc.speeches)
}

func TestParsePage_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		wantErr error
	}{
		{
			name:    "no content container",
			page:    `<html><body><a href="p">[Permalink]</a><div id="other"></div></body></html>`,
			wantErr: ErrMissingContent,
		},
		{
			name:    "no permalink",
			page:    `<html><body><a href="p">Link</a><div id="contentstart"><p>x</p></div></body></html>`,
			wantErr: ErrMissingPermalink,
		},
		{
			name:    "unknown div class",
			page:    `<html><body><a href="p">[Permalink]</a><div id="contentstart"><div class="mystery"><p>x</p></div></div></body></html>`,
			wantErr: ErrUnrecognizedBlock,
		},
		{
			name:    "table without division class",
			page:    `<html><body><a href="p">[Permalink]</a><div id="contentstart"><table><tr><td>x</td></tr></table></div></body></html>`,
			wantErr: ErrUnrecognizedBlock,
		},
		{
			name:    "disallowed tag in speech",
			page:    `<html><body><a href="p">[Permalink]</a><div id="contentstart"><p>Some <span>text</span></p></div></body></html>`,
			wantErr: cleaner.ErrDisallowedTag,
		},
		{
			name:    "empty talker name",
			page:    `<html><body><a href="p">[Permalink]</a><div id="contentstart"><p><span class="talkername"><a> </a></span>text</p></div></body></html>`,
			wantErr: ErrEmptySpeakerName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestParser(newFakeDirectory()).ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, tt.page)}, &recorder{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsFatal(err))
		})
	}
}

func TestParsePage_StopsAtFirstError(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart">
  <p>One.</p>
  <div class="mystery"></div>
  <p>Two.</p>
</div></body></html>`

	acc := &recorder{}
	err := newTestParser(newFakeDirectory()).ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc)
	require.ErrorIs(t, err, ErrUnrecognizedBlock)
	assert.Len(t, acc.speeches, 1)
}

func pageLoader(t *testing.T, markup string, calls *int) PageLoader {
	return func(context.Context) (*goquery.Document, error) {
		*calls++
		return pageDoc(t, markup), nil
	}
}

func failLoader(t *testing.T) PageLoader {
	return func(context.Context) (*goquery.Document, error) {
		t.Error("page loaded for a link that is not parsed")
		return nil, errors.New("unexpected load")
	}
}

func TestParseDay(t *testing.T) {
	loads := 0
	day := Day{
		Date:    sittingDate,
		Chamber: Representatives,
		Links: []SubDayLink{
			{Label: "Official Hansard", Load: failLoader(t)},
			{Label: "Start of Business", Load: failLoader(t)},
			{Label: "Speech: BILLS > Mr HUNT > 10:15:00", Load: pageLoader(t, speechPage, &loads)},
			{Label: "Petition: Roads", Load: failLoader(t)},
			{Label: "QUESTIONS WITHOUT NOTICE: Economy > Mr HUNT", Load: pageLoader(t, speechPage, &loads)},
			{Label: "Adjournment", Load: failLoader(t)},
		},
	}

	acc := &recorder{}
	require.NoError(t, newTestParser(newFakeDirectory()).ParseDay(context.Background(), day, acc))

	assert.Equal(t, 2, loads)
	assert.Equal(t, 6, acc.major)
	assert.Len(t, acc.headings, 2)
	require.Len(t, acc.speeches, 12)
	assert.Equal(t, "10:15:00", acc.speeches[0].Time)
	assert.Empty(t, acc.speeches[6].Time)
}

func TestParseDay_UnsupportedLinkAbortsDay(t *testing.T) {
	loads := 0
	day := Day{
		Date:    sittingDate,
		Chamber: Senate,
		Links: []SubDayLink{
			{Label: "Official Hansard"},
			{Label: "Something new"},
			{Label: "Speech: A > Senator CARR > 09:00:00", Load: pageLoader(t, speechPage, &loads)},
		},
	}

	acc := &recorder{}
	err := newTestParser(newFakeDirectory()).ParseDay(context.Background(), day, acc)
	require.Error(t, err)

	var dayErr *DayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, "Something new", dayErr.Link)
	assert.Equal(t, Senate, dayErr.Chamber)
	assert.Equal(t, sittingDate, dayErr.Date)
	assert.ErrorIs(t, err, ErrUnsupportedLink)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "2009-03-12 senate")

	assert.Equal(t, 0, loads)
	assert.Equal(t, 1, acc.major)
}

func TestParseDay_LoadErrorIsNotFatal(t *testing.T) {
	loadErr := errors.New("connection reset")
	day := Day{
		Date:    sittingDate,
		Chamber: Representatives,
		Links: []SubDayLink{{
			Label: "Speech: A > B > 10:00:00",
			Load: func(context.Context) (*goquery.Document, error) {
				return nil, loadErr
			},
		}},
	}

	err := newTestParser(newFakeDirectory()).ParseDay(context.Background(), day, &recorder{})
	require.ErrorIs(t, err, loadErr)
	assert.False(t, IsFatal(err))
}

func TestParseDay_MissingLoader(t *testing.T) {
	day := Day{Date: sittingDate, Chamber: Representatives, Links: []SubDayLink{{Label: "Speech: A > B > 10:00:00"}}}

	err := newTestParser(newFakeDirectory()).ParseDay(context.Background(), day, &recorder{})
	assert.ErrorIs(t, err, ErrMissingContent)
}

func TestParseDay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	day := Day{Date: sittingDate, Chamber: Representatives, Links: []SubDayLink{{Label: "Official Hansard"}}}
	acc := &recorder{}

	err := newTestParser(newFakeDirectory()).ParseDay(ctx, day, acc)
	require.ErrorIs(t, err, context.Canceled)

	var dayErr *DayError
	assert.False(t, errors.As(err, &dayErr))
	assert.Equal(t, 0, acc.major)
}

func TestParseDay_MalformedLabelWarns(t *testing.T) {
	loads := 0
	log, buf := bufferLogger()
	day := Day{
		Date:    sittingDate,
		Chamber: Representatives,
		Links:   []SubDayLink{{Label: "Speech: Heading only", Load: pageLoader(t, speechPage, &loads)}},
	}

	acc := &recorder{}
	require.NoError(t, New(newFakeDirectory(), WithLogger(log)).ParseDay(context.Background(), day, acc))

	assert.Equal(t, 1, loads)
	assert.Contains(t, buf.String(), "expected speech label to have 3 fields")
	assert.NotEmpty(t, acc.speeches)
}

type stubCleaner struct{}

func (stubCleaner) Clean(_, _ string) (string, error) { return "cleaned", nil }
func (stubCleaner) Name() string                       { return "stub" }

func TestWithCleaner(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart"><p>Anything <span>goes</span></p></div></body></html>`

	p := New(newFakeDirectory(), WithLogger(discardLogger()), WithCleaner(stubCleaner{}))
	acc := &recorder{}
	require.NoError(t, p.ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc))

	require.Len(t, acc.speeches, 1)
	assert.Equal(t, "cleaned", acc.speeches[0].Content)
}

func TestParsePage_LogsContentWarnings(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart">
  <p>Café <a href="http://[::1">bad</a></p>
</div></body></html>`

	log, buf := bufferLogger()
	p := New(newFakeDirectory(), WithLogger(log))
	acc := &recorder{}
	require.NoError(t, p.ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc))

	require.Len(t, acc.speeches, 1)
	assert.Contains(t, acc.speeches[0].Content, `href="http://[::1"`)

	logs := buf.String()
	assert.Contains(t, logs, "speech content warning")
	assert.Contains(t, logs, "non-ASCII character survived cleanup")
	assert.Contains(t, logs, "unparseable link target")
}

func TestParsePage_WarningsOffWithQuietConfig(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart"><p>Café</p></div></body></html>`

	cfg := cleaner.DefaultConfig()
	cfg.WarnNonASCII = false

	log, buf := bufferLogger()
	p := New(newFakeDirectory(), WithLogger(log), WithCleaner(cleaner.New(cfg)))
	require.NoError(t, p.ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, &recorder{}))

	assert.NotContains(t, buf.String(), "speech content warning")
}

func TestParsePage_SpeechTypeInGroupGivesEmptySpeech(t *testing.T) {
	page := `<html><body><a href="p">[Permalink]</a><div id="contentstart">
  <div class="speech0">
    <p><span class="talkername"><a>Mr HUNT</a></span>—Header.</p>
    <div class="speechType">Speech</div>
    <p>Body.</p>
  </div>
</div></body></html>`

	acc := &recorder{}
	require.NoError(t, newTestParser(newFakeDirectory()).ParsePage(Page{Date: sittingDate, Chamber: Representatives, Doc: pageDoc(t, page)}, acc))

	// The marker is a block of its own; its record carries no content and
	// keeps its place in the ordinals.
	require.Len(t, acc.speeches, 2)
	assert.Equal(t, "", acc.speeches[0].Content)
	assert.Nil(t, acc.speeches[0].Speaker)
	assert.Equal(t, "<p>Body.</p>", acc.speeches[1].Content)
	assert.Equal(t, 2, acc.minor)
}
