package hansard

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SpeakerName is the outcome of looking for a speaker in a content block.
type SpeakerName struct {
	Name         string
	Found        bool
	Interjection bool
	// Matcher names the rule that decided the outcome.
	Matcher string
}

// nameMatcher is one rule of the extraction chain. A rule that applies
// decides the outcome even when it finds no name, so later rules never
// run for that block.
type nameMatcher struct {
	name  string
	match func(block *goquery.Selection) (SpeakerName, bool)
}

// nameMatchers run in order; the first that applies wins.
var nameMatchers = []nameMatcher{
	{name: "talkername", match: matchTalkerName},
	{name: "speechname", match: matchSpeechName},
	{name: "interjection-marker", match: matchInterjectionMarker},
	{name: "free-text", match: matchFreeText},
}

var (
	qualifierRegex    = regexp.MustCompile(`\((.*)\)`)
	interjectingRegex = regexp.MustCompile(`(?i)([a-z].*) interjecting`)
	dashNameRegex     = regexp.MustCompile(`(?i)([a-z].*)—`)
	lineDashNameRegex = regexp.MustCompile(`(?im)^([a-z].*)—`)
	genericRegex      = regexp.MustCompile(`(?i)^(a )?(honourable|opposition|government) members?$`)
)

// ExtractSpeakerName finds who is speaking in a content block and whether
// the block is an interjection.
func ExtractSpeakerName(block *goquery.Selection) SpeakerName {
	for _, m := range nameMatchers {
		if result, ok := m.match(block); ok {
			result.Matcher = m.name
			return result
		}
	}
	return SpeakerName{}
}

// IsGenericSpeaker reports whether name is a collective term such as
// "Honourable members" rather than a person.
func IsGenericSpeaker(name string) bool {
	return genericRegex.MatchString(strings.TrimSpace(name))
}

// matchTalkerName reads <span class="talkername"><a>NAME</a></span>. A
// following bold qualifier in brackets, as in "The Deputy Speaker" then
// "(Mr Hunt)", is appended.
func matchTalkerName(block *goquery.Selection) (SpeakerName, bool) {
	tag := block.Find("span.talkername a").First()
	if tag.Length() == 0 {
		return SpeakerName{}, false
	}
	name := tag.Text()
	if q := block.Find("span.talkername ~ b").First(); q.Length() > 0 {
		if m := qualifierRegex.FindString(q.Text()); m != "" {
			name += " " + m
		}
	}
	return SpeakerName{Name: name, Found: true}, true
}

func matchSpeechName(block *goquery.Selection) (SpeakerName, bool) {
	tag := block.Find("span.speechname").First()
	if tag.Length() == 0 {
		return SpeakerName{}, false
	}
	return SpeakerName{Name: tag.Text(), Found: true}, true
}

// matchInterjectionMarker applies to blocks typed as an interjection. The
// name is read from the element after the marker. The block counts as an
// interjection whether or not a name is found.
func matchInterjectionMarker(block *goquery.Selection) (SpeakerName, bool) {
	if strings.TrimSpace(block.Find("div.speechType").Text()) != "Interjection" {
		return SpeakerName{}, false
	}
	result := SpeakerName{Interjection: true}
	text := block.Find("div.speechType + *").First().Text()
	if m := interjectingRegex.FindStringSubmatch(text); m != nil {
		result.Name, result.Found = m[1], true
	} else if m := dashNameRegex.FindStringSubmatch(text); m != nil {
		result.Name, result.Found = m[1], true
	}
	return result, true
}

// matchFreeText searches the block's text. "NAME interjecting" marks an
// interjection. A line starting "NAME—" names the speaker unless NAME is a
// collective term.
func matchFreeText(block *goquery.Selection) (SpeakerName, bool) {
	text := block.Text()
	if m := interjectingRegex.FindStringSubmatch(text); m != nil {
		return SpeakerName{Name: m[1], Found: true, Interjection: true}, true
	}
	if m := lineDashNameRegex.FindStringSubmatch(text); m != nil && !IsGenericSpeaker(m[1]) {
		return SpeakerName{Name: m[1], Found: true}, true
	}
	return SpeakerName{}, true
}
