package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const emDash = "—"

var (
	// dashAfterNonWordRegex matches an em-dash trailing punctuation or
	// whitespace; only the preceding character is kept.
	dashAfterNonWordRegex = regexp.MustCompile(`(\W)` + emDash)

	// timeStampRegex matches a bracketed time of day such as "(2.15 p.m.)".
	timeStampRegex = regexp.MustCompile(`\(\d{1,2}.\d\d [ap].m.\)`)
)

// separatorDiv is the empty marker the transcripts put between speeches.
const separatorDiv = `<div class="separator"></div>`

// cleanupText applies the string-level rewrites that follow the DOM
// passes. Each rewrite can expose another match (for example a timestamp
// removal leaving "()"), so the set runs until nothing changes.
func cleanupText(text string) string {
	for {
		next := cleanupOnce(text)
		if next == text {
			return strings.TrimSpace(next)
		}
		text = next
	}
}

func cleanupOnce(text string) string {
	text = strings.ReplaceAll(text, "("+emDash+")", "")
	text = dashAfterNonWordRegex.ReplaceAllString(text, "$1")
	text = timeStampRegex.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "()", "")
	text = strings.ReplaceAll(text, separatorDiv, "")
	return text
}

// firstNonASCII returns the first rune outside the ASCII range.
func firstNonASCII(text string) (rune, bool) {
	for _, r := range text {
		if r >= utf8.RuneSelf {
			return r, true
		}
	}
	return 0, false
}
