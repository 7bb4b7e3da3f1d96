package people

import (
	"strings"
	"unicode"
)

// Name is a person's name split into the parts used for matching and display.
type Name struct {
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	First     string `json:"first,omitempty" yaml:"first,omitempty"`
	Middle    string `json:"middle,omitempty" yaml:"middle,omitempty"`
	Last      string `json:"last" yaml:"last"`
	PostTitle string `json:"post_title,omitempty" yaml:"post_title,omitempty"`
}

// titles are honorifics that may precede a name, lower-cased without dots.
var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true,
	"senator": true, "hon": true, "the": true, "sir": true, "dame": true,
	"prof": true, "professor": true, "rev": true,
}

// postTitles are awards and post-nominals that may follow a name.
var postTitles = map[string]bool{
	"ac": true, "ao": true, "am": true, "oam": true, "qc": true, "sc": true,
	"mp": true, "obe": true, "mbe": true, "cbe": true, "kc": true,
}

// ParseName splits a raw name such as "Mr HUNT", "Senator Kim CARR" or
// "Abbott, Tony" into its parts. Upper-case words are re-capitalised.
func ParseName(raw string) Name {
	raw = strings.TrimSpace(raw)
	if last, rest, ok := strings.Cut(raw, ","); ok && !strings.Contains(rest, ",") {
		raw = strings.TrimSpace(rest) + " " + strings.TrimSpace(last)
	}

	words := strings.Fields(raw)
	var n Name

	var titleWords []string
	for len(words) > 1 && titles[normalizeWord(words[0])] {
		titleWords = append(titleWords, words[0])
		words = words[1:]
	}
	n.Title = strings.Join(titleWords, " ")

	var postWords []string
	for len(words) > 1 && postTitles[normalizeWord(words[len(words)-1])] {
		postWords = append([]string{words[len(words)-1]}, postWords...)
		words = words[:len(words)-1]
	}
	n.PostTitle = strings.Join(postWords, " ")

	for i, w := range words {
		words[i] = capitalise(w)
	}

	switch len(words) {
	case 0:
	case 1:
		n.Last = words[0]
	case 2:
		n.First, n.Last = words[0], words[1]
	default:
		n.First = words[0]
		n.Middle = strings.Join(words[1:len(words)-1], " ")
		n.Last = words[len(words)-1]
	}
	return n
}

// TitleFirstLast returns the display form "Title First Last".
func (n Name) TitleFirstLast() string {
	return joinNonEmpty(n.Title, n.First, n.Last)
}

// FirstLast returns "First Last" without honorifics.
func (n Name) FirstLast() string {
	return joinNonEmpty(n.First, n.Last)
}

// Full returns every part of the name.
func (n Name) Full() string {
	return joinNonEmpty(n.Title, n.First, n.Middle, n.Last, n.PostTitle)
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return n.TitleFirstLast()
}

// IsZero reports whether the name has no last name.
func (n Name) IsZero() bool {
	return n.Last == ""
}

// Matches reports whether query could refer to n. Last names must agree;
// a first name in the query must agree with n's first name or be its initial.
// Titles are ignored since transcripts and registers disagree on them.
func (n Name) Matches(query Name) bool {
	if query.Last == "" || !strings.EqualFold(n.Last, query.Last) {
		return false
	}
	if query.First == "" {
		return true
	}
	if strings.EqualFold(n.First, query.First) {
		return true
	}
	q := strings.TrimSuffix(query.First, ".")
	return len([]rune(q)) == 1 && strings.HasPrefix(strings.ToLower(n.First), strings.ToLower(q))
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".,"))
}

// capitalise turns an all upper-case word such as "O'CONNOR" or
// "SMITH-JONES" into "O'Connor" / "Smith-Jones". Mixed-case words such as
// "McMullan" are already correct and are returned unchanged.
func capitalise(w string) string {
	if w != strings.ToUpper(w) || w == strings.ToLower(w) {
		return w
	}
	runes := []rune(strings.ToLower(w))
	start := true
	for i, r := range runes {
		if start && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
		}
		start = r == '\'' || r == '-' || r == '’'
	}
	return string(runes)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
