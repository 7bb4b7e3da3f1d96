package cleaner

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrDisallowedTag is returned when canonical output would contain a tag
// outside the whitelist. Check with errors.Is(err, cleaner.ErrDisallowedTag).
var ErrDisallowedTag = errors.New("disallowed tag in canonical markup")

// DisallowedTagError provides the offending tag and the markup it was found in.
// Use errors.As to check for this error type.
type DisallowedTagError struct {
	Tag     string // Start tag as it appears in the output, e.g. `<span class="x">`
	Content string // Canonical markup that failed validation
}

func (e *DisallowedTagError) Error() string {
	return fmt.Sprintf("tag %s is present in speech contents: %s", e.Tag, e.Content)
}

func (e *DisallowedTagError) Unwrap() error {
	return ErrDisallowedTag
}

var (
	startTagRegex = regexp.MustCompile(`(?i)<[a-z][^>]*>`)
	tagNameRegex  = regexp.MustCompile(`(?i)^<([a-z]*) [^>]*>`)
)

// validate scans every start tag in text. A tag is accepted when its name
// is whitelisted or when it is a bare or italic paragraph.
func (c *Canonicalizer) validate(text string) error {
	italic := `<p class="` + c.config.ItalicClass + `">`

	for _, tag := range startTagRegex.FindAllString(text, -1) {
		name := tag[1 : len(tag)-1]
		if m := tagNameRegex.FindStringSubmatch(tag); m != nil {
			name = m[1]
		}
		if c.allowedTags[name] || tag == "<p>" || tag == italic {
			continue
		}
		return &DisallowedTagError{Tag: tag, Content: text}
	}
	return nil
}
