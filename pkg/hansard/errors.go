package hansard

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/hansard/pkg/cleaner"
)

// Structural errors. Any of these aborts the sitting day being parsed.
// Check with errors.Is(err, hansard.ErrUnrecognizedBlock) or use IsFatal.
var (
	// ErrUnsupportedLink indicates a link label outside every known category.
	ErrUnsupportedLink = errors.New("unsupported link")
	// ErrUnrecognizedBlock indicates a content block of unknown tag or class.
	ErrUnrecognizedBlock = errors.New("unrecognized content block")
	// ErrMissingContent indicates a speech page without a content container.
	ErrMissingContent = errors.New("page has no content")
	// ErrMissingPermalink indicates a speech page without a permalink.
	ErrMissingPermalink = errors.New("page has no permalink")
	// ErrEmptySpeakerName indicates a resolve was attempted with no name.
	ErrEmptySpeakerName = errors.New("speaker name can not be empty")
)

// DayError records where parsing of a sitting day was aborted.
// Use errors.As to check for this error type.
type DayError struct {
	Date    time.Time
	Chamber Chamber
	Link    string // Label of the sub-day link being parsed
	Err     error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("%s %s: %q: %v", e.Date.Format("2006-01-02"), e.Chamber, e.Link, e.Err)
}

func (e *DayError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is a structural error: a markup shape or link
// category the parser does not recognize. Such a day needs triage rather
// than a retry.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedLink) ||
		errors.Is(err, ErrUnrecognizedBlock) ||
		errors.Is(err, ErrMissingContent) ||
		errors.Is(err, ErrMissingPermalink) ||
		errors.Is(err, ErrEmptySpeakerName) ||
		errors.Is(err, cleaner.ErrDisallowedTag)
}
