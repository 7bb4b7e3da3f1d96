// Package people provides the member directory used to resolve speakers:
// who sat in which chamber, and who held the presiding offices, on a date.
package people

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Chamber identifies a house of parliament.
type Chamber string

const (
	Representatives Chamber = "representatives"
	Senate          Chamber = "senate"
)

// ParseChamber converts a string to a Chamber.
func ParseChamber(s string) (Chamber, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "representatives", "reps", "house":
		return Representatives, nil
	case "senate":
		return Senate, nil
	default:
		return "", fmt.Errorf("unknown chamber: %q (use representatives or senate)", s)
	}
}

// String returns the string representation of a Chamber.
func (c Chamber) String() string {
	return string(c)
}

// Position is a presiding office of a chamber.
type Position string

const (
	Speaker         Position = "speaker"
	DeputySpeaker   Position = "deputy-speaker"
	President       Position = "president"
	DeputyPresident Position = "deputy-president"
)

// Chamber returns the chamber a position presides over.
func (p Position) Chamber() Chamber {
	switch p {
	case President, DeputyPresident:
		return Senate
	default:
		return Representatives
	}
}

// Member is one period of membership of a chamber. A person who sat in
// both chambers, or left and returned, has several Member records.
type Member struct {
	ID       string    `json:"id" yaml:"id"`
	PersonID string    `json:"person" yaml:"person"`
	Name     Name      `json:"name" yaml:"name"`
	Chamber  Chamber   `json:"chamber" yaml:"chamber"`
	Division string    `json:"division,omitempty" yaml:"division,omitempty"`
	Party    string    `json:"party,omitempty" yaml:"party,omitempty"`
	From     time.Time `json:"from" yaml:"from"`
	To       time.Time `json:"to" yaml:"to"` // zero when still sitting
}

// CurrentOn reports whether the membership covers date.
func (m *Member) CurrentOn(date time.Time) bool {
	return coversDate(m.From, m.To, date)
}

// Office is a period during which a person held a position.
type Office struct {
	PersonID string    `json:"person" yaml:"person"`
	Position Position  `json:"position" yaml:"position"`
	From     time.Time `json:"from" yaml:"from"`
	To       time.Time `json:"to" yaml:"to"` // zero when still held
}

// HeldOn reports whether the office was held on date.
func (o *Office) HeldOn(date time.Time) bool {
	return coversDate(o.From, o.To, date)
}

func coversDate(from, to, date time.Time) bool {
	day := truncateDay(date)
	if day.Before(from) {
		return false
	}
	return to.IsZero() || !day.After(to)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Error types for distinguishing lookup failures.
// Check with errors.Is(err, people.ErrMemberNotFound).
var (
	// ErrMemberNotFound indicates no member matched the lookup on that date.
	ErrMemberNotFound = errors.New("member not found")
	// ErrAmbiguousName indicates several members matched a name on that date.
	ErrAmbiguousName = errors.New("ambiguous member name")
)
