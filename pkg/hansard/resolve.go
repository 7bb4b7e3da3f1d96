package hansard

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/hansard/pkg/people"
)

// positionalRule recognizes a speaker referred to by office. A rule with a
// lookup asks the directory who held the office; a rule without one names
// the office holder in brackets and the bracketed name is used instead.
type positionalRule struct {
	chamber Chamber
	pattern *regexp.Regexp
	lookup  func(dir Directory, date time.Time) (*people.Member, error)
}

var positionalRules = []positionalRule{
	{Representatives, regexp.MustCompile(`(?i)^the speaker`), Directory.HouseSpeaker},
	{Representatives, regexp.MustCompile(`(?i)^the deputy speaker \((.*)\)`), nil},
	{Representatives, regexp.MustCompile(`(?i)^the deputy speaker`), Directory.DeputyHouseSpeaker},

	{Senate, regexp.MustCompile(`(?i)^the president`), Directory.SenatePresident},
	{Senate, regexp.MustCompile(`(?i)^the acting deputy president \((.*)\)`), nil},
	{Senate, regexp.MustCompile(`(?i)^the temporary chairman \((.*)\)`), nil},
	// A chairman presides when the Senate sits as a committee of the
	// whole, and that is the deputy president.
	{Senate, regexp.MustCompile(`(?i)^(the )?chairman`), Directory.DeputySenatePresident},
	{Senate, regexp.MustCompile(`(?i)^the deputy president`), Directory.DeputySenatePresident},
}

// Resolver maps speaker names from a transcript to members of the
// directory on a sitting date.
type Resolver struct {
	people Directory
	log    *slog.Logger
}

// NewResolver creates a Resolver over dir.
func NewResolver(dir Directory, log *slog.Logger) *Resolver {
	return &Resolver{people: dir, log: log}
}

// Resolve returns the speaker called name on date in chamber. Names the
// directory cannot place resolve to an UnknownSpeaker and are logged,
// except for collective terms such as "Honourable members". The only error
// is ErrEmptySpeakerName.
func (r *Resolver) Resolve(name string, date time.Time, chamber Chamber) (SpeakerRef, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptySpeakerName
	}

	lookupName := name
	for _, rule := range positionalRules {
		if rule.chamber != chamber {
			continue
		}
		m := rule.pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if rule.lookup == nil {
			lookupName = m[len(m)-1]
			break
		}
		member, err := rule.lookup(r.people, date)
		if err != nil {
			r.log.Warn("no holder of position found", "speaker", name, "error", err)
			return UnknownSpeaker{RawName: name}, nil
		}
		return ResolvedMember{Member: member}, nil
	}

	member, err := r.people.FindMemberByNameCurrentOnDate(people.ParseName(lookupName), date, chamber)
	if err != nil {
		if !IsGenericSpeaker(lookupName) {
			r.log.Warn("unknown speaker", "speaker", lookupName, "error", err)
		}
		return UnknownSpeaker{RawName: lookupName}, nil
	}
	return ResolvedMember{Member: member}, nil
}
