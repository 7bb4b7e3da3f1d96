package hansard

import "github.com/jmylchreest/hansard/pkg/people"

// UnknownSpeakerID is the identity given to speakers missing from the
// directory.
const UnknownSpeakerID = "unknown"

// SpeakerRef is the speaker a record is attributed to: either a
// ResolvedMember or an UnknownSpeaker.
type SpeakerRef interface {
	ID() string
	DisplayName() string
	speakerRef()
}

// ResolvedMember is a speaker found in the member directory.
type ResolvedMember struct {
	Member *people.Member
}

func (r ResolvedMember) ID() string { return r.Member.ID }

// DisplayName returns the member's name as "Title First Last".
func (r ResolvedMember) DisplayName() string { return r.Member.Name.TitleFirstLast() }

func (ResolvedMember) speakerRef() {}

// UnknownSpeaker is a speaker the directory could not resolve. RawName is
// kept exactly as it appeared in the transcript.
type UnknownSpeaker struct {
	RawName string
}

func (UnknownSpeaker) ID() string { return UnknownSpeakerID }

// DisplayName returns the raw name normalized to "Title First Last".
func (u UnknownSpeaker) DisplayName() string {
	return people.ParseName(u.RawName).TitleFirstLast()
}

func (UnknownSpeaker) speakerRef() {}
