package people

import "time"

// Directory answers the lookups needed to resolve speakers in a transcript.
// Every lookup is for a single sitting date; presiding officers change
// between parliaments and members come and go.
type Directory interface {
	HouseSpeaker(date time.Time) (*Member, error)
	DeputyHouseSpeaker(date time.Time) (*Member, error)
	SenatePresident(date time.Time) (*Member, error)
	DeputySenatePresident(date time.Time) (*Member, error)

	// FindMemberByNameCurrentOnDate returns the member of chamber matching
	// name on date. It returns ErrMemberNotFound when nobody matches.
	FindMemberByNameCurrentOnDate(name Name, date time.Time, chamber Chamber) (*Member, error)
}
