package people

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// FlatFile is a Directory backed by a YAML or JSON file.
//
//	members:
//	  - id: uk.org.publicwhip/member/1
//	    person: uk.org.publicwhip/person/10001
//	    name: Mr Anthony ABBOTT
//	    chamber: representatives
//	    division: Warringah
//	    party: Liberal Party
//	    from: "1994-03-26"
//	offices:
//	  - person: uk.org.publicwhip/person/10001
//	    position: speaker
//	    from: "2008-02-12"
//	    to: "2010-09-28"
type FlatFile struct {
	path    string
	members []Member
	offices []Office
}

// flatFileIndex is the on-disk structure of a directory file.
type flatFileIndex struct {
	Members []memberRecord `json:"members" yaml:"members" validate:"dive"`
	Offices []officeRecord `json:"offices" yaml:"offices" validate:"dive"`
}

type memberRecord struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	PersonID string `json:"person" yaml:"person" validate:"required"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	Chamber  string `json:"chamber" yaml:"chamber" validate:"required,oneof=representatives senate"`
	Division string `json:"division,omitempty" yaml:"division,omitempty"`
	Party    string `json:"party,omitempty" yaml:"party,omitempty"`
	From     string `json:"from" yaml:"from" validate:"required,datetime=2006-01-02"`
	To       string `json:"to,omitempty" yaml:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type officeRecord struct {
	PersonID string `json:"person" yaml:"person" validate:"required"`
	Position string `json:"position" yaml:"position" validate:"required,oneof=speaker deputy-speaker president deputy-president"`
	From     string `json:"from" yaml:"from" validate:"required,datetime=2006-01-02"`
	To       string `json:"to,omitempty" yaml:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// NewFlatFile loads and validates a directory file. The format is chosen
// by extension: .json, .yaml or .yml.
func NewFlatFile(path string) (*FlatFile, error) {
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var idx flatFileIndex
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("parse directory: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("parse directory: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported directory file format: %s", ext)
	}

	ff, err := fromIndex(idx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ff.path = path
	return ff, nil
}

// NewFlatFileFromYAML builds a directory from YAML data.
func NewFlatFileFromYAML(data []byte) (*FlatFile, error) {
	var idx flatFileIndex
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}
	return fromIndex(idx)
}

func fromIndex(idx flatFileIndex) (*FlatFile, error) {
	if err := validator.New().Struct(idx); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid directory: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid directory: %w", err)
	}

	ff := &FlatFile{
		members: make([]Member, 0, len(idx.Members)),
		offices: make([]Office, 0, len(idx.Offices)),
	}

	for _, r := range idx.Members {
		from, to, err := parseRange(r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", r.ID, err)
		}
		ff.members = append(ff.members, Member{
			ID:       r.ID,
			PersonID: r.PersonID,
			Name:     ParseName(r.Name),
			Chamber:  Chamber(r.Chamber),
			Division: r.Division,
			Party:    r.Party,
			From:     from,
			To:       to,
		})
	}

	for _, r := range idx.Offices {
		from, to, err := parseRange(r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("office %s of %s: %w", r.Position, r.PersonID, err)
		}
		ff.offices = append(ff.offices, Office{
			PersonID: r.PersonID,
			Position: Position(r.Position),
			From:     from,
			To:       to,
		})
	}

	return ff, nil
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	from, err = time.Parse(dateLayout, fromStr)
	if err != nil {
		return from, to, err
	}
	if toStr == "" {
		return from, to, nil
	}
	to, err = time.Parse(dateLayout, toStr)
	if err != nil {
		return from, to, err
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("range ends %s before it starts %s", toStr, fromStr)
	}
	return from, to, nil
}

// Path returns the file the directory was loaded from.
func (f *FlatFile) Path() string {
	return f.path
}

// Members returns every membership record.
func (f *FlatFile) Members() []Member {
	return f.members
}

// HouseSpeaker returns the Speaker of the House of Representatives on date.
func (f *FlatFile) HouseSpeaker(date time.Time) (*Member, error) {
	return f.officeHolder(Speaker, date)
}

// DeputyHouseSpeaker returns the Deputy Speaker on date.
func (f *FlatFile) DeputyHouseSpeaker(date time.Time) (*Member, error) {
	return f.officeHolder(DeputySpeaker, date)
}

// SenatePresident returns the President of the Senate on date.
func (f *FlatFile) SenatePresident(date time.Time) (*Member, error) {
	return f.officeHolder(President, date)
}

// DeputySenatePresident returns the Deputy President of the Senate on date.
func (f *FlatFile) DeputySenatePresident(date time.Time) (*Member, error) {
	return f.officeHolder(DeputyPresident, date)
}

func (f *FlatFile) officeHolder(pos Position, date time.Time) (*Member, error) {
	for i := range f.offices {
		o := &f.offices[i]
		if o.Position != pos || !o.HeldOn(date) {
			continue
		}
		if m := f.memberOf(o.PersonID, pos.Chamber(), date); m != nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%s on %s: %w", pos, date.Format(dateLayout), ErrMemberNotFound)
}

func (f *FlatFile) memberOf(personID string, chamber Chamber, date time.Time) *Member {
	for i := range f.members {
		m := &f.members[i]
		if m.PersonID == personID && m.Chamber == chamber && m.CurrentOn(date) {
			return m
		}
	}
	return nil
}

// FindMemberByNameCurrentOnDate returns the single member of chamber whose
// name matches on date. Several matches give ErrAmbiguousName.
func (f *FlatFile) FindMemberByNameCurrentOnDate(name Name, date time.Time, chamber Chamber) (*Member, error) {
	var found *Member
	for i := range f.members {
		m := &f.members[i]
		if m.Chamber != chamber || !m.CurrentOn(date) || !m.Name.Matches(name) {
			continue
		}
		if found != nil && found.PersonID != m.PersonID {
			return nil, fmt.Errorf("%q in %s on %s: %w", name.Full(), chamber, date.Format(dateLayout), ErrAmbiguousName)
		}
		found = m
	}
	if found == nil {
		return nil, fmt.Errorf("%q in %s on %s: %w", name.Full(), chamber, date.Format(dateLayout), ErrMemberNotFound)
	}
	return found, nil
}
