package hansard

import "strings"

// LinkKind is the action to take for a sub-day link.
type LinkKind int

const (
	// LinkUnsupported is a label in no known category. It aborts the day.
	LinkUnsupported LinkKind = iota
	// LinkSpeech is a page of speeches to parse.
	LinkSpeech
	// LinkSkip is a page with nothing to record.
	LinkSkip
	// LinkLoggedUnsupported is a known category not parsed yet.
	LinkLoggedUnsupported
)

func (k LinkKind) String() string {
	switch k {
	case LinkSpeech:
		return "speech"
	case LinkSkip:
		return "skip"
	case LinkLoggedUnsupported:
		return "not-yet-supported"
	default:
		return "unsupported"
	}
}

// LinkAction is the classification of a sub-day link label. The heading,
// speaker and time fields are only set for speech links.
type LinkAction struct {
	Kind        LinkKind
	Category    string // label prefix that selected the kind, without the colon
	Heading     string
	SpeakerHint string
	Time        string
	// Fields is the number of '>' separated fields in a speech label.
	// Anything other than three is a malformed label.
	Fields int
}

// Malformed reports whether a speech label did not split into heading,
// speaker and time.
func (a LinkAction) Malformed() bool {
	return a.Kind == LinkSpeech && a.Fields != 3
}

// linkRule maps a label to a kind, either by prefix or by the whole label.
type linkRule struct {
	kind   LinkKind
	prefix string
	exact  bool
}

func (r linkRule) matches(label string) bool {
	if r.exact {
		return label == r.prefix
	}
	return strings.HasPrefix(label, r.prefix)
}

var linkRules = []linkRule{
	{kind: LinkSpeech, prefix: "Speech:"},
	{kind: LinkSpeech, prefix: "QUESTIONS WITHOUT NOTICE:"},
	{kind: LinkSpeech, prefix: "QUESTIONS TO THE SPEAKER:"},

	{kind: LinkSkip, prefix: "Official Hansard", exact: true},
	{kind: LinkSkip, prefix: "Start of Business"},
	{kind: LinkSkip, prefix: "Adjournment", exact: true},

	{kind: LinkLoggedUnsupported, prefix: "Procedural text:"},
	{kind: LinkLoggedUnsupported, prefix: "QUESTIONS IN WRITING:"},
	{kind: LinkLoggedUnsupported, prefix: "Division:"},
	{kind: LinkLoggedUnsupported, prefix: "REQUEST FOR DETAILED INFORMATION:"},
	{kind: LinkLoggedUnsupported, prefix: "Petition:"},
	{kind: LinkLoggedUnsupported, prefix: "PRIVILEGE:"},
	{kind: LinkLoggedUnsupported, prefix: "Interruption", exact: true},
	{kind: LinkLoggedUnsupported, prefix: "QUESTIONS ON NOTICE:"},
}

// ClassifyLink decides what to do with a sub-day link from its label.
//
// Speech labels have the form "Speech: HEADING > SPEAKER > HH:MM:SS". When
// the label does not split into exactly three fields the available fields
// are still returned and Malformed reports true.
func ClassifyLink(label string) LinkAction {
	label = strings.TrimSpace(label)

	for _, r := range linkRules {
		if !r.matches(label) {
			continue
		}
		action := LinkAction{Kind: r.kind, Category: strings.TrimSuffix(r.prefix, ":")}
		if r.kind == LinkSpeech {
			splitSpeechLabel(&action, strings.TrimPrefix(label, r.prefix))
		}
		return action
	}
	return LinkAction{Kind: LinkUnsupported}
}

func splitSpeechLabel(a *LinkAction, rest string) {
	fields := strings.Split(rest, ">")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	a.Fields = len(fields)
	a.Heading = fields[0]
	if len(fields) > 1 {
		a.SpeakerHint = fields[1]
	}
	if len(fields) > 2 {
		a.Time = fields[2]
	}
}
