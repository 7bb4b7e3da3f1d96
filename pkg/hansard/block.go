package hansard

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind is the role of a child of a page's content container.
type BlockKind int

const (
	// BlockUnrecognized is any tag and class combination not listed below.
	BlockUnrecognized BlockKind = iota
	// BlockHeadingGroup holds the page title or subtitle.
	BlockHeadingGroup
	// BlockSpeechGroup holds a speaker header followed by speech blocks.
	BlockSpeechGroup
	// BlockSpeech is a single speech block.
	BlockSpeech
	// BlockDivision is a division table. It is counted but not recorded.
	BlockDivision
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeadingGroup:
		return "heading-group"
	case BlockSpeechGroup:
		return "speech-group"
	case BlockSpeech:
		return "speech"
	case BlockDivision:
		return "division"
	default:
		return "unrecognized"
	}
}

var divBlockKinds = map[string]BlockKind{
	"hansardtitlegroup":    BlockHeadingGroup,
	"hansardsubtitlegroup": BlockHeadingGroup,
	"speech0":              BlockSpeechGroup,
	"speech1":              BlockSpeechGroup,
	"motionnospeech":       BlockSpeech,
	"subspeech0":           BlockSpeech,
	"subspeech1":           BlockSpeech,
	"motion":               BlockSpeech,
	"quote":                BlockSpeech,
}

// ClassifyBlock returns the kind of the first node in s. The class
// attribute is compared as a whole, so "motion extra" is unrecognized.
func ClassifyBlock(s *goquery.Selection) BlockKind {
	if s.Length() == 0 || s.Get(0).Type != html.ElementNode {
		return BlockUnrecognized
	}
	class, _ := s.Attr("class")
	return classifyBlock(s.Get(0).DataAtom, class)
}

func classifyBlock(tag atom.Atom, class string) BlockKind {
	switch tag {
	case atom.Div:
		if k, ok := divBlockKinds[class]; ok {
			return k
		}
	case atom.P:
		return BlockSpeech
	case atom.Table:
		if class == "division" {
			return BlockDivision
		}
	}
	return BlockUnrecognized
}
