package cleaner

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures what the canonicalizer did to one block.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// Element counts
	ElementsRemoved   map[string]int `json:"elements_removed"`   // selector -> count
	ElementsUnwrapped map[string]int `json:"elements_unwrapped"` // selector -> count

	// Attribute and link rewrites
	AttributesRemoved int `json:"attributes_removed"`
	ClassesRewritten  int `json:"classes_rewritten"`
	LinksRewritten    int `json:"links_rewritten"`

	// Timing
	ParseDuration     time.Duration `json:"parse_duration_ms"`
	TransformDuration time.Duration `json:"transform_duration_ms"`
	TotalDuration     time.Duration `json:"total_duration_ms"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved:   make(map[string]int),
		ElementsUnwrapped: make(map[string]int),
	}
}

// RecordRemoval records that count elements matching selector were removed.
func (s *Stats) RecordRemoval(selector string, count int) {
	if count > 0 {
		s.ElementsRemoved[selector] += count
	}
}

// RecordUnwrap records that count elements matching selector were unwrapped.
func (s *Stats) RecordUnwrap(selector string, count int) {
	if count > 0 {
		s.ElementsUnwrapped[selector] += count
	}
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// TotalElementsUnwrapped returns the sum of all unwrapped elements.
func (s *Stats) TotalElementsUnwrapped() int {
	total := 0
	for _, count := range s.ElementsUnwrapped {
		total += count
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes))))
	sb.WriteString(fmt.Sprintf("Elements: %d removed, %d unwrapped\n",
		s.TotalElementsRemoved(), s.TotalElementsUnwrapped()))
	if s.LinksRewritten > 0 {
		sb.WriteString(fmt.Sprintf("Links rewritten: %d\n", s.LinksRewritten))
	}
	if s.AttributesRemoved > 0 || s.ClassesRewritten > 0 {
		sb.WriteString(fmt.Sprintf("Attributes: %d removed, %d classes rewritten\n",
			s.AttributesRemoved, s.ClassesRewritten))
	}
	sb.WriteString(fmt.Sprintf("Timing: parse=%v, transform=%v, total=%v",
		s.ParseDuration.Round(time.Microsecond),
		s.TransformDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// Warning is a data-quality note that does not stop canonicalization.
type Warning struct {
	Phase   string `json:"phase"`   // "parse", "links", "text"
	Message string `json:"message"` // Human-readable description
	Context string `json:"context"` // Offending value
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of one canonicalization.
type Result struct {
	// Content is the canonical markup. Empty when Error is set.
	Content string `json:"content"`

	Stats    *Stats    `json:"stats"`
	Warnings []Warning `json:"warnings,omitempty"`

	// Error is set when the block cannot be canonicalized, for example
	// when a tag outside the whitelist survives the rewrites.
	Error error `json:"-"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
