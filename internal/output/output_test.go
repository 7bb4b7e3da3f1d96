package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hansard/pkg/debates"
)

func testDocument(date string) *debates.Document {
	return &debates.Document{
		Date:    date,
		Chamber: "senate",
		Items: []debates.Item{
			{Kind: debates.KindHeading, ID: date + ".1.0", Title: "BILLS", URL: "http://site/p?id=1&page=2"},
			{Kind: debates.KindSpeech, ID: date + ".1.1", SpeakerID: "member/7", Speaker: "Senator Kim Carr", Time: "10:15:00", URL: "http://site/p?id=1&page=2", Content: `<p class="italic">Motion</p>`},
		},
	}
}

// --- NewWriter Factory Tests ---

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			switch w.(type) {
			case *JSONWriter, *JSONLWriter, *YAMLWriter:
			default:
				t.Errorf("expected %s, got %T", tt.want, w)
			}
		})
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSONL", FormatJSONL, false},
		{" yaml ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	doc := testDocument("2009-03-12")
	if got := FileName(doc, FormatJSONL); got != "2009-03-12-senate.jsonl" {
		t.Errorf("FileName() = %q", got)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_SingleDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(testDocument("2009-03-12")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got debates.Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}
	if got.Date != "2009-03-12" || len(got.Items) != 2 {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Items[1].Speaker != "Senator Kim Carr" {
		t.Errorf("expected speaker to round trip, got %q", got.Items[1].Speaker)
	}
}

func TestJSONWriter_MarkupNotEscaped(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	_ = w.Write(testDocument("2009-03-12"))
	_ = w.Flush()

	out := buf.String()
	if !strings.Contains(out, `<p class=\"italic\">Motion</p>`) {
		t.Errorf("expected raw markup in output, got %s", out)
	}
	if !strings.Contains(out, "id=1&page=2") {
		t.Errorf("expected unescaped ampersand in URL, got %s", out)
	}
	if strings.Contains(out, "\n  ") {
		t.Errorf("expected compact output, got %s", out)
	}
}

func TestJSONWriter_MultipleDocuments_OutputsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "\t")

	_ = w.Write(testDocument("2009-03-12"))
	_ = w.Write(testDocument("2009-03-13"))
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var got []debates.Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(got) != 2 || got[1].Date != "2009-03-13" {
		t.Errorf("unexpected documents: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n\t") {
		t.Error("expected tab indentation")
	}
}

func TestJSONWriter_FlushEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.Write(testDocument("2009-03-12")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}

	var line struct {
		Date    string `json:"date"`
		Chamber string `json:"chamber"`
		Kind    string `json:"kind"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &line); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if line.Date != "2009-03-12" || line.Chamber != "senate" || line.Kind != "speech" || line.ID != "2009-03-12.1.1" {
		t.Errorf("unexpected line: %+v", line)
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_Documents(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	_ = w.Write(testDocument("2009-03-12"))
	_ = w.Write(testDocument("2009-03-13"))
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(buf.String()))
	var dates []string
	for {
		var doc debates.Document
		if err := dec.Decode(&doc); err != nil {
			break
		}
		dates = append(dates, doc.Date)
	}
	if len(dates) != 2 || dates[0] != "2009-03-12" || dates[1] != "2009-03-13" {
		t.Errorf("unexpected YAML documents %v:\n%s", dates, buf.String())
	}
	if !strings.Contains(buf.String(), "speaker_id: member/7") {
		t.Errorf("expected speaker_id in YAML, got:\n%s", buf.String())
	}
}
