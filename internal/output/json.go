package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/hansard/pkg/debates"
)

// JSONWriter writes documents as JSON. Markup in speech content is written
// without HTML escaping.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	docs   []*debates.Document
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		docs:   make([]*debates.Document, 0),
	}
}

// Write buffers a document.
func (w *JSONWriter) Write(doc *debates.Document) error {
	w.docs = append(w.docs, doc)
	return nil
}

// Flush writes the buffered documents, a single one as an object and
// several as an array.
func (w *JSONWriter) Flush() error {
	if len(w.docs) == 0 {
		return w.w.Flush()
	}

	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}

	var err error
	if len(w.docs) == 1 {
		err = enc.Encode(w.docs[0])
	} else {
		err = enc.Encode(w.docs)
	}
	if err != nil {
		return err
	}

	w.docs = w.docs[:0]
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// jsonLine is one item of a document with the day it belongs to.
type jsonLine struct {
	Date    string `json:"date"`
	Chamber string `json:"chamber"`
	debates.Item
}

// JSONLWriter writes one JSON line per heading or speech.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes every item of doc as a line.
func (w *JSONLWriter) Write(doc *debates.Document) error {
	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)

	for _, it := range doc.Items {
		if err := enc.Encode(jsonLine{Date: doc.Date, Chamber: doc.Chamber, Item: it}); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
