package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hansard/pkg/debates"
)

// YAMLWriter writes documents as YAML.
type YAMLWriter struct {
	w    *bufio.Writer
	docs []*debates.Document
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:    bufio.NewWriter(w),
		docs: make([]*debates.Document, 0),
	}
}

// Write buffers a document.
func (w *YAMLWriter) Write(doc *debates.Document) error {
	w.docs = append(w.docs, doc)
	return nil
}

// Flush writes the buffered documents, each as its own YAML document.
func (w *YAMLWriter) Flush() error {
	if len(w.docs) == 0 {
		return w.w.Flush()
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	for _, doc := range w.docs {
		if err := encoder.Encode(doc); err != nil {
			return err
		}
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	w.docs = w.docs[:0]
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
