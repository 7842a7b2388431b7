// Package ingest converts an external flat sheet document into the
// normalized Sheet/Topic/Subtopic/Question tree.
//
// The input format is a single JSON document with one sheet record and a
// flat list of question records, each carrying its topic and subtopic name.
// Grouping happens in first-seen order; the transform never sorts by name.
package ingest

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
)

// Document is the top-level envelope of an external sheet export.
type Document struct {
	Data *Data `json:"data"`
}

// Data carries the sheet record and the flat question list.
// Questions is a pointer so that an absent collection can be told apart
// from an empty one; absence is a fatal format error, emptiness is not.
type Data struct {
	Sheet     *SheetRecord      `json:"sheet"`
	Questions *[]QuestionRecord `json:"questions"`
}

// SheetRecord is the raw sheet metadata as exported.
// Tag entries can be arbitrary JSON values; non-strings are dropped.
type SheetRecord struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Followers   int    `json:"followers"`
	Banner      string `json:"banner"`
	Link        string `json:"link"`
	Tag         []any  `json:"tag"`
}

// QuestionRecord is one flat question row, carrying the names of the topic
// and subtopic it belongs to plus the nested problem metadata.
type QuestionRecord struct {
	ID       string        `json:"_id"`
	Title    string        `json:"title"`
	Topic    string        `json:"topic"`
	SubTopic string        `json:"subTopic"`
	Resource string        `json:"resource"`
	IsSolved bool          `json:"isSolved"`
	Problem  ProblemRecord `json:"questionId"`
}

// ProblemRecord is the nested problem metadata of a question record.
type ProblemRecord struct {
	Difficulty string   `json:"difficulty"`
	ProblemURL string   `json:"problemUrl"`
	Topics     []string `json:"topics"`
}

// Parse decodes a sheet document from r.
func Parse(r io.Reader) (*Document, error) {
	defer metrics.Timer(metrics.DocumentParse)()

	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding sheet document: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes a sheet document from a file on disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet document: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
