package ingest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vanderheijden86/sheetwork/pkg/debug"
	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// Fallback values applied when the source record leaves a field blank.
const (
	DefaultSheetName    = "Question Sheet"
	DefaultGroupName    = "General"
	DefaultQuestionName = "Untitled"
)

// DataFormatError is the one fatal ingest failure: the document is missing
// its sheet or questions collection. The transform produces no partial tree
// in that case and callers must treat the load as failed.
type DataFormatError struct {
	Reason string
}

func (e *DataFormatError) Error() string {
	return "invalid sheet document: " + e.Reason
}

// Options configures the transform.
type Options struct {
	// WarningHandler receives non-fatal anomaly messages (generated ids,
	// coerced difficulties, dropped tags). Nil means warnings are discarded.
	WarningHandler func(string)

	// NewID generates ids for records that lack one. Defaults to uuid.
	// Tests inject a deterministic generator.
	NewID func() string
}

// Transform converts a parsed document into the normalized tree.
//
// Question records are grouped by (topic, subtopic) name in first-seen
// order; insertion order defines the initial order index at every level.
// Topics and subtopics are deduplicated by their sanitized names. Each
// question's order is its append position within its subtopic.
func Transform(doc *Document, opts Options) (model.Sheet, []model.Topic, error) {
	defer metrics.Timer(metrics.IngestTransform)()

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(string) {}
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	if doc == nil || doc.Data == nil || doc.Data.Sheet == nil {
		return model.Sheet{}, nil, &DataFormatError{Reason: "missing sheet record"}
	}
	if doc.Data.Questions == nil {
		return model.Sheet{}, nil, &DataFormatError{Reason: "missing questions collection"}
	}

	sheet := transformSheet(doc.Data.Sheet, warn, newID)

	var topics []model.Topic
	topicIdx := make(map[string]int)
	subIdx := make(map[string]map[string]int)

	for i, rec := range *doc.Data.Questions {
		topicName := model.SanitizeString(rec.Topic, DefaultGroupName)
		subName := model.SanitizeString(rec.SubTopic, DefaultGroupName)

		ti, ok := topicIdx[topicName]
		if !ok {
			ti = len(topics)
			topicIdx[topicName] = ti
			subIdx[topicName] = make(map[string]int)
			topics = append(topics, model.Topic{
				ID:    newID(),
				Name:  topicName,
				Order: ti,
			})
		}

		si, ok := subIdx[topicName][subName]
		if !ok {
			si = len(topics[ti].Subtopics)
			subIdx[topicName][subName] = si
			topics[ti].Subtopics = append(topics[ti].Subtopics, model.Subtopic{
				ID:    newID(),
				Name:  subName,
				Order: si,
			})
		}

		id := rec.ID
		if id == "" {
			id = newID()
			warn(fmt.Sprintf("question %d (%q): no id in source, generated one", i, rec.Title))
		}

		sub := &topics[ti].Subtopics[si]
		sub.Questions = append(sub.Questions, model.Question{
			ID:          id,
			Title:       model.SanitizeString(rec.Title, DefaultQuestionName),
			Difficulty:  model.NormalizeDifficulty(rec.Problem.Difficulty),
			ProblemURL:  model.NormalizeURL(rec.Problem.ProblemURL),
			ResourceURL: model.NormalizeURL(rec.Resource),
			Tags:        model.SanitizeTags(rec.Problem.Topics),
			IsSolved:    rec.IsSolved,
			Notes:       "", // never present in source
			Order:       len(sub.Questions),
		})
	}

	debug.Log("ingest: %d questions into %d topics", len(*doc.Data.Questions), len(topics))
	return sheet, topics, nil
}

// transformSheet applies defaults to missing or invalid sheet fields.
func transformSheet(rec *SheetRecord, warn func(string), newID func() string) model.Sheet {
	id := rec.ID
	if id == "" {
		id = newID()
	}

	var tags []string
	for _, v := range rec.Tag {
		s, ok := v.(string)
		if !ok {
			warn(fmt.Sprintf("sheet tag %v is not a string, dropped", v))
			continue
		}
		tags = append(tags, s)
	}

	return model.Sheet{
		ID:          id,
		Name:        model.SanitizeString(rec.Name, DefaultSheetName),
		Description: model.SanitizeString(rec.Description, ""),
		Author:      model.SanitizeString(rec.Author, ""),
		Followers:   max(rec.Followers, 0),
		Banner:      model.SanitizeString(rec.Banner, ""),
		Link:        model.NormalizeURL(rec.Link),
		Tags:        model.SanitizeTags(tags),
	}
}
