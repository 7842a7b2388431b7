// Package model defines the normalized sheet tree tracked by sheetwork:
// one Sheet, its Topics, their Subtopics, and the Questions inside them.
// Every entity carries an opaque string ID that is unique across the whole
// tree, and a dense 0-based order index within its sibling group.
package model

import (
	"fmt"
	"strings"
)

// Difficulty is the canonical difficulty label of a question.
type Difficulty string

// Canonical difficulty values. Anything else is coerced to DifficultyMedium
// during ingest and edits.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyBasic  Difficulty = "Basic"
)

// Difficulties lists the canonical values in display order.
var Difficulties = []Difficulty{
	DifficultyBasic,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
}

// Valid reports whether d is one of the canonical difficulty values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyBasic:
		return true
	}
	return false
}

// Sheet is the top-level named collection of topics being tracked.
// Exactly one sheet exists per loaded dataset; it is immutable except on a
// full reload.
type Sheet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Followers   int      `json:"followers"`
	Banner      string   `json:"banner"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
}

// Topic is the first grouping level under the sheet.
type Topic struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Subtopic is the second grouping level, owned by exactly one Topic.
type Subtopic struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	Questions []Question `json:"questions"`
}

// Question is a single trackable practice item.
type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	ProblemURL  string     `json:"problemUrl"`
	ResourceURL string     `json:"resourceUrl"`
	Tags        []string   `json:"tags"`
	IsSolved    bool       `json:"isSolved"`
	IsStarred   bool       `json:"isStarred"`
	Notes       string     `json:"notes"`
	Order       int        `json:"order"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question has empty id")
	}
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("question %s has empty title", q.ID)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s has invalid difficulty %q", q.ID, q.Difficulty)
	}
	if q.Order < 0 {
		return fmt.Errorf("question %s has negative order %d", q.ID, q.Order)
	}
	return nil
}

// Validate checks a subtopic and all of its questions.
func (s Subtopic) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("subtopic has empty id")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("subtopic %s has empty name", s.ID)
	}
	for _, q := range s.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("subtopic %s: %w", s.ID, err)
		}
	}
	return nil
}

// Validate checks a topic and all of its descendants.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("topic has empty id")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("topic %s has empty name", t.ID)
	}
	for _, s := range t.Subtopics {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("topic %s: %w", t.ID, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Tags != nil {
		out.Tags = append([]string(nil), q.Tags...)
	}
	return out
}

// Clone returns a deep copy of the subtopic and its questions.
func (s Subtopic) Clone() Subtopic {
	out := s
	if s.Questions != nil {
		out.Questions = make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the topic and its subtree.
func (t Topic) Clone() Topic {
	out := t
	if t.Subtopics != nil {
		out.Subtopics = make([]Subtopic, len(t.Subtopics))
		for i, s := range t.Subtopics {
			out.Subtopics[i] = s.Clone()
		}
	}
	return out
}

// CloneTopics returns a deep copy of a topic forest.
func CloneTopics(topics []Topic) []Topic {
	if topics == nil {
		return nil
	}
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the sheet.
func (s Sheet) Clone() Sheet {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	return out
}
