// Package filter produces derived views of question lists.
//
// Filtering never mutates order or identity; it returns a new slice whose
// elements are the matching questions from the input, in input order.
package filter

import (
	"strings"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// Status selects questions by solved state.
type Status string

// Status filter values.
const (
	StatusAll      Status = "all"
	StatusSolved   Status = "solved"
	StatusUnsolved Status = "unsolved"
)

// DifficultyAll disables the difficulty predicate.
const DifficultyAll = "all"

// Options holds the three ANDed predicates.
type Options struct {
	// Search is matched case-insensitively as a substring of the title.
	// Empty or whitespace-only search matches everything.
	Search string
	// Difficulty is "all", empty, or one canonical difficulty (exact match).
	Difficulty string
	// Status is all/solved/unsolved. Empty behaves like all.
	Status Status
}

// Apply returns the questions matching every predicate in opts.
func Apply(questions []model.Question, opts Options) []model.Question {
	defer metrics.Timer(metrics.FilterApply)()

	search := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []model.Question
	for _, q := range questions {
		if search != "" && !strings.Contains(strings.ToLower(q.Title), search) {
			continue
		}
		if !matchDifficulty(q, opts.Difficulty) {
			continue
		}
		if !matchStatus(q, opts.Status) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func matchDifficulty(q model.Question, want string) bool {
	if want == "" || want == DifficultyAll {
		return true
	}
	return string(q.Difficulty) == want
}

func matchStatus(q model.Question, want Status) bool {
	switch want {
	case StatusSolved:
		return q.IsSolved
	case StatusUnsolved:
		return !q.IsSolved
	default:
		return true
	}
}
