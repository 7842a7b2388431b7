package datasource

import (
	"fmt"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// SourceDiff represents differences between two data sources
type SourceDiff struct {
	// SourceA is the path of the first source
	SourceA string
	// SourceB is the path of the second source
	SourceB string
	// MissingInA contains question IDs present in B but not in A
	MissingInA []string
	// MissingInB contains question IDs present in A but not in B
	MissingInB []string
	// SolvedMismatch contains questions whose solved flag differs
	SolvedMismatch []SolvedDifference
	// CountA is the number of questions in source A
	CountA int
	// CountB is the number of questions in source B
	CountB int
}

// SolvedDifference represents a solved-flag mismatch for a single question
type SolvedDifference struct {
	ID      string `json:"id"`
	SolvedA bool   `json:"solved_a"`
	SolvedB bool   `json:"solved_b"`
}

// HasInconsistencies returns true if there are any differences between sources
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.SolvedMismatch) > 0
}

// Summary returns a human-readable summary of the differences
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d questions each)", d.CountA)
	}

	summary := fmt.Sprintf("Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)

	if d.CountA != d.CountB {
		summary += fmt.Sprintf("  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}

	if len(d.MissingInA) > 0 {
		summary += fmt.Sprintf("  - %d questions in %s but not %s\n", len(d.MissingInA), d.SourceB, d.SourceA)
		if len(d.MissingInA) <= 5 {
			for _, id := range d.MissingInA {
				summary += fmt.Sprintf("    - %s\n", id)
			}
		}
	}

	if len(d.MissingInB) > 0 {
		summary += fmt.Sprintf("  - %d questions in %s but not %s\n", len(d.MissingInB), d.SourceA, d.SourceB)
		if len(d.MissingInB) <= 5 {
			for _, id := range d.MissingInB {
				summary += fmt.Sprintf("    - %s\n", id)
			}
		}
	}

	if len(d.SolvedMismatch) > 0 {
		summary += fmt.Sprintf("  - %d questions with different solved state\n", len(d.SolvedMismatch))
		if len(d.SolvedMismatch) <= 5 {
			for _, m := range d.SolvedMismatch {
				summary += fmt.Sprintf("    - %s: %v vs %v\n", m.ID, m.SolvedA, m.SolvedB)
			}
		}
	}

	return summary
}

// DiffOptions configures the diff operation
type DiffOptions struct {
	// MaxDifferences limits the number of differences tracked (0 = unlimited)
	MaxDifferences int
}

// DefaultDiffOptions returns sensible default diff options
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{MaxDifferences: 100}
}

// DetectInconsistencies compares the questions of two trees and returns the
// differences.
func DetectInconsistencies(topicsA, topicsB []model.Topic, sourceA, sourceB string, opts DiffOptions) SourceDiff {
	diff := SourceDiff{
		SourceA: sourceA,
		SourceB: sourceB,
	}

	mapA := questionMap(topicsA)
	mapB := questionMap(topicsB)

	diff.CountA = len(mapA)
	diff.CountB = len(mapB)

	for id := range mapA {
		if _, exists := mapB[id]; !exists {
			if opts.MaxDifferences == 0 || len(diff.MissingInB) < opts.MaxDifferences {
				diff.MissingInB = append(diff.MissingInB, id)
			}
		}
	}

	for id, qB := range mapB {
		qA, exists := mapA[id]
		if !exists {
			if opts.MaxDifferences == 0 || len(diff.MissingInA) < opts.MaxDifferences {
				diff.MissingInA = append(diff.MissingInA, id)
			}
			continue
		}
		if qA.IsSolved != qB.IsSolved {
			if opts.MaxDifferences == 0 || len(diff.SolvedMismatch) < opts.MaxDifferences {
				diff.SolvedMismatch = append(diff.SolvedMismatch, SolvedDifference{
					ID:      id,
					SolvedA: qA.IsSolved,
					SolvedB: qB.IsSolved,
				})
			}
		}
	}

	return diff
}

func questionMap(topics []model.Topic) map[string]model.Question {
	m := make(map[string]model.Question)
	for _, t := range topics {
		for _, sub := range t.Subtopics {
			for _, q := range sub.Questions {
				m[q.ID] = q
			}
		}
	}
	return m
}

// CompareSources loads and compares two data sources
func CompareSources(sourceA, sourceB DataSource, opts DiffOptions) (*SourceDiff, error) {
	stA, err := LoadFromSource(sourceA)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", sourceA.Path, err)
	}
	stB, err := LoadFromSource(sourceB)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", sourceB.Path, err)
	}

	diff := DetectInconsistencies(stA.Topics, stB.Topics, sourceA.Path, sourceB.Path, opts)
	return &diff, nil
}

// CheckAllSourcesConsistent compares every pair of valid sources and reports
// any inconsistencies.
func CheckAllSourcesConsistent(sources []DataSource, opts DiffOptions) []SourceDiff {
	var diffs []SourceDiff
	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(sources[i], sources[j], opts)
			if err != nil {
				continue
			}
			if diff.HasInconsistencies() {
				diffs = append(diffs, *diff)
			}
		}
	}
	return diffs
}
