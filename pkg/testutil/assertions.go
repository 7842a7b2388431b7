package testutil

import (
	"testing"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// AssertQuestionCount verifies the total number of questions in the tree.
func AssertQuestionCount(t *testing.T, topics []model.Topic, expected int) {
	t.Helper()
	total := 0
	for _, tp := range topics {
		for _, sub := range tp.Subtopics {
			total += len(sub.Questions)
		}
	}
	if total != expected {
		t.Errorf("expected %d questions, got %d", expected, total)
	}
}

// AssertNoDuplicateIDs verifies every id in the tree is unique, across all
// three entity kinds.
func AssertNoDuplicateIDs(t *testing.T, topics []model.Topic) {
	t.Helper()
	seen := make(map[string]bool)
	check := func(id string) {
		if seen[id] {
			t.Errorf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
	for _, tp := range topics {
		check(tp.ID)
		for _, sub := range tp.Subtopics {
			check(sub.ID)
			for _, q := range sub.Questions {
				check(q.ID)
			}
		}
	}
}

// AssertAllValid verifies every entity in the tree passes validation.
func AssertAllValid(t *testing.T, topics []model.Topic) {
	t.Helper()
	for _, tp := range topics {
		if err := tp.Validate(); err != nil {
			t.Errorf("topic %s invalid: %v", tp.ID, err)
		}
	}
}

// AssertDenseOrder verifies order values are exactly 0..n-1 in slice
// position at every level of the tree. Use after reorder operations; freshly
// deleted-from groups legitimately carry gaps.
func AssertDenseOrder(t *testing.T, topics []model.Topic) {
	t.Helper()
	for i, tp := range topics {
		if tp.Order != i {
			t.Errorf("topic %s: order %d at position %d", tp.ID, tp.Order, i)
		}
		for j, sub := range tp.Subtopics {
			if sub.Order != j {
				t.Errorf("subtopic %s: order %d at position %d", sub.ID, sub.Order, j)
			}
			for k, q := range sub.Questions {
				if q.Order != k {
					t.Errorf("question %s: order %d at position %d", q.ID, q.Order, k)
				}
			}
		}
	}
}

// AssertSolvedCount verifies the number of solved questions in the tree.
func AssertSolvedCount(t *testing.T, topics []model.Topic, expected int) {
	t.Helper()
	solved := 0
	for _, tp := range topics {
		for _, sub := range tp.Subtopics {
			for _, q := range sub.Questions {
				if q.IsSolved {
					solved++
				}
			}
		}
	}
	if solved != expected {
		t.Errorf("expected %d solved questions, got %d", expected, solved)
	}
}

// FindQuestion returns the question with the given id, or nil.
func FindQuestion(topics []model.Topic, id string) *model.Question {
	for ti := range topics {
		for si := range topics[ti].Subtopics {
			qs := topics[ti].Subtopics[si].Questions
			for qi := range qs {
				if qs[qi].ID == id {
					return &qs[qi]
				}
			}
		}
	}
	return nil
}
