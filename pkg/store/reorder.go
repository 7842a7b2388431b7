package store

import (
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/reorder"
)

// ReorderTopics moves the topic with activeID to the position occupied by
// overID and renumbers all topics 0..n-1. Silent no-op when either id is
// missing or they are equal.
func (s *Store) ReorderTopics(activeID, overID string) {
	s.mu.Lock()
	topics := s.state.Topics
	next := reorder.Move(topics,
		func(t model.Topic) string { return t.ID },
		func(t *model.Topic, n int) { t.Order = n },
		activeID, overID)
	if !reorder.Moved(topics, next) {
		s.mu.Unlock()
		return
	}
	s.state.Topics = next
	s.mu.Unlock()
	s.changed()
}

// ReorderSubtopics moves a subtopic within the named topic and renumbers
// its siblings. Silent no-op on a missing topic or ids.
func (s *Store) ReorderSubtopics(topicID, activeID, overID string) {
	s.mu.Lock()
	ti := topicIndex(s.state.Topics, topicID)
	if ti < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	next := reorder.Move(t.Subtopics,
		func(sub model.Subtopic) string { return sub.ID },
		func(sub *model.Subtopic, n int) { sub.Order = n },
		activeID, overID)
	if !reorder.Moved(t.Subtopics, next) {
		s.mu.Unlock()
		return
	}
	t.Subtopics = next
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// ReorderQuestions moves a question within the named subtopic and renumbers
// its siblings. Silent no-op on a missing path or ids.
func (s *Store) ReorderQuestions(topicID, subtopicID, activeID, overID string) {
	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	next := reorder.Move(sub.Questions,
		func(q model.Question) string { return q.ID },
		func(q *model.Question, n int) { q.Order = n },
		activeID, overID)
	if !reorder.Moved(sub.Questions, next) {
		s.mu.Unlock()
		return
	}
	sub.Questions = next
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}
