package store

import (
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// QuestionData carries the fields of a newly added question. Title is
// required (after sanitizing); everything else is normalized leniently.
type QuestionData struct {
	Title       string
	Difficulty  string
	ProblemURL  string
	ResourceURL string
	Tags        []string
}

// QuestionPatch carries optional field updates for UpdateQuestion.
// Nil fields are left untouched.
type QuestionPatch struct {
	Title      *string
	Difficulty *string
	ProblemURL *string
}

// AddTopic appends a new topic with order equal to the current topic count.
// No-op when the sanitized name is empty.
func (s *Store) AddTopic(name string) {
	n := model.SanitizeString(name, "")
	if n == "" {
		return
	}

	s.mu.Lock()
	topics := s.state.Topics
	next := make([]model.Topic, len(topics)+1)
	copy(next, topics)
	next[len(topics)] = model.Topic{
		ID:    s.newID(),
		Name:  n,
		Order: len(topics),
	}
	s.state.Topics = next
	s.mu.Unlock()
	s.changed()
}

// UpdateTopic renames a topic in place, preserving its order and children.
// No-op when the id is not found or the sanitized name is empty.
func (s *Store) UpdateTopic(id, name string) {
	n := model.SanitizeString(name, "")
	if n == "" {
		return
	}

	s.mu.Lock()
	ti := topicIndex(s.state.Topics, id)
	if ti < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	t.Name = n
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// DeleteTopic removes a topic and all of its descendants, and prunes the
// expansion side-tables for every removed entity. Surviving siblings keep
// their order values untouched; gaps persist until the group is next
// reordered.
func (s *Store) DeleteTopic(id string) {
	s.mu.Lock()
	ti := topicIndex(s.state.Topics, id)
	if ti < 0 {
		s.mu.Unlock()
		return
	}
	doomed := s.state.Topics[ti]
	delete(s.state.ExpandedTopics, doomed.ID)
	for _, sub := range doomed.Subtopics {
		delete(s.state.ExpandedSubtopics, sub.ID)
	}
	s.state.Topics = removeAt(s.state.Topics, ti)
	s.mu.Unlock()
	s.changed()
}

// AddSubtopic appends a subtopic to the named topic with order equal to the
// current sibling count. No-op when the parent is missing or the sanitized
// name is empty.
func (s *Store) AddSubtopic(topicID, name string) {
	n := model.SanitizeString(name, "")
	if n == "" {
		return
	}

	s.mu.Lock()
	ti := topicIndex(s.state.Topics, topicID)
	if ti < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	subs := make([]model.Subtopic, len(t.Subtopics)+1)
	copy(subs, t.Subtopics)
	subs[len(t.Subtopics)] = model.Subtopic{
		ID:    s.newID(),
		Name:  n,
		Order: len(t.Subtopics),
	}
	t.Subtopics = subs
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// UpdateSubtopic renames a subtopic, preserving order and questions.
// No-op when the path is not found or the sanitized name is empty.
func (s *Store) UpdateSubtopic(topicID, id, name string) {
	n := model.SanitizeString(name, "")
	if n == "" {
		return
	}

	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, id)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	sub.Name = n
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// DeleteSubtopic removes a subtopic and its questions, pruning its
// expansion flag. Surviving siblings keep their order values untouched.
func (s *Store) DeleteSubtopic(topicID, id string) {
	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, id)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	delete(s.state.ExpandedSubtopics, t.Subtopics[si].ID)
	t.Subtopics = removeAt(t.Subtopics, si)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// AddQuestion appends a question to the named subtopic with order equal to
// the current sibling count. No-op when the parent path is missing or the
// sanitized title is empty.
func (s *Store) AddQuestion(topicID, subtopicID string, data QuestionData) {
	title := model.SanitizeString(data.Title, "")
	if title == "" {
		return
	}

	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	qs := make([]model.Question, len(sub.Questions)+1)
	copy(qs, sub.Questions)
	qs[len(sub.Questions)] = model.Question{
		ID:          s.newID(),
		Title:       title,
		Difficulty:  model.NormalizeDifficulty(data.Difficulty),
		ProblemURL:  model.NormalizeURL(data.ProblemURL),
		ResourceURL: model.NormalizeURL(data.ResourceURL),
		Tags:        model.SanitizeTags(data.Tags),
		Notes:       "",
		Order:       len(sub.Questions),
	}
	sub.Questions = qs
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// UpdateQuestion merges the fields present in patch after validation.
// Absent fields are left untouched; a patch whose title sanitizes to empty
// leaves the title alone. No-op when the question is not found.
func (s *Store) UpdateQuestion(topicID, subtopicID, id string, patch QuestionPatch) {
	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	qi := questionIndex(sub.Questions, id)
	if qi < 0 {
		s.mu.Unlock()
		return
	}

	q := sub.Questions[qi].Clone()
	if patch.Title != nil {
		if title := model.SanitizeString(*patch.Title, ""); title != "" {
			q.Title = title
		}
	}
	if patch.Difficulty != nil {
		q.Difficulty = model.NormalizeDifficulty(*patch.Difficulty)
	}
	if patch.ProblemURL != nil {
		q.ProblemURL = model.NormalizeURL(*patch.ProblemURL)
	}

	sub.Questions = replaceAt(sub.Questions, qi, q)
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// DeleteQuestion removes a question by id within the named subtopic.
// Surviving siblings keep their order values untouched.
func (s *Store) DeleteQuestion(topicID, subtopicID, id string) {
	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	qi := questionIndex(sub.Questions, id)
	if qi < 0 {
		s.mu.Unlock()
		return
	}
	sub.Questions = removeAt(sub.Questions, qi)
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// ToggleQuestionSolved flips the solved flag of the question with the given
// id. The id is searched across the whole tree, not a topic scope, which is
// why ids must be globally unique.
func (s *Store) ToggleQuestionSolved(id string) {
	s.mutateQuestionByID(id, func(q *model.Question) {
		q.IsSolved = !q.IsSolved
	})
}

// ToggleQuestionStarred flips the starred flag, searching the whole tree.
func (s *Store) ToggleQuestionStarred(id string) {
	s.mutateQuestionByID(id, func(q *model.Question) {
		q.IsStarred = !q.IsStarred
	})
}

// UpdateQuestionNotes replaces the notes of the globally matched question.
func (s *Store) UpdateQuestionNotes(id, notes string) {
	s.mutateQuestionByID(id, func(q *model.Question) {
		q.Notes = model.SanitizeString(notes, "")
	})
}

// ToggleAllInSubtopic sets every question in the named subtopic to the
// given solved state. No-op when the path is not found.
func (s *Store) ToggleAllInSubtopic(topicID, subtopicID string, solved bool) {
	s.mu.Lock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		s.mu.Unlock()
		return
	}
	t := s.state.Topics[ti]
	sub := t.Subtopics[si]
	qs := make([]model.Question, len(sub.Questions))
	for i, q := range sub.Questions {
		q.IsSolved = solved
		qs[i] = q
	}
	sub.Questions = qs
	t.Subtopics = replaceAt(t.Subtopics, si, sub)
	s.state.Topics = replaceAt(s.state.Topics, ti, t)
	s.mu.Unlock()
	s.changed()
}

// mutateQuestionByID locates a question anywhere in the tree and applies fn
// to a copy, rebuilding every touched ancestor. Silent no-op on a miss.
func (s *Store) mutateQuestionByID(id string, fn func(*model.Question)) {
	s.mu.Lock()
	for ti, t := range s.state.Topics {
		for si, sub := range t.Subtopics {
			qi := questionIndex(sub.Questions, id)
			if qi < 0 {
				continue
			}
			q := sub.Questions[qi].Clone()
			fn(&q)
			sub.Questions = replaceAt(sub.Questions, qi, q)
			t.Subtopics = replaceAt(t.Subtopics, si, sub)
			s.state.Topics = replaceAt(s.state.Topics, ti, t)
			s.mu.Unlock()
			s.changed()
			return
		}
	}
	s.mu.Unlock()
}

// --- index helpers (callers hold the lock) ---------------------------------

func topicIndex(topics []model.Topic, id string) int {
	for i := range topics {
		if topics[i].ID == id {
			return i
		}
	}
	return -1
}

func subtopicIndex(topics []model.Topic, topicID, id string) (int, int) {
	ti := topicIndex(topics, topicID)
	if ti < 0 {
		return -1, -1
	}
	for si := range topics[ti].Subtopics {
		if topics[ti].Subtopics[si].ID == id {
			return ti, si
		}
	}
	return ti, -1
}

func questionIndex(questions []model.Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out
}
