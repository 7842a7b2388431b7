package store

import (
	"github.com/vanderheijden86/sheetwork/pkg/filter"
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/stats"
)

// TotalProgress returns overall solved/total across the whole tree.
func (s *Store) TotalProgress() stats.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Overall(s.state.Topics)
}

// TopicProgress returns solved/total for one topic. The zero Progress is
// returned for an unknown id.
func (s *Store) TopicProgress(topicID string) stats.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ti := topicIndex(s.state.Topics, topicID)
	if ti < 0 {
		return stats.Progress{}
	}
	return stats.ForTopic(s.state.Topics[ti])
}

// SubtopicProgress returns solved/total for one subtopic. The zero
// Progress is returned for an unknown path.
func (s *Store) SubtopicProgress(topicID, subtopicID string) stats.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		return stats.Progress{}
	}
	return stats.ForSubtopic(s.state.Topics[ti].Subtopics[si])
}

// DetailedStats returns the full aggregation over the current tree.
func (s *Store) DetailedStats() stats.DetailedStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Detailed(s.state.Topics)
}

// CompletionSpread returns the per-topic completion distribution.
func (s *Store) CompletionSpread() stats.CompletionSpread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Spread(s.state.Topics)
}

// FilterQuestions returns the questions of the named subtopic matching the
// given predicates. Nil is returned for an unknown path.
func (s *Store) FilterQuestions(topicID, subtopicID string, opts filter.Options) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ti, si := subtopicIndex(s.state.Topics, topicID, subtopicID)
	if si < 0 {
		return nil
	}
	return filter.Apply(s.state.Topics[ti].Subtopics[si].Questions, opts)
}

// FilterAllQuestions applies the predicates across every subtopic in tree
// order and returns the concatenated matches.
func (s *Store) FilterAllQuestions(opts filter.Options) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Question
	for _, t := range s.state.Topics {
		for _, sub := range t.Subtopics {
			out = append(out, filter.Apply(sub.Questions, opts)...)
		}
	}
	return out
}
