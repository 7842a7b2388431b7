// Package stats computes roll-up progress counts over the sheet tree.
//
// Everything here is a pure read-side derivation: the aggregator walks the
// current tree on demand and never mutates it. Malformed or absent topic
// and subtopic collections are skipped, not faulted.
package stats

import (
	"math"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// Progress is a solved/total pair.
type Progress struct {
	Total  int `json:"total"`
	Solved int `json:"solved"`
}

// Percent returns the solved percentage rounded to the nearest integer.
// A zero total yields 0, never a division fault.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(float64(p.Solved) / float64(p.Total) * 100))
}

func (p *Progress) add(q model.Question) {
	p.Total++
	if q.IsSolved {
		p.Solved++
	}
}

// TopicProgress is the per-topic roll-up, reported in tree order.
type TopicProgress struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Solved int    `json:"solved"`
}

// DetailedStats is the full aggregation: overall counts, a breakdown over
// the four canonical difficulty buckets, and per-topic roll-ups.
type DetailedStats struct {
	Overall      Progress                       `json:"overall"`
	ByDifficulty map[model.Difficulty]*Progress `json:"byDifficulty"`
	ByTopic      []TopicProgress                `json:"byTopic"`
}

// ForSubtopic computes solved/total for a single subtopic.
func ForSubtopic(s model.Subtopic) Progress {
	var p Progress
	for _, q := range s.Questions {
		p.add(q)
	}
	return p
}

// ForTopic computes solved/total across every subtopic of a topic.
func ForTopic(t model.Topic) Progress {
	var p Progress
	for _, s := range t.Subtopics {
		for _, q := range s.Questions {
			p.add(q)
		}
	}
	return p
}

// Overall computes solved/total across the whole tree.
func Overall(topics []model.Topic) Progress {
	var p Progress
	for _, t := range topics {
		for _, s := range t.Subtopics {
			for _, q := range s.Questions {
				p.add(q)
			}
		}
	}
	return p
}

// Detailed walks the tree once and produces the full aggregation.
// The difficulty map always contains all four canonical buckets so that
// consumers can iterate without presence checks.
func Detailed(topics []model.Topic) DetailedStats {
	defer metrics.Timer(metrics.StatsCompute)()

	out := DetailedStats{
		ByDifficulty: make(map[model.Difficulty]*Progress, len(model.Difficulties)),
	}
	for _, d := range model.Difficulties {
		out.ByDifficulty[d] = &Progress{}
	}

	for _, t := range topics {
		tp := TopicProgress{ID: t.ID, Name: t.Name}
		for _, s := range t.Subtopics {
			for _, q := range s.Questions {
				out.Overall.add(q)
				tp.Total++
				if q.IsSolved {
					tp.Solved++
				}
				bucket, ok := out.ByDifficulty[q.Difficulty]
				if !ok {
					// Non-canonical difficulty in a hand-edited snapshot:
					// count it under Medium, matching ingest coercion.
					bucket = out.ByDifficulty[model.DifficultyMedium]
				}
				bucket.add(q)
			}
		}
		out.ByTopic = append(out.ByTopic, tp)
	}
	return out
}
