package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// CompletionSpread describes how evenly progress is distributed across
// topics: the mean per-topic completion ratio plus its spread. Topics with
// no questions are excluded from the sample.
type CompletionSpread struct {
	Topics    int     `json:"topics"`
	MeanRatio float64 `json:"mean_ratio"`
	StdDev    float64 `json:"std_dev"`
	MinRatio  float64 `json:"min_ratio"`
	MaxRatio  float64 `json:"max_ratio"`
}

// Spread computes the completion spread over the given tree.
// Returns the zero value when no topic has any questions.
func Spread(topics []model.Topic) CompletionSpread {
	var ratios []float64
	for _, t := range topics {
		p := ForTopic(t)
		if p.Total == 0 {
			continue
		}
		ratios = append(ratios, float64(p.Solved)/float64(p.Total))
	}
	if len(ratios) == 0 {
		return CompletionSpread{}
	}

	out := CompletionSpread{
		Topics:    len(ratios),
		MeanRatio: stat.Mean(ratios, nil),
		MinRatio:  floats.Min(ratios),
		MaxRatio:  floats.Max(ratios),
	}
	if len(ratios) > 1 {
		out.StdDev = stat.StdDev(ratios, nil)
	}
	return out
}
