package stats

import (
	"math"
	"testing"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

func topicWithProgress(id string, solved, total int) model.Topic {
	qs := make([]model.Question, total)
	for i := range qs {
		qs[i] = model.Question{
			ID:       id + "-q" + string(rune('a'+i)),
			Title:    "Q",
			IsSolved: i < solved,
		}
	}
	return model.Topic{
		ID: id, Name: id,
		Subtopics: []model.Subtopic{{ID: id + "-s", Name: "S", Questions: qs}},
	}
}

func TestSpread_Empty(t *testing.T) {
	if got := Spread(nil); got != (CompletionSpread{}) {
		t.Errorf("expected zero value for nil tree, got %+v", got)
	}

	// Topics without questions are excluded from the sample.
	bare := []model.Topic{{ID: "t1", Name: "Bare"}}
	if got := Spread(bare); got != (CompletionSpread{}) {
		t.Errorf("expected zero value for question-less tree, got %+v", got)
	}
}

func TestSpread_SingleTopic(t *testing.T) {
	got := Spread([]model.Topic{topicWithProgress("t1", 2, 4)})

	if got.Topics != 1 {
		t.Fatalf("expected 1 sampled topic, got %d", got.Topics)
	}
	if got.MeanRatio != 0.5 || got.MinRatio != 0.5 || got.MaxRatio != 0.5 {
		t.Errorf("expected all ratios 0.5, got %+v", got)
	}
	if got.StdDev != 0 {
		t.Errorf("expected zero stddev for a single sample, got %f", got.StdDev)
	}
}

func TestSpread_MultipleTopics(t *testing.T) {
	got := Spread([]model.Topic{
		topicWithProgress("t1", 0, 4), // 0.0
		topicWithProgress("t2", 2, 4), // 0.5
		topicWithProgress("t3", 4, 4), // 1.0
		{ID: "t4", Name: "Bare"},      // excluded
	})

	if got.Topics != 3 {
		t.Fatalf("expected 3 sampled topics, got %d", got.Topics)
	}
	if math.Abs(got.MeanRatio-0.5) > 1e-9 {
		t.Errorf("expected mean 0.5, got %f", got.MeanRatio)
	}
	if got.MinRatio != 0 || got.MaxRatio != 1 {
		t.Errorf("expected min 0 and max 1, got %+v", got)
	}
	// Sample stddev of {0, 0.5, 1} is 0.5.
	if math.Abs(got.StdDev-0.5) > 1e-9 {
		t.Errorf("expected stddev 0.5, got %f", got.StdDev)
	}
}
