// Package testutil provides deterministic sheet-tree fixture generators and
// shared test assertions. All generators produce reproducible output for a
// fixed seed.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/sheetwork/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed          int64              // Random seed for determinism
	IDPrefix      string             // Prefix for generated IDs (default: "test")
	Topics        int                // Number of topics (default: 3)
	Subtopics     int                // Subtopics per topic (default: 2)
	Questions     int                // Questions per subtopic (default: 4)
	SolvedRatio   float64            // Fraction of questions marked solved (0..1)
	StarredRatio  float64            // Fraction of questions starred (0..1)
	DifficultyMix []model.Difficulty // Difficulty distribution (nil = all Medium)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		IDPrefix:  "test",
		Topics:    3,
		Subtopics: 2,
		Questions: 4,
		DifficultyMix: []model.Difficulty{
			model.DifficultyEasy,
			model.DifficultyMedium,
			model.DifficultyHard,
		},
	}
}

// Generator creates sheet-tree fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if cfg.Topics == 0 {
		cfg.Topics = 3
	}
	if cfg.Subtopics == 0 {
		cfg.Subtopics = 2
	}
	if cfg.Questions == 0 {
		cfg.Questions = 4
	}
	if len(cfg.DifficultyMix) == 0 {
		cfg.DifficultyMix = []model.Difficulty{model.DifficultyMedium}
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Sheet generates the sheet metadata record.
func (g *Generator) Sheet() model.Sheet {
	return model.Sheet{
		ID:          g.cfg.IDPrefix + "-sheet",
		Name:        "Generated Sheet",
		Description: "Deterministic fixture",
		Author:      "testutil",
	}
}

// Topics generates the full tree with dense 0..n-1 order at every level.
func (g *Generator) Topics() []model.Topic {
	topics := make([]model.Topic, g.cfg.Topics)
	for ti := range topics {
		topics[ti] = model.Topic{
			ID:        fmt.Sprintf("%s-t%d", g.cfg.IDPrefix, ti),
			Name:      fmt.Sprintf("Topic %d", ti),
			Order:     ti,
			Subtopics: g.subtopics(ti),
		}
	}
	return topics
}

// State generates a complete state around the generated tree.
func (g *Generator) State() model.State {
	return model.State{
		Sheet:             g.Sheet(),
		Topics:            g.Topics(),
		ExpandedTopics:    make(map[string]bool),
		ExpandedSubtopics: make(map[string]bool),
		Theme:             "dark",
	}
}

func (g *Generator) subtopics(ti int) []model.Subtopic {
	subs := make([]model.Subtopic, g.cfg.Subtopics)
	for si := range subs {
		subs[si] = model.Subtopic{
			ID:        fmt.Sprintf("%s-t%d-s%d", g.cfg.IDPrefix, ti, si),
			Name:      fmt.Sprintf("Subtopic %d.%d", ti, si),
			Order:     si,
			Questions: g.questions(ti, si),
		}
	}
	return subs
}

func (g *Generator) questions(ti, si int) []model.Question {
	qs := make([]model.Question, g.cfg.Questions)
	for qi := range qs {
		qs[qi] = model.Question{
			ID:         fmt.Sprintf("%s-t%d-s%d-q%d", g.cfg.IDPrefix, ti, si, qi),
			Title:      fmt.Sprintf("Question %d.%d.%d", ti, si, qi),
			Difficulty: g.cfg.DifficultyMix[g.rng.Intn(len(g.cfg.DifficultyMix))],
			IsSolved:   g.rng.Float64() < g.cfg.SolvedRatio,
			IsStarred:  g.rng.Float64() < g.cfg.StarredRatio,
			Order:      qi,
		}
	}
	return qs
}
