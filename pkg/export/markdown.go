// Package export renders progress reports from the sheet tree. Markdown for
// humans and docs, SVG for embedding a visual progress snapshot.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/stats"
)

// checkbox characters used in question lists.
const (
	boxSolved   = "[x]"
	boxUnsolved = "[ ]"
)

// GenerateMarkdown creates a markdown progress report for the whole sheet.
func GenerateMarkdown(sheet model.Sheet, topics []model.Topic) string {
	defer metrics.Timer(metrics.ExportRender)()

	var sb strings.Builder

	title := sheet.Name
	if title == "" {
		title = "Question Sheet"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if sheet.Description != "" {
		sb.WriteString(sheet.Description)
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	detailed := stats.Detailed(topics)
	writeSummary(&sb, detailed)

	for _, t := range topics {
		writeTopic(&sb, t)
	}

	return sb.String()
}

// SaveMarkdown writes the report to path, creating parent directories.
func SaveMarkdown(sheet model.Sheet, topics []model.Topic, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	report := GenerateMarkdown(sheet, topics)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeSummary(sb *strings.Builder, d stats.DetailedStats) {
	sb.WriteString("## Progress\n\n")
	sb.WriteString(fmt.Sprintf("**Overall: %d/%d (%d%%)**\n\n",
		d.Overall.Solved, d.Overall.Total, d.Overall.Percent()))

	sb.WriteString("| Difficulty | Solved | Total | Percent |\n")
	sb.WriteString("|------------|--------|-------|--------|\n")
	for _, diff := range model.Difficulties {
		p := d.ByDifficulty[diff]
		if p == nil || p.Total == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d%% |\n",
			diff, p.Solved, p.Total, p.Percent()))
	}
	sb.WriteString("\n")
}

func writeTopic(sb *strings.Builder, t model.Topic) {
	p := stats.ForTopic(t)
	sb.WriteString(fmt.Sprintf("## %s (%d/%d)\n\n", t.Name, p.Solved, p.Total))

	for _, sub := range t.Subtopics {
		sp := stats.ForSubtopic(sub)
		sb.WriteString(fmt.Sprintf("### %s (%d/%d)\n\n", sub.Name, sp.Solved, sp.Total))

		for _, q := range sub.Questions {
			box := boxUnsolved
			if q.IsSolved {
				box = boxSolved
			}
			line := fmt.Sprintf("- %s %s", box, q.Title)
			if q.Difficulty != "" {
				line += fmt.Sprintf(" `%s`", q.Difficulty)
			}
			if q.IsStarred {
				line += " ⭐"
			}
			if q.ProblemURL != "" {
				line += fmt.Sprintf(" — [problem](%s)", q.ProblemURL)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}
