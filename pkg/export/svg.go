package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/sheetwork/pkg/metrics"
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/stats"
)

// SVG layout constants.
const (
	svgWidth      = 720
	svgHeaderH    = 96
	svgRowH       = 44
	svgBarX       = 240
	svgBarW       = 380
	svgBarH       = 16
	svgMarginX    = 24
	svgFooterH    = 24
	svgTitleLimit = 28
)

// Colors follow the default dark theme.
const (
	svgBackdrop = "#1a1b26"
	svgHeaderBG = "#24283b"
	svgBarBG    = "#414868"
	svgBarFill  = "#9ece6a"
	svgText     = "#c0caf5"
	svgSubtle   = "#565f89"
)

// SaveSVG renders a per-topic progress snapshot to path.
func SaveSVG(sheet model.Sheet, topics []model.Topic, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return RenderSVG(file, sheet, topics)
}

// RenderSVG writes the snapshot SVG to w: a summary header followed by one
// progress bar per topic.
func RenderSVG(w io.Writer, sheet model.Sheet, topics []model.Topic) error {
	defer metrics.Timer(metrics.ExportRender)()

	height := svgHeaderH + len(topics)*svgRowH + svgFooterH

	canvas := svg.New(w)
	canvas.Start(svgWidth, height)
	canvas.Rect(0, 0, svgWidth, height, fmt.Sprintf("fill:%s", svgBackdrop))
	canvas.Roundrect(16, 16, svgWidth-32, svgHeaderH-24, 10, 10, fmt.Sprintf("fill:%s", svgHeaderBG))

	title := sheet.Name
	if title == "" {
		title = "Question Sheet"
	}
	overall := stats.Overall(topics)
	canvas.Text(32, 44, title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", svgText))
	canvas.Text(32, 68, fmt.Sprintf("solved: %d/%d (%d%%)", overall.Solved, overall.Total, overall.Percent()),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", svgSubtle))

	for i, t := range topics {
		y := svgHeaderH + i*svgRowH
		drawTopicRow(canvas, y, t)
	}

	canvas.End()
	return nil
}

func drawTopicRow(canvas *svg.SVG, y int, t model.Topic) {
	p := stats.ForTopic(t)

	canvas.Text(svgMarginX, y+20, truncate(t.Name, svgTitleLimit),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", svgText))

	barY := y + 8
	canvas.Roundrect(svgBarX, barY, svgBarW, svgBarH, 4, 4, fmt.Sprintf("fill:%s", svgBarBG))
	if p.Total > 0 && p.Solved > 0 {
		fillW := svgBarW * p.Solved / p.Total
		if fillW < 4 {
			fillW = 4
		}
		canvas.Roundrect(svgBarX, barY, fillW, svgBarH, 4, 4, fmt.Sprintf("fill:%s", svgBarFill))
	}

	canvas.Text(svgBarX+svgBarW+12, y+20, fmt.Sprintf("%d/%d", p.Solved, p.Total),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", svgSubtle))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
