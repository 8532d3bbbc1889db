package layout

import (
	"math"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// Font sizes this much larger than body text count as headings.
const headingRatio = 1.1

type Heading struct {
	Text       string
	Level      int
	FontSize   float64
	PageNumber int
}

// BodyFontSize returns the most common font size across lines, rounded to
// a tenth of a point. Falls back to 12 for empty input.
func BodyFontSize(lines []models.TextLine) float64 {
	counts := make(map[int]int)
	for _, line := range lines {
		if line.Text == "" {
			continue
		}
		counts[int(math.Round(line.FontSize*10))]++
	}

	best, bestCount := 120, 0
	for size, count := range counts {
		if count > bestCount {
			best, bestCount = size, count
		}
	}

	return float64(best) / 10
}

// IdentifyHeadings flags lines set noticeably larger than the body text.
// The level follows the size ratio: >=1.5x is level 1, >=1.3x level 2,
// anything else over the heading ratio level 3.
func IdentifyHeadings(lines []models.TextLine) []Heading {
	body := BodyFontSize(lines)

	var headings []Heading
	for _, line := range lines {
		if line.Text == "" || line.FontSize < body*headingRatio {
			continue
		}

		ratio := line.FontSize / body
		level := 3
		switch {
		case ratio >= 1.5:
			level = 1
		case ratio >= 1.3:
			level = 2
		}

		headings = append(headings, Heading{
			Text:       line.Text,
			Level:      level,
			FontSize:   line.FontSize,
			PageNumber: line.PageNumber,
		})
	}

	return headings
}
