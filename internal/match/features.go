package match

import (
	"strings"
	"unicode"

	"github.com/pdfsift/pdfsift/internal/index"
	"github.com/pdfsift/pdfsift/pkg/models"
)

// TextFeatures summarizes the typographic signals of one line relative to
// its document.
type TextFeatures struct {
	Text        string
	IsAllCaps   bool
	IsTitleCase bool
	FontSize    float64
	FontZScore  float64
	FontRank    int
	// 0 at the top edge of the page, 1 at the bottom.
	PositionPercentileY float64
}

func FeaturesFor(line models.TextLine, ix *index.DocumentIndex) TextFeatures {
	pageHeight := ix.PageHeight(line.PageNumber)
	top := line.BBox.Y1
	percentile := 1 - top/pageHeight
	if percentile < 0 {
		percentile = 0
	}
	if percentile > 1 {
		percentile = 1
	}

	return TextFeatures{
		Text:                line.Text,
		IsAllCaps:           isAllCaps(line.Text),
		IsTitleCase:         isTitleCase(line.Text),
		FontSize:            line.FontSize,
		FontZScore:          ix.FontStats().ZScore(line.FontSize),
		FontRank:            ix.FontRank(line.FontName),
		PositionPercentileY: percentile,
	}
}

// FeatureSimilarity compares two lines by font prominence, capitalization
// and vertical page position. Range 0..3; higher is more alike.
func FeatureSimilarity(a, b TextFeatures) float64 {
	fontSim := 1 - minFloat(absFloat(a.FontZScore-b.FontZScore), 1)

	capsSim := 0.0
	if a.IsAllCaps == b.IsAllCaps {
		capsSim = 1
	}

	posSim := 1 - minFloat(absFloat(a.PositionPercentileY-b.PositionPercentileY), 1)

	return fontSim + capsSim + posSim
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleCase(s string) bool {
	for _, word := range strings.Fields(s) {
		for _, r := range word {
			if unicode.IsLetter(r) && unicode.IsUpper(r) {
				return true
			}
			break
		}
	}
	return false
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
