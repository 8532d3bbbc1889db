package match

import (
	"github.com/pdfsift/pdfsift/internal/index"
	"github.com/pdfsift/pdfsift/pkg/models"
)

// DefaultSimilarityCutoff accepts lines matching the seed on roughly all
// three feature terms.
const DefaultSimilarityCutoff = 2.5

// SimilarLines returns the lines whose typographic profile resembles the
// seed's, the seed itself excluded. Starting from one known heading this
// finds its siblings across the document.
func SimilarLines(ix *index.DocumentIndex, seed models.TextLine, cutoff float64) []models.TextLine {
	seedFeatures := FeaturesFor(seed, ix)
	seedPos, hasSeed := ix.PositionOf(seed.ID)

	var lines []models.TextLine
	for i := 0; i < ix.Len(); i++ {
		if hasSeed && i == seedPos {
			continue
		}
		line := ix.Line(i)
		if FeatureSimilarity(seedFeatures, FeaturesFor(line, ix)) >= cutoff {
			lines = append(lines, line)
		}
	}

	return lines
}
