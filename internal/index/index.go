// Package index holds the per-document lookup structures the matcher
// works against: lines in reading order, id and page lookups, font
// statistics and fuzzy text search.
package index

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// DefaultPageHeight is assumed when the document didn't report page
// dimensions (US Letter).
const DefaultPageHeight = 792.0

type FontSizeStats struct {
	Mean   float64
	StdDev float64
}

// ZScore places a font size relative to the document's distribution.
func (s FontSizeStats) ZScore(size float64) float64 {
	if s.StdDev == 0 {
		return 0
	}
	return (size - s.Mean) / s.StdDev
}

// Match pairs a line position with its similarity score.
type Match struct {
	Index int
	Score float64
}

type DocumentIndex struct {
	lines       []models.TextLine
	idToIndex   map[uuid.UUID]int
	byPage      map[int][]int
	fontStats   FontSizeStats
	fontRank    map[string]int
	pageHeights map[int]float64
}

// New builds an index over lines already in reading order. pageDims may be
// nil; page heights then default to US Letter.
func New(lines []models.TextLine, pageDims []models.PageDimensions) *DocumentIndex {
	ix := &DocumentIndex{
		lines:       lines,
		idToIndex:   make(map[uuid.UUID]int, len(lines)),
		byPage:      make(map[int][]int),
		pageHeights: make(map[int]float64, len(pageDims)),
	}

	for i, line := range lines {
		ix.idToIndex[line.ID] = i
		ix.byPage[line.PageNumber] = append(ix.byPage[line.PageNumber], i)
	}

	for i, dim := range pageDims {
		ix.pageHeights[i+1] = dim.Height
	}

	ix.fontStats = computeFontStats(lines)
	ix.fontRank = computeFontRanks(lines)

	return ix
}

func (ix *DocumentIndex) Len() int { return len(ix.lines) }

func (ix *DocumentIndex) Line(i int) models.TextLine { return ix.lines[i] }

// PositionOf returns a line's position in reading order.
func (ix *DocumentIndex) PositionOf(id uuid.UUID) (int, bool) {
	i, ok := ix.idToIndex[id]
	return i, ok
}

// Slice returns lines in [start, end), clamped to the document.
func (ix *DocumentIndex) Slice(start, end int) []models.TextLine {
	if start < 0 {
		start = 0
	}
	if end > len(ix.lines) {
		end = len(ix.lines)
	}
	if start >= end {
		return nil
	}
	return ix.lines[start:end]
}

func (ix *DocumentIndex) LinesOnPage(pageNum int) []models.TextLine {
	positions := ix.byPage[pageNum]
	lines := make([]models.TextLine, 0, len(positions))
	for _, i := range positions {
		lines = append(lines, ix.lines[i])
	}
	return lines
}

func (ix *DocumentIndex) FontStats() FontSizeStats { return ix.fontStats }

// FontRank returns a font's frequency rank: 0 for the most used font,
// len(fonts) for unknown names.
func (ix *DocumentIndex) FontRank(name string) int {
	if rank, ok := ix.fontRank[name]; ok {
		return rank
	}
	return len(ix.fontRank)
}

func (ix *DocumentIndex) PageHeight(pageNum int) float64 {
	if h, ok := ix.pageHeights[pageNum]; ok && h > 0 {
		return h
	}
	return DefaultPageHeight
}

// FindTextMatches returns the lines at or after start whose text is at
// least threshold-similar to pattern, best first.
func (ix *DocumentIndex) FindTextMatches(pattern string, threshold float64, start int) []Match {
	if start < 0 {
		start = 0
	}

	var matches []Match
	for i := start; i < len(ix.lines); i++ {
		score := Similarity(ix.lines[i].Text, pattern)
		if score >= threshold {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// Similarity is the normalized Levenshtein similarity of two strings,
// case-insensitive, in [0, 1].
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func computeFontStats(lines []models.TextLine) FontSizeStats {
	if len(lines) == 0 {
		return FontSizeStats{}
	}

	var sum float64
	for _, line := range lines {
		sum += line.FontSize
	}
	mean := sum / float64(len(lines))

	var sqDiff float64
	for _, line := range lines {
		d := line.FontSize - mean
		sqDiff += d * d
	}

	return FontSizeStats{
		Mean:   mean,
		StdDev: math.Sqrt(sqDiff / float64(len(lines))),
	}
}

func computeFontRanks(lines []models.TextLine) map[string]int {
	counts := make(map[string]int)
	for _, line := range lines {
		if line.FontName != "" {
			counts[line.FontName]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	ranks := make(map[string]int, len(names))
	for rank, name := range names {
		ranks[name] = rank
	}
	return ranks
}
