// Package layout reconstructs lines and blocks from positioned text
// elements. PDF content streams carry no layout structure, so grouping is
// purely geometric: elements sharing a baseline form a line, lines with
// small vertical gaps form a block.
package layout

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// GroupIntoBlocks groups per-page elements into lines and blocks.
// lineJoin is the maximum baseline distance for two elements to share a
// line; blockJoin the maximum baseline-to-baseline distance for two lines
// to share a block. Blocks come back in reading order: page by page, top
// to bottom.
func GroupIntoBlocks(pages map[int][]models.TextElement, lineJoin, blockJoin float64) []models.TextBlock {
	pageNums := make([]int, 0, len(pages))
	for n := range pages {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)

	var blocks []models.TextBlock
	for _, pageNum := range pageNums {
		lines := GroupIntoLines(pages[pageNum], lineJoin)
		blocks = append(blocks, groupLines(lines, blockJoin)...)
	}

	return blocks
}

// GroupIntoLines merges elements whose baselines are within lineJoin of
// each other. Elements within a line are ordered left to right and joined
// with single spaces.
func GroupIntoLines(elements []models.TextElement, lineJoin float64) []models.TextLine {
	if len(elements) == 0 {
		return nil
	}

	sorted := make([]models.TextElement, len(elements))
	copy(sorted, elements)
	// Top of page first: PDF y grows upward.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 > sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var lines []models.TextLine
	var current []models.TextElement

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, buildLine(current))
			current = nil
		}
	}

	for _, elem := range sorted {
		if len(current) > 0 {
			prev := current[len(current)-1]
			if prev.BBox.Y0-elem.BBox.Y0 > lineJoin {
				flush()
			}
		}
		current = append(current, elem)
	}
	flush()

	return lines
}

func buildLine(elements []models.TextElement) models.TextLine {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].BBox.X0 < elements[j].BBox.X0
	})

	parts := make([]string, 0, len(elements))
	bbox := elements[0].BBox
	fontSize := elements[0].FontSize
	fontName := elements[0].FontName

	for _, elem := range elements {
		parts = append(parts, elem.Text)
		bbox = bbox.Union(elem.BBox)
		if elem.FontSize > fontSize {
			fontSize = elem.FontSize
			fontName = elem.FontName
		}
	}

	return models.TextLine{
		ID:         uuid.New(),
		Text:       strings.Join(parts, " "),
		FontName:   fontName,
		FontSize:   fontSize,
		BBox:       bbox,
		PageNumber: elements[0].PageNumber,
		Elements:   elements,
	}
}

func groupLines(lines []models.TextLine, blockJoin float64) []models.TextBlock {
	if len(lines) == 0 {
		return nil
	}

	var blocks []models.TextBlock
	var current []models.TextLine

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, buildBlock(current))
			current = nil
		}
	}

	for _, line := range lines {
		if len(current) > 0 {
			prev := current[len(current)-1]
			if prev.BBox.Y0-line.BBox.Y0 > blockJoin {
				flush()
			}
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func buildBlock(lines []models.TextLine) models.TextBlock {
	bbox := lines[0].BBox
	for _, line := range lines[1:] {
		bbox = bbox.Union(line.BBox)
	}
	return models.TextBlock{
		ID:         uuid.New(),
		BBox:       bbox,
		PageNumber: lines[0].PageNumber,
		Lines:      lines,
	}
}

// Flatten returns the lines of all blocks in order.
func Flatten(blocks []models.TextBlock) []models.TextLine {
	var lines []models.TextLine
	for _, block := range blocks {
		lines = append(lines, block.Lines...)
	}
	return lines
}
