// Package chunker slices ordered lines into overlapping windows.
package chunker

import (
	"strings"

	"github.com/pdfsift/pdfsift/pkg/models"
)

const (
	DefaultSize    = 500
	DefaultOverlap = 150
)

// Split windows lines by count: each chunk holds up to size lines and
// consecutive chunks share overlap lines. An overlap at or above the size
// is clamped so the window always advances.
func Split(lines []models.TextLine, size, overlap int) [][]models.TextLine {
	if len(lines) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	var chunks [][]models.TextLine
	start := 0
	for start < len(lines) {
		end := start + size
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lines[start:end])
		if end == len(lines) {
			break
		}
		start = end - overlap
	}

	return chunks
}

// JoinText flattens a chunk's lines into a single space-separated string.
func JoinText(lines []models.TextLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, " ")
}
