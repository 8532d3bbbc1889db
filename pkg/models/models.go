package models

import (
	"fmt"

	"github.com/google/uuid"
)

// BBox is a rectangle in PDF points. Y grows upward, so Y0 is the
// baseline edge and Y1 the top edge for text boxes.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (b BBox) Width() float64  { return b.X1 - b.X0 }
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Union returns the smallest box covering both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f, %.2f)", b.X0, b.Y0, b.X1, b.Y1)
}

// TextElement is a single styled text run extracted from a page.
type TextElement struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	FontName   string    `json:"font_name,omitempty"`
	FontSize   float64   `json:"font_size"`
	BBox       BBox      `json:"bbox"`
	PageNumber int       `json:"page_number"`
}

// TextLine is a horizontal run of elements sharing a baseline.
type TextLine struct {
	ID         uuid.UUID     `json:"id"`
	Text       string        `json:"text"`
	FontName   string        `json:"font_name,omitempty"`
	FontSize   float64       `json:"font_size"`
	BBox       BBox          `json:"bbox"`
	PageNumber int           `json:"page_number"`
	Elements   []TextElement `json:"-"`
}

// TextBlock groups vertically adjacent lines.
type TextBlock struct {
	ID         uuid.UUID  `json:"id"`
	BBox       BBox       `json:"bbox"`
	PageNumber int        `json:"page_number"`
	Lines      []TextLine `json:"lines"`
}

// Chunk is one unit of extracted output.
type Chunk struct {
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata"`
	ChunkIndex int               `json:"chunk_index"`
}

// PageDimensions holds a page size in points.
type PageDimensions struct {
	Width  float64
	Height float64
}

