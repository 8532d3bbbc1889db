package pdf

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/pdfsift/pdfsift/pkg/logger"
	"github.com/pdfsift/pdfsift/pkg/models"
)

// Fraction of the font size two runs may be apart horizontally and still
// belong to the same element.
const runJoinFactor = 0.3

// Extractor reads styled text runs with their positions using the native
// (non-cgo) parser and merges runs sharing a baseline into elements.
type Extractor struct {
	logger *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

func (e *Extractor) Extract(ctx context.Context, pdfPath string) (map[int][]models.TextElement, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make(map[int][]models.TextElement)

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			e.logger.Debug("Skipping null page %d", pageNum)
			continue
		}

		content := page.Content()
		elements := MergeRuns(content.Text, pageNum)
		if len(elements) == 0 {
			e.logger.Debug("No text on page %d", pageNum)
			continue
		}

		e.logger.Trace("Page %d: %d runs -> %d elements", pageNum, len(content.Text), len(elements))
		pages[pageNum] = elements
	}

	return pages, nil
}

// MergeRuns joins consecutive runs that share a baseline and font into a
// single element. A new element starts when the baseline, the font, or the
// horizontal gap changes.
func MergeRuns(runs []pdf.Text, pageNum int) []models.TextElement {
	var elements []models.TextElement

	var cur *models.TextElement
	var curEnd float64

	flush := func() {
		if cur != nil && cur.Text != "" {
			elements = append(elements, *cur)
		}
		cur = nil
	}

	for _, run := range runs {
		if run.S == "" {
			continue
		}

		sameLine := cur != nil &&
			run.Y == cur.BBox.Y0 &&
			run.Font == cur.FontName &&
			run.FontSize == cur.FontSize &&
			run.X-curEnd <= run.FontSize*runJoinFactor &&
			run.X >= cur.BBox.X0

		if sameLine {
			cur.Text += run.S
			curEnd = run.X + run.W
			cur.BBox.X1 = curEnd
			continue
		}

		flush()
		cur = &models.TextElement{
			ID:       uuid.New(),
			Text:     run.S,
			FontName: run.Font,
			FontSize: run.FontSize,
			BBox: models.BBox{
				X0: run.X,
				Y0: run.Y,
				X1: run.X + run.W,
				Y1: run.Y + run.FontSize,
			},
			PageNumber: pageNum,
		}
		curEnd = run.X + run.W
	}
	flush()

	return elements
}
