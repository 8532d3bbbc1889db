package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// Preflight validates the file and returns per-page dimensions. Page
// heights feed position scoring during matching; validation catches broken
// cross-reference tables before the extractor trips over them.
func Preflight(pdfPath string) ([]models.PageDimensions, error) {
	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return nil, fmt.Errorf("PDF failed validation: %w", err)
	}

	dims, err := api.PageDimsFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dimensions: %w", err)
	}

	pages := make([]models.PageDimensions, 0, len(dims))
	for _, dim := range dims {
		pages = append(pages, models.PageDimensions{
			Width:  dim.Width,
			Height: dim.Height,
		})
	}

	return pages, nil
}
