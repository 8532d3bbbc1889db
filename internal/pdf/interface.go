package pdf

import (
	"context"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// ElementSource yields positioned text elements per page. Page numbers are
// 1-based.
type ElementSource interface {
	Extract(ctx context.Context, pdfPath string) (map[int][]models.TextElement, error)
}
