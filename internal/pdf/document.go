package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/pdfsift/pdfsift/pkg/models"
)

// Document wraps a MuPDF handle for the operations the native extractor
// doesn't cover: page bounds, rendered plain text, document metadata.
type Document struct {
	doc  *fitz.Document
	path string
}

func OpenDocument(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{doc: doc, path: path}, nil
}

func (d *Document) Path() string { return d.path }

func (d *Document) NumPages() int { return d.doc.NumPage() }

// PageText returns the rendered plain text of a page. Pages are 1-based
// here; the underlying library is zero indexed.
func (d *Document) PageText(pageNum int) (string, error) {
	text, err := d.doc.Text(pageNum - 1)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
	}
	return text, nil
}

func (d *Document) PageSize(pageNum int) (models.PageDimensions, error) {
	bounds, err := d.doc.Bound(pageNum - 1)
	if err != nil {
		return models.PageDimensions{}, fmt.Errorf("failed to get bounds for page %d: %w", pageNum, err)
	}
	return models.PageDimensions{
		Width:  float64(bounds.Dx()),
		Height: float64(bounds.Dy()),
	}, nil
}

func (d *Document) Metadata() map[string]string {
	return d.doc.Metadata()
}

func (d *Document) Close() error {
	return d.doc.Close()
}
