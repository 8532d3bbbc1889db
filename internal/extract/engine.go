// Package extract wires the full pipeline: template parse, positioned
// text extraction, layout grouping, indexing, template alignment and
// chunking.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdfsift/pdfsift/internal/chunker"
	"github.com/pdfsift/pdfsift/internal/config"
	"github.com/pdfsift/pdfsift/internal/index"
	"github.com/pdfsift/pdfsift/internal/layout"
	"github.com/pdfsift/pdfsift/internal/match"
	"github.com/pdfsift/pdfsift/internal/pdf"
	"github.com/pdfsift/pdfsift/internal/template"
	"github.com/pdfsift/pdfsift/pkg/logger"
	"github.com/pdfsift/pdfsift/pkg/models"
)

// PreflightFunc validates a file and reports page dimensions.
type PreflightFunc func(pdfPath string) ([]models.PageDimensions, error)

type Engine struct {
	// Source and Preflight are swappable for tests.
	Source    pdf.ElementSource
	Preflight PreflightFunc

	cfg    *config.Config
	logger *logger.Logger
}

func NewEngine(cfg *config.Config, log *logger.Logger) *Engine {
	return &Engine{
		Source:    pdf.NewExtractor(log),
		Preflight: pdf.Preflight,
		cfg:       cfg,
		logger:    log,
	}
}

// ProcessFile runs the pipeline for a PDF and a template file and returns
// the chunks as a JSON array string.
func (e *Engine) ProcessFile(ctx context.Context, pdfPath, templatePath string) (string, error) {
	templateStr, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	chunks, err := e.Process(ctx, pdfPath, string(templateStr))
	if err != nil {
		return "", err
	}

	return MarshalChunks(chunks, e.cfg.Pretty)
}

// Process runs the pipeline for a PDF path and an in-memory template.
func (e *Engine) Process(ctx context.Context, pdfPath, templateStr string) ([]models.Chunk, error) {
	root, err := template.Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	dims, err := e.Preflight(pdfPath)
	if err != nil {
		return nil, err
	}

	pages, err := e.Source.Extract(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		e.diagnoseEmptyExtraction(pdfPath)
		return nil, nil
	}

	blocks := layout.GroupIntoBlocks(pages, e.cfg.Layout.LineJoinThreshold, e.cfg.Layout.BlockJoinThreshold)
	lines := layout.Flatten(blocks)
	e.logger.Debug("Grouped %d pages into %d blocks, %d lines", len(pages), len(blocks), len(lines))

	ix := index.New(lines, dims)
	matcher := match.New(root, ix, match.Config{DefaultThreshold: e.cfg.Matching.Threshold}, e.logger)

	matches := matcher.Align()
	chunks := e.collectChunks(matches)
	e.logger.Info("Extracted %d chunks from %s", len(chunks), pdfPath)

	return chunks, nil
}

// collectChunks walks aligned matches depth-first: text chunks emit
// output, sections only carry metadata down to their children.
func (e *Engine) collectChunks(matches []*match.ContentMatch) []models.Chunk {
	var chunks []models.Chunk

	for _, cm := range matches {
		if cm.Element.IsTextChunk() {
			size := e.cfg.Chunking.Size
			if v, ok := cm.Element.Attrs["chunkSize"]; ok {
				if n, isNum := v.AsInt(); isNum {
					size = n
				}
			}
			overlap := e.cfg.Chunking.Overlap
			if v, ok := cm.Element.Attrs["chunkOverlap"]; ok {
				if n, isNum := v.AsInt(); isNum {
					overlap = n
				}
			}

			// Indices count emitted chunks, so blank windows leave no
			// gaps.
			emitted := 0
			for _, window := range chunker.Split(cm.Lines, size, overlap) {
				text := strings.TrimSpace(chunker.JoinText(window))
				if text == "" {
					continue
				}
				chunks = append(chunks, models.Chunk{
					Text:       text,
					Metadata:   cm.Metadata,
					ChunkIndex: emitted,
				})
				emitted++
			}
		}

		chunks = append(chunks, e.collectChunks(cm.Children)...)
	}

	return chunks
}

// diagnoseEmptyExtraction tells apart a genuinely empty document from one
// whose text the positioned extractor couldn't decode.
func (e *Engine) diagnoseEmptyExtraction(pdfPath string) {
	doc, err := pdf.OpenDocument(pdfPath)
	if err != nil {
		e.logger.Warn("No text extracted from %s", pdfPath)
		return
	}
	defer doc.Close()

	for pageNum := 1; pageNum <= doc.NumPages(); pageNum++ {
		text, err := doc.PageText(pageNum)
		if err == nil && strings.TrimSpace(text) != "" {
			e.logger.Warn("%s has text the positioned extractor could not decode; output will be empty", pdfPath)
			return
		}
	}

	e.logger.Warn("%s contains no extractable text", pdfPath)
}

// MarshalChunks encodes chunks as a JSON array. A run with no chunks
// yields "[]", not "null".
func MarshalChunks(chunks []models.Chunk, pretty bool) (string, error) {
	if chunks == nil {
		chunks = []models.Chunk{}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(chunks, "", "  ")
	} else {
		data, err = json.Marshal(chunks)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode chunks: %w", err)
	}

	return string(data), nil
}
