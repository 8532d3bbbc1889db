// pdfinfo prints page dimensions, document metadata, a heading outline
// guess, and typographic siblings of a given line for a PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pdfsift/pdfsift/internal/index"
	"github.com/pdfsift/pdfsift/internal/layout"
	"github.com/pdfsift/pdfsift/internal/match"
	"github.com/pdfsift/pdfsift/internal/pdf"
	"github.com/pdfsift/pdfsift/pkg/logger"
)

func main() {
	pdfPath := flag.String("file", "", "Path to PDF file")
	showHeadings := flag.Bool("headings", false, "detect and print headings")
	similarTo := flag.String("similar", "", "print lines typographically similar to the best match for this text")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	log := logger.New(
		logger.WithPrefix("[pdfinfo] "),
		logger.WithOutput(os.Stderr),
	)

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)

	dims, err := pdf.Preflight(*pdfPath)
	if err != nil {
		log.Fatal("Error reading PDF: %v", err)
	}

	for i, dim := range dims {
		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dim.Width, dim.Height)
	}

	doc, err := pdf.OpenDocument(*pdfPath)
	if err != nil {
		log.Fatal("Error opening PDF: %v", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	keys := make([]string, 0, len(meta))
	for k := range meta {
		if meta[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		fmt.Printf("\nMetadata:\n")
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, meta[k])
		}
	}

	if !*showHeadings && *similarTo == "" {
		return
	}

	extractor := pdf.NewExtractor(log)
	pages, err := extractor.Extract(context.Background(), *pdfPath)
	if err != nil {
		log.Fatal("Error extracting text: %v", err)
	}

	blocks := layout.GroupIntoBlocks(pages, 5.0, 12.0)
	lines := layout.Flatten(blocks)
	ix := index.New(lines, dims)

	fmt.Printf("\nLines per page:\n")
	for pageNum := 1; pageNum <= len(dims); pageNum++ {
		fmt.Printf("  Page %d: %d lines\n", pageNum, len(ix.LinesOnPage(pageNum)))
	}

	if *showHeadings {
		fmt.Printf("\nDetected body font size: %.1f\n", layout.BodyFontSize(lines))
		fmt.Printf("\nHeadings:\n")
		for _, h := range layout.IdentifyHeadings(lines) {
			fmt.Printf("  [H%d] p%d %.1fpt  %s\n", h.Level, h.PageNumber, h.FontSize, h.Text)
		}
	}

	if *similarTo != "" {
		matches := ix.FindTextMatches(*similarTo, 0.75, 0)
		if len(matches) == 0 {
			log.Fatal("No line matches %q", *similarTo)
		}
		seed := ix.Line(matches[0].Index)

		fmt.Printf("\nSeed: p%d %.1fpt  %s\n", seed.PageNumber, seed.FontSize, seed.Text)
		fmt.Printf("Similar lines:\n")
		for _, line := range match.SimilarLines(ix, seed, match.DefaultSimilarityCutoff) {
			fmt.Printf("  p%d %.1fpt  %s\n", line.PageNumber, line.FontSize, line.Text)
		}
	}
}
