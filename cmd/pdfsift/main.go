package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdfsift/pdfsift/internal/config"
	"github.com/pdfsift/pdfsift/internal/extract"
	"github.com/pdfsift/pdfsift/internal/scanner"
	"github.com/pdfsift/pdfsift/internal/store"
	"github.com/pdfsift/pdfsift/pkg/logger"
	"github.com/pdfsift/pdfsift/pkg/version"
)

func main() {
	pdfPath := flag.String("pdf", "", "path to the PDF to process")
	templatePath := flag.String("template", "", "path to the extraction template")
	pdfDir := flag.String("pdf-dir", "", "directory of PDFs to process with one template")
	configPath := flag.String("config", "", "path to config file (optional)")
	outputPath := flag.String("output", "", "output file, or directory in batch mode (default stdout)")
	pretty := flag.Bool("pretty", false, "pretty-print JSON output")
	storePath := flag.String("store", "", "also save chunks to this SQLite database")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	memProfile := flag.String("memprofile", "", "write a heap profile to this file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetDetailedVersionInfo())
		return
	}

	log := logger.New(logger.WithPrefix("[pdfsift] "))
	log.SetVerbose(*verbose)
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	// A .env next to the binary may carry PDFSIFT_* overrides.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment overrides from .env")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal("Error loading config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	if *templatePath != "" {
		cfg.TemplatePath = *templatePath
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *pretty {
		cfg.Pretty = true
	}

	if cfg.TemplatePath == "" {
		log.Fatal("No template given: use -template or PDFSIFT_TEMPLATE")
	}
	if *pdfPath == "" && *pdfDir == "" {
		log.Fatal("Nothing to process: use -pdf or -pdf-dir")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("Error creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("Error starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
		log.Info("CPU profiling enabled, writing to %s", *cpuProfile)
		log.Info("Analyze it with: go tool pprof %s", *cpuProfile)
	}

	ctx := context.Background()
	engine := extract.NewEngine(cfg, log)

	var chunkStore *store.Store
	if cfg.StorePath != "" {
		chunkStore, err = store.Open(cfg.StorePath)
		if err != nil {
			log.Fatal("Error opening chunk store: %v", err)
		}
		defer chunkStore.Close()
	}

	if *pdfDir != "" {
		runBatch(ctx, engine, chunkStore, cfg, log, *pdfDir)
	} else {
		runSingle(ctx, engine, chunkStore, cfg, log, *pdfPath, cfg.OutputPath)
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal("Error creating heap profile: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("Error writing heap profile: %v", err)
		}
		log.Info("Heap profile written to %s", *memProfile)
	}
}

func runSingle(ctx context.Context, engine *extract.Engine, chunkStore *store.Store, cfg *config.Config, log *logger.Logger, pdfPath, outputPath string) {
	chunks, err := engine.Process(ctx, pdfPath, mustReadTemplate(cfg, log))
	if err != nil {
		log.Fatal("Error processing %s: %v", pdfPath, err)
	}

	if chunkStore != nil {
		if _, err := chunkStore.SaveRun(ctx, pdfPath, chunks); err != nil {
			log.Fatal("Error saving chunks to store: %v", err)
		}
		log.Info("Saved %d chunks for %s", len(chunks), pdfPath)
	}

	out, err := extract.MarshalChunks(chunks, cfg.Pretty)
	if err != nil {
		log.Fatal("Error encoding output: %v", err)
	}

	if outputPath == "" {
		fmt.Println(out)
		return
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		log.Fatal("Error writing output: %v", err)
	}
	log.Info("Wrote %s", outputPath)
}

func runBatch(ctx context.Context, engine *extract.Engine, chunkStore *store.Store, cfg *config.Config, log *logger.Logger, dir string) {
	templateStr := mustReadTemplate(cfg, log)

	dirScanner := scanner.New(log)
	log.Info("Scanning directory: %s", dir)
	pdfs, err := dirScanner.FindPDFs(ctx, dir)
	if err != nil {
		log.Fatal("Error finding PDFs: %v", err)
	}
	log.Info("Found %d PDFs to process", len(pdfs))

	outputDir := cfg.OutputPath
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			log.Fatal("Error creating output directory: %v", err)
		}
	}

	processed := 0
	for _, pdfFile := range pdfs {
		chunks, err := engine.Process(ctx, pdfFile.AbsolutePath, templateStr)
		if err != nil {
			log.Warn("Error processing %s: %v", pdfFile.RelativePath, err)
			continue
		}

		if chunkStore != nil {
			if _, err := chunkStore.SaveRun(ctx, pdfFile.AbsolutePath, chunks); err != nil {
				log.Warn("Error saving chunks for %s: %v", pdfFile.RelativePath, err)
				continue
			}
		}

		if outputDir != "" {
			out, err := extract.MarshalChunks(chunks, cfg.Pretty)
			if err != nil {
				log.Warn("Error encoding chunks for %s: %v", pdfFile.RelativePath, err)
				continue
			}
			name := strings.TrimSuffix(pdfFile.RelativePath, filepath.Ext(pdfFile.RelativePath)) + ".json"
			outPath := filepath.Join(outputDir, filepath.Base(name))
			if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
				log.Warn("Error writing %s: %v", outPath, err)
				continue
			}
		}

		processed++
	}

	log.Info("Processing complete:")
	log.Info("- Total PDFs found: %d", len(pdfs))
	log.Info("- Successfully processed: %d", processed)
}

func mustReadTemplate(cfg *config.Config, log *logger.Logger) string {
	data, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		log.Fatal("Error reading template: %v", err)
	}
	return string(data)
}
