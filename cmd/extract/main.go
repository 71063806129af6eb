// extract runs one document through the pipeline and writes the result to
// disk, as JSON and optionally as an XLSX workbook.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/export"
	"github.com/mcatarino/order-extractor/internal/llm/gemini"
	"github.com/mcatarino/order-extractor/internal/pdf"
	"github.com/mcatarino/order-extractor/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	var (
		outDir  = flag.String("out", ".", "directory for result files")
		season  = flag.String("season", "", "season code for the workbook")
		xlsx    = flag.Bool("xlsx", false, "also write an XLSX workbook")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: extract [flags] <document.pdf>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}

	ctx := context.Background()
	oracle, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create model client", "err", err)
		os.Exit(1)
	}

	processor := pipeline.NewProcessor(oracle, pdf.NewService(cfg.PDF, logger), logger)
	result, err := processor.ProcessDocument(ctx, path, func(pct float64) {
		logger.Debug("progress", "percent", pct)
	})
	if err != nil {
		logger.Error("extraction failed", "path", path, "err", err)
		os.Exit(1)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	jsonPath := filepath.Join(*outDir, base+".json")
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", "err", err)
		os.Exit(1)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		logger.Error("write result", "path", jsonPath, "err", err)
		os.Exit(1)
	}
	logger.Info("result written", "path", jsonPath, "products", len(result.Products))

	if *xlsx {
		workbook, err := export.NewService(logger).ExportXLSX(result, *season)
		if err != nil {
			logger.Error("build workbook", "err", err)
			os.Exit(1)
		}
		xlsxPath := filepath.Join(*outDir, base+".xlsx")
		if err := os.WriteFile(xlsxPath, workbook, 0o644); err != nil {
			logger.Error("write workbook", "path", xlsxPath, "err", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", xlsxPath)
	}
}
