package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/product-advisor/internal/logger"
	"github.com/dvloznov/product-advisor/internal/pipeline"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	inputDir := flag.String("input", "data", "Directory with transaction CSV files")
	gcsURIs := flag.String("gcs-uris", "", "Comma-separated gs:// CSV URIs (overrides -input)")
	outputDir := flag.String("output", "output", "Directory for result.csv")
	useBigQuery := flag.Bool("bigquery", false, "Record the run and recommendations in BigQuery")
	useAI := flag.Bool("ai-writer", false, "Rewrite push messages with Gemini")
	flag.Parse()

	// Create context with timeout so the batch doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	cfg := pipeline.Config{
		InputDir:    *inputDir,
		OutputDir:   *outputDir,
		UseBigQuery: *useBigQuery,
		UseAIWriter: *useAI,
	}
	if *gcsURIs != "" {
		cfg.GCSURIs = splitURIs(*gcsURIs)
	}

	runID, err := pipeline.RunAnalysis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("run_id", runID).Msg("Analysis failed")
	}

	fmt.Printf("Analysis run %s completed successfully.\n", runID)
}

func splitURIs(raw string) []string {
	var uris []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			uris = append(uris, part)
		}
	}
	return uris
}
