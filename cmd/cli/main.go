package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/product-advisor/internal/datagen"
	"github.com/dvloznov/product-advisor/internal/logger"
	"github.com/dvloznov/product-advisor/internal/pipeline"
	"github.com/dvloznov/product-advisor/internal/report"
	"github.com/dvloznov/product-advisor/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "generate":
		runGenerate(log)
	case "upload":
		runUpload(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Product Advisor CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Run the batch recommendation pipeline over transaction CSVs")
	fmt.Println("  generate  Generate a synthetic transaction CSV for testing")
	fmt.Println("  upload    Upload a transaction CSV to GCS")
	fmt.Println("  inspect   Inspect the recommendations of a past run in BigQuery")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	inputDir := fs.String("input", "data", "Directory with transaction CSV files")
	gcsURIs := fs.String("gcs-uris", "", "Comma-separated gs:// CSV URIs (overrides -input)")
	outputDir := fs.String("output", "output", "Directory for result.csv")
	useBigQuery := fs.Bool("bigquery", false, "Record the run and recommendations in BigQuery")
	useAI := fs.Bool("ai-writer", false, "Rewrite push messages with Gemini")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg := pipeline.Config{
		InputDir:    *inputDir,
		OutputDir:   *outputDir,
		UseBigQuery: *useBigQuery,
		UseAIWriter: *useAI,
	}
	for _, uri := range strings.Split(*gcsURIs, ",") {
		if uri = strings.TrimSpace(uri); uri != "" {
			cfg.GCSURIs = append(cfg.GCSURIs, uri)
		}
	}

	log.Info().Str("input", *inputDir).Str("output", *outputDir).Msg("Starting analysis")

	runID, err := pipeline.RunAnalysis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("run_id", runID).Msg("Analysis failed")
	}

	fmt.Printf("Analysis run %s completed successfully.\n", runID)
}

func runGenerate(log zerolog.Logger) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	dir := fs.String("dir", "data", "Directory to write transactions.csv into")
	clients := fs.Int("clients", 70, "Number of synthetic clients")
	seed := fs.Int64("seed", 0, "Random seed (0 = time-based)")
	fs.Parse(os.Args[2:])

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	path, n, err := datagen.Save(*dir, rng, *clients)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	fmt.Printf("Generated %d transactions for %d clients in %s\n", n, *clients, path)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local CSV file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := store.Upload(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	runID := fs.String("run-id", "", "Analysis run ID to inspect")
	fs.Parse(os.Args[2:])

	if *runID == "" {
		log.Fatal().Msg("Error: --run-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	rows, err := report.ListRecommendationsByRun(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list recommendations")
	}

	if len(rows) == 0 {
		fmt.Printf("No recommendations found for run %s\n", *runID)
		return
	}

	fmt.Printf("Run %s: %d clients\n", *runID, len(rows))
	for _, row := range rows {
		fmt.Printf("  %-12s %-22s top: %s\n",
			row.ClientID, row.BestProduct, strings.Join(row.TopProducts, ", "))
	}
}
