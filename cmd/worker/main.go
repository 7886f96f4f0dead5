package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/product-advisor/internal/jobs"
	"github.com/dvloznov/product-advisor/internal/jobs/inmemory"
	"github.com/dvloznov/product-advisor/internal/logger"
	"github.com/dvloznov/product-advisor/internal/pipeline"
)

func main() {
	// Initialize logger
	log := logger.New()

	inputs := flag.String("inputs", "", "Comma-separated input directories or gs:// URIs to enqueue at startup")
	outputDir := flag.String("output", "output", "Base directory for per-job result files")
	useBigQuery := flag.Bool("bigquery", false, "Record runs and recommendations in BigQuery")
	flag.Parse()

	// Initialize job store and queue.
	// In production, this would be replaced with Cloud Tasks or Pub/Sub.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Msg("Starting worker service")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	// Create job handler that executes analysis runs
	handler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeRunJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("input_dir", analyzeJob.InputDir).
			Strs("gcs_uris", analyzeJob.GCSURIs).
			Msg("Processing analysis job")

		cfg := pipeline.Config{
			InputDir:    analyzeJob.InputDir,
			GCSURIs:     analyzeJob.GCSURIs,
			OutputDir:   analyzeJob.OutputDir,
			UseBigQuery: *useBigQuery,
		}

		runID, err := pipeline.RunAnalysis(ctx, cfg)
		analyzeJob.RunID = runID
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", analyzeJob.JobID).
				Str("run_id", runID).
				Msg("Pipeline execution failed")
			return err
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("run_id", runID).
			Msg("Pipeline execution completed successfully")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	// Enqueue any inputs given on the command line
	for i, input := range splitInputs(*inputs) {
		job := &jobs.AnalyzeRunJob{
			OutputDir: fmt.Sprintf("%s/job-%d", *outputDir, i+1),
		}
		if strings.HasPrefix(input, "gs://") {
			job.GCSURIs = []string{input}
		} else {
			job.InputDir = input
		}
		if err := jobQueue.PublishAnalyzeRun(ctx, job); err != nil {
			log.Error().Err(err).Str("input", input).Msg("Failed to enqueue job")
		}
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	// Cancel context to stop workers
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}

func splitInputs(raw string) []string {
	var inputs []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			inputs = append(inputs, part)
		}
	}
	return inputs
}
