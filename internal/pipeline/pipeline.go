// Package pipeline orchestrates one batch analysis run as a fixed
// sequence of steps over shared state, mirroring the load → analyze →
// render → persist flow.
package pipeline

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"github.com/dvloznov/product-advisor/internal/advisor"
	"github.com/dvloznov/product-advisor/internal/logger"
	"github.com/dvloznov/product-advisor/internal/notify"
)

// Config selects the collaborators for a standard analysis run.
type Config struct {
	// InputDir is the local directory holding transaction CSVs.
	// Ignored when GCSURIs is set.
	InputDir string
	// GCSURIs holds gs:// input files; when non-empty it takes
	// precedence over InputDir.
	GCSURIs []string
	// OutputDir receives result.csv.
	OutputDir string
	// UseBigQuery enables the recommendations sink and run
	// bookkeeping.
	UseBigQuery bool
	// UseAIWriter enables the Gemini message rewriter.
	UseAIWriter bool
	// RandSource seeds the selection policy; nil means a time-seeded
	// source (production behavior).
	RandSource rand.Source
}

// NewAnalysisPipeline assembles the standard 7-step pipeline for the
// given configuration.
func NewAnalysisPipeline(cfg Config) *Pipeline {
	var loader TransactionLoader
	if len(cfg.GCSURIs) > 0 {
		loader = GCSLoader{URIs: cfg.GCSURIs}
	} else {
		loader = DirLoader{Dir: cfg.InputDir}
	}

	src := cfg.RandSource
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}
	adv := advisor.New(advisor.DefaultKeywords(), advisor.NewSelectionPolicy(src))

	renderer := TemplateRenderer{}
	if cfg.UseAIWriter {
		renderer.Writer = notify.NewGeminiWriter()
	}

	sinks := []ResultSink{CSVSink{OutputDir: cfg.OutputDir}}
	var tracker RunTracker = NoopTracker{}
	if cfg.UseBigQuery {
		sinks = append(sinks, BigQuerySink{})
		tracker = BigQueryTracker{}
	}

	return NewPipeline(tracker,
		&StartRunStep{Tracker: tracker},
		&LoadTransactionsStep{Loader: loader},
		&AnalyzeClientsStep{Advisor: adv},
		&RenderNotificationsStep{Renderer: renderer},
		&WriteResultsStep{Sinks: sinks},
		&RecordStatsStep{},
		&MarkSuccessStep{Tracker: tracker},
	)
}

// RunAnalysis executes a full batch run and returns the run id.
func RunAnalysis(ctx context.Context, cfg Config) (string, error) {
	log := logger.FromContext(ctx)

	state := &State{
		RunID:    uuid.NewString(),
		InputURI: inputURI(cfg),
	}
	log.Info().Str("run_id", state.RunID).Str("input", state.InputURI).Msg("Starting analysis run")

	if err := NewAnalysisPipeline(cfg).Execute(ctx, state); err != nil {
		return state.RunID, err
	}
	return state.RunID, nil
}

func inputURI(cfg Config) string {
	if len(cfg.GCSURIs) > 0 {
		if len(cfg.GCSURIs) == 1 {
			return cfg.GCSURIs[0]
		}
		return cfg.GCSURIs[0] + " (+more)"
	}
	return cfg.InputDir
}
