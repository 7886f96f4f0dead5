package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/product-advisor/internal/advisor"
	"github.com/dvloznov/product-advisor/internal/logger"
	"github.com/dvloznov/product-advisor/internal/report"
	"github.com/dvloznov/product-advisor/internal/store"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	RunID           string
	InputURI        string
	Table           *store.Table
	Recommendations []advisor.Recommendation
	Results         []report.Result
}

// Step 1: StartRunStep records the run as started.
type StartRunStep struct {
	Tracker RunTracker
}

func (s *StartRunStep) Execute(ctx context.Context, state *State) error {
	return s.Tracker.Start(ctx, state.RunID, state.InputURI)
}

// Step 2: LoadTransactionsStep loads and normalizes the input table.
type LoadTransactionsStep struct {
	Loader TransactionLoader
}

func (s *LoadTransactionsStep) Execute(ctx context.Context, state *State) error {
	table, err := s.Loader.Load(ctx)
	if err != nil {
		return err
	}
	state.Table = table
	return nil
}

// Step 3: AnalyzeClientsStep evaluates every client in first-seen
// order.
type AnalyzeClientsStep struct {
	Advisor *advisor.Advisor
}

func (s *AnalyzeClientsStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	log.Info().Int("clients", len(state.Table.ClientOrder)).Msg("Analyzing clients")
	state.Recommendations = s.Advisor.AnalyzeAll(state.Table)
	return nil
}

// Step 4: RenderNotificationsStep produces the push text per client.
type RenderNotificationsStep struct {
	Renderer MessageRenderer
}

func (s *RenderNotificationsStep) Execute(ctx context.Context, state *State) error {
	state.Results = make([]report.Result, 0, len(state.Recommendations))
	for _, rec := range state.Recommendations {
		state.Results = append(state.Results, report.Result{
			Recommendation: rec,
			Message:        s.Renderer.Message(ctx, rec),
		})
	}
	return nil
}

// Step 5: WriteResultsStep hands the results to every configured sink.
type WriteResultsStep struct {
	Sinks []ResultSink
}

func (s *WriteResultsStep) Execute(ctx context.Context, state *State) error {
	for _, sink := range s.Sinks {
		if err := sink.Write(ctx, state.RunID, state.Results); err != nil {
			return err
		}
	}
	return nil
}

// Step 6: RecordStatsStep logs the product distribution.
type RecordStatsStep struct{}

func (s *RecordStatsStep) Execute(ctx context.Context, state *State) error {
	report.LogStats(ctx, state.Results)
	return nil
}

// Step 7: MarkSuccessStep records the run as finished.
type MarkSuccessStep struct {
	Tracker RunTracker
}

func (s *MarkSuccessStep) Execute(ctx context.Context, state *State) error {
	return s.Tracker.Succeed(ctx, state.RunID, len(state.Results))
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps   []Step
	tracker RunTracker
}

// NewPipeline creates a new pipeline with the given steps. The tracker
// is notified when a step fails.
func NewPipeline(tracker RunTracker, steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, tracker: tracker}
}

// Execute runs all steps sequentially. On the first failure the run is
// marked failed and the step error is returned; a bookkeeping failure
// on top of that is logged, never returned, so it cannot mask the real
// cause.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			if trackErr := p.tracker.Fail(ctx, state.RunID, err); trackErr != nil {
				log := logger.FromContext(ctx)
				log.Warn().Err(trackErr).
					Str("run_id", state.RunID).Msg("Failed to record run failure")
			}
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
