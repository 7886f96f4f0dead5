package pipeline

import (
	"context"

	"github.com/dvloznov/product-advisor/internal/advisor"
	"github.com/dvloznov/product-advisor/internal/notify"
	"github.com/dvloznov/product-advisor/internal/report"
	"github.com/dvloznov/product-advisor/internal/store"
)

// TransactionLoader supplies the normalized transaction table for a
// run. Implementations wrap the local-directory and GCS stores; the
// interface exists so pipeline tests run without touching either.
type TransactionLoader interface {
	Load(ctx context.Context) (*store.Table, error)
}

// MessageRenderer turns one recommendation into push text.
type MessageRenderer interface {
	Message(ctx context.Context, rec advisor.Recommendation) string
}

// ResultSink persists the finished results somewhere (CSV file,
// BigQuery table).
type ResultSink interface {
	Write(ctx context.Context, runID string, results []report.Result) error
}

// RunTracker records run lifecycle transitions. The no-op
// implementation is used when BigQuery bookkeeping is disabled.
type RunTracker interface {
	Start(ctx context.Context, runID, inputURI string) error
	Fail(ctx context.Context, runID string, runErr error) error
	Succeed(ctx context.Context, runID string, clientCount int) error
}

// DirLoader loads every CSV in a local directory.
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(ctx context.Context) (*store.Table, error) {
	return store.LoadDir(ctx, l.Dir)
}

// GCSLoader loads CSVs from GCS URIs.
type GCSLoader struct {
	URIs []string
}

func (l GCSLoader) Load(ctx context.Context) (*store.Table, error) {
	return store.LoadGCS(ctx, l.URIs)
}

// TemplateRenderer renders messages from the fixed templates, with an
// optional AI writer for rewriting.
type TemplateRenderer struct {
	Writer notify.Writer // nil means templates only
}

func (r TemplateRenderer) Message(ctx context.Context, rec advisor.Recommendation) string {
	return notify.Personalize(ctx, r.Writer, rec)
}

// CSVSink writes result.csv under OutputDir.
type CSVSink struct {
	OutputDir string
}

func (s CSVSink) Write(ctx context.Context, runID string, results []report.Result) error {
	_, err := report.SaveCSV(s.OutputDir, results)
	return err
}

// BigQuerySink streams recommendation rows to BigQuery.
type BigQuerySink struct{}

func (BigQuerySink) Write(ctx context.Context, runID string, results []report.Result) error {
	return report.InsertRecommendations(ctx, runID, results)
}

// BigQueryTracker records run lifecycle rows in BigQuery.
type BigQueryTracker struct{}

func (BigQueryTracker) Start(ctx context.Context, runID, inputURI string) error {
	return report.StartAnalysisRun(ctx, runID, inputURI)
}

func (BigQueryTracker) Fail(ctx context.Context, runID string, runErr error) error {
	return report.MarkAnalysisRunFailed(ctx, runID, runErr)
}

func (BigQueryTracker) Succeed(ctx context.Context, runID string, clientCount int) error {
	return report.MarkAnalysisRunSucceeded(ctx, runID, clientCount)
}

// NoopTracker is the tracker used when run bookkeeping is disabled.
type NoopTracker struct{}

func (NoopTracker) Start(context.Context, string, string) error { return nil }
func (NoopTracker) Fail(context.Context, string, error) error   { return nil }
func (NoopTracker) Succeed(context.Context, string, int) error  { return nil }
