package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

const (
	defaultProjectID     = "product-advisor-dev"
	datasetID            = "advisor"
	recommendationsTable = "recommendations"
	analysisRunsTable    = "analysis_runs"
)

// projectID resolves the GCP project, preferring the standard
// environment variable over the baked-in default.
func projectID() string {
	if p := os.Getenv("GOOGLE_CLOUD_PROJECT"); p != "" {
		return p
	}
	return defaultProjectID
}

// RecommendationRow is the BigQuery row for one client's
// recommendation.
type RecommendationRow struct {
	RunID              string    `bigquery:"run_id"`
	ClientID           string    `bigquery:"client_id"`
	BestProduct        string    `bigquery:"best_product"`
	TopProducts        []string  `bigquery:"top_products"`
	PushNotification   string    `bigquery:"push_notification"`
	TotalTransactions  int64     `bigquery:"total_transactions"`
	AvgBalance         float64   `bigquery:"avg_balance"`
	TotalSpending      float64   `bigquery:"total_spending"`
	CurrencyOperations int64     `bigquery:"currency_operations"`
	OnlineServices     int64     `bigquery:"online_services"`
	OutflowsVsInflows  float64   `bigquery:"outflows_vs_inflows"`
	CreatedTS          time.Time `bigquery:"created_ts"`
}

// AnalysisRunRow mirrors the advisor.analysis_runs table.
type AnalysisRunRow struct {
	RunID        string                 `bigquery:"run_id"`
	InputURI     string                 `bigquery:"input_uri"`
	RunDate      civil.Date             `bigquery:"run_date"`
	StartedTS    time.Time              `bigquery:"started_ts"`
	FinishedTS   bigquery.NullTimestamp `bigquery:"finished_ts"`
	Status       string                 `bigquery:"status"`
	ErrorMessage string                 `bigquery:"error_message"`
	ClientCount  bigquery.NullInt64     `bigquery:"client_count"`
}

// InsertRecommendations streams recommendation rows into
// advisor.recommendations.
func InsertRecommendations(ctx context.Context, runID string, results []Result) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("InsertRecommendations: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertRecommendationsWithClient(ctx, client, runID, results)
}

// InsertRecommendationsWithClient streams recommendation rows using
// the provided BigQuery client.
func InsertRecommendationsWithClient(ctx context.Context, client *bigquery.Client, runID string, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([]*RecommendationRow, 0, len(results))
	now := time.Now()
	for _, res := range results {
		rows = append(rows, toRecommendationRow(runID, res, now))
	}

	inserter := client.DatasetInProject(projectID(), datasetID).Table(recommendationsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertRecommendations: inserting rows: %w", err)
	}
	return nil
}

func toRecommendationRow(runID string, res Result, now time.Time) *RecommendationRow {
	rec := res.Recommendation
	row := &RecommendationRow{
		RunID:            runID,
		ClientID:         rec.ClientID,
		BestProduct:      string(rec.Product),
		PushNotification: res.Message,
		CreatedTS:        now,
	}
	for _, p := range rec.Shortlist {
		row.TopProducts = append(row.TopProducts, string(p))
	}
	if f := rec.Features; f != nil {
		row.TotalTransactions = int64(f.TxCount)
		row.AvgBalance = f.AvgBalance
		row.TotalSpending = f.TotalOutflow
		row.CurrencyOperations = int64(f.CurrencyHits)
		row.OnlineServices = int64(f.OnlineHits)
		row.OutflowsVsInflows = f.OutflowRatio
	}
	return row
}

// StartAnalysisRun creates an analysis_runs row with status=RUNNING
// for the given run id.
func StartAnalysisRun(ctx context.Context, runID, inputURI string) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("StartAnalysisRun: bigquery client: %w", err)
	}
	defer client.Close()

	started := time.Now()
	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			run_id,
			input_uri,
			run_date,
			started_ts,
			status
		)
		VALUES (
			@run_id,
			@input_uri,
			@run_date,
			@started_ts,
			@status
		)
	`, datasetID, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "input_uri", Value: inputURI},
		{Name: "run_date", Value: civil.DateOf(started)},
		{Name: "started_ts", Value: started},
		{Name: "status", Value: "RUNNING"},
	}

	return runQuery(ctx, q, "StartAnalysisRun")
}

// MarkAnalysisRunFailed updates an analysis_runs row to status=FAILED.
// Errors are logged by the caller; bookkeeping failures never mask the
// original run error.
func MarkAnalysisRunFailed(ctx context.Context, runID string, runErr error) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("MarkAnalysisRunFailed: bigquery client: %w", err)
	}
	defer client.Close()

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, datasetID, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	return runQuery(ctx, q, "MarkAnalysisRunFailed")
}

// MarkAnalysisRunSucceeded updates an analysis_runs row to
// status=SUCCESS with the processed client count.
func MarkAnalysisRunSucceeded(ctx context.Context, runID string, clientCount int) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("MarkAnalysisRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    client_count = @client_count
		WHERE run_id = @run_id
	`, datasetID, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "client_count", Value: clientCount},
		{Name: "run_id", Value: runID},
	}

	return runQuery(ctx, q, "MarkAnalysisRunSucceeded")
}

// ListRecommendationsByRun reads back the recommendations of one run,
// ordered as they were written.
func ListRecommendationsByRun(ctx context.Context, runID string) ([]*RecommendationRow, error) {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return nil, fmt.Errorf("ListRecommendationsByRun: bigquery client: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			client_id,
			best_product,
			top_products,
			push_notification,
			total_transactions,
			avg_balance,
			total_spending,
			currency_operations,
			online_services,
			outflows_vs_inflows,
			created_ts
		FROM %s.%s
		WHERE run_id = @run_id
		ORDER BY created_ts
	`, datasetID, recommendationsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecommendationsByRun: reading query: %w", err)
	}

	var rows []*RecommendationRow
	for {
		var row RecommendationRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecommendationsByRun: iterating: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

func runQuery(ctx context.Context, q *bigquery.Query, op string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", op, err)
	}
	return nil
}
