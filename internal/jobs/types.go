package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeAnalyzeRun represents a batch analysis job.
	JobTypeAnalyzeRun JobType = "analyze_run"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// AnalyzeRunJob represents a request to run the analysis pipeline over
// one input location.
type AnalyzeRunJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// InputDir is the local directory with transaction CSVs. Empty
	// when GCSURIs is set.
	InputDir string `json:"input_dir,omitempty"`

	// GCSURIs are gs:// input files; takes precedence over InputDir.
	GCSURIs []string `json:"gcs_uris,omitempty"`

	// OutputDir receives result.csv.
	OutputDir string `json:"output_dir"`

	// RunID is the analysis run id, filled in once the run starts.
	RunID string `json:"run_id,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *AnalyzeRunJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *AnalyzeRunJob) GetType() JobType {
	return JobTypeAnalyzeRun
}

// GetStatus implements the Job interface.
func (j *AnalyzeRunJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
// This abstraction allows for different queue implementations.
type Publisher interface {
	// PublishAnalyzeRun publishes a batch analysis job.
	PublishAnalyzeRun(ctx context.Context, job *AnalyzeRunJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue. The handler is
	// called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to
	// complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job. It should return an
// error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job
// status across a worker's lifetime.
type JobStore interface {
	SaveJob(ctx context.Context, job *AnalyzeRunJob) error
	GetJob(ctx context.Context, jobID string) (*AnalyzeRunJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*AnalyzeRunJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// RunID filters jobs by analysis run id.
	RunID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
