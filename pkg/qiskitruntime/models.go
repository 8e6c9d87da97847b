package qiskitruntime

import "encoding/json"

// JobStatus is the state of a runtime job.
type JobStatus string

const (
	JobQueued    JobStatus = "Queued"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobCancelled JobStatus = "Cancelled"
	JobFailed    JobStatus = "Failed"
)

// Final reports whether the status is terminal.
func (s JobStatus) Final() bool {
	switch s {
	case JobCompleted, JobCancelled, JobFailed:
		return true
	}
	return false
}

// JobState carries the job status together with an optional reason.
type JobState struct {
	Status JobStatus `json:"status"`
	Reason string    `json:"reason,omitempty"`
}

// Usage reports consumed Qiskit Runtime time in seconds, including
// quantum compute and near-time classical processing.
type Usage struct {
	Seconds float64 `json:"seconds"`
}

// Job is a runtime job as returned by the jobs endpoints.
type Job struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	ProgramID string    `json:"program_id"`
	State     JobState  `json:"state"`
	SessionID string    `json:"session_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Created   string    `json:"created,omitempty"`
	Cost      int64     `json:"cost,omitempty"`
	Usage     *Usage    `json:"usage,omitempty"`
}

// Status returns the job status.
func (j *Job) Status() JobStatus {
	return j.State.Status
}

// LogLevel is the program logging level.
type LogLevel string

const (
	LogLevelCritical LogLevel = "critical"
	LogLevelError    LogLevel = "error"
	LogLevelWarning  LogLevel = "warning"
	LogLevelInfo     LogLevel = "info"
	LogLevelDebug    LogLevel = "debug"
)

// CreateJobRequest is the body of a job submission.
type CreateJobRequest struct {
	// ProgramID identifies the primitive, e.g. "sampler" or
	// "estimator".
	ProgramID string `json:"program_id"`

	// Backend names the backend to run on.
	Backend string `json:"backend"`

	// Params is the primitive input following the EstimatorV2/SamplerV2
	// schema.
	Params json.RawMessage `json:"params,omitempty"`

	// SessionID attaches the job to an open session.
	SessionID string `json:"session_id,omitempty"`

	// Tags are free-form job tags.
	Tags []string `json:"tags,omitempty"`

	// LogLevel is the program logging level.
	LogLevel LogLevel `json:"log_level,omitempty"`

	// Cost is the estimated execution time in seconds.
	Cost int64 `json:"cost,omitempty"`
}

// JobMetrics reports execution metrics of a job.
type JobMetrics struct {
	Timestamps *JobTimestamps `json:"timestamps,omitempty"`
	Usage      *JobUsage      `json:"usage,omitempty"`
	Executions int            `json:"executions,omitempty"`

	// EstimatedStartTime and EstimatedCompletionTime are UTC
	// timestamps for queued jobs.
	EstimatedStartTime      string `json:"estimated_start_time,omitempty"`
	EstimatedCompletionTime string `json:"estimated_completion_time,omitempty"`
	PositionInQueue         int    `json:"position_in_queue,omitempty"`

	QiskitVersion string `json:"qiskit_version,omitempty"`
}

// JobTimestamps are the lifecycle timestamps of a job.
type JobTimestamps struct {
	Created  string `json:"created,omitempty"`
	Running  string `json:"running,omitempty"`
	Finished string `json:"finished,omitempty"`
}

// JobUsage breaks down consumed execution time.
type JobUsage struct {
	Quantum float64 `json:"quantum_seconds,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

// SessionMode selects how a session schedules its jobs.
type SessionMode string

const (
	SessionDedicated SessionMode = "dedicated"
	SessionBatch     SessionMode = "batch"
)

// CreateSessionRequest is the body of a session creation.
type CreateSessionRequest struct {
	// Backend names the backend the session reserves.
	Backend string `json:"backend,omitempty"`

	// Mode is the session scheduling mode.
	Mode SessionMode `json:"mode"`

	// MaxTTL bounds the session lifetime in seconds.
	MaxTTL int64 `json:"max_ttl"`
}

// Session is a runtime session.
type Session struct {
	ID          string      `json:"id"`
	Backend     string      `json:"backend_name,omitempty"`
	Mode        SessionMode `json:"mode,omitempty"`
	MaxTTL      int64       `json:"max_ttl,omitempty"`
	State       string      `json:"state,omitempty"`
	StartedAt   string      `json:"started_at,omitempty"`
	ActiveTTL   int64       `json:"active_ttl,omitempty"`
	AcceptsJobs bool        `json:"accepting_jobs,omitempty"`
}

// BackendStatusInfo is the operational status of a backend.
type BackendStatusInfo struct {
	// State is true when the backend accepts jobs.
	State bool `json:"state"`

	// Status is the human-readable state, e.g. "active".
	Status string `json:"status"`

	// Message carries additional details, e.g. maintenance notices.
	Message string `json:"message,omitempty"`
}
