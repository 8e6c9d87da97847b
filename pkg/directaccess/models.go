package directaccess

import (
	"encoding/json"
	"fmt"
)

// ProgramID identifies the primitive to execute.
type ProgramID string

const (
	ProgramEstimator ProgramID = "estimator"
	ProgramSampler   ProgramID = "sampler"
)

// ParseProgramID converts a string into a ProgramID.
func ParseProgramID(s string) (ProgramID, error) {
	switch ProgramID(s) {
	case ProgramEstimator, ProgramSampler:
		return ProgramID(s), nil
	}
	return "", fmt.Errorf("directaccess: unknown program id %q", s)
}

// LogLevel is the job logging level.
type LogLevel string

const (
	LogLevelCritical LogLevel = "critical"
	LogLevelError    LogLevel = "error"
	LogLevelWarning  LogLevel = "warning"
	LogLevelInfo     LogLevel = "info"
	LogLevelDebug    LogLevel = "debug"
)

// ParseLogLevel converts a string into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch LogLevel(s) {
	case LogLevelCritical, LogLevelError, LogLevelWarning, LogLevelInfo, LogLevelDebug:
		return LogLevel(s), nil
	}
	return "", fmt.Errorf("directaccess: unknown log level %q", s)
}

// JobStatus is the state of a submitted job. The wire format is
// capitalized ("Running", "Completed", ...).
type JobStatus string

const (
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
	JobCancelled JobStatus = "Cancelled"
)

// Final reports whether the status is terminal.
func (s JobStatus) Final() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// StorageType identifies the kind of object storage a presigned URL
// points to.
type StorageType string

const (
	StorageS3Compatible StorageType = "s3_compatible"
	StorageIBMCloudCOS  StorageType = "ibmcloud_cos"
)

// StorageOption is one presigned-URL slot of a job's storage stanza.
type StorageOption struct {
	Type         StorageType `json:"type"`
	PresignedURL string      `json:"presigned_url"`
}

// Storage describes where the service reads job input and writes
// results and logs.
type Storage struct {
	Input   *StorageOption `json:"input,omitempty"`
	Results *StorageOption `json:"results,omitempty"`
	Logs    *StorageOption `json:"logs,omitempty"`
}

// Usage reports consumed quantum time.
type Usage struct {
	QuantumNanoseconds *int64 `json:"quantum_nanoseconds,omitempty"`
}

// Job is a Direct Access job as returned by the jobs listing.
type Job struct {
	ID             string     `json:"id"`
	Backend        string     `json:"backend"`
	ProgramID      ProgramID  `json:"program_id"`
	Status         JobStatus  `json:"status"`
	Storage        Storage    `json:"storage"`
	CreatedTime    string     `json:"created_time"`
	EndTime        *string    `json:"end_time,omitempty"`
	LogLevel       *LogLevel  `json:"log_level,omitempty"`
	TimeoutSecs    *int64     `json:"timeout_secs,omitempty"`
	Usage          *Usage     `json:"usage,omitempty"`
	ReasonCode     *int64     `json:"reason_code,omitempty"`
	ReasonMessage  *string    `json:"reason_message,omitempty"`
	ReasonSolution *string    `json:"reason_solution,omitempty"`
}

// JobRequest is the body of a job submission. The ID is generated
// client-side.
type JobRequest struct {
	ID          string    `json:"id"`
	Backend     string    `json:"backend"`
	ProgramID   ProgramID `json:"program_id"`
	LogLevel    LogLevel  `json:"log_level"`
	TimeoutSecs int64     `json:"timeout_secs"`
	Storage     Storage   `json:"storage"`
}

// BackendStatus is the operational state of a backend.
type BackendStatus string

const (
	BackendOnline  BackendStatus = "online"
	BackendOffline BackendStatus = "offline"
	BackendPaused  BackendStatus = "paused"
)

// Backend is a quantum backend available for direct access.
type Backend struct {
	Name    string        `json:"name"`
	Status  BackendStatus `json:"status"`
	Message *string       `json:"message,omitempty"`
	Version *string       `json:"version,omitempty"`
}

// BackendConfiguration and BackendProperties are backend-specific
// documents with open schemas; they are kept raw so callers can pass
// them through unchanged.
type (
	BackendConfiguration = json.RawMessage
	BackendProperties    = json.RawMessage
)

// SessionMode selects how a session schedules its jobs.
type SessionMode string

const (
	SessionDedicated SessionMode = "dedicated"
	SessionBatch     SessionMode = "batch"
)
