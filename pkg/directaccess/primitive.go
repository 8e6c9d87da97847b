package directaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Object key prefixes for job payloads in the shared bucket.
const (
	inputKeyPrefix   = "input_"
	resultsKeyPrefix = "results_"
	logsKeyPrefix    = "logs_"
)

// presignExpiry is how long the presigned URLs handed to the service
// stay valid. Must outlive the job timeout.
const presignExpiry = 24 * time.Hour

// ErrNoObjectStore is returned by RunPrimitive when the client was
// built without WithObjectStore.
var ErrNoObjectStore = errors.New("directaccess: object store is not configured, use WithObjectStore")

// PrimitiveJob is a handle to a primitive submitted with RunPrimitive.
type PrimitiveJob struct {
	// ID is the job ID.
	ID string

	client *Client
}

// RunPrimitive invokes a Qiskit Runtime primitive on a backend. The
// payload follows the EstimatorV2/SamplerV2 input schema.
//
// The payload is uploaded to the configured bucket as input_{id}.json,
// presigned URLs for the input, results and logs objects are attached
// to the job request, and the job is submitted. The returned handle
// polls status and fetches results/logs from the bucket.
func (c *Client) RunPrimitive(ctx context.Context, backend string, programID ProgramID, timeoutSecs int64, logLevel LogLevel, payload any) (*PrimitiveJob, error) {
	store := c.config.store
	if store == nil {
		return nil, ErrNoObjectStore
	}

	id := uuid.NewString()
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	inputKey := inputKeyPrefix + id + ".json"
	if err := store.Put(ctx, inputKey, input); err != nil {
		return nil, err
	}

	inputURL, err := store.PresignGet(ctx, inputKey, presignExpiry)
	if err != nil {
		return nil, err
	}
	resultsURL, err := store.PresignPut(ctx, resultsKeyPrefix+id+".json", presignExpiry)
	if err != nil {
		return nil, err
	}
	logsURL, err := store.PresignPut(ctx, logsKeyPrefix+id+".json", presignExpiry)
	if err != nil {
		return nil, err
	}

	req := &JobRequest{
		ID:          id,
		Backend:     backend,
		ProgramID:   programID,
		LogLevel:    logLevel,
		TimeoutSecs: timeoutSecs,
		Storage: Storage{
			Input:   &StorageOption{Type: StorageS3Compatible, PresignedURL: inputURL},
			Results: &StorageOption{Type: StorageS3Compatible, PresignedURL: resultsURL},
			Logs:    &StorageOption{Type: StorageS3Compatible, PresignedURL: logsURL},
		},
	}
	if _, err := c.Jobs.Run(ctx, req); err != nil {
		return nil, err
	}

	return &PrimitiveJob{ID: id, client: c}, nil
}

// Primitive returns a handle to a previously submitted primitive job.
func (c *Client) Primitive(id string) *PrimitiveJob {
	return &PrimitiveJob{ID: id, client: c}
}

// Status returns the current job status.
func (j *PrimitiveJob) Status(ctx context.Context) (JobStatus, error) {
	return j.client.Jobs.Status(ctx, j.ID)
}

// InFinalState reports whether the job has reached a final state.
func (j *PrimitiveJob) InFinalState(ctx context.Context) (bool, error) {
	status, err := j.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.Final(), nil
}

// Wait blocks until the job reaches a final state and returns it. A
// zero timeout waits indefinitely.
func (j *PrimitiveJob) Wait(ctx context.Context, timeout time.Duration) (JobStatus, error) {
	job, err := j.client.Jobs.WaitForFinalState(ctx, j.ID, timeout)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// Result fetches the primitive result from the bucket and unmarshals
// it into v. Results are only available once the job has completed; a
// failed job surfaces its reason fields in the error.
func (j *PrimitiveJob) Result(ctx context.Context, v any) error {
	job, err := j.client.Jobs.Get(ctx, j.ID)
	if err != nil {
		return err
	}
	switch job.Status {
	case JobCompleted:
	case JobFailed:
		return fmt.Errorf("directaccess: job %s failed: %s", j.ID, failureReason(job))
	case JobCancelled:
		return fmt.Errorf("directaccess: job %s was cancelled, result is not available", j.ID)
	default:
		return fmt.Errorf("directaccess: job %s is %s, result is not available until the job completes", j.ID, job.Status)
	}

	data, err := j.client.config.store.Get(ctx, resultsKeyPrefix+j.ID+".json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

// Logs fetches the job logs from the bucket. Logs are only available
// once the job has reached a final state.
func (j *PrimitiveJob) Logs(ctx context.Context) (string, error) {
	final, err := j.InFinalState(ctx)
	if err != nil {
		return "", err
	}
	if !final {
		return "", fmt.Errorf("directaccess: logs for job %s are not available until the job reaches a final state", j.ID)
	}

	data, err := j.client.config.store.Get(ctx, logsKeyPrefix+j.ID+".json")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// failureReason formats the reason fields of a failed job.
func failureReason(job *Job) string {
	msg := "unknown reason"
	if job.ReasonMessage != nil {
		msg = *job.ReasonMessage
	}
	if job.ReasonCode != nil {
		msg = fmt.Sprintf("%s (code=%d)", msg, *job.ReasonCode)
	}
	if job.ReasonSolution != nil {
		msg = fmt.Sprintf("%s; %s", msg, *job.ReasonSolution)
	}
	return msg
}
