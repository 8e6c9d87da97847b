package pasqalcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BatchStatus is the state of a batch. The wire format is uppercase.
type BatchStatus string

const (
	BatchPending  BatchStatus = "PENDING"
	BatchRunning  BatchStatus = "RUNNING"
	BatchDone     BatchStatus = "DONE"
	BatchCanceled BatchStatus = "CANCELED"
	BatchTimedOut BatchStatus = "TIMED_OUT"
	BatchError    BatchStatus = "ERROR"
	BatchPaused   BatchStatus = "PAUSED"
)

// Final reports whether the status is terminal.
func (s BatchStatus) Final() bool {
	switch s {
	case BatchDone, BatchCanceled, BatchTimedOut, BatchError:
		return true
	}
	return false
}

// DeviceType names a Pasqal QPU or emulator.
type DeviceType string

const (
	DeviceFresnel DeviceType = "FRESNEL"
	DeviceEmuFree DeviceType = "EMU_FREE"
	DeviceEmuTN   DeviceType = "EMU_TN"
	DeviceEmuMPS  DeviceType = "EMU_MPS"
)

// JobSpec describes one job of a batch: how many runs to execute and
// the variables to bind into the sequence.
type JobSpec struct {
	Runs      int            `json:"runs"`
	Variables map[string]any `json:"variables,omitempty"`
}

// BatchJob is one job of a submitted batch.
type BatchJob struct {
	ID        string          `json:"id"`
	Status    BatchStatus     `json:"status"`
	Runs      int             `json:"runs"`
	Variables map[string]any  `json:"variables,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// Batch is a set of jobs sharing one pulse sequence.
type Batch struct {
	ID                 string      `json:"id"`
	Status             BatchStatus `json:"status"`
	SerializedSequence string      `json:"sequence_builder,omitempty"`
	DeviceType         DeviceType  `json:"device_type,omitempty"`
	ProjectID          string      `json:"project_id,omitempty"`
	Jobs               []BatchJob  `json:"jobs,omitempty"`
	CreatedAt          string      `json:"created_at,omitempty"`
	UpdatedAt          string      `json:"updated_at,omitempty"`
}

// CreateBatchRequest is the body of a batch submission. The project ID
// is filled in from the client configuration.
type CreateBatchRequest struct {
	// SerializedSequence is the Pulser sequence, serialized.
	SerializedSequence string `json:"serialized_sequence"`

	// DeviceType selects the QPU or emulator to run on.
	DeviceType DeviceType `json:"device_type"`

	// Jobs are the jobs of the batch; at least one is required.
	Jobs []JobSpec `json:"jobs"`

	ProjectID string `json:"project_id"`
}

// batchEnvelope is the response wrapper used by the batches endpoints.
type batchEnvelope struct {
	Data Batch `json:"data"`
}

// BatchService provides batch submission and lifecycle operations.
type BatchService struct {
	client *Client
}

// Create submits a new batch.
func (s *BatchService) Create(ctx context.Context, req *CreateBatchRequest) (*Batch, error) {
	r := *req
	if r.ProjectID == "" {
		r.ProjectID = s.client.config.projectID
	}
	var out batchEnvelope
	if err := s.client.http.request(ctx, http.MethodPost, "/core-fast/api/v1/batches", &r, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Get returns the current state of a batch, including its jobs.
func (s *BatchService) Get(ctx context.Context, id string) (*Batch, error) {
	var out batchEnvelope
	if err := s.client.http.request(ctx, http.MethodGet, "/core-fast/api/v1/batches/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Cancel requests cancellation of a batch and its pending jobs.
func (s *BatchService) Cancel(ctx context.Context, id string) (*Batch, error) {
	var out batchEnvelope
	if err := s.client.http.request(ctx, http.MethodPut, "/core-fast/api/v1/batches/"+id+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Results collects the results of a batch's jobs, keyed by job ID.
// Jobs without a result yet are omitted.
func (s *BatchService) Results(ctx context.Context, id string) (map[string]json.RawMessage, error) {
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	results := make(map[string]json.RawMessage)
	for _, job := range batch.Jobs {
		if len(job.Result) > 0 {
			results[job.ID] = job.Result
		}
	}
	return results, nil
}

// WaitForFinalState polls the batch every second until it reaches a
// final state, the context is cancelled, or timeout elapses. A zero
// timeout waits indefinitely.
func (s *BatchService) WaitForFinalState(ctx context.Context, id string, timeout time.Duration) (*Batch, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		batch, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if batch.Status.Final() {
			return batch, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for batch %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
