package pasqal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/qiskit-community/qrmi-go/pkg/pasqalcloud"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
)

// Environment variable keys read by NewCloud, prefixed with the
// resource name.
const (
	EnvProjectID = "QRMI_PASQAL_CLOUD_PROJECT_ID"
	EnvAuthToken = "QRMI_PASQAL_CLOUD_AUTH_TOKEN"

	// EnvEndpoint overrides the Pasqal Cloud API endpoint. Optional.
	EnvEndpoint = "QRMI_PASQAL_CLOUD_ENDPOINT"
)

// Cloud runs Pulser sequences on a Pasqal Cloud device. Batches have
// no session concept, so Acquire hands out a fresh dummy token and
// Release is a no-op.
type Cloud struct {
	name   string
	client *pasqalcloud.Client
}

var _ qrmi.QuantumResource = (*Cloud)(nil)

// NewCloud binds a Pasqal Cloud resource to the device type named
// name, reading the project ID and auth token from the resource-scoped
// environment.
func NewCloud(name string) (*Cloud, error) {
	projectID, err := qrmi.Env(name, EnvProjectID)
	if err != nil {
		return nil, err
	}
	token, err := qrmi.Env(name, EnvAuthToken)
	if err != nil {
		return nil, err
	}

	var opts []pasqalcloud.Option
	if endpoint := qrmi.EnvOr(name, EnvEndpoint, ""); endpoint != "" {
		opts = append(opts, pasqalcloud.WithBaseURL(endpoint))
	}
	client := pasqalcloud.NewClient(token, projectID, opts...)
	return &Cloud{name: name, client: client}, nil
}

// newCloud binds a resource to a pre-built client. Tests use it to
// point at a fake service.
func newCloud(name string, client *pasqalcloud.Client) *Cloud {
	return &Cloud{name: name, client: client}
}

// IsAccessible reports whether the device is listed in the account's
// device specifications.
func (r *Cloud) IsAccessible(ctx context.Context) (bool, error) {
	specs, err := r.client.DeviceSpecs(ctx)
	if err != nil {
		return false, err
	}
	_, ok := specs[r.name]
	return ok, nil
}

// Acquire returns a fresh dummy token.
func (r *Cloud) Acquire(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Release is a no-op.
func (r *Cloud) Release(ctx context.Context, acquisitionToken string) error {
	return nil
}

// TaskStart submits a batch with a single job executing the sequence.
func (r *Cloud) TaskStart(ctx context.Context, payload qrmi.Payload) (string, error) {
	p, ok := payload.(qrmi.PasqalCloud)
	if !ok {
		return "", fmt.Errorf("pasqal: cloud resource %s does not accept %T payloads", r.name, payload)
	}
	if p.JobRuns <= 0 {
		return "", fmt.Errorf("pasqal: job runs must be positive, got %d", p.JobRuns)
	}

	batch, err := r.client.Batches.Create(ctx, &pasqalcloud.CreateBatchRequest{
		SerializedSequence: p.Sequence,
		DeviceType:         pasqalcloud.DeviceType(r.name),
		Jobs:               []pasqalcloud.JobSpec{{Runs: p.JobRuns}},
	})
	if err != nil {
		return "", err
	}
	return batch.ID, nil
}

// TaskStop cancels the batch unless it has already finished.
func (r *Cloud) TaskStop(ctx context.Context, taskID string) error {
	batch, err := r.client.Batches.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if batch.Status.Final() {
		return nil
	}
	_, err = r.client.Batches.Cancel(ctx, taskID)
	return err
}

// TaskStatus returns the current status of a batch.
func (r *Cloud) TaskStatus(ctx context.Context, taskID string) (qrmi.TaskStatus, error) {
	batch, err := r.client.Batches.Get(ctx, taskID)
	if err != nil {
		return 0, err
	}
	switch batch.Status {
	case pasqalcloud.BatchPending:
		return qrmi.TaskQueued, nil
	case pasqalcloud.BatchRunning, pasqalcloud.BatchPaused:
		return qrmi.TaskRunning, nil
	case pasqalcloud.BatchDone:
		return qrmi.TaskCompleted, nil
	case pasqalcloud.BatchCanceled:
		return qrmi.TaskCancelled, nil
	case pasqalcloud.BatchTimedOut, pasqalcloud.BatchError:
		return qrmi.TaskFailed, nil
	}
	return 0, fmt.Errorf("pasqal: unknown batch status %q for task %s", batch.Status, taskID)
}

// TaskResult returns the per-job results of a completed batch as a
// JSON document keyed by job ID.
func (r *Cloud) TaskResult(ctx context.Context, taskID string) (qrmi.TaskResult, error) {
	batch, err := r.client.Batches.Get(ctx, taskID)
	if err != nil {
		return qrmi.TaskResult{}, err
	}
	switch batch.Status {
	case pasqalcloud.BatchDone:
	case pasqalcloud.BatchTimedOut, pasqalcloud.BatchError:
		return qrmi.TaskResult{}, fmt.Errorf("pasqal: batch %s failed with status %s", taskID, batch.Status)
	case pasqalcloud.BatchCanceled:
		return qrmi.TaskResult{}, fmt.Errorf("pasqal: batch %s was cancelled, result is not available", taskID)
	default:
		return qrmi.TaskResult{}, fmt.Errorf("pasqal: batch %s is %s, result is not available until the batch completes", taskID, batch.Status)
	}

	results, err := r.client.Batches.Results(ctx, taskID)
	if err != nil {
		return qrmi.TaskResult{}, err
	}
	doc, err := json.Marshal(results)
	if err != nil {
		return qrmi.TaskResult{}, fmt.Errorf("marshal results: %w", err)
	}
	return qrmi.TaskResult{Value: string(doc)}, nil
}

// Target returns the device specification document.
func (r *Cloud) Target(ctx context.Context) (qrmi.Target, error) {
	specs, err := r.client.DeviceSpecs(ctx)
	if err != nil {
		return qrmi.Target{}, err
	}
	spec, ok := specs[r.name]
	if !ok {
		return qrmi.Target{}, fmt.Errorf("pasqal: no specification for device %s", r.name)
	}
	return qrmi.Target{Value: string(spec)}, nil
}

// Metadata returns the device type.
func (r *Cloud) Metadata() map[string]string {
	return map[string]string{"device_type": r.name}
}
