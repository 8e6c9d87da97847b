package ibm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/qiskit-community/qrmi-go/pkg/qiskitruntime"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
)

// Environment variable keys read by NewQiskitRuntimeService, prefixed
// with the resource name.
const (
	EnvQRSEndpoint    = "QRMI_IBM_QRS_ENDPOINT"
	EnvQRSIAMEndpoint = "QRMI_IBM_QRS_IAM_ENDPOINT"
	EnvQRSIAMAPIKey   = "QRMI_IBM_QRS_IAM_APIKEY"
	EnvQRSServiceCRN  = "QRMI_IBM_QRS_SERVICE_CRN"
	EnvQRSSessionMode = "QRMI_IBM_QRS_SESSION_MODE"
	EnvQRSSessionTTL  = "QRMI_IBM_QRS_SESSION_TTL"
)

// EnvJobAcquisitionToken carries the session ID obtained by Acquire.
// TaskStart attaches jobs to that session when it is set; the Slurm
// glue hands the token from the acquiring process to the job steps
// through this variable.
const EnvJobAcquisitionToken = "QRMI_JOB_ACQUISITION_TOKEN"

const (
	defaultSessionMode = qiskitruntime.SessionDedicated

	// defaultSessionTTL is the default session lifetime, 8 hours.
	defaultSessionTTL int64 = 28800
)

// QiskitRuntimeService runs Qiskit primitives through the Qiskit
// Runtime REST API. Acquire opens a session on the backend and
// Release closes it; jobs started while the resource-scoped
// QRMI_JOB_ACQUISITION_TOKEN variable holds a session ID run within
// that session.
type QiskitRuntimeService struct {
	name   string
	client *qiskitruntime.Client
}

var _ qrmi.QuantumResource = (*QiskitRuntimeService)(nil)

// NewQiskitRuntimeService binds a Qiskit Runtime resource to the
// backend named name, reading endpoints and credentials from the
// resource-scoped environment.
func NewQiskitRuntimeService(name string) (*QiskitRuntimeService, error) {
	endpoint, err := qrmi.Env(name, EnvQRSEndpoint)
	if err != nil {
		return nil, err
	}
	iamEndpoint, err := qrmi.Env(name, EnvQRSIAMEndpoint)
	if err != nil {
		return nil, err
	}
	apiKey, err := qrmi.Env(name, EnvQRSIAMAPIKey)
	if err != nil {
		return nil, err
	}
	serviceCRN, err := qrmi.Env(name, EnvQRSServiceCRN)
	if err != nil {
		return nil, err
	}

	client := qiskitruntime.NewClient(endpoint,
		qiskitruntime.WithIAM(apiKey, serviceCRN, iamEndpoint),
	)
	return &QiskitRuntimeService{name: name, client: client}, nil
}

// newQiskitRuntimeService binds a resource to a pre-built client.
// Tests use it to point at a fake service.
func newQiskitRuntimeService(name string, client *qiskitruntime.Client) *QiskitRuntimeService {
	return &QiskitRuntimeService{name: name, client: client}
}

// IsAccessible reports whether the backend is operational.
func (r *QiskitRuntimeService) IsAccessible(ctx context.Context) (bool, error) {
	status, err := r.client.Backends.Status(ctx, r.name)
	if err != nil {
		return false, err
	}
	return status.State, nil
}

// Acquire opens a session on the backend and returns its ID. The
// session mode and TTL come from the resource-scoped environment,
// defaulting to a dedicated session of 8 hours.
func (r *QiskitRuntimeService) Acquire(ctx context.Context) (string, error) {
	mode := qiskitruntime.SessionMode(qrmi.EnvOr(r.name, EnvQRSSessionMode, string(defaultSessionMode)))
	switch mode {
	case qiskitruntime.SessionDedicated, qiskitruntime.SessionBatch:
	default:
		return "", fmt.Errorf("ibm: invalid session mode %q", mode)
	}

	ttl := defaultSessionTTL
	if v := qrmi.EnvOr(r.name, EnvQRSSessionTTL, ""); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", fmt.Errorf("ibm: invalid %s: %w", qrmi.EnvKey(r.name, EnvQRSSessionTTL), err)
		}
		ttl = parsed
	}

	return r.client.Sessions.Create(ctx, &qiskitruntime.CreateSessionRequest{
		Backend: r.name,
		Mode:    mode,
		MaxTTL:  ttl,
	})
}

// Release closes the session identified by the acquisition token.
func (r *QiskitRuntimeService) Release(ctx context.Context, acquisitionToken string) error {
	return r.client.Sessions.Close(ctx, acquisitionToken)
}

// TaskStart submits a Qiskit primitive. The job joins the session
// named by the resource-scoped QRMI_JOB_ACQUISITION_TOKEN variable
// when it is set, and is bounded by QRMI_JOB_TIMEOUT_SECONDS.
func (r *QiskitRuntimeService) TaskStart(ctx context.Context, payload qrmi.Payload) (string, error) {
	p, ok := payload.(qrmi.QiskitPrimitive)
	if !ok {
		return "", fmt.Errorf("ibm: qiskit runtime resource %s does not accept %T payloads", r.name, payload)
	}
	if p.ProgramID == "" {
		return "", fmt.Errorf("ibm: program id is required")
	}

	req := &qiskitruntime.CreateJobRequest{
		ProgramID: p.ProgramID,
		Backend:   r.name,
		Params:    json.RawMessage(p.Input),
		SessionID: qrmi.EnvOr(r.name, EnvJobAcquisitionToken, ""),
	}
	if v := qrmi.EnvOr(r.name, EnvJobTimeoutSeconds, ""); v != "" {
		cost, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", fmt.Errorf("ibm: invalid %s: %w", qrmi.EnvKey(r.name, EnvJobTimeoutSeconds), err)
		}
		req.Cost = cost
	}

	return r.client.Jobs.Create(ctx, req)
}

// TaskStop cancels the job if it has not finished, then deletes it
// from the service.
func (r *QiskitRuntimeService) TaskStop(ctx context.Context, taskID string) error {
	job, err := r.client.Jobs.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if !job.Status().Final() {
		if err := r.client.Jobs.Cancel(ctx, taskID, ""); err != nil {
			return err
		}
	}
	return r.client.Jobs.Delete(ctx, taskID)
}

// TaskStatus returns the current status of a job.
func (r *QiskitRuntimeService) TaskStatus(ctx context.Context, taskID string) (qrmi.TaskStatus, error) {
	job, err := r.client.Jobs.Get(ctx, taskID)
	if err != nil {
		return 0, err
	}
	switch job.Status() {
	case qiskitruntime.JobQueued:
		return qrmi.TaskQueued, nil
	case qiskitruntime.JobRunning:
		return qrmi.TaskRunning, nil
	case qiskitruntime.JobCompleted:
		return qrmi.TaskCompleted, nil
	case qiskitruntime.JobFailed:
		return qrmi.TaskFailed, nil
	case qiskitruntime.JobCancelled:
		return qrmi.TaskCancelled, nil
	}
	return 0, fmt.Errorf("ibm: unknown job status %q for task %s", job.Status(), taskID)
}

// TaskResult returns the result document of a completed job. Failed
// jobs surface the failure reason.
func (r *QiskitRuntimeService) TaskResult(ctx context.Context, taskID string) (qrmi.TaskResult, error) {
	job, err := r.client.Jobs.Get(ctx, taskID)
	if err != nil {
		return qrmi.TaskResult{}, err
	}
	switch job.Status() {
	case qiskitruntime.JobCompleted:
	case qiskitruntime.JobFailed:
		reason := job.State.Reason
		if reason == "" {
			reason = "unknown reason"
		}
		return qrmi.TaskResult{}, fmt.Errorf("ibm: job %s failed: %s", taskID, reason)
	case qiskitruntime.JobCancelled:
		return qrmi.TaskResult{}, fmt.Errorf("ibm: job %s was cancelled, result is not available", taskID)
	default:
		return qrmi.TaskResult{}, fmt.Errorf("ibm: job %s is %s, result is not available until the job completes", taskID, job.Status())
	}

	raw, err := r.client.Jobs.Results(ctx, taskID)
	if err != nil {
		return qrmi.TaskResult{}, err
	}
	return qrmi.TaskResult{Value: string(raw)}, nil
}

// Target returns a JSON document with the backend configuration and
// properties. A section that cannot be fetched is null.
func (r *QiskitRuntimeService) Target(ctx context.Context) (qrmi.Target, error) {
	return backendTarget(ctx, r.name, r.client.Backends.Configuration, r.client.Backends.Properties)
}

// Metadata returns the backend name.
func (r *QiskitRuntimeService) Metadata() map[string]string {
	return map[string]string{"backend_name": r.name}
}
