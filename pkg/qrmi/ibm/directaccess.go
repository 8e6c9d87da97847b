package ibm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/qiskit-community/qrmi-go/pkg/directaccess"
	"github.com/qiskit-community/qrmi-go/pkg/objectstore"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
)

// Environment variable keys read by NewDirectAccess. Each is prefixed
// with the resource name, e.g. ibm_strasbourg_QRMI_IBM_DA_ENDPOINT.
const (
	EnvDAEndpoint           = "QRMI_IBM_DA_ENDPOINT"
	EnvDAIAMEndpoint        = "QRMI_IBM_DA_IAM_ENDPOINT"
	EnvDAIAMAPIKey          = "QRMI_IBM_DA_IAM_APIKEY"
	EnvDAServiceCRN         = "QRMI_IBM_DA_SERVICE_CRN"
	EnvDAAWSAccessKeyID     = "QRMI_IBM_DA_AWS_ACCESS_KEY_ID"
	EnvDAAWSSecretAccessKey = "QRMI_IBM_DA_AWS_SECRET_ACCESS_KEY"
	EnvDAS3Endpoint         = "QRMI_IBM_DA_S3_ENDPOINT"
	EnvDAS3Bucket           = "QRMI_IBM_DA_S3_BUCKET"
	EnvDAS3Region           = "QRMI_IBM_DA_S3_REGION"
)

// EnvJobTimeoutSeconds caps job execution time. It is read at
// TaskStart, prefixed with the resource name.
const EnvJobTimeoutSeconds = "QRMI_JOB_TIMEOUT_SECONDS"

// DirectAccess runs Qiskit primitives on an IBM Direct Access service
// instance. The service has no session concept, so Acquire hands out
// a fresh dummy token and Release is a no-op.
type DirectAccess struct {
	name   string
	client *directaccess.Client
}

var _ qrmi.QuantumResource = (*DirectAccess)(nil)

// NewDirectAccess binds a Direct Access resource to the backend named
// name, reading endpoints and credentials from the resource-scoped
// environment.
func NewDirectAccess(name string) (*DirectAccess, error) {
	endpoint, err := qrmi.Env(name, EnvDAEndpoint)
	if err != nil {
		return nil, err
	}
	iamEndpoint, err := qrmi.Env(name, EnvDAIAMEndpoint)
	if err != nil {
		return nil, err
	}
	apiKey, err := qrmi.Env(name, EnvDAIAMAPIKey)
	if err != nil {
		return nil, err
	}
	serviceCRN, err := qrmi.Env(name, EnvDAServiceCRN)
	if err != nil {
		return nil, err
	}
	accessKeyID, err := qrmi.Env(name, EnvDAAWSAccessKeyID)
	if err != nil {
		return nil, err
	}
	secretAccessKey, err := qrmi.Env(name, EnvDAAWSSecretAccessKey)
	if err != nil {
		return nil, err
	}
	s3Endpoint, err := qrmi.Env(name, EnvDAS3Endpoint)
	if err != nil {
		return nil, err
	}
	bucket, err := qrmi.Env(name, EnvDAS3Bucket)
	if err != nil {
		return nil, err
	}
	region, err := qrmi.Env(name, EnvDAS3Region)
	if err != nil {
		return nil, err
	}

	store := objectstore.New(s3Endpoint, accessKeyID, secretAccessKey, region, bucket)
	client := directaccess.NewClient(endpoint,
		directaccess.WithIAM(apiKey, serviceCRN, iamEndpoint),
		directaccess.WithObjectStore(store),
	)
	return &DirectAccess{name: name, client: client}, nil
}

// newDirectAccess binds a resource to a pre-built client. Tests use it
// to point at a fake service.
func newDirectAccess(name string, client *directaccess.Client) *DirectAccess {
	return &DirectAccess{name: name, client: client}
}

// IsAccessible reports whether the backend is online.
func (r *DirectAccess) IsAccessible(ctx context.Context) (bool, error) {
	backend, err := r.client.Backends.Get(ctx, r.name)
	if err != nil {
		return false, err
	}
	return backend.Status == directaccess.BackendOnline, nil
}

// Acquire returns a fresh dummy token.
func (r *DirectAccess) Acquire(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Release is a no-op.
func (r *DirectAccess) Release(ctx context.Context, acquisitionToken string) error {
	return nil
}

// TaskStart submits a Qiskit primitive. The job timeout is read from
// the resource-scoped QRMI_JOB_TIMEOUT_SECONDS variable.
func (r *DirectAccess) TaskStart(ctx context.Context, payload qrmi.Payload) (string, error) {
	p, ok := payload.(qrmi.QiskitPrimitive)
	if !ok {
		return "", fmt.Errorf("ibm: direct access resource %s does not accept %T payloads", r.name, payload)
	}
	programID, err := directaccess.ParseProgramID(p.ProgramID)
	if err != nil {
		return "", err
	}
	timeout, err := r.jobTimeout()
	if err != nil {
		return "", err
	}

	job, err := r.client.RunPrimitive(ctx, r.name, programID, timeout, directaccess.LogLevelDebug, json.RawMessage(p.Input))
	if err != nil {
		return "", err
	}
	return job.ID, nil
}

func (r *DirectAccess) jobTimeout() (int64, error) {
	v, err := qrmi.Env(r.name, EnvJobTimeoutSeconds)
	if err != nil {
		return 0, err
	}
	timeout, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ibm: invalid %s: %w", qrmi.EnvKey(r.name, EnvJobTimeoutSeconds), err)
	}
	return timeout, nil
}

// TaskStop cancels the job if it is still running, then deletes it
// from the service.
func (r *DirectAccess) TaskStop(ctx context.Context, taskID string) error {
	status, err := r.client.Jobs.Status(ctx, taskID)
	if err != nil {
		return err
	}
	if status == directaccess.JobRunning {
		if err := r.client.Jobs.Cancel(ctx, taskID); err != nil {
			return err
		}
	}
	return r.client.Jobs.Delete(ctx, taskID)
}

// TaskStatus returns the current status of a job.
func (r *DirectAccess) TaskStatus(ctx context.Context, taskID string) (qrmi.TaskStatus, error) {
	status, err := r.client.Jobs.Status(ctx, taskID)
	if err != nil {
		return 0, err
	}
	switch status {
	case directaccess.JobRunning:
		return qrmi.TaskRunning, nil
	case directaccess.JobCompleted:
		return qrmi.TaskCompleted, nil
	case directaccess.JobFailed:
		return qrmi.TaskFailed, nil
	case directaccess.JobCancelled:
		return qrmi.TaskCancelled, nil
	}
	return 0, fmt.Errorf("ibm: unknown job status %q for task %s", status, taskID)
}

// TaskResult reads the result document of a completed job from the
// bucket. Failed jobs surface their reason code, message and solution.
func (r *DirectAccess) TaskResult(ctx context.Context, taskID string) (qrmi.TaskResult, error) {
	var raw json.RawMessage
	if err := r.client.Primitive(taskID).Result(ctx, &raw); err != nil {
		return qrmi.TaskResult{}, err
	}
	return qrmi.TaskResult{Value: string(raw)}, nil
}

// Target returns a JSON document with the backend configuration and
// properties. A section that cannot be fetched is null.
func (r *DirectAccess) Target(ctx context.Context) (qrmi.Target, error) {
	return backendTarget(ctx, r.name, r.client.Backends.Configuration, r.client.Backends.Properties)
}

// Metadata returns the backend name.
func (r *DirectAccess) Metadata() map[string]string {
	return map[string]string{"backend_name": r.name}
}

// backendTarget merges backend configuration and properties into the
// target document shared by the IBM resources.
func backendTarget(
	ctx context.Context,
	name string,
	configuration func(context.Context, string) (json.RawMessage, error),
	properties func(context.Context, string) (json.RawMessage, error),
) (qrmi.Target, error) {
	cfg, err := configuration(ctx, name)
	if err != nil {
		cfg = nil
	}
	props, err := properties(ctx, name)
	if err != nil {
		props = nil
	}

	doc, err := json.Marshal(struct {
		Configuration json.RawMessage `json:"configuration"`
		Properties    json.RawMessage `json:"properties"`
	}{cfg, props})
	if err != nil {
		return qrmi.Target{}, fmt.Errorf("marshal target: %w", err)
	}
	return qrmi.Target{Value: string(doc)}, nil
}
