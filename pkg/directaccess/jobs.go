package directaccess

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when a job ID is not present in the job
// list. The API has no per-job GET endpoint; deleted jobs simply
// disappear from the listing.
var ErrJobNotFound = errors.New("directaccess: job not found")

// pollInterval is how often job status is checked while waiting for a
// final state.
const pollInterval = 1 * time.Second

// JobService provides job submission and lifecycle operations.
type JobService struct {
	client *Client
}

// Run submits a job and returns its ID. If req.ID is empty a UUID is
// generated. The service replies 204; the returned ID is the one sent.
func (s *JobService) Run(ctx context.Context, req *JobRequest) (string, error) {
	r := *req
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.client.http.request(ctx, http.MethodPost, "/v1/jobs", &r, nil); err != nil {
		return "", err
	}
	return r.ID, nil
}

// List returns all jobs visible to the caller.
func (s *JobService) List(ctx context.Context) ([]Job, error) {
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, "/v1/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// Get returns the details of a job by scanning the job list. Returns
// ErrJobNotFound if the ID is not listed.
func (s *JobService) Get(ctx context.Context, id string) (*Job, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

// Status returns the current status of a job.
func (s *JobService) Status(ctx context.Context, id string) (JobStatus, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// Cancel requests cancellation of a running job.
func (s *JobService) Cancel(ctx context.Context, id string) error {
	return s.client.http.request(ctx, http.MethodPost, "/v1/jobs/"+id+"/cancel", nil, nil)
}

// Delete removes a job from the service. Jobs must be in a final state
// before deletion; cancel running jobs first.
func (s *JobService) Delete(ctx context.Context, id string) error {
	return s.client.http.request(ctx, http.MethodDelete, "/v1/jobs/"+id, nil, nil)
}

// WaitForFinalState polls the job status every second until the job
// reaches a final state, the context is cancelled, or timeout elapses.
// A zero timeout waits indefinitely.
func (s *JobService) WaitForFinalState(ctx context.Context, id string, timeout time.Duration) (*Job, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		job, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Status.Final() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
