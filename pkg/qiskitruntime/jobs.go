package qiskitruntime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// pollInterval is how often job status is checked while waiting for a
// final state.
const pollInterval = 1 * time.Second

// JobService provides job operations.
type JobService struct {
	client *Client
}

// Create submits a job and returns its ID.
func (s *JobService) Create(ctx context.Context, req *CreateJobRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := s.client.http.request(ctx, http.MethodPost, "/jobs", nil, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ListOptions control jobs listing pagination and filtering.
type ListOptions struct {
	// Limit is the page size; zero uses the service default.
	Limit int

	// Offset is the index of the first job to return.
	Offset int

	// Pending restricts the listing to queued and running jobs.
	Pending bool
}

// JobPage is one page of the jobs listing.
type JobPage struct {
	Jobs   []Job `json:"jobs"`
	Count  int   `json:"count"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// List returns a page of jobs.
func (s *JobService) List(ctx context.Context, opts *ListOptions) (*JobPage, error) {
	q := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			q.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Pending {
			q.Set("pending", "true")
		}
	}
	path := "/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out JobPage
	if err := s.client.http.request(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the details of a job.
func (s *JobService) Get(ctx context.Context, id string) (*Job, error) {
	var out Job
	if err := s.client.http.request(ctx, http.MethodGet, "/jobs/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel requests cancellation of a job. parentJobID, when non-empty,
// is sent as the Parent-Job-Id header for jobs spawned by another job.
func (s *JobService) Cancel(ctx context.Context, id, parentJobID string) error {
	var headers map[string]string
	if parentJobID != "" {
		headers = map[string]string{"Parent-Job-Id": parentJobID}
	}
	return s.client.http.request(ctx, http.MethodPost, "/jobs/"+id+"/cancel", headers, nil, nil)
}

// Delete removes a job. Jobs must be in a final state before deletion.
func (s *JobService) Delete(ctx context.Context, id string) error {
	return s.client.http.request(ctx, http.MethodDelete, "/jobs/"+id, nil, nil, nil)
}

// Results returns the final result document of a completed job.
func (s *JobService) Results(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.http.request(ctx, http.MethodGet, "/jobs/"+id+"/results", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logs returns the captured logs of a job.
func (s *JobService) Logs(ctx context.Context, id string) (string, error) {
	var out json.RawMessage
	if err := s.client.http.request(ctx, http.MethodGet, "/jobs/"+id+"/logs", nil, nil, &out); err != nil {
		return "", err
	}
	var logs string
	if err := json.Unmarshal(out, &logs); err != nil {
		// Some deployments return the logs as plain text.
		return string(out), nil
	}
	return logs, nil
}

// Metrics returns execution metrics of a job.
func (s *JobService) Metrics(ctx context.Context, id string) (*JobMetrics, error) {
	var out JobMetrics
	if err := s.client.http.request(ctx, http.MethodGet, "/jobs/"+id+"/metrics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForFinalState polls the job every second until it reaches a
// final state, the context is cancelled, or timeout elapses. A zero
// timeout waits indefinitely.
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
		if job.Status().Final() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
