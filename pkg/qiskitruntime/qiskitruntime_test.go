package qiskitruntime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeRuntime is a minimal in-memory Qiskit Runtime service.
type fakeRuntime struct {
	mu           sync.Mutex
	jobs         map[string]*Job
	statusSeq    map[string][]JobStatus
	sessions     map[string]*Session
	lastParent   string
	lastAPIVer   string
	lastJobBody  CreateJobRequest
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		jobs:      make(map[string]*Job),
		statusSeq: make(map[string][]JobStatus),
		sessions:  make(map[string]*Session),
	}
}

func (f *fakeRuntime) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastAPIVer = r.Header.Get("IBM-API-Version")
		if err := json.NewDecoder(r.Body).Decode(&f.lastJobBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := uuid.NewString()
		f.jobs[id] = &Job{
			ID:        id,
			Backend:   f.lastJobBody.Backend,
			ProgramID: f.lastJobBody.ProgramID,
			SessionID: f.lastJobBody.SessionID,
			State:     JobState{Status: JobQueued},
		}
		fmt.Fprintf(w, `{"id":%q,"backend":%q}`, id, f.lastJobBody.Backend)
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		page := JobPage{Jobs: []Job{}, Limit: 200}
		for _, j := range f.jobs {
			page.Jobs = append(page.Jobs, *j)
		}
		page.Count = len(page.Jobs)
		json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		job, ok := f.jobs[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"code":"1291","message":"job not found"}],"trace":"t1"}`)
			return
		}
		j := *job
		if seq := f.statusSeq[j.ID]; len(seq) > 0 {
			j.State.Status = seq[0]
			if len(seq) > 1 {
				f.statusSeq[j.ID] = seq[1:]
			}
		}
		json.NewEncoder(w).Encode(&j)
	})
	mux.HandleFunc("POST /jobs/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastParent = r.Header.Get("Parent-Job-Id")
		if job, ok := f.jobs[r.PathValue("id")]; ok {
			job.State = JobState{Status: JobCancelled}
			delete(f.statusSeq, job.ID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.jobs, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /jobs/{id}/results", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"data":{"meas":{"num_bits":2}}}]}`)
	})
	mux.HandleFunc("GET /jobs/{id}/logs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `"INFO: primitive started\n"`)
	})
	mux.HandleFunc("GET /jobs/{id}/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"usage":{"quantum_seconds":1.5,"seconds":4.2},"executions":128,"qiskit_version":"1.2.0"}`)
	})
	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := uuid.NewString()
		f.mu.Lock()
		f.sessions[id] = &Session{ID: id, Backend: req.Backend, Mode: req.Mode, MaxTTL: req.MaxTTL, State: "open", AcceptsJobs: true}
		f.mu.Unlock()
		fmt.Fprintf(w, `{"id":%q}`, id)
	})
	mux.HandleFunc("GET /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		sess, ok := f.sessions[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"code":"1292","message":"session not found"}],"trace":"t2"}`)
			return
		}
		json.NewEncoder(w).Encode(sess)
	})
	mux.HandleFunc("DELETE /sessions/{id}/close", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		if sess, ok := f.sessions[r.PathValue("id")]; ok {
			sess.State = "closed"
			sess.AcceptsJobs = false
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /backends", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"devices":["ibm_kingston","ibm_fez"]}`)
	})
	mux.HandleFunc("GET /backends/{name}/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"state":true,"status":"active","message":""}`)
	})
	mux.HandleFunc("GET /usage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"period":{"start":"2025-08-01","end":"2025-08-31"},"usage_consumed_seconds":120}`)
	})
	return mux
}

func newTestRuntime(t *testing.T) (*Client, *fakeRuntime) {
	t.Helper()
	api := newFakeRuntime()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithRetry(0)), api
}

func TestCreateJob(t *testing.T) {
	client, api := newTestRuntime(t)

	params := json.RawMessage(`{"pubs":[],"version":2}`)
	id, err := client.Jobs.Create(context.Background(), &CreateJobRequest{
		ProgramID: "sampler",
		Backend:   "ibm_kingston",
		Params:    params,
		SessionID: "sess-1",
		LogLevel:  LogLevelInfo,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty job ID")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.lastJobBody.ProgramID != "sampler" || api.lastJobBody.SessionID != "sess-1" {
		t.Errorf("job body = %+v", api.lastJobBody)
	}
	if api.lastAPIVer != DefaultAPIVersion {
		t.Errorf("IBM-API-Version = %q, want %q", api.lastAPIVer, DefaultAPIVersion)
	}
}

func TestGetJobNotFound(t *testing.T) {
	client, _ := newTestRuntime(t)

	_, err := client.Jobs.Get(context.Background(), "missing")
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if !apiErr.IsNotFound() {
		t.Errorf("IsNotFound = false for %+v", apiErr)
	}
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Code != "1291" {
		t.Errorf("details = %+v", apiErr.Errors)
	}
}

func TestCancelJobParentHeader(t *testing.T) {
	client, api := newTestRuntime(t)
	api.jobs["job-1"] = &Job{ID: "job-1", State: JobState{Status: JobRunning}}

	if err := client.Jobs.Cancel(context.Background(), "job-1", "parent-9"); err != nil {
		t.Fatal(err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.lastParent != "parent-9" {
		t.Errorf("Parent-Job-Id = %q, want parent-9", api.lastParent)
	}
	if api.jobs["job-1"].State.Status != JobCancelled {
		t.Errorf("status = %q after cancel", api.jobs["job-1"].State.Status)
	}
}

func TestJobResultsAndLogs(t *testing.T) {
	client, api := newTestRuntime(t)
	api.jobs["job-1"] = &Job{ID: "job-1", State: JobState{Status: JobCompleted}}

	results, err := client.Jobs.Results(context.Background(), "job-1")
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		Results []any `json:"results"`
	}
	if err := json.Unmarshal(results, &parsed); err != nil || len(parsed.Results) != 1 {
		t.Errorf("results = %s (err %v)", results, err)
	}

	logs, err := client.Jobs.Logs(context.Background(), "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if logs != "INFO: primitive started\n" {
		t.Errorf("logs = %q", logs)
	}
}

func TestJobMetrics(t *testing.T) {
	client, api := newTestRuntime(t)
	api.jobs["job-1"] = &Job{ID: "job-1", State: JobState{Status: JobCompleted}}

	metrics, err := client.Jobs.Metrics(context.Background(), "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if metrics.Usage == nil || metrics.Usage.Quantum != 1.5 {
		t.Errorf("usage = %+v", metrics.Usage)
	}
	if metrics.Executions != 128 {
		t.Errorf("executions = %d", metrics.Executions)
	}
}

func TestWaitForFinalState(t *testing.T) {
	client, api := newTestRuntime(t)
	api.jobs["job-1"] = &Job{ID: "job-1", State: JobState{Status: JobQueued}}
	api.statusSeq["job-1"] = []JobStatus{JobQueued, JobRunning, JobCompleted}

	job, err := client.Jobs.WaitForFinalState(context.Background(), "job-1", 10*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status() != JobCompleted {
		t.Errorf("final status = %q", job.Status())
	}
}

func TestSessionLifecycle(t *testing.T) {
	client, api := newTestRuntime(t)
	ctx := context.Background()

	id, err := client.Sessions.Create(ctx, &CreateSessionRequest{
		Backend: "ibm_kingston",
		Mode:    SessionDedicated,
		MaxTTL:  28800,
	})
	if err != nil {
		t.Fatal(err)
	}

	sess, err := client.Sessions.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Mode != SessionDedicated || sess.MaxTTL != 28800 || !sess.AcceptsJobs {
		t.Errorf("session = %+v", sess)
	}

	if err := client.Sessions.Close(ctx, id); err != nil {
		t.Fatal(err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.sessions[id].State != "closed" {
		t.Errorf("state after close = %q", api.sessions[id].State)
	}
}

func TestListBackendsAndStatus(t *testing.T) {
	client, _ := newTestRuntime(t)
	ctx := context.Background()

	devices, err := client.Backends.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 || devices[0] != "ibm_kingston" {
		t.Errorf("devices = %v", devices)
	}

	status, err := client.Backends.Status(ctx, "ibm_kingston")
	if err != nil {
		t.Fatal(err)
	}
	if !status.State || status.Status != "active" {
		t.Errorf("status = %+v", status)
	}
}

func TestUsage(t *testing.T) {
	client, _ := newTestRuntime(t)

	usage, err := client.Usage.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		ConsumedSeconds float64 `json:"usage_consumed_seconds"`
	}
	if err := json.Unmarshal(usage, &parsed); err != nil || parsed.ConsumedSeconds != 120 {
		t.Errorf("usage = %s (err %v)", usage, err)
	}
}
