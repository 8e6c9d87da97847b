package pasqalcloud

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

// fakeCloud is a minimal in-memory Pasqal Cloud service.
type fakeCloud struct {
	mu        sync.Mutex
	batches   map[string]*Batch
	statusSeq map[string][]BatchStatus
	lastAuth  string
	lastBody  CreateBatchRequest
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		batches:   make(map[string]*Batch),
		statusSeq: make(map[string][]BatchStatus),
	}
}

func (f *fakeCloud) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /account/api/v1/auth/info", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.mu.Unlock()
		fmt.Fprint(w, `{"email":"user@example.com","organization":"org-1"}`)
	})
	mux.HandleFunc("GET /core-fast/api/v1/devices/specs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"FRESNEL":{"max_atom_num":100},"EMU_FREE":{"max_atom_num":25}}}`)
	})
	mux.HandleFunc("POST /core-fast/api/v1/batches", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&f.lastBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		batch := &Batch{
			ID:         uuid.NewString(),
			Status:     BatchPending,
			DeviceType: f.lastBody.DeviceType,
			ProjectID:  f.lastBody.ProjectID,
		}
		for _, spec := range f.lastBody.Jobs {
			batch.Jobs = append(batch.Jobs, BatchJob{
				ID:     uuid.NewString(),
				Status: BatchPending,
				Runs:   spec.Runs,
			})
		}
		f.batches[batch.ID] = batch
		json.NewEncoder(w).Encode(batchEnvelope{Data: *batch})
	})
	mux.HandleFunc("GET /core-fast/api/v1/batches/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		batch, ok := f.batches[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code":404,"message":"batch not found","status":"fail"}`)
			return
		}
		b := *batch
		if seq := f.statusSeq[b.ID]; len(seq) > 0 {
			b.Status = seq[0]
			if len(seq) > 1 {
				f.statusSeq[b.ID] = seq[1:]
			}
		}
		json.NewEncoder(w).Encode(batchEnvelope{Data: b})
	})
	mux.HandleFunc("PUT /core-fast/api/v1/batches/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		batch, ok := f.batches[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"code":404,"message":"batch not found","status":"fail"}`)
			return
		}
		batch.Status = BatchCanceled
		delete(f.statusSeq, batch.ID)
		json.NewEncoder(w).Encode(batchEnvelope{Data: *batch})
	})
	return mux
}

func newTestCloud(t *testing.T) (*Client, *fakeCloud) {
	t.Helper()
	api := newFakeCloud()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	client := NewClient("tok-1", "proj-1", WithBaseURL(srv.URL), WithRetry(0))
	return client, api
}

func TestAuthInfo(t *testing.T) {
	client, api := newTestCloud(t)

	info, err := client.AuthInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(info, &parsed); err != nil || parsed.Email != "user@example.com" {
		t.Errorf("auth info = %s (err %v)", info, err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.lastAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", api.lastAuth)
	}
}

func TestDeviceSpecs(t *testing.T) {
	client, _ := newTestCloud(t)

	specs, err := client.DeviceSpecs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := specs["FRESNEL"]; !ok {
		t.Errorf("specs = %v", specs)
	}
}

func TestCreateBatchFillsProjectID(t *testing.T) {
	client, api := newTestCloud(t)

	batch, err := client.Batches.Create(context.Background(), &CreateBatchRequest{
		SerializedSequence: `{"sequence":"..."}`,
		DeviceType:         DeviceEmuFree,
		Jobs:               []JobSpec{{Runs: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if batch.Status != BatchPending {
		t.Errorf("status = %q", batch.Status)
	}
	if len(batch.Jobs) != 1 || batch.Jobs[0].Runs != 100 {
		t.Errorf("jobs = %+v", batch.Jobs)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.lastBody.ProjectID != "proj-1" {
		t.Errorf("project_id = %q, want proj-1", api.lastBody.ProjectID)
	}
}

func TestCancelBatch(t *testing.T) {
	client, api := newTestCloud(t)
	api.batches["b-1"] = &Batch{ID: "b-1", Status: BatchRunning}

	batch, err := client.Batches.Cancel(context.Background(), "b-1")
	if err != nil {
		t.Fatal(err)
	}
	if batch.Status != BatchCanceled {
		t.Errorf("status = %q", batch.Status)
	}
}

func TestBatchNotFound(t *testing.T) {
	client, _ := newTestCloud(t)

	_, err := client.Batches.Get(context.Background(), "missing")
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Code != 404 || apiErr.Retryable() {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestBatchResults(t *testing.T) {
	client, api := newTestCloud(t)
	api.batches["b-1"] = &Batch{
		ID:     "b-1",
		Status: BatchDone,
		Jobs: []BatchJob{
			{ID: "j-1", Status: BatchDone, Result: json.RawMessage(`{"counts":{"00":51,"11":49}}`)},
			{ID: "j-2", Status: BatchRunning},
		},
	}

	results, err := client.Batches.Results(context.Background(), "b-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if _, ok := results["j-1"]; !ok {
		t.Errorf("results = %v", results)
	}
}

func TestWaitForFinalState(t *testing.T) {
	client, api := newTestCloud(t)
	api.batches["b-1"] = &Batch{ID: "b-1", Status: BatchPending}
	api.statusSeq["b-1"] = []BatchStatus{BatchPending, BatchRunning, BatchDone}

	batch, err := client.Batches.WaitForFinalState(context.Background(), "b-1", 10*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if batch.Status != BatchDone {
		t.Errorf("final status = %q", batch.Status)
	}
}
