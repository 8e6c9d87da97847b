package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
)

// stubResource is a scriptable quantum resource.
type stubResource struct {
	statuses []qrmi.TaskStatus
	result   string
	started  qrmi.Payload
	stopped  []string
}

func (s *stubResource) IsAccessible(context.Context) (bool, error) { return true, nil }
func (s *stubResource) Acquire(context.Context) (string, error)    { return "token", nil }
func (s *stubResource) Release(context.Context, string) error      { return nil }

func (s *stubResource) TaskStart(_ context.Context, payload qrmi.Payload) (string, error) {
	s.started = payload
	return "task-1", nil
}

func (s *stubResource) TaskStop(_ context.Context, taskID string) error {
	s.stopped = append(s.stopped, taskID)
	return nil
}

func (s *stubResource) TaskStatus(context.Context, string) (qrmi.TaskStatus, error) {
	status := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return status, nil
}

func (s *stubResource) TaskResult(context.Context, string) (qrmi.TaskResult, error) {
	return qrmi.TaskResult{Value: s.result}, nil
}

func (s *stubResource) Target(context.Context) (qrmi.Target, error) {
	return qrmi.Target{Value: "{}"}, nil
}

func (s *stubResource) Metadata() map[string]string { return nil }

func newTestCmd() (*cobra.Command, *strings.Builder, *strings.Builder) {
	var out, errOut strings.Builder
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestRunTaskWritesResult(t *testing.T) {
	res := &stubResource{
		statuses: []qrmi.TaskStatus{qrmi.TaskCompleted},
		result:   `{"results":[]}`,
	}
	cmd, out, _ := newTestCmd()

	err := runTask(context.Background(), cmd, res, qrmi.QiskitPrimitive{Input: "{}", ProgramID: "sampler"})
	if err != nil {
		t.Fatalf("runTask: %v", err)
	}
	if !strings.Contains(out.String(), "Task ID: task-1") {
		t.Errorf("output should announce the task ID, got %q", out.String())
	}
	if !strings.Contains(out.String(), `{"results":[]}`) {
		t.Errorf("output should contain the result, got %q", out.String())
	}
	if len(res.stopped) != 1 {
		t.Errorf("task should be stopped once, got %v", res.stopped)
	}
}

func TestRunTaskWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	outputFile = path
	t.Cleanup(func() { outputFile = "" })

	res := &stubResource{
		statuses: []qrmi.TaskStatus{qrmi.TaskCompleted},
		result:   `{"results":[1]}`,
	}
	cmd, _, _ := newTestCmd()

	if err := runTask(context.Background(), cmd, res, qrmi.QiskitPrimitive{}); err != nil {
		t.Fatalf("runTask: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != `{"results":[1]}` {
		t.Errorf("output file = %q", data)
	}
}

func TestRunTaskFailedTask(t *testing.T) {
	res := &stubResource{statuses: []qrmi.TaskStatus{qrmi.TaskFailed}}
	cmd, out, errOut := newTestCmd()

	if err := runTask(context.Background(), cmd, res, qrmi.QiskitPrimitive{}); err != nil {
		t.Fatalf("runTask: %v", err)
	}
	if !strings.Contains(errOut.String(), "failed") {
		t.Errorf("stderr should report the final status, got %q", errOut.String())
	}
	if strings.Contains(out.String(), "results") {
		t.Errorf("no result should be written, got %q", out.String())
	}
	if len(res.stopped) != 1 {
		t.Errorf("task should still be stopped, got %v", res.stopped)
	}
}

func TestRunTaskCancelledContext(t *testing.T) {
	res := &stubResource{statuses: []qrmi.TaskStatus{qrmi.TaskRunning}}
	cmd, _, _ := newTestCmd()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runTask(ctx, cmd, res, qrmi.QiskitPrimitive{}); err != nil {
		t.Fatalf("runTask: %v", err)
	}
	if len(res.stopped) != 1 {
		t.Errorf("cancelled run should stop the task, got %v", res.stopped)
	}
}

func TestFindQPUType(t *testing.T) {
	names := []string{"backend_a", "FRESNEL"}
	types := []string{"direct-access", "pasqal-cloud"}

	typ, ok := findQPUType(names, types, "FRESNEL")
	if !ok || typ != qrmi.ResourcePasqalCloud {
		t.Errorf("findQPUType = %q, %v", typ, ok)
	}
	if _, ok := findQPUType(names, types, "missing"); ok {
		t.Error("expected lookup miss")
	}
	if _, ok := findQPUType(names, types[:1], "FRESNEL"); ok {
		t.Error("expected miss when types list is short")
	}
}

func TestResolveQPUType(t *testing.T) {
	t.Setenv("SLURM_JOB_QPU_RESOURCES", "backend_a,backend_b")
	t.Setenv("SLURM_JOB_QPU_TYPES", "direct-access,qiskit-runtime-service")

	typ, err := resolveQPUType("backend_b")
	if err != nil {
		t.Fatalf("resolveQPUType: %v", err)
	}
	if typ != qrmi.ResourceQiskitRuntimeService {
		t.Errorf("type = %q", typ)
	}

	if _, err := resolveQPUType("backend_c"); err == nil {
		t.Error("expected error for an unlisted QPU")
	}

	t.Setenv("SLURM_JOB_QPU_TYPES", "direct-access,warp-drive")
	if _, err := resolveQPUType("backend_b"); err == nil {
		t.Error("expected error for an unsupported type")
	}
}

func TestResolveQPUTypeMissingEnv(t *testing.T) {
	t.Setenv("SLURM_JOB_QPU_RESOURCES", "")
	if _, err := resolveQPUType("backend_a"); err == nil {
		t.Error("expected error when SLURM_JOB_QPU_RESOURCES is unset")
	}
}

func TestBuildPayload(t *testing.T) {
	p, err := buildPayload(qrmi.ResourceDirectAccess, "{}", "sampler", 0)
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	if qp, ok := p.(qrmi.QiskitPrimitive); !ok || qp.ProgramID != "sampler" {
		t.Errorf("payload = %#v", p)
	}

	if _, err := buildPayload(qrmi.ResourceQiskitRuntimeService, "{}", "", 0); err == nil {
		t.Error("expected error without --program-id")
	}

	p, err = buildPayload(qrmi.ResourcePasqalCloud, "{}", "", 100)
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	if pc, ok := p.(qrmi.PasqalCloud); !ok || pc.JobRuns != 100 {
		t.Errorf("payload = %#v", p)
	}

	if _, err := buildPayload(qrmi.ResourcePasqalCloud, "{}", "", 0); err == nil {
		t.Error("expected error without --job-runs")
	}
}

func TestCheckOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := checkOutputFile(path); err != nil {
		t.Errorf("checkOutputFile: %v", err)
	}
	if err := checkOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "out.json")); err == nil {
		t.Error("expected error for an uncreatable path")
	}
}

func TestSrunLogLevel(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want slog.Level
	}{
		{"2", slog.LevelError},
		{"3", slog.LevelInfo},
		{"4", slog.LevelDebug},
		{"7", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"abc", slog.LevelInfo},
	} {
		if got := srunLogLevel(tt.in); got != tt.want {
			t.Errorf("srunLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
