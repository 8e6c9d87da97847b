package qrmi

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTaskStatusString(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{TaskQueued, "queued"},
		{TaskRunning, "running"},
		{TaskCompleted, "completed"},
		{TaskFailed, "failed"},
		{TaskCancelled, "cancelled"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestTaskStatusFinal(t *testing.T) {
	for _, s := range []TaskStatus{TaskCompleted, TaskFailed, TaskCancelled} {
		if !s.Final() {
			t.Errorf("%s.Final() = false", s)
		}
	}
	for _, s := range []TaskStatus{TaskQueued, TaskRunning} {
		if s.Final() {
			t.Errorf("%s.Final() = true", s)
		}
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "qrmi_config.json", `{
	  "resources": [
	    {
	      "name": "backend_a",
	      "type": "direct-access",
	      "environment": {"QRMI_IBM_DA_ENDPOINT": "http://localhost:8290"}
	    },
	    {
	      "name": "fresnel",
	      "type": "pasqal-cloud",
	      "environment": {"QRMI_PASQAL_CLOUD_PROJECT_ID": "proj-1"}
	    }
	  ]
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Names(); !reflect.DeepEqual(got, []string{"backend_a", "fresnel"}) {
		t.Errorf("Names = %v", got)
	}
	def, ok := cfg.Resource("backend_a")
	if !ok {
		t.Fatal("backend_a not found")
	}
	if def.Type != ResourceDirectAccess {
		t.Errorf("type = %q", def.Type)
	}
	if def.Environment["QRMI_IBM_DA_ENDPOINT"] != "http://localhost:8290" {
		t.Errorf("environment = %v", def.Environment)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "qrmi_config.yaml", `
resources:
  - name: backend_a
    type: qiskit-runtime-service
    environment:
      QRMI_IBM_QRS_ENDPOINT: https://example.com
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	def, ok := cfg.Resource("backend_a")
	if !ok || def.Type != ResourceQiskitRuntimeService {
		t.Errorf("def = %+v, ok = %v", def, ok)
	}
}

func TestLoadConfigUnknownType(t *testing.T) {
	path := writeConfig(t, "qrmi_config.json", `{
	  "resources": [{"name": "x", "type": "teleporter", "environment": {}}]
	}`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown resource type must fail")
	}
}

func TestLoadConfigDuplicateName(t *testing.T) {
	path := writeConfig(t, "qrmi_config.json", `{
	  "resources": [
	    {"name": "x", "type": "direct-access", "environment": {}},
	    {"name": "x", "type": "pasqal-cloud", "environment": {}}
	  ]
	}`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("duplicate resource name must fail")
	}
}

func TestPrefixedEnvironment(t *testing.T) {
	def := ResourceDef{
		Name: "backend_a",
		Type: ResourceDirectAccess,
		Environment: map[string]string{
			"QRMI_IBM_DA_ENDPOINT": "http://localhost:8290",
		},
	}
	env := def.PrefixedEnvironment()
	if env["backend_a_QRMI_IBM_DA_ENDPOINT"] != "http://localhost:8290" {
		t.Errorf("env = %v", env)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("backend_a_QRMI_TEST_KEY", "value")

	v, err := Env("backend_a", "QRMI_TEST_KEY")
	if err != nil || v != "value" {
		t.Errorf("Env = %q, %v", v, err)
	}
	if _, err := Env("backend_a", "QRMI_MISSING"); err == nil {
		t.Error("missing variable must fail")
	}
	if got := EnvOr("backend_a", "QRMI_MISSING", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q", got)
	}
}
