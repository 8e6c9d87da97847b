package qrmi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// ResourceType identifies the provider implementation behind a
// resource definition.
type ResourceType string

const (
	// ResourceDirectAccess is the IBM Direct Access API.
	ResourceDirectAccess ResourceType = "direct-access"

	// ResourceQiskitRuntimeService is the IBM Qiskit Runtime Service.
	ResourceQiskitRuntimeService ResourceType = "qiskit-runtime-service"

	// ResourcePasqalCloud is Pasqal Cloud Services.
	ResourcePasqalCloud ResourceType = "pasqal-cloud"
)

// Valid reports whether the resource type is known.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceDirectAccess, ResourceQiskitRuntimeService, ResourcePasqalCloud:
		return true
	}
	return false
}

// ResourceDef is one resource definition of the configuration file.
type ResourceDef struct {
	// Name is the resource name, typically the backend name.
	Name string `json:"name" yaml:"name"`

	// Type selects the provider implementation.
	Type ResourceType `json:"type" yaml:"type"`

	// Environment holds the environment variables the implementation
	// needs, unprefixed.
	Environment map[string]string `json:"environment" yaml:"environment"`
}

// PrefixedEnvironment returns the definition's environment variables
// prefixed with the resource name, the form the implementations read:
// {name}_{KEY}.
func (d *ResourceDef) PrefixedEnvironment() map[string]string {
	env := make(map[string]string, len(d.Environment))
	for k, v := range d.Environment {
		env[d.Name+"_"+k] = v
	}
	return env
}

// Config is a parsed resource configuration file.
type Config struct {
	resources map[string]ResourceDef
}

// LoadConfig reads and validates a resource configuration file. Files
// ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("qrmi: read config: %w", err)
	}

	var defs struct {
		Resources []ResourceDef `json:"resources" yaml:"resources"`
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &defs)
	default:
		err = json.Unmarshal(data, &defs)
	}
	if err != nil {
		return nil, fmt.Errorf("qrmi: parse %s: %w", filename, err)
	}

	cfg := &Config{resources: make(map[string]ResourceDef, len(defs.Resources))}
	for _, def := range defs.Resources {
		if def.Name == "" {
			return nil, fmt.Errorf("qrmi: %s: resource with empty name", filename)
		}
		if !def.Type.Valid() {
			return nil, fmt.Errorf("qrmi: %s: resource %s has unknown type %q", filename, def.Name, def.Type)
		}
		if _, ok := cfg.resources[def.Name]; ok {
			return nil, fmt.Errorf("qrmi: %s: duplicate resource %s", filename, def.Name)
		}
		cfg.resources[def.Name] = def
	}
	return cfg, nil
}

// Resource returns the definition of a named resource.
func (c *Config) Resource(name string) (ResourceDef, bool) {
	def, ok := c.resources[name]
	return def, ok
}

// Names returns the names of all defined resources, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
