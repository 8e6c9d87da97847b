// Package resources constructs quantum resources from their type
// names. It sits above the provider packages so that callers holding a
// [qrmi.ResourceDef] from a config file can instantiate the matching
// implementation without depending on each provider.
package resources

import (
	"fmt"

	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi/ibm"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi/pasqal"
)

// New constructs the resource implementation for typ, bound to the
// resource named name. Endpoints and credentials are read from the
// resource-scoped environment by the provider constructor.
func New(name string, typ qrmi.ResourceType) (qrmi.QuantumResource, error) {
	switch typ {
	case qrmi.ResourceDirectAccess:
		return ibm.NewDirectAccess(name)
	case qrmi.ResourceQiskitRuntimeService:
		return ibm.NewQiskitRuntimeService(name)
	case qrmi.ResourcePasqalCloud:
		return pasqal.NewCloud(name)
	}
	return nil, fmt.Errorf("qrmi: unknown resource type %q", typ)
}

// NewFromDef constructs the resource implementation for a config file
// resource definition.
func NewFromDef(def qrmi.ResourceDef) (qrmi.QuantumResource, error) {
	return New(def.Name, def.Type)
}
