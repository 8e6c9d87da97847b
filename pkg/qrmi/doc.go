// Package qrmi defines the Quantum Resource Management Interface: a
// uniform contract for acquiring quantum computing resources and
// running tasks on them, independent of the provider behind it.
//
// A [QuantumResource] wraps one provider-specific API (IBM Direct
// Access, IBM Qiskit Runtime Service, Pasqal Cloud) behind the same
// lifecycle: check accessibility, acquire the resource, start tasks,
// poll their status, collect results, release the resource.
//
// Resource definitions are read from a configuration file
// (qrmi_config.json or YAML) naming each resource, its type and the
// environment variables its implementation needs:
//
//	{
//	  "resources": [
//	    {
//	      "name": "ibm_kingston",
//	      "type": "direct-access",
//	      "environment": {
//	        "QRMI_IBM_DA_ENDPOINT": "http://localhost:8290"
//	      }
//	    }
//	  ]
//	}
//
// Implementations live in the subpackages ibm and pasqal; the
// resources subpackage constructs them by type.
package qrmi
