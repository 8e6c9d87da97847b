// Package ibm implements the IBM Quantum resources.
//
// [DirectAccess] runs primitives through the Direct Access API with
// job payloads and results staged in an S3-compatible bucket.
// [QiskitRuntimeService] runs primitives through the Qiskit Runtime
// REST API, with sessions backing Acquire and Release.
//
// Both resources bind their endpoints and credentials at construction
// from environment variables prefixed with the resource name, which
// doubles as the backend name:
//
//	res, err := ibm.NewDirectAccess("ibm_strasbourg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	taskID, err := res.TaskStart(ctx, qrmi.QiskitPrimitive{
//		Input:     input,
//		ProgramID: "sampler",
//	})
package ibm
