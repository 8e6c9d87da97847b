// Package qiskitruntime provides a Go client for the IBM Qiskit Runtime
// REST API.
//
// # Quick start
//
//	client := qiskitruntime.NewClient("https://quantum.cloud.ibm.com/api",
//	    qiskitruntime.WithIAM(apiKey, serviceCRN, iam.DefaultEndpoint),
//	)
//
//	id, err := client.Jobs.Create(ctx, &qiskitruntime.CreateJobRequest{
//	    ProgramID: "sampler",
//	    Backend:   "ibm_kingston",
//	    Params:    params,
//	})
//	if err != nil {
//	    // ...
//	}
//	job, err := client.Jobs.WaitForFinalState(ctx, id, 0)
//
// Every request carries the IBM-API-Version header; override the
// pinned version with WithAPIVersion.
package qiskitruntime
