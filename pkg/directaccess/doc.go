// Package directaccess provides a Go client for the IBM Direct Access API,
// which runs Qiskit Runtime primitives directly on a quantum backend.
//
// # Quick start
//
//	client := directaccess.NewClient("https://direct-access.example.com",
//	    directaccess.WithIAM(apiKey, serviceCRN, iam.DefaultEndpoint),
//	)
//
//	backends, err := client.Backends.List(ctx)
//
// # Running a primitive
//
// The Direct Access API exchanges job input and output through an
// S3-compatible bucket using presigned URLs. Configure the bucket with
// WithObjectStore, then use RunPrimitive, which uploads the input,
// presigns the input/results/logs URLs and submits the job:
//
//	store := objectstore.New(s3Endpoint, accessKey, secretKey, region, bucket)
//	client := directaccess.NewClient(baseURL,
//	    directaccess.WithIAM(apiKey, serviceCRN, iam.DefaultEndpoint),
//	    directaccess.WithObjectStore(store),
//	)
//
//	job, err := client.RunPrimitive(ctx, "ibm_kingston", directaccess.ProgramSampler,
//	    3600, directaccess.LogLevelInfo, payload)
//	if err != nil {
//	    // ...
//	}
//	status, err := job.Wait(ctx)
//	var result map[string]any
//	err = job.Result(ctx, &result)
//
// Jobs have no per-job GET endpoint; Jobs.Get scans the job list. Job IDs
// are generated client-side (UUID v4) and returned by Jobs.Run.
package directaccess
