// Package pasqalcloud provides a Go client for Pasqal Cloud Services.
//
// Authentication uses a bearer token together with a project ID; every
// created batch is billed to that project.
//
//	client := pasqalcloud.NewClient(token, projectID)
//
//	batch, err := client.Batches.Create(ctx, &pasqalcloud.CreateBatchRequest{
//	    SerializedSequence: sequence,
//	    DeviceType:         pasqalcloud.DeviceFresnel,
//	    Jobs:               []pasqalcloud.JobSpec{{Runs: 100}},
//	})
//
// A batch is a set of jobs sharing one pulse sequence; each job sets
// its own variables and run count. Batches move through the states
// PENDING, RUNNING and PAUSED into one of the final states DONE,
// CANCELED, TIMED_OUT or ERROR.
package pasqalcloud
