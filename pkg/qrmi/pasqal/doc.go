// Package pasqal implements the Pasqal Cloud resource.
//
// [Cloud] submits serialized Pulser sequences as batches to the Pasqal
// Cloud. The resource name is the device type (FRESNEL, EMU_FREE,
// EMU_TN or EMU_MPS) and doubles as the environment variable prefix:
//
//	res, err := pasqal.NewCloud("FRESNEL")
//	if err != nil {
//		log.Fatal(err)
//	}
//	taskID, err := res.TaskStart(ctx, qrmi.PasqalCloud{
//		Sequence: sequence,
//		JobRuns:  100,
//	})
package pasqal
