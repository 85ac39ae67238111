// Package worker provides parallel batch inspection of VINs.
//
// BatchValidator inspects a known list and returns results in input order:
//
//	v, _ := vinvalidator.New()
//	bv := worker.NewBatchValidator(v.InspectContext, v.WorkerCount())
//	batch := bv.ValidateBatch(ctx, vins)
//	defer batch.Release()
//
// Stream feeds a Pool from an iterator and returns results ordered by line,
// so input is inspected while it is still being read:
//
//	batch, err := worker.Stream(ctx, v, 4, jobs)
//
// Pool accepts jobs as they arrive:
//
//	pool := worker.NewPool(v, 4)
//
//	for _, s := range vins {
//	    pool.Submit(worker.Job{VIN: s})
//	}
//
//	batch := pool.CloseAndWait()
//	for _, r := range batch.Results {
//	    if !r.Valid() {
//	        // Handle invalid VIN
//	    }
//	}
package worker
