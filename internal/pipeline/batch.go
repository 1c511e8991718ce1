package pipeline

// EffectiveWorkers caps the requested worker count at the number of
// jobs: never more workers than jobs, never zero for non-empty input.
func EffectiveWorkers(requested, jobs int) int {
	if jobs <= 0 {
		return 0
	}
	if requested < 1 {
		requested = 1
	}
	if requested > jobs {
		return jobs
	}
	return requested
}

// SplitBatches partitions ids into contiguous batches of
// ceil(len(ids)/workers) elements, last batch possibly shorter. Every id
// lands in exactly one batch and concatenating the batches reproduces
// the input order.
func SplitBatches(ids []string, workers int) [][]string {
	if len(ids) == 0 {
		return nil
	}

	workers = EffectiveWorkers(workers, len(ids))

	//ceiling division so all jobs are covered
	batchSize := (len(ids) + workers - 1) / workers

	var batches [][]string
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[i:end])
	}
	return batches
}
