package protoclust

import "sync"

// splitRows calls work(start, end) for contiguous ranges covering [0, n),
// one goroutine per range, and returns once every range is done. With
// numWorkers <= 1 it runs work(0, n) on the calling goroutine.
func splitRows(n, numWorkers int, work func(start, end int)) {
	if numWorkers <= 1 || n <= 1 {
		work(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			work(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}

// ComputePairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// numWorkers controls the degree of parallelism; if <= 1, it falls back to
// single-threaded ComputePairwiseDistances.
//
// The result is bitwise identical to ComputePairwiseDistances: a flat []float64
// of length n×n in row-major order.
func ComputePairwiseDistancesParallel(data []float64, n, dims int, metric DistanceMetric, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return ComputePairwiseDistances(data, n, dims, metric)
	}

	result := make([]float64, n*n)

	// Each worker handles a contiguous range of "source" rows and computes
	// dist(i,j) for all j > i. Cell (i,j) and (j,i) are only ever written by
	// the worker owning row i, so no synchronization is needed for writes.
	splitRows(n, numWorkers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
				result[i*n+j] = d
				result[j*n+i] = d
			}
		}
	})

	return result
}

// MinimaxRow computes the minimax radius between merged and each of others,
// splitting others across numWorkers goroutines. row[k] belongs to
// others[k]; every worker writes a disjoint range of row.
func MinimaxRow(d PointDistances, merged []int, others [][]int, numWorkers int) []float64 {
	row := make([]float64, len(others))
	splitRows(len(others), numWorkers, func(start, end int) {
		for k := start; k < end; k++ {
			row[k], _ = Minimax(d, merged, others[k])
		}
	})
	return row
}
