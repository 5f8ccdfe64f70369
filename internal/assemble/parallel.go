package assemble

import (
	"runtime"
	"sync"

	"github.com/ged-lab/gimme/internal/splice"
)

// WorkItem holds one locus ready for gene-model construction.
type WorkItem struct {
	Seq   int
	Locus Locus
}

// Model is the enumerated isoforms of one strand of a locus.
type Model struct {
	Strand splice.Strand
	Mode   splice.Mode
	Paths  [][]splice.ExonKey
}

// WorkResult holds the gene models built for a single locus.
type WorkResult struct {
	Seq    int
	Locus  Locus
	Models []Model
	Err    error
}

// ParallelBuild builds gene models for work items using a pool of
// workers. Results are sent to the returned channel in arrival order
// (not sequence order). Use OrderedCollect to consume results in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (s *Session) ParallelBuild(items <-chan WorkItem, singles *SingleExonIndex, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				models, err := s.buildLocus(item.Locus, singles)
				results <- WorkResult{
					Seq:    item.Seq,
					Locus:  item.Locus,
					Models: models,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
