package pipeline

import (
	"context"
	"sync"

	"ksites-core/design"
)

// Config controls the batch pipeline.
type Config struct {
	Workers  int // number of worker goroutines (>=1)
	Organism string
	Options  design.Options
}

// Item is one finished gene.
type Item struct {
	Index  int
	Gene   string
	Result design.Result
}

// ForEachGene designs every gene and calls visit once per gene, in the
// order of genes. Fallback results are delivered like any other result.
// It returns the first error encountered (a design error, a visit error or
// context cancellation); remaining work is abandoned.
func ForEachGene(
	ctx context.Context,
	cfg Config,
	genes []string,
	d Designer,
	visit func(Item) error,
) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		idx  int
		gene string
	}
	type outcome struct {
		item Item
		err  error
	}
	jobs := make(chan job, cfg.Workers*2)
	results := make(chan outcome, cfg.Workers*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					res, err := d.Design(ctx, j.gene, cfg.Organism, cfg.Options)
					select {
					case results <- outcome{item: Item{Index: j.idx, Gene: j.gene, Result: res}, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: reorders completions and stops at the first error.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]Item)
		next := 0
		for o := range results {
			if cerr != nil {
				continue
			}
			if o.err != nil {
				cerr = o.err
				cancel()
				continue
			}
			pending[o.item.Index] = o.item
			for {
				it, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(it); err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
feed:
	for i, g := range genes {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, gene: g}:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return ctx.Err()
}
