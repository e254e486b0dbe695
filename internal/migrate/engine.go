package migrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	defaultConcurrency = 10
	defaultMaxResults  = 5
)

// Options tunes a migration run.
type Options struct {
	// Concurrency is the worker pool size. Defaults to 10.
	Concurrency int
	// MaxResults caps each search. Defaults to 5.
	MaxResults int
	// Policy selects a match from search results. Defaults to [PreferStudioPolicy].
	Policy MatchPolicy
}

// Engine coordinates a resumable migration run: it filters already-processed
// items through the ledger, fans the rest out to a bounded worker pool, and
// persists every outcome in a single atomic ledger save at the end.
type Engine struct {
	dest    Destination
	ledger  *Ledger
	breaker *QuotaBreaker
	policy  MatchPolicy
	logger  *log.Logger
	opts    Options
}

// NewEngine creates an engine with a fresh, clear quota breaker.
func NewEngine(dest Destination, ledger *Ledger, logger *log.Logger, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	policy := opts.Policy
	if policy == nil {
		policy = PreferStudioPolicy{}
	}

	return &Engine{
		dest:    dest,
		ledger:  ledger,
		breaker: NewQuotaBreaker(),
		policy:  policy,
		logger:  logger,
		opts:    opts,
	}
}

// RunResult summarizes a completed run.
type RunResult struct {
	Total      int
	Skipped    int
	Dispatched int

	Added         int
	NotFound      int
	FailedToAdd   int
	QuotaExceeded int

	// Unrecorded counts items that hit an unexpected worker error. They have
	// no ledger entry and will be retried on the next run.
	Unrecorded int

	QuotaTripped bool
	LedgerSaved  bool
}

// Summary renders a one-line human-readable account of the run.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"%d total, %d skipped, %d added, %d not found, %d failed to add, %d quota exceeded",
		r.Total, r.Skipped, r.Added, r.NotFound, r.FailedToAdd, r.QuotaExceeded,
	)
}

// Run migrates queries into the destination playlist.
//
// Queries are indexed 1..len(queries); indices already recorded in the ledger
// are skipped without any remote call. The remaining items are dispatched to
// a fixed pool of workers. Once the quota breaker trips no further items are
// enqueued; items never dispatched stay out of the ledger and are retried on
// the next run. Context cancellation stops dispatch the same way and lets
// in-flight items drain.
//
// Run returns an error only when it could not even start; per-item failures
// are reported through the result counts.
func (e *Engine) Run(ctx context.Context, queries []string, playlistID string, progress chan<- ProgressUpdate) (*RunResult, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("playlist id is required")
	}

	total := len(queries)
	result := &RunResult{Total: total}

	items := make([]WorkItem, 0, total)
	for i, query := range queries {
		index := i + 1
		if e.ledger.Processed(index) {
			result.Skipped++
			continue
		}
		items = append(items, WorkItem{Index: index, Total: total, Query: query})
	}

	e.logger.Info("starting run", "total", total, "pending", len(items), "skipped", result.Skipped, "concurrency", e.opts.Concurrency)
	sendProgress(progress, startUpdate(len(items), total))

	if len(items) == 0 {
		e.logger.Info("nothing to do, all items already processed")
		sendProgress(progress, doneUpdate(result))
		return result, nil
	}

	workers := e.opts.Concurrency
	if workers > len(items) {
		workers = len(items)
	}

	// jobs is unbuffered so the feeder's breaker check gates every handoff.
	jobs := make(chan WorkItem)
	results := make(chan workerResult, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.runWorker(ctx, &wg, playlistID, jobs, results)
	}

	dispatched := 0
	go func() {
		defer close(jobs)
		for _, item := range items {
			if e.breaker.Tripped() {
				e.logger.Warn("quota exhausted, halting dispatch", "remaining", len(items)-dispatched)
				return
			}
			select {
			case <-ctx.Done():
				e.logger.Warn("run cancelled, halting dispatch", "remaining", len(items)-dispatched)
				return
			case jobs <- item:
				dispatched++
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for res := range results {
		if res.err != nil {
			e.logger.Error("item left unprocessed", "index", res.item.Index, "query", res.item.Query, "error", res.err)
			result.Unrecorded++
			continue
		}

		e.ledger.Record(res.outcome)
		done++
		switch res.outcome.Status {
		case StatusAdded:
			result.Added++
		case StatusNotFound:
			result.NotFound++
		case StatusFailedToAdd:
			result.FailedToAdd++
		case StatusQuotaExceeded:
			result.QuotaExceeded++
		}
		sendProgress(progress, itemUpdate(res.outcome, done, total))
	}

	// Workers are drained, so the feeder has exited and dispatched is stable.
	result.Dispatched = dispatched
	result.QuotaTripped = e.breaker.Tripped()

	if done > 0 {
		sendProgress(progress, saveUpdate(e.ledger.Len()))
		if err := e.ledger.Save(); err != nil {
			e.logger.Error("failed to save progress ledger, this run will be repeated", "path", e.ledger.Path(), "error", err)
		} else {
			result.LedgerSaved = true
			e.logger.Info("saved progress ledger", "path", e.ledger.Path(), "processed", e.ledger.Len())
		}
	}

	if result.QuotaTripped {
		e.logger.Warn("run stopped early, API quota exhausted; re-run later to resume")
	}

	sendProgress(progress, doneUpdate(result))
	return result, nil
}
