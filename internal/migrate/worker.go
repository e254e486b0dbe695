package migrate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/likeshift/internal/services"
	"github.com/desertthunder/likeshift/internal/shared"
)

// WorkItem is one track to migrate: a stable 1-based index into the source
// list plus the search query derived from it.
type WorkItem struct {
	Index int
	Total int
	Query string
}

// workerResult pairs an item with either its terminal outcome or an
// unexpected error. Items that errored are left out of the ledger so a later
// run retries them.
type workerResult struct {
	item    WorkItem
	outcome Outcome
	err     error
}

// runWorker drains the jobs channel until it closes. Panics from a single
// item are recovered so one bad item cannot take down the pool.
func (e *Engine) runWorker(ctx context.Context, wg *sync.WaitGroup, playlistID string, jobs <-chan WorkItem, results chan<- workerResult) {
	defer wg.Done()

	for item := range jobs {
		result := workerResult{item: item}
		func() {
			defer func() {
				if r := recover(); r != nil {
					result.err = fmt.Errorf("worker panic: %v", r)
				}
			}()
			result.outcome, result.err = e.processItem(ctx, playlistID, item)
		}()
		results <- result
	}
}

// processItem runs the search-match-insert pipeline for one item.
//
// Classified request failures map to a terminal status; anything else (decode
// errors, cancellation, bugs) is returned as an error and the item stays
// unprocessed. Quota exhaustion trips the shared breaker: the request client
// only reports exhaustion, deciding what it means for the run happens here.
func (e *Engine) processItem(ctx context.Context, playlistID string, item WorkItem) (Outcome, error) {
	logger := e.logger.With("index", item.Index, "total", item.Total)

	if e.breaker.Tripped() {
		logger.Debug("quota exhausted, skipping", "query", item.Query)
		return Outcome{Index: item.Index, Query: item.Query, Status: StatusQuotaExceeded}, nil
	}

	logger.Info("searching", "query", item.Query)
	results, err := e.dest.Search(ctx, item.Query, e.opts.MaxResults)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrQuotaExceeded):
			e.breaker.Trip()
			logger.Error("quota exhausted, halting new requests", "query", item.Query)
			return Outcome{Index: item.Index, Query: item.Query, Status: StatusQuotaExceeded}, nil
		case errors.Is(err, shared.ErrRequestFailed), errors.Is(err, shared.ErrTokenExpired):
			logger.Warn("search failed", "query", item.Query, "error", err)
			return Outcome{Index: item.Index, Query: item.Query, Status: StatusNotFound}, nil
		default:
			return Outcome{}, fmt.Errorf("search for %q: %w", item.Query, err)
		}
	}

	match, ok := e.policy.BestMatch(results)
	if !ok {
		logger.Warn("no results", "query", item.Query)
		return Outcome{Index: item.Index, Query: item.Query, Status: StatusNotFound}, nil
	}

	// A sibling worker may have exhausted the quota while the search ran.
	if e.breaker.Tripped() {
		return Outcome{Index: item.Index, Query: item.Query, Status: StatusQuotaExceeded}, nil
	}

	if err := e.dest.InsertPlaylistItem(ctx, playlistID, match.VideoID); err != nil {
		switch {
		case errors.Is(err, shared.ErrQuotaExceeded):
			e.breaker.Trip()
			logger.Error("quota exhausted, halting new requests", "query", item.Query)
			return Outcome{Index: item.Index, Query: item.Query, Status: StatusQuotaExceeded, VideoID: match.VideoID}, nil
		case errors.Is(err, shared.ErrRequestFailed), errors.Is(err, shared.ErrTokenExpired):
			logger.Warn("failed to add", "query", item.Query, "video_id", match.VideoID, "error", err)
			return Outcome{Index: item.Index, Query: item.Query, Status: StatusFailedToAdd, VideoID: match.VideoID}, nil
		default:
			return Outcome{}, fmt.Errorf("insert for %q: %w", item.Query, err)
		}
	}

	logger.Info("added", "query", item.Query, "video_id", match.VideoID)
	return Outcome{Index: item.Index, Query: item.Query, Status: StatusAdded, VideoID: match.VideoID}, nil
}

// Destination is the remote surface a run writes to.
//
// Implementations must return [shared.ErrQuotaExceeded] for confirmed quota
// exhaustion and [shared.ErrRequestFailed] for other remote failures; the
// engine's terminal-status mapping depends on that classification.
type Destination interface {
	Search(ctx context.Context, query string, maxResults int) ([]services.SearchResult, error)
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error
}
