package migrate

import "sync/atomic"

// QuotaBreaker is a process-wide latch halting new remote calls after
// confirmed quota exhaustion.
//
// The latch is monotonic within a run: once tripped it stays tripped, and a
// fresh run starts with a new, clear breaker. Remote quota exhaustion does not
// reset within a short window, so after one confirmed exhaustion further calls
// would only repeat the full retry ladder for nothing.
type QuotaBreaker struct {
	tripped atomic.Bool
}

// NewQuotaBreaker creates a clear breaker.
func NewQuotaBreaker() *QuotaBreaker {
	return &QuotaBreaker{}
}

// Trip sets the latch. Idempotent and safe for concurrent use.
func (b *QuotaBreaker) Trip() {
	b.tripped.Store(true)
}

// Tripped reports whether the latch has been set.
func (b *QuotaBreaker) Tripped() bool {
	return b.tripped.Load()
}
