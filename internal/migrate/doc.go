// Package migrate implements the resumable track migration pipeline.
//
// A run takes the full ordered list of source tracks, skips the indices a
// prior run already settled (the [Ledger]), and pushes the rest through a
// bounded worker pool. Each worker searches the destination, picks a match
// via a [MatchPolicy], and inserts it into the target playlist. Confirmed
// quota exhaustion trips a process-wide [QuotaBreaker] that stops all further
// remote calls; everything already settled is persisted, so the next run
// picks up exactly where this one stopped.
package migrate
