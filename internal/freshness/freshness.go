// Package freshness decides whether a registered entry can be reused
// as-is, needs re-materialization, or represents a fatal contract
// violation between the job's expected timestamp and the remote
// filesystem's current timestamp.
package freshness

import "errors"

// ErrStale is the error Check returns when the remote
// artifact's modification time no longer matches the timestamp the job
// recorded at submission time. This is fatal to the job: callers must
// not proceed to re-materialize or reuse the entry.
var ErrStale = errors.New("freshness: remote artifact timestamp does not match the job's expected timestamp")

// Outcome is the verdict Check reaches for an entry.
type Outcome int

const (
	// NeedsMaterialize means the entry is absent or out of date with
	// respect to the remote filesystem and must be (re-)localized.
	NeedsMaterialize Outcome = iota
	// Fresh means the entry's on-disk contents already reflect
	// expectedStamp and can be reused without touching disk.
	Fresh
)

// Check decides reuse/refresh/fatal-stale from three timestamps.
// dfsStamp must already have been resolved by the caller; the
// localizer's Acquire gets it from a remote stat call made under the
// entry lock on every acquire, and does not accept a pre-fetched stat.
// That I/O is a remotefs concern, not this package's.
//
// Check itself never performs I/O and never blocks: it is a pure
// decision given the three timestamps involved.
//
// dfsStamp != expectedStamp is fatal and is reported by returning
// ErrStale rather than folded into Outcome, because the distinction
// between "stale relative to the job" and "stale relative to the local
// cache" is the central correctness contract this oracle exists to
// enforce.
func Check(materialized bool, entryMtime, expectedStamp, dfsStamp int64) (Outcome, error) {
	if !materialized {
		return NeedsMaterialize, nil
	}
	if dfsStamp != expectedStamp {
		return NeedsMaterialize, ErrStale
	}
	if dfsStamp != entryMtime {
		return NeedsMaterialize, nil
	}
	return Fresh, nil
}
