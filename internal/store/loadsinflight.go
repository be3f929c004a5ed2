package store

// LoadKind enumerates the closed set of "refreshable" load kinds tracked by
// RepoLoadsInFlight.
type LoadKind int

const (
	LoadHeadBranch LoadKind = iota
	LoadUpstreamDivergence
	LoadBranches
	LoadTags
	LoadRemotes
	LoadRemoteBranches
	LoadStatus
	LoadStashes
	LoadReflog
	LoadRebaseState
	LoadMergeCommitMessage
	LoadWorktrees
	LoadSubmodules
	loadKindCount
)

// LogPending is the richer pending slot Log pagination needs: a refresh
// (Cursor == nil) must never coalesce with a pagination (Cursor != nil).
type LogPending struct {
	Scope  HistoryScope
	Limit  int
	Cursor *string
}

// RepoLoadsInFlight is a fixed-width in-flight/pending bitset over LoadKind,
// plus Log's own richer pending slot.
type RepoLoadsInFlight struct {
	inFlight [loadKindCount]bool
	pending  [loadKindCount]bool

	logInFlight             bool
	logInFlightIsPagination bool
	logPending              *LogPending
}

// Request marks kind as wanted. If it is not already in flight, it becomes
// in-flight and Request returns true (the caller must issue the effect). If
// it is already in flight, the request coalesces into the pending bit and
// Request returns false.
func (b *RepoLoadsInFlight) Request(kind LoadKind) bool {
	if !b.inFlight[kind] {
		b.inFlight[kind] = true
		return true
	}
	b.pending[kind] = true
	return false
}

// Finish clears in-flight for kind. If a request was pending, it clears the
// pending bit, re-marks in-flight, and returns true so the caller replays
// the effect once more.
func (b *RepoLoadsInFlight) Finish(kind LoadKind) bool {
	b.inFlight[kind] = false
	if b.pending[kind] {
		b.pending[kind] = false
		b.inFlight[kind] = true
		return true
	}
	return false
}

// IsInFlight reports whether kind currently has an outstanding effect.
func (b *RepoLoadsInFlight) IsInFlight(kind LoadKind) bool {
	return b.inFlight[kind]
}

// RequestLog applies Log's coalescing policy: while a refresh (cursor==nil)
// is in flight, further refresh requests coalesce and a pagination request
// is dropped entirely. While a pagination is in flight, a pending refresh
// supersedes any pending pagination. Returns true iff the caller should
// issue the effect now.
func (b *RepoLoadsInFlight) RequestLog(p LogPending) bool {
	if !b.logInFlight {
		b.logInFlight = true
		b.logInFlightIsPagination = p.Cursor != nil
		return true
	}

	if p.Cursor == nil {
		// Refresh requests always coalesce, and a pending refresh supersedes
		// any pending pagination.
		b.logPending = &p
		return false
	}

	// Pagination request: dropped entirely while a refresh is in flight.
	if !b.logInFlightIsPagination {
		return false
	}
	// Pagination in flight: coalesce with any pending pagination, but never
	// displace a pending refresh.
	if b.logPending != nil && b.logPending.Cursor == nil {
		return false
	}
	b.logPending = &p
	return false
}

// FinishLog clears the in-flight bit and returns the next queued request (if
// any) to dispatch.
func (b *RepoLoadsInFlight) FinishLog() *LogPending {
	b.logInFlight = false
	if b.logPending == nil {
		return nil
	}
	next := b.logPending
	b.logPending = nil
	b.logInFlight = true
	b.logInFlightIsPagination = next.Cursor != nil
	return next
}

// LogInFlight reports whether a Log load is currently outstanding.
func (b *RepoLoadsInFlight) LogInFlight() bool {
	return b.logInFlight
}
