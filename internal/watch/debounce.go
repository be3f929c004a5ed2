package watch

import (
	"time"

	"github.com/gitcore/gitcore/internal/domain"
)

// debouncedChange coalesces a burst of filesystem events into a single
// RepoExternalChange, firing either debounce after the last event or
// maxDelay after the first — whichever is sooner — so a continuously
// busy repo still gets periodic refreshes instead of starving forever.
type debouncedChange struct {
	pending      *pendingChange
	debounce     time.Duration
	maxDelay     time.Duration
}

type pendingChange struct {
	change       domain.RepoExternalChange
	firstEventAt time.Time
	lastEventAt  time.Time
}

func newDebouncedChange(debounce, maxDelay time.Duration) *debouncedChange {
	return &debouncedChange{debounce: debounce, maxDelay: maxDelay}
}

func (d *debouncedChange) isPending() bool { return d.pending != nil }

// push records change at now, merging it into any pending change, and
// returns a value to flush immediately if maxDelay has already elapsed.
func (d *debouncedChange) push(change domain.RepoExternalChange, now time.Time) (domain.RepoExternalChange, bool) {
	if d.pending == nil {
		d.pending = &pendingChange{change: change, firstEventAt: now, lastEventAt: now}
	} else {
		d.pending.change = d.pending.change.Merge(change)
		d.pending.lastEventAt = now
	}
	return d.takeIfMaxDelayElapsed(now)
}

func (d *debouncedChange) takeIfMaxDelayElapsed(now time.Time) (domain.RepoExternalChange, bool) {
	if d.pending == nil {
		return 0, false
	}
	if now.Sub(d.pending.firstEventAt) >= d.maxDelay {
		return d.take()
	}
	return 0, false
}

// nextTimeout returns how long the caller should wait before calling
// takeIfDue again, or ok==false if nothing is pending.
func (d *debouncedChange) nextTimeout(now time.Time) (time.Duration, bool) {
	if d.pending == nil {
		return 0, false
	}
	dueByDebounce := d.pending.lastEventAt.Add(d.debounce)
	dueByMax := d.pending.firstEventAt.Add(d.maxDelay)
	due := dueByDebounce
	if dueByMax.Before(due) {
		due = dueByMax
	}
	if due.Before(now) {
		return 0, true
	}
	return due.Sub(now), true
}

func (d *debouncedChange) takeIfDue(now time.Time) (domain.RepoExternalChange, bool) {
	if d.pending == nil {
		return 0, false
	}
	timeout, _ := d.nextTimeout(now)
	if timeout == 0 {
		return d.take()
	}
	return 0, false
}

func (d *debouncedChange) take() (domain.RepoExternalChange, bool) {
	if d.pending == nil {
		return 0, false
	}
	c := d.pending.change
	d.pending = nil
	return c, true
}
