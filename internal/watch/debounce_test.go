package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gitcore/gitcore/internal/domain"
)

func TestMergeChangeCoalescesToBoth(t *testing.T) {
	assert.Equal(t, domain.ChangeBoth, domain.ChangeWorktree.Merge(domain.ChangeGitState))
	assert.Equal(t, domain.ChangeBoth, domain.ChangeGitState.Merge(domain.ChangeWorktree))
	assert.Equal(t, domain.ChangeBoth, domain.ChangeBoth.Merge(domain.ChangeWorktree))
	assert.Equal(t, domain.ChangeWorktree, domain.ChangeWorktree.Merge(domain.ChangeWorktree))
}

func TestDebouncerFlushesOnDebounceElapsed(t *testing.T) {
	d := newDebouncedChange(100*time.Millisecond, time.Hour)
	base := time.Unix(0, 0)

	_, flushed := d.push(domain.ChangeWorktree, base)
	assert.False(t, flushed)
	assert.True(t, d.isPending())

	timeout, ok := d.nextTimeout(base)
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, timeout)

	due := base.Add(100 * time.Millisecond)
	change, ok := d.takeIfDue(due)
	assert.True(t, ok)
	assert.Equal(t, domain.ChangeWorktree, change)
	assert.False(t, d.isPending())
}

func TestDebouncerFlushesOnMaxDelayEvenUnderContinuousEvents(t *testing.T) {
	d := newDebouncedChange(50*time.Millisecond, 120*time.Millisecond)
	base := time.Unix(0, 0)

	_, flushed := d.push(domain.ChangeWorktree, base)
	assert.False(t, flushed)

	_, flushed = d.push(domain.ChangeWorktree, base.Add(40*time.Millisecond))
	assert.False(t, flushed)

	_, flushed = d.push(domain.ChangeGitState, base.Add(80*time.Millisecond))
	assert.False(t, flushed)

	change, flushed := d.push(domain.ChangeWorktree, base.Add(125*time.Millisecond))
	assert.True(t, flushed)
	assert.Equal(t, domain.ChangeBoth, change)
	assert.False(t, d.isPending())
}

func TestDebouncerMergesChangesWhilePending(t *testing.T) {
	d := newDebouncedChange(time.Second, time.Hour)
	base := time.Unix(0, 0)

	d.push(domain.ChangeWorktree, base)
	d.push(domain.ChangeGitState, base.Add(10*time.Millisecond))

	change, ok := d.take()
	assert.True(t, ok)
	assert.Equal(t, domain.ChangeBoth, change)
}

func TestNextTimeoutReturnsFalseWhenIdle(t *testing.T) {
	d := newDebouncedChange(50*time.Millisecond, time.Second)
	_, ok := d.nextTimeout(time.Unix(0, 0))
	assert.False(t, ok)
}

func TestTakeIfDueReturnsFalseBeforeDeadline(t *testing.T) {
	d := newDebouncedChange(100*time.Millisecond, time.Hour)
	base := time.Unix(0, 0)
	d.push(domain.ChangeWorktree, base)

	_, ok := d.takeIfDue(base.Add(10 * time.Millisecond))
	assert.False(t, ok)
	assert.True(t, d.isPending())
}
