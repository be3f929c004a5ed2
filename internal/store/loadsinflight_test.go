package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestCoalescesWhileInFlight(t *testing.T) {
	var b RepoLoadsInFlight

	assert.True(t, b.Request(LoadStatus))
	assert.False(t, b.Request(LoadStatus))
	assert.False(t, b.Request(LoadStatus))

	assert.True(t, b.Finish(LoadStatus))
	assert.True(t, b.IsInFlight(LoadStatus))
	assert.False(t, b.Finish(LoadStatus))
}

func TestFinishWithNoPendingReturnsFalse(t *testing.T) {
	var b RepoLoadsInFlight
	assert.True(t, b.Request(LoadBranches))
	assert.False(t, b.Finish(LoadBranches))
}

func TestRequestLogRefreshDropsPagination(t *testing.T) {
	var b RepoLoadsInFlight

	assert.True(t, b.RequestLog(LogPending{Cursor: nil}))
	assert.False(t, b.RequestLog(LogPending{Cursor: strp("cursor-1")}))

	next := b.FinishLog()
	assert.Nil(t, next)
}

func TestRequestLogPendingRefreshSupersedesPagination(t *testing.T) {
	var b RepoLoadsInFlight
	c1 := "cursor-1"

	assert.True(t, b.RequestLog(LogPending{Cursor: &c1}))
	assert.False(t, b.RequestLog(LogPending{Cursor: &c1}))
	assert.False(t, b.RequestLog(LogPending{Cursor: nil}))

	next := b.FinishLog()
	if assert.NotNil(t, next) {
		assert.Nil(t, next.Cursor)
	}
}

func TestRequestLogPaginationCoalescesWhilePaginationInFlight(t *testing.T) {
	var b RepoLoadsInFlight
	c1 := "cursor-1"
	c2 := "cursor-2"

	assert.True(t, b.RequestLog(LogPending{Cursor: &c1}))
	assert.False(t, b.RequestLog(LogPending{Cursor: &c2}))

	next := b.FinishLog()
	if assert.NotNil(t, next) {
		assert.Equal(t, &c2, next.Cursor)
	}
}

func strp(s string) *string { return &s }
