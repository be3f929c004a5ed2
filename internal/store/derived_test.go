package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcore/gitcore/internal/cache"
	"github.com/gitcore/gitcore/internal/domain"
)

func TestGraphRowsReturnsNilWithoutReadyLog(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")
	assert.Nil(t, e.GraphRows(id, false))
}

func TestGraphRowsComputesAndCaches(t *testing.T) {
	e := NewEngine(nil)
	e.SetCaches(cache.New())
	id := openedRepo(t, e, "/repo/a")

	repo := e.state.findRepo(id)
	repo.Log = NewReady(&domain.LogPage{
		Commits: []domain.Commit{{ID: "c1"}, {ID: "c2", Parents: []domain.CommitId{"c1"}}},
	})

	rows := e.GraphRows(id, false)
	require.Len(t, rows, 2)

	// A second call with the same log page must hit the cache and return an
	// identical result (same slice contents) without recomputation blowing
	// up the cache key space.
	again := e.GraphRows(id, false)
	assert.Equal(t, rows, again)
}

func TestGraphRowsWorksUncachedWhenCachesNotInstalled(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	repo := e.state.findRepo(id)
	repo.Log = NewReady(&domain.LogPage{Commits: []domain.Commit{{ID: "c1"}}})

	rows := e.GraphRows(id, true)
	require.Len(t, rows, 1)
}

func TestBranchSidebarReturnsNilWithoutReadyBranches(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")
	assert.Nil(t, e.BranchSidebar(id))
}

func TestBranchSidebarMapsFieldsAndCaches(t *testing.T) {
	e := NewEngine(nil)
	e.SetCaches(cache.New())
	id := openedRepo(t, e, "/repo/a")

	repo := e.state.findRepo(id)
	repo.Branches = NewReady([]domain.Branch{
		{Name: "main", IsCurrent: true, Head: "c1", Ahead: 2, Behind: 1},
	})

	entries := e.BranchSidebar(id)
	require.Len(t, entries, 1)
	assert.Equal(t, cache.BranchSidebarEntry{Name: "main", Ahead: 2, Behind: 1, Current: true}, entries[0])

	again := e.BranchSidebar(id)
	assert.Equal(t, entries, again)
}
