package store

import (
	"github.com/gitcore/gitcore/internal/cache"
	"github.com/gitcore/gitcore/internal/cache/historygraph"
	"github.com/gitcore/gitcore/internal/domain"
)

// SetCaches installs the bounded derived caches GraphRows/BranchSidebar
// consult. A nil Engine cache (the zero value from NewEngine) makes both
// methods recompute on every call — correct, just uncached.
func (e *Engine) SetCaches(c *cache.Caches) { e.caches = c }

// GraphRows returns the commit-graph lane layout for repoID's currently
// loaded log page, computing and caching it if not already present.
func (e *Engine) GraphRows(repoID RepoId, dark bool) []historygraph.Row {
	repo := e.state.findRepo(repoID)
	if repo == nil || !repo.Log.IsReady() || repo.Log.Value == nil {
		return nil
	}
	commits := repo.Log.Value.Commits
	if e.caches == nil {
		return historygraph.Compute(commits, historygraph.Palette(dark))
	}

	parts := make([]string, 0, len(commits)+1)
	if dark {
		parts = append(parts, "dark")
	} else {
		parts = append(parts, "light")
	}
	for _, c := range commits {
		parts = append(parts, string(c.ID))
	}
	key := cache.Fingerprint(parts...)

	if cached, ok := e.graphCache[key]; ok {
		return cached
	}
	rows := historygraph.Compute(commits, historygraph.Palette(dark))
	const graphCacheMaxEntries = 64
	if e.graphCache == nil || len(e.graphCache) >= graphCacheMaxEntries {
		e.graphCache = make(map[uint64][]historygraph.Row, 8)
	}
	e.graphCache[key] = rows
	return rows
}

// BranchSidebar returns the render-ready branch list for repoID, cached by
// the fingerprint of branch name/head pairs so an unrelated state change
// (e.g. a status reload) doesn't force recomputation.
func (e *Engine) BranchSidebar(repoID RepoId) []cache.BranchSidebarEntry {
	repo := e.state.findRepo(repoID)
	if repo == nil || !repo.Branches.IsReady() {
		return nil
	}
	branches := repo.Branches.Value

	if e.caches == nil {
		return branchSidebarEntries(branches)
	}

	parts := make([]string, 0, len(branches)*2)
	for _, b := range branches {
		parts = append(parts, b.Name, string(b.Head))
	}
	key := cache.Fingerprint(parts...)

	if v, ok := e.caches.BranchSidebar(key); ok {
		return v
	}
	v := branchSidebarEntries(branches)
	e.caches.SetBranchSidebar(key, v)
	return v
}

func branchSidebarEntries(branches []domain.Branch) []cache.BranchSidebarEntry {
	out := make([]cache.BranchSidebarEntry, len(branches))
	for i, b := range branches {
		out[i] = cache.BranchSidebarEntry{
			Name:    b.Name,
			Ahead:   b.Ahead,
			Behind:  b.Behind,
			Current: b.IsCurrent,
		}
	}
	return out
}
