// Package cache holds bounded, derived caches sitting above the backend:
// commit-graph lane layouts (see historygraph), branch sidebar summaries,
// and diff row segmentation. Each is keyed by a content fingerprint rather
// than a naive struct key so identical inputs from different repos or
// reloads hit the same entry.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes an arbitrary ordered sequence of strings (commit ids,
// branch names, a diff's old/new blob ids) into a single cache key.
func Fingerprint(parts ...string) uint64 {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// BranchSidebarEntry is the derived, render-ready shape of one branch row:
// ahead/behind counts and the label text, expensive enough to recompute
// (requires a merge-base walk) that it's worth caching per HEAD position.
type BranchSidebarEntry struct {
	Name    string
	Ahead   int
	Behind  int
	Current bool
}

// DiffSegment is one contiguous run of unchanged or changed lines produced
// by segmenting a unified diff for syntax-aware rendering.
type DiffSegment struct {
	StartLine int
	EndLine   int
	Changed   bool
}

const (
	branchSidebarCap = 256
	diffSegmentCap   = 128
)

// Caches bundles the bounded LRU caches a single process-wide instance
// needs; callers key every Get/Add call with Fingerprint.
type Caches struct {
	branchSidebar *lru.Cache[uint64, []BranchSidebarEntry]
	diffSegments  *lru.Cache[uint64, []DiffSegment]
}

// New builds empty, bounded caches. Never fails: lru.New only errors on a
// non-positive size, which the constants above never supply.
func New() *Caches {
	branchSidebar, _ := lru.New[uint64, []BranchSidebarEntry](branchSidebarCap)
	diffSegments, _ := lru.New[uint64, []DiffSegment](diffSegmentCap)
	return &Caches{branchSidebar: branchSidebar, diffSegments: diffSegments}
}

func (c *Caches) BranchSidebar(key uint64) ([]BranchSidebarEntry, bool) {
	return c.branchSidebar.Get(key)
}

func (c *Caches) SetBranchSidebar(key uint64, v []BranchSidebarEntry) {
	c.branchSidebar.Add(key, v)
}

func (c *Caches) DiffSegments(key uint64) ([]DiffSegment, bool) {
	return c.diffSegments.Get(key)
}

func (c *Caches) SetDiffSegments(key uint64, v []DiffSegment) {
	c.diffSegments.Add(key, v)
}
