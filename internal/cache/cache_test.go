package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	a := Fingerprint("c1", "c2", "c3")
	b := Fingerprint("c1", "c2", "c3")
	assert.Equal(t, a, b)
}

func TestFingerprintDistinguishesSeparatorPosition(t *testing.T) {
	// Without a separator "ab","c" and "a","bc" would collide.
	a := Fingerprint("ab", "c")
	b := Fingerprint("a", "bc")
	assert.NotEqual(t, a, b)
}

func TestFingerprintOrderMatters(t *testing.T) {
	a := Fingerprint("x", "y")
	b := Fingerprint("y", "x")
	assert.NotEqual(t, a, b)
}

func TestBranchSidebarCacheRoundTrips(t *testing.T) {
	c := New()
	key := Fingerprint("main", "abc123")

	_, ok := c.BranchSidebar(key)
	assert.False(t, ok)

	entries := []BranchSidebarEntry{{Name: "main", Current: true}}
	c.SetBranchSidebar(key, entries)

	got, ok := c.BranchSidebar(key)
	assert.True(t, ok)
	assert.Equal(t, entries, got)
}

func TestDiffSegmentsCacheRoundTrips(t *testing.T) {
	c := New()
	key := Fingerprint("blob-old", "blob-new")

	_, ok := c.DiffSegments(key)
	assert.False(t, ok)

	segs := []DiffSegment{{StartLine: 0, EndLine: 3, Changed: false}}
	c.SetDiffSegments(key, segs)

	got, ok := c.DiffSegments(key)
	assert.True(t, ok)
	assert.Equal(t, segs, got)
}
