package diffkernel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sliceAll(s string, ranges []ByteRange) []string {
	out := make([]string, len(ranges))
	for i, r := range ranges {
		out[i] = s[r.Start:r.End]
	}
	return out
}

func TestWordDiffRangesHighlightsChangedTokens(t *testing.T) {
	old, new := "let x = 1;", "let x = 2;"
	oldR, newR := WordDiffRanges(old, new)
	assert.Equal(t, []string{"1"}, sliceAll(old, oldR))
	assert.Equal(t, []string{"2"}, sliceAll(new, newR))
}

func TestCappedWordDiffRangesMatchesForSmallInputs(t *testing.T) {
	old, new := "let x = 1;", "let x = 2;"
	aOld, aNew := WordDiffRanges(old, new)
	bOld, bNew := CappedWordDiffRanges(old, new)
	assert.Equal(t, aOld, bOld)
	assert.Equal(t, aNew, bNew)
}

func TestCappedWordDiffRangesSkipsHugeInputs(t *testing.T) {
	old := strings.Repeat("a", wordDiffMaxTotalBytes+1)
	new := old + "x"
	oldR, newR := CappedWordDiffRanges(old, new)
	assert.Empty(t, oldR)
	assert.Empty(t, newR)
}

func TestWordDiffRangesHandlesUnicodeSafely(t *testing.T) {
	old, new := "aé", "aê"
	oldR, newR := WordDiffRanges(old, new)
	assert.Equal(t, []string{"aé"}, sliceAll(old, oldR))
	assert.Equal(t, []string{"aê"}, sliceAll(new, newR))
}

func TestWordDiffRangesLongWordRunIsOneToken(t *testing.T) {
	old := strings.Repeat("a", 2048)
	new := old + "x"
	oldR, newR := WordDiffRanges(old, new)
	assert.LessOrEqual(t, len(oldR), 1)
	assert.LessOrEqual(t, len(newR), 1)
}

func TestWordDiffRangesOutputsAreOrderedAndUTF8Safe(t *testing.T) {
	old, new := "aé b", "aê  b"
	oldR, newR := WordDiffRanges(old, new)

	for _, r := range oldR {
		assert.LessOrEqual(t, r.Start, r.End)
		assert.LessOrEqual(t, r.End, len(old))
	}
	for i := 1; i < len(oldR); i++ {
		assert.LessOrEqual(t, oldR[i-1].End, oldR[i].Start)
	}

	for _, r := range newR {
		assert.LessOrEqual(t, r.Start, r.End)
		assert.LessOrEqual(t, r.End, len(new))
	}
	for i := 1; i < len(newR); i++ {
		assert.LessOrEqual(t, newR[i-1].End, newR[i].Start)
	}
}

func TestWordDiffRangesEmptyInputsDoNotPanic(t *testing.T) {
	oldR, newR := WordDiffRanges("", "")
	assert.Empty(t, oldR)
	assert.Empty(t, newR)
}
