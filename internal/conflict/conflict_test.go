package conflict

import (
	"testing"

	"github.com/gitcore/gitcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsesAndGeneratesConflicts(t *testing.T) {
	input := "a\n<<<<<<< HEAD\none\ntwo\n=======\nuno\ndos\n>>>>>>> other\nb\n"
	segments := Parse(input)
	require.Equal(t, 1, Count(segments))

	ours := GenerateResolvedText(segments)
	assert.Equal(t, "a\none\ntwo\nb\n", ours)

	for i := range segments {
		if segments[i].Kind == SegmentBlock {
			segments[i].Blk.Choice = ChoiceTheirs
		}
	}

	theirs := GenerateResolvedText(segments)
	assert.Equal(t, "a\nuno\ndos\nb\n", theirs)
}

func TestParsesDiff3StyleMarkers(t *testing.T) {
	input := "a\n<<<<<<< ours\none\n||||||| base\norig\n=======\nuno\n>>>>>>> theirs\nb\n"
	segments := Parse(input)
	require.Equal(t, 1, Count(segments))

	var blk Block
	for _, s := range segments {
		if s.Kind == SegmentBlock {
			blk = s.Blk
		}
	}
	assert.Equal(t, "one\n", blk.Ours)
	require.True(t, blk.HasBase)
	assert.Equal(t, "orig\n", blk.Base)
	assert.Equal(t, "uno\n", blk.Theirs)
}

func TestMalformedMarkersArePreserved(t *testing.T) {
	input := "a\n<<<<<<< HEAD\none\n"
	segments := Parse(input)
	assert.Equal(t, 0, Count(segments))
	assert.Equal(t, input, GenerateResolvedText(segments))
}

func TestInlineRowsExpandModifyIntoRemoveAndAdd(t *testing.T) {
	one, two := 1, 2
	rows := []domain.FileDiffRow{
		{Kind: domain.FileDiffContext, OldLine: &one, NewLine: &one, Old: strp("a"), New: strp("a")},
		{Kind: domain.FileDiffModify, OldLine: &two, NewLine: &two, Old: strp("b"), New: strp("b2")},
	}
	inline := BuildInlineRows(rows)
	require.Len(t, inline, 3)
	assert.Equal(t, "a", inline[0].Content)
	assert.Equal(t, domain.DiffLineRemove, inline[1].Kind)
	assert.Equal(t, domain.DiffLineAdd, inline[2].Kind)
}

func TestAppendLinesAddsNewlinesSafely(t *testing.T) {
	out := AppendLinesToOutput("a\n", []string{"b", "c"})
	assert.Equal(t, "a\nb\nc\n", out)
	out = AppendLinesToOutput("a", []string{"b"})
	assert.Equal(t, "a\nb\n", out)
}

func strp(s string) *string { return &s }
