package historygraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcore/gitcore/internal/domain"
)

func commit(id string, parents ...string) domain.Commit {
	ps := make([]domain.CommitId, len(parents))
	for i, p := range parents {
		ps[i] = domain.CommitId(p)
	}
	return domain.Commit{ID: domain.CommitId(id), Parents: ps}
}

func TestComputeLinearHistoryStaysOnOneLane(t *testing.T) {
	commits := []domain.Commit{
		commit("c3", "c2"),
		commit("c2", "c1"),
		commit("c1"),
	}

	rows := Compute(commits, Palette(true))
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.Equal(t, 0, row.NodeCol)
		assert.False(t, row.IsMerge)
	}
	assert.Equal(t, rows[0].NodeID, rows[1].NodeID)
	assert.Equal(t, rows[1].NodeID, rows[2].NodeID)
}

func TestComputeMergeCommitOpensSecondLane(t *testing.T) {
	commits := []domain.Commit{
		commit("m", "c2", "f2"),
		commit("f2", "f1"),
		commit("c2", "c1"),
		commit("f1", "c1"),
		commit("c1"),
	}

	rows := Compute(commits, Palette(true))
	require.Len(t, rows, 5)

	mergeRow := rows[0]
	assert.True(t, mergeRow.IsMerge)
	assert.Equal(t, 0, mergeRow.NodeCol)
	assert.Len(t, mergeRow.LanesNext, 2)
}

func TestComputeUnknownParentsAreDropped(t *testing.T) {
	commits := []domain.Commit{
		commit("c1", "missing-parent"),
	}
	rows := Compute(commits, Palette(true))
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsMerge)
	assert.Empty(t, rows[0].LanesNext)
}

func TestPaletteProducesDistinctHexColors(t *testing.T) {
	p := Palette(true)
	assert.Len(t, p, paletteSize)
	seen := make(map[string]bool)
	for _, c := range p {
		assert.Regexp(t, "^#[0-9a-f]{6}$", c)
		seen[c] = true
	}
	assert.Greater(t, len(seen), paletteSize/2)
}
