package diffkernel

import (
	"testing"

	"github.com/gitcore/gitcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideBySideRowsPairsReplacementsIntoModify(t *testing.T) {
	old := "a\nb\nc\n"
	new := "a\nb2\nc\n"

	rows := SideBySideRows(old, new)
	require.Len(t, rows, 3)

	kinds := make([]domain.FileDiffRowKind, len(rows))
	for i, r := range rows {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []domain.FileDiffRowKind{
		domain.FileDiffContext, domain.FileDiffModify, domain.FileDiffContext,
	}, kinds)

	mid := rows[1]
	require.NotNil(t, mid.Old)
	require.NotNil(t, mid.New)
	assert.Equal(t, "b", *mid.Old)
	assert.Equal(t, "b2", *mid.New)
	assert.Equal(t, 2, *mid.OldLine)
	assert.Equal(t, 2, *mid.NewLine)
}

func TestSideBySideRowsHandlesAdditionsAndDeletions(t *testing.T) {
	rows := SideBySideRows("a\nb\n", "a\nb\nc\n")
	found := false
	for _, r := range rows {
		if r.Kind == domain.FileDiffAdd {
			found = true
		}
	}
	assert.True(t, found)

	rows = SideBySideRows("a\nb\nc\n", "a\nc\n")
	found = false
	for _, r := range rows {
		if r.Kind == domain.FileDiffRemove {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSideBySideRowsIdenticalInputsAreAllContext(t *testing.T) {
	rows := SideBySideRows("a\nb\nc\n", "a\nb\nc\n")
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, domain.FileDiffContext, r.Kind)
	}
}

func TestSideBySideRowsEmptyInputs(t *testing.T) {
	assert.Empty(t, SideBySideRows("", ""))
}
