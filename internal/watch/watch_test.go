package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcore/gitcore/internal/domain"
)

func TestResolveGitDirHandlesDotGitDirectory(t *testing.T) {
	workdir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(workdir, ".git"), 0o755))

	got := resolveGitDir(workdir)
	assert.Equal(t, filepath.Join(workdir, ".git"), got)
}

func TestResolveGitDirParsesDotGitFile(t *testing.T) {
	workdir := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(workdir, ".git"),
		[]byte("gitdir: "+target+"\n"),
		0o644,
	))

	got := resolveGitDir(workdir)
	assert.Equal(t, target, got)
}

func TestResolveGitDirParsesRelativeDotGitFile(t *testing.T) {
	workdir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(workdir, ".git"),
		[]byte("gitdir: ../main/.git/worktrees/feature\n"),
		0o644,
	))

	got := resolveGitDir(workdir)
	assert.Equal(t, filepath.Join(workdir, "../main/.git/worktrees/feature"), got)
}

func TestResolveGitDirReturnsEmptyWhenMissing(t *testing.T) {
	workdir := t.TempDir()
	assert.Equal(t, "", resolveGitDir(workdir))
}

func TestClassifyDistinguishesGitDirFromWorktree(t *testing.T) {
	workdir := t.TempDir()
	w := &Watcher{workdir: workdir, gitDir: filepath.Join(workdir, ".git")}

	assert.Equal(t, domain.ChangeWorktree, w.classify(filepath.Join(workdir, "src", "main.go")))
	assert.Equal(t, domain.ChangeGitState, w.classify(filepath.Join(workdir, ".git", "HEAD")))
	assert.Equal(t, domain.ChangeGitState, w.classify(filepath.Join(workdir, ".git", "refs", "heads", "main")))
}

func TestClassifyHandlesExternalGitDirForLinkedWorktrees(t *testing.T) {
	workdir := t.TempDir()
	externalGitDir := t.TempDir()
	w := &Watcher{workdir: workdir, gitDir: externalGitDir}

	assert.Equal(t, domain.ChangeGitState, w.classify(filepath.Join(externalGitDir, "HEAD")))
	assert.Equal(t, domain.ChangeWorktree, w.classify(filepath.Join(workdir, "README.md")))
}

func TestShouldIgnoreFiltersNoise(t *testing.T) {
	cases := map[string]bool{
		"/repo/.git/index.lock":        true,
		"/repo/main.go.swp":            true,
		"/repo/main.go~":               true,
		"/repo/.#main.go":              true,
		"/repo/.git/COMMIT_EDITMSG":    true,
		"/repo/.git/gc.log":            true,
		"/repo/.git/fsmonitor--daemon": true,
		"/repo/main.go":                false,
		"/repo/.git/HEAD":              false,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldIgnore(path), path)
	}
}
