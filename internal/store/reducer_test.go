package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcore/gitcore/internal/domain"
)

// openedRepo drives an engine through OpenRepo + RepoOpenedOk so tests start
// from a repo already in the Ready state, the way the real executor would
// leave it after the initial refreshFullEffects round trips.
func openedRepo(t *testing.T, e *Engine, workdir string) RepoId {
	t.Helper()
	effs := e.Reduce(Msg{Kind: MsgOpenRepo, Workdir: workdir})
	require.Len(t, effs, 1)
	id := effs[0].RepoID
	e.Reduce(Msg{Kind: MsgRepoOpenedOk, RepoID: id, RepoSpec: domain.RepoSpec{Workdir: workdir}})
	// repoOpenedOk's own refreshFullEffects already marked every refreshable
	// kind in-flight; tests build scenarios on top of an already-settled
	// repo, so clear the bitset as if those initial completions had arrived.
	e.state.findRepo(id).LoadsInFlight = RepoLoadsInFlight{}
	return id
}

func TestOpeningSameWorkdirTwiceFocusesSingleTab(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgOpenRepo, Workdir: "/repo/a"})
	assert.Nil(t, effs)
	assert.Len(t, e.State().Repos, 1)
	require.NotNil(t, e.State().ActiveRepo)
	assert.Equal(t, id, *e.State().ActiveRepo)
}

func TestClosingActiveRepoActivatesPreviousTab(t *testing.T) {
	e := NewEngine(nil)
	a := openedRepo(t, e, "/repo/a")
	b := openedRepo(t, e, "/repo/b")
	_ = openedRepo(t, e, "/repo/c")

	// b is now active (last opened before c)? No: c is active after open.
	e.Reduce(Msg{Kind: MsgSetActiveRepo, RepoID: b})
	e.Reduce(Msg{Kind: MsgCloseRepo, RepoID: b})

	require.NotNil(t, e.State().ActiveRepo)
	assert.Equal(t, a, *e.State().ActiveRepo)
}

func TestClosingFirstActiveTabActivatesNext(t *testing.T) {
	e := NewEngine(nil)
	a := openedRepo(t, e, "/repo/a")
	b := openedRepo(t, e, "/repo/b")

	e.Reduce(Msg{Kind: MsgSetActiveRepo, RepoID: a})
	e.Reduce(Msg{Kind: MsgCloseRepo, RepoID: a})

	require.NotNil(t, e.State().ActiveRepo)
	assert.Equal(t, b, *e.State().ActiveRepo)
}

// Scenario 1: coalesced status refresh after mutation.
func TestCoalescedStatusRefreshAfterMutation(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effsA := e.Reduce(Msg{Kind: MsgRepoExternallyChanged, RepoID: id, Change: domain.ChangeWorktree})
	require.Len(t, effsA, 1)
	assert.Equal(t, EffectLoadStatus, effsA[0].Kind)

	effsB := e.Reduce(Msg{Kind: MsgRepoExternallyChanged, RepoID: id, Change: domain.ChangeWorktree})
	assert.Empty(t, effsB)

	effsC := e.Reduce(Msg{Kind: MsgStatusLoaded, RepoID: id, ValStatus: &domain.RepoStatus{}})
	require.Len(t, effsC, 1)
	assert.Equal(t, EffectLoadStatus, effsC[0].Kind)

	repo := e.State().findRepo(id)
	require.True(t, repo.Status.IsReady())
}

// Scenario 2: stale diff completion is discarded.
func TestStaleDiffCompletionIsDiscarded(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	targetA := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "a.txt"}
	targetB := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "b.txt"}

	e.Reduce(Msg{Kind: MsgSelectDiff, RepoID: id, Target: targetA})
	e.Reduce(Msg{Kind: MsgSelectDiff, RepoID: id, Target: targetB})

	staleText := &domain.FileDiffText{}
	effs := e.Reduce(Msg{Kind: MsgDiffFileLoaded, RepoID: id, Target: targetA, ValDiffFile: staleText})
	assert.Nil(t, effs)

	repo := e.State().findRepo(id)
	assert.True(t, repo.DiffFile.State == Loading)
	assert.NotEqual(t, staleText, repo.DiffFile.Value)
}

// Scenario 3: log pagination appends.
func TestLogPaginationAppends(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	cur := "cursor-1"
	repo := e.State().findRepo(id)
	repo.Log = NewReady(&domain.LogPage{
		Commits:    []domain.Commit{{ID: "c1"}},
		NextCursor: &domain.LogCursor{Token: cur},
	})
	repo.LoadsInFlight = RepoLoadsInFlight{}

	effs := e.Reduce(Msg{Kind: MsgLoadMoreHistory, RepoID: id})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectLoadLog, effs[0].Kind)
	require.NotNil(t, effs[0].Cursor)
	assert.Equal(t, cur, *effs[0].Cursor)

	e.Reduce(Msg{
		Kind:       MsgLogLoaded,
		RepoID:     id,
		Scope:      ScopeCurrentBranch,
		Cursor:     &cur,
		ValLogPage: &domain.LogPage{Commits: []domain.Commit{{ID: "c2"}}, NextCursor: nil},
	})

	repo = e.State().findRepo(id)
	require.True(t, repo.Log.IsReady())
	assert.Equal(t, []domain.Commit{{ID: "c1"}, {ID: "c2"}}, repo.Log.Value.Commits)
	assert.Nil(t, repo.Log.Value.NextCursor)
	assert.False(t, repo.LogLoadingMore)
}

// Invariant 9: active-only delivery.
func TestExternalChangeForInactiveRepoIsDropped(t *testing.T) {
	e := NewEngine(nil)
	a := openedRepo(t, e, "/repo/a")
	b := openedRepo(t, e, "/repo/b")
	require.NotNil(t, e.State().ActiveRepo)
	require.Equal(t, b, *e.State().ActiveRepo)

	effs := e.Reduce(Msg{Kind: MsgRepoExternallyChanged, RepoID: a, Change: domain.ChangeWorktree})
	assert.Empty(t, effs)

	repo := e.State().findRepo(a)
	assert.False(t, repo.LoadsInFlight.IsInFlight(LoadStatus))
}

func TestActivatingARepoRefreshesFully(t *testing.T) {
	e := NewEngine(nil)
	a := openedRepo(t, e, "/repo/a")
	_ = openedRepo(t, e, "/repo/b")

	effs := e.Reduce(Msg{Kind: MsgSetActiveRepo, RepoID: a})
	assert.NotEmpty(t, effs)

	found := false
	for _, eff := range effs {
		if eff.Kind == EffectLoadStatus {
			found = true
		}
	}
	assert.True(t, found, "expected activation to request a status refresh")
}

// Invariant 10: saturating counters never go below zero.
func TestSaturatingCountersNeverGoNegative(t *testing.T) {
	var r RepoState
	r.decLocalActions()
	r.decCommit()
	r.decPull()
	r.decPush()
	assert.Equal(t, uint32(0), r.LocalActionsInFlight)
	assert.Equal(t, uint32(0), r.CommitInFlight)
	assert.Equal(t, uint32(0), r.PullInFlight)
	assert.Equal(t, uint32(0), r.PushInFlight)
}

func TestStagePathsDispatchesEffectAndIncrementsLocalActions(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgStagePaths, RepoID: id, Paths: []string{"b.txt", "a.txt", "a.txt"}})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectStagePaths, effs[0].Kind)
	assert.Equal(t, []string{"b.txt", "a.txt"}, effs[0].Paths)

	repo := e.State().findRepo(id)
	assert.Equal(t, uint32(1), repo.LocalActionsInFlight)
}

func TestCheckoutRemoteBranchDispatchesDedicatedEffect(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgCheckoutRemoteBranch, RepoID: id, Remote: "origin", Branch: "feature"})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectCheckoutRemoteBranch, effs[0].Kind)
	assert.Equal(t, "origin", effs[0].Remote)
	assert.Equal(t, "feature", effs[0].Branch)
}

func TestCherryPickAndRevertDispatchDedicatedEffects(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgCherryPickCommit, RepoID: id, CommitID: "c1"})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectCherryPickCommit, effs[0].Kind)
	assert.Equal(t, domain.CommitId("c1"), effs[0].CommitID)

	effs = e.Reduce(Msg{Kind: MsgRevertCommit, RepoID: id, CommitID: "c2"})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectRevertCommit, effs[0].Kind)
}

func TestStashFamilyDispatchesDedicatedEffects(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgStash, RepoID: id, Message: "wip", IncludeUntracked: true})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectStash, effs[0].Kind)
	assert.True(t, effs[0].IncludeUntracked)

	effs = e.Reduce(Msg{Kind: MsgApplyStash, RepoID: id, StashIndex: 1})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectApplyStash, effs[0].Kind)

	effs = e.Reduce(Msg{Kind: MsgDropStash, RepoID: id, StashIndex: 0})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectDropStash, effs[0].Kind)

	effs = e.Reduce(Msg{Kind: MsgPopStash, RepoID: id, StashIndex: 0})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectPopStash, effs[0].Kind)
}

func TestCreateBranchAndCheckoutDispatchesSingleEffect(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgCreateBranchAndCheckout, RepoID: id, Name: "feature"})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectCreateBranchAndCheckout, effs[0].Kind)
	assert.Equal(t, "feature", effs[0].Name)
}

func TestDeleteRemoteBranchRoutesThroughCommandLog(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgDeleteRemoteBranch, RepoID: id, Remote: "origin", Branch: "stale"})
	require.Len(t, effs, 1)
	require.Equal(t, EffectRunCommand, effs[0].Kind)
	assert.Equal(t, CmdDeleteRemoteBranch, effs[0].Command.Kind)
	assert.Equal(t, "origin", effs[0].Command.Remote)
	assert.Equal(t, "stale", effs[0].Command.Branch)
}

func TestStageHunkAndUnstageHunkRouteThroughCommandLogWithPatch(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgStageHunk, RepoID: id, Patch: "diff --git a b"})
	require.Len(t, effs, 1)
	require.Equal(t, EffectRunCommand, effs[0].Kind)
	assert.Equal(t, CmdStageHunk, effs[0].Command.Kind)
	assert.Equal(t, "diff --git a b", effs[0].Command.Patch)

	effs = e.Reduce(Msg{Kind: MsgUnstageHunk, RepoID: id, Patch: "diff --git c d"})
	require.Len(t, effs, 1)
	assert.Equal(t, CmdUnstageHunk, effs[0].Command.Kind)
	assert.Equal(t, "diff --git c d", effs[0].Command.Patch)
}

func TestApplyWorktreePatchCarriesPatchIntoRepoCommand(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	effs := e.Reduce(Msg{Kind: MsgApplyWorktreePatch, RepoID: id, Patch: "diff --git e f", Reverse: true})
	require.Len(t, effs, 1)
	require.Equal(t, EffectRunCommand, effs[0].Kind)
	assert.Equal(t, "diff --git e f", effs[0].Command.Patch)
	assert.True(t, effs[0].Command.Reverse)
}

func TestCommitFinishedClearsDiffTargetOnSuccess(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	e.Reduce(Msg{Kind: MsgCommit, RepoID: id, Message: "fix"})
	repo := e.State().findRepo(id)
	require.Equal(t, uint32(1), repo.CommitInFlight)

	target := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "a.txt"}
	repo.DiffTarget = &target
	repo.Diff = NewReady(&domain.Diff{})

	e.Reduce(Msg{Kind: MsgCommitFinished, RepoID: id})

	repo = e.State().findRepo(id)
	assert.Equal(t, uint32(0), repo.CommitInFlight)
	assert.Nil(t, repo.DiffTarget)
	assert.Equal(t, NotLoaded, repo.Diff.State)
	require.Len(t, repo.CommandLog, 1)
	assert.Equal(t, "Commit: Completed", repo.CommandLog[0].Summary)
}

func TestCommitFinishedKeepsLastErrorAndLogsFailure(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	e.Reduce(Msg{Kind: MsgCommitAmend, RepoID: id, Message: "oops"})
	e.Reduce(Msg{Kind: MsgCommitAmendFinished, RepoID: id, Err: errors.New("nothing to commit")})

	repo := e.State().findRepo(id)
	require.NotNil(t, repo.LastError)
	require.Len(t, repo.CommandLog, 1)
	assert.False(t, repo.CommandLog[0].OK)
}

// Reset/rebase completions clear the diff view; stage/unstage-hunk
// completions reload it instead since they change content, not target.
func TestResetCommandFinishedClearsDiffTarget(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	repo := e.State().findRepo(id)
	target := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "a.txt"}
	repo.DiffTarget = &target
	repo.LocalActionsInFlight = 1

	e.Reduce(Msg{
		Kind:    MsgRepoCommandFinished,
		RepoID:  id,
		Command: RepoCommand{Kind: CmdReset, Mode: domain.ResetHard, Target: "HEAD~1"},
	})

	repo = e.State().findRepo(id)
	assert.Nil(t, repo.DiffTarget)
}

func TestStageHunkCommandFinishedReloadsDiffTarget(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	repo := e.State().findRepo(id)
	target := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "a.txt"}
	repo.DiffTarget = &target
	repo.LocalActionsInFlight = 1

	effs := e.Reduce(Msg{
		Kind:    MsgRepoCommandFinished,
		RepoID:  id,
		Command: RepoCommand{Kind: CmdStageHunk, Patch: "diff --git a b"},
	})

	repo = e.State().findRepo(id)
	require.NotNil(t, repo.DiffTarget)
	assert.Equal(t, target, *repo.DiffTarget)

	found := false
	for _, eff := range effs {
		if eff.Kind == EffectLoadDiff {
			found = true
		}
	}
	assert.True(t, found, "expected a diff reload after a hunk stage completes")
}

func TestPullCommandFinishedDecrementsPullInFlight(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	repo := e.State().findRepo(id)
	repo.PullInFlight = 1

	e.Reduce(Msg{
		Kind:    MsgRepoCommandFinished,
		RepoID:  id,
		Command: RepoCommand{Kind: CmdPull},
	})

	repo = e.State().findRepo(id)
	assert.Equal(t, uint32(0), repo.PullInFlight)
}

func TestPushCommandFinishedDecrementsPushInFlight(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	repo := e.State().findRepo(id)
	repo.PushInFlight = 1

	e.Reduce(Msg{
		Kind:    MsgRepoCommandFinished,
		RepoID:  id,
		Command: RepoCommand{Kind: CmdPushSetUpstream, Remote: "origin", Branch: "main"},
	})

	repo = e.State().findRepo(id)
	assert.Equal(t, uint32(0), repo.PushInFlight)
}

func TestSVGDiffTargetWantsBothImageAndTextDiff(t *testing.T) {
	target := domain.DiffTarget{Kind: domain.DiffTargetWorkingTree, Path: "logo.svg"}
	assert.True(t, diffTargetWantsImagePreview(target))
	assert.True(t, diffTargetIsSVG(target))

	effects := diffReloadEffects(1, target)
	var hasImage, hasText bool
	for _, eff := range effects {
		switch eff.Kind {
		case EffectLoadDiffFileImage:
			hasImage = true
		case EffectLoadDiffFile:
			hasText = true
		}
	}
	assert.True(t, hasImage, "expected SVG target to load an image preview")
	assert.True(t, hasText, "expected SVG target to also load the text diff")
}

func TestCommitDetailsCompletionDiscardedWhenSelectionChanged(t *testing.T) {
	e := NewEngine(nil)
	id := openedRepo(t, e, "/repo/a")

	e.Reduce(Msg{Kind: MsgSelectCommit, RepoID: id, CommitID: "c1"})
	e.Reduce(Msg{Kind: MsgSelectCommit, RepoID: id, CommitID: "c2"})

	stale := domain.CommitDetails{Commit: domain.Commit{ID: "c1"}}
	e.Reduce(Msg{Kind: MsgCommitDetailsLoaded, RepoID: id, CommitID: "c1", ValCommitDetails: &stale})

	repo := e.State().findRepo(id)
	assert.False(t, repo.CommitDetails.IsReady())
}
