package executor

import (
	"context"

	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/conflict"
	"github.com/gitcore/gitcore/internal/domain"
	"github.com/gitcore/gitcore/internal/store"
)

// DefaultDispatch is the reference Dispatch: it runs each Effect against
// repo (or opener, for EffectOpenRepo, which has no repo yet) and wraps
// the result into the Msg the reducer expects. EffectCloneRepo runs no
// clone: it answers with MsgCloneRepoFinished and no error straight away.
func DefaultDispatch(ctx context.Context, eff store.Effect, repo backend.Repo, opener backend.Opener) store.Msg {
	switch eff.Kind {
	case store.EffectOpenRepo:
		r, err := opener.Open(ctx, eff.Spec.Workdir)
		if err != nil {
			return store.Msg{Kind: store.MsgRepoOpenedErr, RepoID: eff.RepoID, RepoSpec: eff.Spec, Err: err}
		}
		return store.Msg{Kind: store.MsgRepoOpenedOk, RepoID: eff.RepoID, RepoSpec: eff.Spec, Repo: r}

	case store.EffectCloseRepo:
		return store.Msg{Kind: store.MsgRepoActionFinished, RepoID: eff.RepoID}

	case store.EffectCloneRepo:
		return store.Msg{Kind: store.MsgCloneRepoFinished, CloneURL: eff.CloneURL, CloneDest: eff.CloneDest}

	case store.EffectLoadHeadBranch:
		v, err := repo.CurrentBranch(ctx)
		return store.Msg{Kind: store.MsgHeadBranchLoaded, RepoID: eff.RepoID, ValString: v, Err: err}

	case store.EffectLoadUpstreamDivergence:
		v, err := repo.UpstreamDivergence(ctx)
		return store.Msg{Kind: store.MsgUpstreamDivergenceLoaded, RepoID: eff.RepoID, ValUpstreamDivergence: &v, Err: err}

	case store.EffectLoadBranches:
		v, err := repo.ListBranches(ctx)
		return store.Msg{Kind: store.MsgBranchesLoaded, RepoID: eff.RepoID, ValBranches: v, Err: err}

	case store.EffectLoadTags:
		v, err := repo.ListTags(ctx)
		return store.Msg{Kind: store.MsgTagsLoaded, RepoID: eff.RepoID, ValTags: v, Err: err}

	case store.EffectLoadRemotes:
		v, err := repo.ListRemotes(ctx)
		return store.Msg{Kind: store.MsgRemotesLoaded, RepoID: eff.RepoID, ValRemotes: v, Err: err}

	case store.EffectLoadRemoteBranches:
		v, err := repo.ListRemoteBranches(ctx)
		return store.Msg{Kind: store.MsgRemoteBranchesLoaded, RepoID: eff.RepoID, ValRemoteBranches: v, Err: err}

	case store.EffectLoadStatus:
		v, err := repo.Status(ctx)
		return store.Msg{Kind: store.MsgStatusLoaded, RepoID: eff.RepoID, ValStatus: v, Err: err}

	case store.EffectLoadStashes:
		v, err := repo.ListStashes(ctx)
		return store.Msg{Kind: store.MsgStashesLoaded, RepoID: eff.RepoID, ValStashes: v, Err: err}

	case store.EffectLoadReflog:
		v, err := repo.ReflogHead(ctx, 200)
		return store.Msg{Kind: store.MsgReflogLoaded, RepoID: eff.RepoID, ValReflog: v, Err: err}

	case store.EffectLoadRebaseState:
		v, err := repo.RebaseInProgress(ctx)
		return store.Msg{Kind: store.MsgRebaseStateLoaded, RepoID: eff.RepoID, ValBool: v, Err: err}

	case store.EffectLoadMergeCommitMessage:
		v, err := repo.MergeCommitMessage(ctx)
		return store.Msg{Kind: store.MsgMergeCommitMessageLoaded, RepoID: eff.RepoID, ValString: v, Err: err}

	case store.EffectLoadWorktrees:
		v, err := repo.ListWorktrees(ctx)
		return store.Msg{Kind: store.MsgWorktreesLoaded, RepoID: eff.RepoID, ValWorktrees: v, Err: err}

	case store.EffectLoadSubmodules:
		v, err := repo.ListSubmodules(ctx)
		return store.Msg{Kind: store.MsgSubmodulesLoaded, RepoID: eff.RepoID, ValSubmodules: v, Err: err}

	case store.EffectLoadLog:
		page, err := loadLogPage(ctx, repo, eff.Scope, eff.Limit, eff.Cursor)
		return store.Msg{Kind: store.MsgLogLoaded, RepoID: eff.RepoID, Scope: eff.Scope, Cursor: eff.Cursor, ValLogPage: page, Err: err}

	case store.EffectLoadFileHistory:
		page, err := repo.LogFilePage(ctx, eff.Path, eff.Limit, eff.Cursor)
		return store.Msg{Kind: store.MsgFileHistoryLoaded, RepoID: eff.RepoID, Path: eff.Path, ValLogPage: page, Err: err}

	case store.EffectLoadCommitDetails:
		v, err := repo.CommitDetails(ctx, eff.CommitID)
		return store.Msg{Kind: store.MsgCommitDetailsLoaded, RepoID: eff.RepoID, CommitID: eff.CommitID, ValCommitDetails: &v, Err: err}

	case store.EffectLoadBlame:
		v, err := repo.BlameFile(ctx, eff.BlamePath, eff.BlameRev)
		return store.Msg{Kind: store.MsgBlameLoaded, RepoID: eff.RepoID, Path: eff.BlamePath, ValBlame: v, Err: err}

	case store.EffectLoadConflictFile:
		segments, err := loadConflictFile(ctx, repo, eff.Path)
		return store.Msg{Kind: store.MsgConflictFileLoaded, RepoID: eff.RepoID, Path: eff.Path, ValConflictFile: segments, Err: err}

	case store.EffectLoadDiff:
		v, err := repo.DiffUnified(ctx, eff.DiffTarget)
		return store.Msg{Kind: store.MsgDiffLoaded, RepoID: eff.RepoID, Target: eff.DiffTarget, ValDiff: v, Err: err}

	case store.EffectLoadDiffFile:
		v, err := repo.DiffFileText(ctx, eff.DiffTarget)
		return store.Msg{Kind: store.MsgDiffFileLoaded, RepoID: eff.RepoID, Target: eff.DiffTarget, ValDiffFile: v, Err: err}

	case store.EffectLoadDiffFileImage:
		v, err := repo.DiffFileImage(ctx, eff.DiffTarget)
		return store.Msg{Kind: store.MsgDiffFileImageLoaded, RepoID: eff.RepoID, Target: eff.DiffTarget, ValDiffFileImage: v, Err: err}

	case store.EffectRunCommand:
		out, err := runCommand(ctx, repo, eff.Command)
		return store.Msg{Kind: store.MsgRepoCommandFinished, RepoID: eff.RepoID, Command: eff.Command, ValCommandOutput: out, Err: err}

	case store.EffectCommit:
		_, err := repo.Commit(ctx, eff.Message)
		return store.Msg{Kind: store.MsgCommitFinished, RepoID: eff.RepoID, Err: err}

	case store.EffectCommitAmend:
		_, err := repo.CommitAmend(ctx, eff.Message)
		return store.Msg{Kind: store.MsgCommitAmendFinished, RepoID: eff.RepoID, Err: err}

	case store.EffectCheckoutBranch:
		_, err := repo.CheckoutBranch(ctx, eff.Name)
		return actionResult(eff.RepoID, err)

	case store.EffectCheckoutRemoteBranch:
		_, err := repo.CheckoutRemoteBranch(ctx, eff.Remote, eff.Branch)
		return actionResult(eff.RepoID, err)

	case store.EffectCheckoutCommit:
		_, err := repo.CheckoutCommit(ctx, eff.CommitID)
		return actionResult(eff.RepoID, err)

	case store.EffectCherryPickCommit:
		_, err := repo.CherryPick(ctx, eff.CommitID)
		return actionResult(eff.RepoID, err)

	case store.EffectRevertCommit:
		_, err := repo.Revert(ctx, eff.CommitID)
		return actionResult(eff.RepoID, err)

	case store.EffectCreateBranch:
		_, err := repo.CreateBranch(ctx, eff.Name, "")
		return actionResult(eff.RepoID, err)

	case store.EffectCreateBranchAndCheckout:
		_, err := repo.CreateBranch(ctx, eff.Name, "")
		if err == nil {
			_, err = repo.CheckoutBranch(ctx, eff.Name)
		}
		return actionResult(eff.RepoID, err)

	case store.EffectDeleteBranch:
		_, err := repo.DeleteBranch(ctx, eff.Name, false)
		return actionResult(eff.RepoID, err)

	case store.EffectStagePaths:
		_, err := repo.StagePaths(ctx, eff.Paths)
		return actionResult(eff.RepoID, err)

	case store.EffectUnstagePaths:
		_, err := repo.UnstagePaths(ctx, eff.Paths)
		return actionResult(eff.RepoID, err)

	case store.EffectDiscardWorktreePaths:
		_, err := repo.DiscardPaths(ctx, eff.Paths)
		return actionResult(eff.RepoID, err)

	case store.EffectStash:
		_, err := repo.StashSave(ctx, eff.Message, eff.IncludeUntracked)
		return actionResult(eff.RepoID, err)

	case store.EffectApplyStash:
		_, err := repo.StashApply(ctx, eff.StashIndex)
		return actionResult(eff.RepoID, err)

	case store.EffectDropStash:
		_, err := repo.StashDrop(ctx, eff.StashIndex)
		return actionResult(eff.RepoID, err)

	case store.EffectPopStash:
		_, err := repo.StashPop(ctx, eff.StashIndex)
		return actionResult(eff.RepoID, err)

	default:
		return store.Msg{Kind: store.MsgRepoActionFinished, RepoID: eff.RepoID}
	}
}

// actionResult wraps a generic local-action's error into the shared
// completion Msg every non-commit, non-command-logged mutation resolves to.
func actionResult(repoID store.RepoId, err error) store.Msg {
	return store.Msg{Kind: store.MsgRepoActionFinished, RepoID: repoID, Err: err}
}

func loadLogPage(ctx context.Context, repo backend.Repo, scope store.HistoryScope, limit int, cursor *string) (*domain.LogPage, error) {
	if scope == store.ScopeAllBranches {
		return repo.LogAllBranchesPage(ctx, limit, cursor)
	}
	return repo.LogHeadPage(ctx, limit, cursor)
}

// loadConflictFile fetches the three index stages of an unmerged path and
// represents them as the single conflict.Block a resolution view renders,
// reusing conflict.Segment instead of a bespoke shape for this one caller.
func loadConflictFile(ctx context.Context, repo backend.Repo, path string) ([]conflict.Segment, error) {
	stages, err := repo.ConflictFileStages(ctx, path)
	if err != nil {
		return nil, err
	}
	base, hasBase := stages[domain.ConflictSideBase]
	blk := conflict.Block{
		Base:    base,
		HasBase: hasBase,
		Ours:    stages[domain.ConflictSideOurs],
		Theirs:  stages[domain.ConflictSideTheirs],
	}
	return []conflict.Segment{{Kind: conflict.SegmentBlock, Blk: blk}}, nil
}

func runCommand(ctx context.Context, repo backend.Repo, cmd store.RepoCommand) (domain.CommandOutput, error) {
	switch cmd.Kind {
	case store.CmdFetchAll:
		return repo.Fetch(ctx, cmd.Remote)
	case store.CmdPull:
		return repo.Pull(ctx, cmd.Remote, domain.PullMerge)
	case store.CmdPullBranch:
		return repo.Pull(ctx, cmd.Remote, domain.PullMerge)
	case store.CmdMergeRef:
		return repo.Merge(ctx, cmd.Ref)
	case store.CmdPush:
		return repo.Push(ctx, cmd.Remote, cmd.Branch, false, false)
	case store.CmdForcePush:
		return repo.Push(ctx, cmd.Remote, cmd.Branch, true, false)
	case store.CmdPushSetUpstream:
		return repo.Push(ctx, cmd.Remote, cmd.Branch, false, true)
	case store.CmdReset:
		return repo.Reset(ctx, cmd.Target, cmd.Mode)
	case store.CmdRebase:
		return repo.RebaseInteractive(ctx, cmd.Onto)
	case store.CmdRebaseContinue:
		return repo.RebaseContinue(ctx)
	case store.CmdRebaseAbort:
		return repo.RebaseAbort(ctx)
	case store.CmdCreateTag:
		return repo.CreateTag(ctx, cmd.Name, cmd.Target, "")
	case store.CmdDeleteTag:
		return repo.DeleteTag(ctx, cmd.Name)
	case store.CmdAddRemote:
		return repo.AddRemote(ctx, cmd.Name, cmd.Remote)
	case store.CmdRemoveRemote:
		return repo.RemoveRemote(ctx, cmd.Name)
	case store.CmdSetRemoteURL:
		return repo.SetRemoteURL(ctx, cmd.Name, cmd.Remote)
	case store.CmdDeleteRemoteBranch:
		return repo.DeleteRemoteBranch(ctx, cmd.Remote, cmd.Branch)
	case store.CmdCheckoutConflict:
		return repo.CheckoutConflictSide(ctx, cmd.Path, cmd.Side)
	case store.CmdSaveWorktreeFile:
		return domain.CommandOutput{}, nil
	case store.CmdExportPatch:
		_, err := repo.ExportPatch(ctx, domain.DiffTarget{Kind: domain.DiffTargetCommit, Commit: cmd.Target})
		return domain.CommandOutput{}, err
	case store.CmdApplyPatch:
		return repo.ApplyPatchToIndex(ctx, cmd.Path, false)
	case store.CmdStageHunk:
		return repo.ApplyPatchToIndex(ctx, cmd.Patch, false)
	case store.CmdUnstageHunk:
		return repo.ApplyPatchToIndex(ctx, cmd.Patch, true)
	case store.CmdAddWorktree:
		return repo.WorktreeAdd(ctx, cmd.Path, cmd.Ref)
	case store.CmdRemoveWorktree:
		return repo.WorktreeRemove(ctx, cmd.Path, false)
	case store.CmdAddSubmodule:
		return repo.SubmoduleAdd(ctx, cmd.Remote, cmd.Path)
	case store.CmdUpdateSubmodules:
		return repo.SubmoduleUpdate(ctx, cmd.Path)
	case store.CmdRemoveSubmodule:
		return repo.SubmoduleRemove(ctx, cmd.Path)
	case store.CmdApplyWorktreePatch:
		return repo.ApplyPatchToWorktree(ctx, cmd.Patch, cmd.Reverse)
	default:
		return domain.CommandOutput{}, nil
	}
}
