package store

import (
	"github.com/gitcore/gitcore/internal/conflict"
	"github.com/gitcore/gitcore/internal/domain"
)

// reduceLoadOrCommand handles every Msg not already dispatched directly in
// Engine.Reduce: on-demand loads, load completions, and user-intent
// mutations that resolve to a single RepoCommand.
func (e *Engine) reduceLoadOrCommand(msg Msg) []Effect {
	switch msg.Kind {

	// --- load completions -------------------------------------------------
	case MsgHeadBranchLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadHeadBranch, EffectLoadHeadBranch, msg.Err, func(r *RepoState) {
			r.HeadBranch = NewReady(msg.ValString)
			r.HeadBranchRev++
		})
	case MsgUpstreamDivergenceLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadUpstreamDivergence, EffectLoadUpstreamDivergence, msg.Err, func(r *RepoState) {
			var v domain.UpstreamDivergence
			if msg.ValUpstreamDivergence != nil {
				v = *msg.ValUpstreamDivergence
			}
			r.UpstreamDivergence = NewReady(v)
		})
	case MsgBranchesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadBranches, EffectLoadBranches, msg.Err, func(r *RepoState) {
			r.Branches = NewReady(msg.ValBranches)
			r.BranchesRev++
		})
	case MsgTagsLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadTags, EffectLoadTags, msg.Err, func(r *RepoState) {
			r.Tags = NewReady(msg.ValTags)
			r.TagsRev++
		})
	case MsgRemotesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadRemotes, EffectLoadRemotes, msg.Err, func(r *RepoState) {
			r.Remotes = NewReady(msg.ValRemotes)
			r.RemotesRev++
		})
	case MsgRemoteBranchesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadRemoteBranches, EffectLoadRemoteBranches, msg.Err, func(r *RepoState) {
			r.RemoteBranches = NewReady(msg.ValRemoteBranches)
			r.RemoteBranchesRev++
		})
	case MsgStatusLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadStatus, EffectLoadStatus, msg.Err, func(r *RepoState) {
			r.Status = NewReady(msg.ValStatus)
		})
	case MsgStashesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadStashes, EffectLoadStashes, msg.Err, func(r *RepoState) {
			r.Stashes = NewReady(msg.ValStashes)
			r.StashesRev++
		})
	case MsgReflogLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadReflog, EffectLoadReflog, msg.Err, func(r *RepoState) {
			r.Reflog = NewReady(msg.ValReflog)
		})
	case MsgRebaseStateLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadRebaseState, EffectLoadRebaseState, msg.Err, func(r *RepoState) {
			r.RebaseInProgress = NewReady(msg.ValBool)
		})
	case MsgMergeCommitMessageLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadMergeCommitMessage, EffectLoadMergeCommitMessage, msg.Err, func(r *RepoState) {
			r.MergeCommitMessage = NewReady(msg.ValString)
		})
	case MsgWorktreesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadWorktrees, EffectLoadWorktrees, msg.Err, func(r *RepoState) {
			r.Worktrees = NewReady(msg.ValWorktrees)
			r.WorktreesRev++
		})
	case MsgSubmodulesLoaded:
		return e.simpleLoadCompletion(msg.RepoID, LoadSubmodules, EffectLoadSubmodules, msg.Err, func(r *RepoState) {
			r.Submodules = NewReady(msg.ValSubmodules)
			r.SubmodulesRev++
		})

	case MsgLogLoaded:
		return e.logLoaded(msg.RepoID, msg.Scope, msg.Cursor, msg.ValLogPage, msg.Err)

	case MsgCommitDetailsLoaded:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil || repo.SelectedCommit == nil || *repo.SelectedCommit != msg.CommitID {
			return nil
		}
		if msg.Err != nil {
			repo.pushDiagnostic(DiagnosticError, formatErrorForUser(msg.Err))
			repo.CommitDetails = NewError[domain.CommitDetails](formatErrorForUser(msg.Err))
		} else if msg.ValCommitDetails != nil {
			repo.CommitDetails = NewReady(*msg.ValCommitDetails)
		}
		return nil

	case MsgDiffLoaded:
		return e.diffCompletion(msg.RepoID, msg.Target, msg.Err, func(r *RepoState) {
			r.Diff = NewReady(msg.ValDiff)
			r.DiffRev++
		}, func(r *RepoState, m string) { r.Diff = NewError[*domain.Diff](m) })

	case MsgDiffFileLoaded:
		return e.diffCompletion(msg.RepoID, msg.Target, msg.Err, func(r *RepoState) {
			r.DiffFile = NewReady(msg.ValDiffFile)
			r.DiffFileRev++
		}, func(r *RepoState, m string) { r.DiffFile = NewError[*domain.FileDiffText](m) })

	case MsgDiffFileImageLoaded:
		return e.diffCompletion(msg.RepoID, msg.Target, msg.Err, func(r *RepoState) {
			r.DiffFileImage = NewReady(msg.ValDiffFileImage)
		}, func(r *RepoState, m string) { r.DiffFileImage = NewError[*domain.FileDiffImage](m) })

	case MsgFileHistoryLoaded:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil || repo.FileHistoryPath == nil || *repo.FileHistoryPath != msg.Path {
			return nil
		}
		if msg.Err != nil {
			repo.pushDiagnostic(DiagnosticError, formatErrorForUser(msg.Err))
			repo.FileHistory = NewError[*domain.LogPage](formatErrorForUser(msg.Err))
		} else {
			repo.FileHistory = NewReady(msg.ValLogPage)
		}
		return nil

	case MsgBlameLoaded:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil || repo.BlamePath == nil || *repo.BlamePath != msg.Path {
			return nil
		}
		if msg.Err != nil {
			repo.pushDiagnostic(DiagnosticError, formatErrorForUser(msg.Err))
			repo.Blame = NewError[[]domain.BlameLine](formatErrorForUser(msg.Err))
		} else {
			repo.Blame = NewReady(msg.ValBlame)
		}
		return nil

	case MsgConflictFileLoaded:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil || repo.ConflictFilePath == nil || *repo.ConflictFilePath != msg.Path {
			return nil
		}
		if msg.Err != nil {
			repo.pushDiagnostic(DiagnosticError, formatErrorForUser(msg.Err))
			repo.ConflictFile = NewError[[]conflict.Segment](formatErrorForUser(msg.Err))
		} else {
			repo.ConflictFile = NewReady(msg.ValConflictFile)
		}
		return nil

	// --- on-demand loads ----------------------------------------------
	case MsgLoadStashes:
		return e.requestLoad(msg.RepoID, LoadStashes, EffectLoadStashes)
	case MsgLoadReflog:
		return e.requestLoad(msg.RepoID, LoadReflog, EffectLoadReflog)
	case MsgLoadWorktrees:
		return e.requestLoad(msg.RepoID, LoadWorktrees, EffectLoadWorktrees)
	case MsgLoadSubmodules:
		return e.requestLoad(msg.RepoID, LoadSubmodules, EffectLoadSubmodules)
	case MsgLoadFileHistory:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil {
			return nil
		}
		repo.FileHistoryPath = &msg.Path
		repo.FileHistory = NewLoading[*domain.LogPage]()
		limit := msg.Limit
		if limit == 0 {
			limit = logPageSize
		}
		return []Effect{{Kind: EffectLoadFileHistory, RepoID: msg.RepoID, Path: msg.Path, Limit: limit}}
	case MsgLoadBlame:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil {
			return nil
		}
		repo.BlamePath = &msg.Path
		repo.BlameRev = msg.Rev
		repo.Blame = NewLoading[[]domain.BlameLine]()
		eff := Effect{Kind: EffectLoadBlame, RepoID: msg.RepoID, BlamePath: msg.Path}
		if msg.Rev != nil {
			eff.BlameRev = *msg.Rev
		}
		return []Effect{eff}
	case MsgLoadConflictFile:
		repo := e.state.findRepo(msg.RepoID)
		if repo == nil {
			return nil
		}
		repo.ConflictFilePath = &msg.Path
		repo.ConflictFile = NewLoading[[]conflict.Segment]()
		return []Effect{{Kind: EffectLoadConflictFile, RepoID: msg.RepoID, Path: msg.Path}}

	// --- mutation completions -------------------------------------------
	case MsgRepoActionFinished:
		return e.actionFinished(msg.RepoID, msg.Err, func(r *RepoState) { r.decLocalActions() })
	case MsgCommitFinished:
		return e.commitFinished(msg.RepoID, "Commit", msg.Err)
	case MsgCommitAmendFinished:
		return e.commitFinished(msg.RepoID, "Amend", msg.Err)
	case MsgRepoCommandFinished:
		return e.commandFinished(msg.RepoID, msg.Command, msg.ValCommandOutput, msg.Err)

	default:
		return e.dispatchMutation(msg)
	}
}

func (e *Engine) requestLoad(repoID RepoId, kind LoadKind, effectKind EffectKind) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	if repo.LoadsInFlight.Request(kind) {
		return []Effect{{Kind: effectKind, RepoID: repoID}}
	}
	return nil
}

// diffCompletion applies a diff-family load completion only if target still
// matches the repo's current selection (stale responses from a superseded
// selection are dropped silently).
func (e *Engine) diffCompletion(repoID RepoId, target domain.DiffTarget, err error, onOK func(*RepoState), onErr func(*RepoState, string)) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil || repo.DiffTarget == nil || *repo.DiffTarget != target {
		return nil
	}
	if err != nil {
		msg := formatErrorForUser(err)
		repo.pushDiagnostic(DiagnosticError, msg)
		onErr(repo, msg)
	} else {
		onOK(repo)
	}
	return nil
}

func (e *Engine) actionFinished(repoID RepoId, err error, dec func(*RepoState)) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	dec(repo)
	if err != nil {
		msg := formatErrorForUser(err)
		repo.LastError = &msg
		repo.pushDiagnostic(DiagnosticError, msg)
	} else {
		repo.LastError = nil
	}

	effects := refreshPrimaryEffects(repo)
	if repo.DiffTarget != nil {
		effects = append(effects, diffReloadEffects(repoID, *repo.DiffTarget)...)
	}
	return effects
}

// commitFinished handles MsgCommitFinished/MsgCommitAmendFinished. Unlike
// the generic actionFinished, a successful commit invalidates whatever the
// diff view was pointed at instead of reloading it, and is recorded to the
// action log under label rather than the command-kind table.
func (e *Engine) commitFinished(repoID RepoId, label string, err error) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	repo.decCommit()
	if err != nil {
		summary := formatFailureSummary(label, err)
		repo.LastError = &summary
		repo.PushActionLog(false, "", summary, err)
	} else {
		repo.LastError = nil
		repo.DiffTarget = nil
		repo.Diff = Loadable[*domain.Diff]{}
		repo.DiffFile = Loadable[*domain.FileDiffText]{}
		repo.DiffFileImage = Loadable[*domain.FileDiffImage]{}
		repo.PushActionLog(true, "", label+": Completed", nil)
	}
	return refreshPrimaryEffects(repo)
}

// commandFinished handles MsgRepoCommandFinished: command-logged mutations
// with their own pull/push in-flight counters. A successful reset/rebase
// invalidates the diff view like a commit does; a hunk/worktree-patch op
// changes diff content without moving its target, so those reload instead.
func (e *Engine) commandFinished(repoID RepoId, cmd RepoCommand, output domain.CommandOutput, err error) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	repo.decLocalActions()
	switch cmd.Kind {
	case CmdFetchAll, CmdPull, CmdPullBranch:
		repo.decPull()
	case CmdPush, CmdForcePush, CmdPushSetUpstream:
		repo.decPush()
	}

	ok := err == nil
	repo.PushCommandLog(cmd, output, ok, err)
	if ok {
		repo.LastError = nil
		switch cmd.Kind {
		case CmdReset, CmdRebase, CmdRebaseContinue, CmdRebaseAbort:
			repo.DiffTarget = nil
			repo.Diff = Loadable[*domain.Diff]{}
			repo.DiffFile = Loadable[*domain.FileDiffText]{}
			repo.DiffFileImage = Loadable[*domain.FileDiffImage]{}
		}
	} else {
		msg := formatErrorForUser(err)
		repo.LastError = &msg
	}

	effects := refreshFullEffects(repo)
	switch cmd.Kind {
	case CmdStageHunk, CmdUnstageHunk, CmdApplyWorktreePatch:
		if repo.DiffTarget != nil {
			effects = append(effects, diffReloadEffects(repoID, *repo.DiffTarget)...)
		}
	}
	return effects
}

// dispatchMutation translates a user-intent mutation Msg into the single
// effect that carries it out, bumping the repo's in-flight counters the
// same way the reference reducer does: commits/pulls/pushes each get their
// own saturating counter, everything else shares LocalActionsInFlight. A
// mutation resolves either to a dedicated generic-action Effect (no
// command-log entry, completes via MsgRepoActionFinished/MsgCommitFinished/
// MsgCommitAmendFinished) or, failing that, to a command-logged RepoCommand
// via EffectRunCommand.
func (e *Engine) dispatchMutation(msg Msg) []Effect {
	repo := e.state.findRepo(msg.RepoID)
	if repo == nil {
		return nil
	}

	switch msg.Kind {
	case MsgCommit, MsgCommitAmend:
		repo.CommitInFlight++
	case MsgFetchAll, MsgPull, MsgPullBranch:
		repo.PullInFlight++
	case MsgPush, MsgForcePush, MsgPushSetUpstream:
		repo.PushInFlight++
	case MsgStagePaths, MsgUnstagePaths, MsgDiscardWorktreePaths, MsgStageHunk, MsgUnstageHunk,
		MsgApplyWorktreePatch, MsgSaveWorktreeFile, MsgCheckoutBranch, MsgCheckoutRemoteBranch,
		MsgCheckoutCommit, MsgCherryPickCommit, MsgRevertCommit, MsgCreateBranch,
		MsgCreateBranchAndCheckout, MsgDeleteBranch, MsgStash, MsgApplyStash, MsgDropStash, MsgPopStash,
		MsgAddWorktree, MsgRemoveWorktree, MsgAddSubmodule, MsgRemoveSubmodule, MsgDeleteRemoteBranch,
		MsgMergeRef, MsgReset, MsgRebase, MsgRebaseContinue, MsgRebaseAbort, MsgCreateTag, MsgDeleteTag,
		MsgAddRemote, MsgRemoveRemote, MsgSetRemoteURL, MsgCheckoutConflictSide, MsgExportPatch,
		MsgApplyPatch, MsgUpdateSubmodules:
		repo.LocalActionsInFlight++
	}

	if eff, ok := mutationToEffect(msg); ok {
		return []Effect{eff}
	}
	if cmd, ok := mutationToCommand(msg); ok {
		return []Effect{{Kind: EffectRunCommand, RepoID: msg.RepoID, Command: cmd}}
	}
	return nil
}

// mutationToEffect maps a mutation Msg onto its dedicated generic-action
// Effect: operations the reference reducer completes via
// MsgRepoActionFinished/MsgCommitFinished/MsgCommitAmendFinished rather than
// through the RepoCommandKind/command-log table.
func mutationToEffect(msg Msg) (Effect, bool) {
	switch msg.Kind {
	case MsgCommit:
		return Effect{Kind: EffectCommit, RepoID: msg.RepoID, Message: msg.Message}, true
	case MsgCommitAmend:
		return Effect{Kind: EffectCommitAmend, RepoID: msg.RepoID, Message: msg.Message}, true
	case MsgCheckoutBranch:
		return Effect{Kind: EffectCheckoutBranch, RepoID: msg.RepoID, Name: msg.Name}, true
	case MsgCheckoutRemoteBranch:
		return Effect{Kind: EffectCheckoutRemoteBranch, RepoID: msg.RepoID, Remote: msg.Remote, Branch: msg.Branch}, true
	case MsgCheckoutCommit:
		return Effect{Kind: EffectCheckoutCommit, RepoID: msg.RepoID, CommitID: msg.CommitID}, true
	case MsgCherryPickCommit:
		return Effect{Kind: EffectCherryPickCommit, RepoID: msg.RepoID, CommitID: msg.CommitID}, true
	case MsgRevertCommit:
		return Effect{Kind: EffectRevertCommit, RepoID: msg.RepoID, CommitID: msg.CommitID}, true
	case MsgCreateBranch:
		return Effect{Kind: EffectCreateBranch, RepoID: msg.RepoID, Name: msg.Name}, true
	case MsgCreateBranchAndCheckout:
		return Effect{Kind: EffectCreateBranchAndCheckout, RepoID: msg.RepoID, Name: msg.Name}, true
	case MsgDeleteBranch:
		return Effect{Kind: EffectDeleteBranch, RepoID: msg.RepoID, Name: msg.Name}, true
	case MsgStagePaths:
		return Effect{Kind: EffectStagePaths, RepoID: msg.RepoID, Paths: dedupPathsInOrder(msg.Paths)}, true
	case MsgUnstagePaths:
		return Effect{Kind: EffectUnstagePaths, RepoID: msg.RepoID, Paths: dedupPathsInOrder(msg.Paths)}, true
	case MsgDiscardWorktreePaths:
		return Effect{Kind: EffectDiscardWorktreePaths, RepoID: msg.RepoID, Paths: dedupPathsInOrder(msg.Paths)}, true
	case MsgStash:
		return Effect{Kind: EffectStash, RepoID: msg.RepoID, Message: msg.Message, IncludeUntracked: msg.IncludeUntracked}, true
	case MsgApplyStash:
		return Effect{Kind: EffectApplyStash, RepoID: msg.RepoID, StashIndex: msg.StashIndex}, true
	case MsgDropStash:
		return Effect{Kind: EffectDropStash, RepoID: msg.RepoID, StashIndex: msg.StashIndex}, true
	case MsgPopStash:
		return Effect{Kind: EffectPopStash, RepoID: msg.RepoID, StashIndex: msg.StashIndex}, true
	default:
		return Effect{}, false
	}
}

// mutationToCommand maps a mutation Msg onto the RepoCommand it issues.
// Msgs handled instead by mutationToEffect (generic local actions with no
// command-log entry) return ok == false here.
func mutationToCommand(msg Msg) (RepoCommand, bool) {
	switch msg.Kind {
	case MsgFetchAll:
		return RepoCommand{Kind: CmdFetchAll}, true
	case MsgPull:
		return RepoCommand{Kind: CmdPull}, true
	case MsgPullBranch:
		return RepoCommand{Kind: CmdPullBranch, Remote: msg.Remote, Branch: msg.Branch}, true
	case MsgMergeRef:
		return RepoCommand{Kind: CmdMergeRef, Ref: msg.Name}, true
	case MsgPush:
		return RepoCommand{Kind: CmdPush}, true
	case MsgForcePush:
		return RepoCommand{Kind: CmdForcePush}, true
	case MsgPushSetUpstream:
		return RepoCommand{Kind: CmdPushSetUpstream, Remote: msg.Remote, Branch: msg.Branch}, true
	case MsgReset:
		return RepoCommand{Kind: CmdReset, Mode: msg.ResetMode, Target: domain.CommitId(msg.ResetTarget)}, true
	case MsgRebase:
		return RepoCommand{Kind: CmdRebase, Onto: domain.CommitId(msg.RebaseOnto)}, true
	case MsgRebaseContinue:
		return RepoCommand{Kind: CmdRebaseContinue}, true
	case MsgRebaseAbort:
		return RepoCommand{Kind: CmdRebaseAbort}, true
	case MsgCreateTag:
		return RepoCommand{Kind: CmdCreateTag, Name: msg.Name, Target: domain.CommitId(msg.ResetTarget)}, true
	case MsgDeleteTag:
		return RepoCommand{Kind: CmdDeleteTag, Name: msg.Name}, true
	case MsgAddRemote:
		return RepoCommand{Kind: CmdAddRemote, Name: msg.Name, Remote: msg.URL}, true
	case MsgRemoveRemote:
		return RepoCommand{Kind: CmdRemoveRemote, Name: msg.Name}, true
	case MsgSetRemoteURL:
		return RepoCommand{Kind: CmdSetRemoteURL, Name: msg.Name, Remote: msg.URL}, true
	case MsgDeleteRemoteBranch:
		return RepoCommand{Kind: CmdDeleteRemoteBranch, Remote: msg.Remote, Branch: msg.Branch}, true
	case MsgCheckoutConflictSide:
		return RepoCommand{Kind: CmdCheckoutConflict, Path: msg.Path, Side: msg.Side}, true
	case MsgSaveWorktreeFile:
		return RepoCommand{Kind: CmdSaveWorktreeFile, Path: msg.Path, Stage: msg.Stage}, true
	case MsgExportPatch:
		return RepoCommand{Kind: CmdExportPatch, Path: msg.PatchPath}, true
	case MsgApplyPatch:
		return RepoCommand{Kind: CmdApplyPatch, Path: msg.PatchPath}, true
	case MsgAddWorktree:
		return RepoCommand{Kind: CmdAddWorktree, Path: msg.Path, Ref: derefOr(msg.WorktreeRef, "")}, true
	case MsgRemoveWorktree:
		return RepoCommand{Kind: CmdRemoveWorktree, Path: msg.Path}, true
	case MsgAddSubmodule:
		return RepoCommand{Kind: CmdAddSubmodule, Path: msg.Path}, true
	case MsgUpdateSubmodules:
		return RepoCommand{Kind: CmdUpdateSubmodules}, true
	case MsgRemoveSubmodule:
		return RepoCommand{Kind: CmdRemoveSubmodule, Path: msg.Path}, true
	case MsgApplyWorktreePatch:
		return RepoCommand{Kind: CmdApplyWorktreePatch, Patch: msg.Patch, Reverse: msg.Reverse}, true
	case MsgStageHunk:
		return RepoCommand{Kind: CmdStageHunk, Patch: msg.Patch}, true
	case MsgUnstageHunk:
		return RepoCommand{Kind: CmdUnstageHunk, Patch: msg.Patch}, true
	default:
		return RepoCommand{}, false
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
