package store

import "github.com/gitcore/gitcore/internal/domain"

// RepoCommandKind is the closed set of user-initiated mutating commands the
// reducer can dispatch and later summarize in the command log.
type RepoCommandKind int

const (
	CmdFetchAll RepoCommandKind = iota
	CmdPull
	CmdPullBranch
	CmdMergeRef
	CmdPush
	CmdForcePush
	CmdPushSetUpstream
	CmdDeleteRemoteBranch
	CmdReset
	CmdRebase
	CmdRebaseContinue
	CmdRebaseAbort
	CmdCreateTag
	CmdDeleteTag
	CmdAddRemote
	CmdRemoveRemote
	CmdSetRemoteURL
	CmdCheckoutConflict
	CmdSaveWorktreeFile
	CmdExportPatch
	CmdApplyPatch
	CmdAddWorktree
	CmdRemoveWorktree
	CmdAddSubmodule
	CmdUpdateSubmodules
	CmdRemoveSubmodule
	CmdStageHunk
	CmdUnstageHunk
	CmdApplyWorktreePatch
)

// RepoCommand carries the discriminant fields a completed command needs for
// summarization; only fields relevant to Kind are populated.
type RepoCommand struct {
	Kind RepoCommandKind

	Remote string
	Branch string
	Ref    string

	Mode   domain.ResetMode
	Target domain.CommitId
	Onto   domain.CommitId

	Name string

	Side domain.ConflictSide
	Path string
	Stage bool

	Patch   string
	Reverse bool
}

func (k RepoCommandKind) failureLabel(c RepoCommand) string {
	switch k {
	case CmdFetchAll:
		return "Fetch"
	case CmdPull, CmdPullBranch:
		return "Pull"
	case CmdMergeRef:
		return "Merge"
	case CmdPush, CmdPushSetUpstream:
		return "Push"
	case CmdForcePush:
		return "Force push"
	case CmdDeleteRemoteBranch:
		return "Delete remote branch"
	case CmdReset:
		return "Reset"
	case CmdRebase, CmdRebaseContinue, CmdRebaseAbort:
		return "Rebase"
	case CmdCreateTag, CmdDeleteTag:
		return "Tag"
	case CmdAddRemote, CmdRemoveRemote, CmdSetRemoteURL:
		return "Remote"
	case CmdCheckoutConflict:
		if c.Side == domain.ConflictSideOurs {
			return "Checkout ours"
		}
		return "Checkout theirs"
	case CmdSaveWorktreeFile:
		return "Save file"
	case CmdExportPatch, CmdApplyPatch:
		return "Patch"
	case CmdAddWorktree, CmdRemoveWorktree:
		return "Worktree"
	case CmdAddSubmodule, CmdUpdateSubmodules, CmdRemoveSubmodule:
		return "Submodule"
	case CmdStageHunk:
		return "Hunk"
	case CmdUnstageHunk:
		return "Hunk"
	case CmdApplyWorktreePatch:
		if c.Reverse {
			return "Discard"
		}
		return "Patch"
	default:
		return "Command"
	}
}
