package store

import (
	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/conflict"
	"github.com/gitcore/gitcore/internal/domain"
)

// MsgKind discriminates the Msg union: every user intent, completed load,
// and completed mutation the reducer can react to.
type MsgKind int

const (
	// User intents — repo lifecycle.
	MsgOpenRepo MsgKind = iota
	MsgRestoreSession
	MsgCloseRepo
	MsgDismissRepoError
	MsgSetActiveRepo
	MsgReorderRepoTabs
	MsgReloadRepo
	MsgRepoExternallyChanged

	// User intents — selection and history navigation.
	MsgSetHistoryScope
	MsgLoadMoreHistory
	MsgSelectCommit
	MsgClearCommitSelection
	MsgSelectDiff
	MsgClearDiffSelection

	// User intents — on-demand loads.
	MsgLoadStashes
	MsgLoadConflictFile
	MsgLoadReflog
	MsgLoadFileHistory
	MsgLoadBlame
	MsgLoadWorktrees
	MsgLoadSubmodules

	// User intents — worktree/index mutations.
	MsgStageHunk
	MsgUnstageHunk
	MsgApplyWorktreePatch
	MsgStagePaths
	MsgUnstagePaths
	MsgDiscardWorktreePaths
	MsgSaveWorktreeFile
	MsgCommit
	MsgCommitAmend

	// User intents — refs and remotes.
	MsgCheckoutBranch
	MsgCheckoutRemoteBranch
	MsgCheckoutCommit
	MsgCherryPickCommit
	MsgRevertCommit
	MsgCreateBranch
	MsgCreateBranchAndCheckout
	MsgDeleteBranch
	MsgCreateTag
	MsgDeleteTag
	MsgAddRemote
	MsgRemoveRemote
	MsgSetRemoteURL
	MsgDeleteRemoteBranch
	MsgCheckoutConflictSide

	// User intents — stash.
	MsgStash
	MsgApplyStash
	MsgDropStash
	MsgPopStash

	// User intents — sync.
	MsgFetchAll
	MsgPull
	MsgPullBranch
	MsgMergeRef
	MsgPush
	MsgForcePush
	MsgPushSetUpstream
	MsgReset
	MsgRebase
	MsgRebaseContinue
	MsgRebaseAbort

	// User intents — patches, worktrees, submodules.
	MsgExportPatch
	MsgApplyPatch
	MsgAddWorktree
	MsgRemoveWorktree
	MsgAddSubmodule
	MsgUpdateSubmodules
	MsgRemoveSubmodule

	// Clone lifecycle.
	MsgCloneRepo
	MsgCloneRepoProgress
	MsgCloneRepoFinished

	// Open completion.
	MsgRepoOpenedOk
	MsgRepoOpenedErr

	// Load completions.
	MsgBranchesLoaded
	MsgRemotesLoaded
	MsgRemoteBranchesLoaded
	MsgStatusLoaded
	MsgHeadBranchLoaded
	MsgUpstreamDivergenceLoaded
	MsgLogLoaded
	MsgTagsLoaded
	MsgStashesLoaded
	MsgReflogLoaded
	MsgRebaseStateLoaded
	MsgMergeCommitMessageLoaded
	MsgFileHistoryLoaded
	MsgBlameLoaded
	MsgConflictFileLoaded
	MsgWorktreesLoaded
	MsgSubmodulesLoaded
	MsgCommitDetailsLoaded
	MsgDiffLoaded
	MsgDiffFileLoaded
	MsgDiffFileImageLoaded

	// Mutation completions.
	MsgRepoActionFinished
	MsgCommitFinished
	MsgCommitAmendFinished
	MsgRepoCommandFinished
)

// Msg is the closed set of events the reducer accepts: user intents,
// completed loads, and completed mutations. Only the fields relevant to Kind
// are populated.
type Msg struct {
	Kind MsgKind

	RepoID RepoId

	// MsgOpenRepo / MsgCloneRepo dest / MsgAddWorktree / MsgApplyPatch etc.
	Workdir string

	// MsgRestoreSession
	OpenRepos  []string
	ActiveRepo *string

	// MsgReorderRepoTabs
	InsertBefore *RepoId

	// MsgRepoExternallyChanged
	Change domain.RepoExternalChange

	// MsgSetHistoryScope
	Scope HistoryScope

	// MsgSelectCommit / MsgCheckoutCommit / MsgCherryPickCommit / MsgRevertCommit
	CommitID domain.CommitId

	// MsgSelectDiff / diff load completions
	Target domain.DiffTarget

	// MsgLoadConflictFile / MsgLoadFileHistory / MsgLoadBlame / path-taking mutations
	Path  string
	Paths []string

	// MsgLoadFileHistory / MsgLoadLog / pagination
	Limit  int
	Cursor *string

	// MsgLoadBlame
	Rev *domain.CommitId

	// MsgStageHunk / MsgUnstageHunk / MsgApplyWorktreePatch
	Patch   string
	Reverse bool

	// MsgSaveWorktreeFile
	Contents string
	Stage    bool

	// MsgCommit / MsgCommitAmend / MsgStash / general message text
	Message string

	// MsgCreateBranch / MsgDeleteBranch / MsgCreateTag / MsgDeleteTag /
	// MsgAddRemote / MsgRemoveRemote / MsgSetRemoteURL / MsgCheckoutBranch
	Name string

	// MsgCheckoutRemoteBranch / MsgPullBranch / MsgPushSetUpstream /
	// MsgAddRemote / MsgSetRemoteURL
	Remote string
	Branch string
	URL    string

	// MsgCloneRepo / MsgCloneRepoProgress / MsgCloneRepoFinished
	CloneURL string
	CloneDest string
	Line     string

	// MsgPull
	PullMode domain.PullMode

	// MsgReset
	ResetTarget string
	ResetMode   domain.ResetMode

	// MsgRebase
	RebaseOnto string

	// MsgCheckoutConflictSide
	Side domain.ConflictSide

	// MsgStash / MsgApplyStash / MsgDropStash / MsgPopStash
	IncludeUntracked bool
	StashIndex       int

	// MsgExportPatch / MsgApplyPatch
	PatchPath string

	// MsgAddWorktree
	WorktreeRef *string

	// Result-bearing completions: at most one of the Val* fields is set
	// when Err == nil.
	Err error

	RepoSpec domain.RepoSpec
	Repo     backend.Repo

	ValString             string
	ValBool               bool
	ValBranches           []domain.Branch
	ValRemotes            []domain.Remote
	ValRemoteBranches     []domain.RemoteBranch
	ValTags               []domain.Tag
	ValStashes            []domain.Stash
	ValWorktrees          []domain.Worktree
	ValSubmodules         []domain.Submodule
	ValReflog             []domain.ReflogEntry
	ValBlame              []domain.BlameLine
	ValConflictFile       []conflict.Segment
	ValStatus             *domain.RepoStatus
	ValUpstreamDivergence *domain.UpstreamDivergence
	ValLogPage            *domain.LogPage
	ValCommitDetails      *domain.CommitDetails
	ValDiff               *domain.Diff
	ValDiffFile           *domain.FileDiffText
	ValDiffFileImage      *domain.FileDiffImage
	ValCommandOutput      domain.CommandOutput

	// MsgRepoCommandFinished
	Command RepoCommand
}
