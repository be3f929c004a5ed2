package store

import (
	"github.com/gitcore/gitcore/internal/domain"
)

// EffectKind discriminates the Effect union. The reducer never performs I/O
// itself; every blocking operation it wants done is expressed as an Effect
// and handed to the executor, which runs it against a backend.Repo and posts
// the resulting Msg back.
type EffectKind int

const (
	EffectOpenRepo EffectKind = iota
	EffectCloseRepo
	EffectCloneRepo

	EffectLoadHeadBranch
	EffectLoadUpstreamDivergence
	EffectLoadBranches
	EffectLoadTags
	EffectLoadRemotes
	EffectLoadRemoteBranches
	EffectLoadStatus
	EffectLoadStashes
	EffectLoadReflog
	EffectLoadRebaseState
	EffectLoadMergeCommitMessage
	EffectLoadWorktrees
	EffectLoadSubmodules

	EffectLoadLog
	EffectLoadFileHistory
	EffectLoadCommitDetails
	EffectLoadBlame
	EffectLoadConflictFile

	EffectLoadDiff
	EffectLoadDiffFile
	EffectLoadDiffFileImage

	EffectRunCommand

	// Generic local actions: each runs one backend.Repo mutation that isn't
	// logged to the command table and resolves to MsgRepoActionFinished.
	EffectCheckoutBranch
	EffectCheckoutRemoteBranch
	EffectCheckoutCommit
	EffectCherryPickCommit
	EffectRevertCommit
	EffectCreateBranch
	EffectCreateBranchAndCheckout
	EffectDeleteBranch
	EffectStagePaths
	EffectUnstagePaths
	EffectDiscardWorktreePaths
	EffectStash
	EffectApplyStash
	EffectDropStash
	EffectPopStash

	// Dedicated commit effects: each tracks its own in-flight counter and
	// resolves to MsgCommitFinished/MsgCommitAmendFinished.
	EffectCommit
	EffectCommitAmend

	EffectPersistSession
)

// Effect is a single unit of requested work. Only the fields relevant to
// Kind are populated.
type Effect struct {
	Kind EffectKind

	RepoID RepoId
	Spec   domain.RepoSpec

	// EffectCloneRepo
	CloneURL  string
	CloneDest string

	// EffectLoadLog / EffectLoadFileHistory
	Scope  HistoryScope
	Limit  int
	Cursor *string
	Path   string

	// EffectLoadCommitDetails
	CommitID domain.CommitId

	// EffectLoadBlame
	BlamePath string
	BlameRev  domain.CommitId

	// EffectLoadDiff / EffectLoadDiffFile / EffectLoadDiffFileImage
	DiffTarget domain.DiffTarget

	// EffectRunCommand
	Command RepoCommand

	// EffectCommit / EffectCommitAmend / EffectStash
	Message string

	// EffectCheckoutBranch / EffectCreateBranch / EffectCreateBranchAndCheckout /
	// EffectDeleteBranch
	Name string

	// EffectCheckoutRemoteBranch
	Remote string
	Branch string

	// EffectStagePaths / EffectUnstagePaths / EffectDiscardWorktreePaths
	Paths []string

	// EffectStash
	IncludeUntracked bool

	// EffectApplyStash / EffectDropStash / EffectPopStash
	StashIndex int
}
