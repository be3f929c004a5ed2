// Package backend defines the Repo Backend Interface: the polymorphic
// capability object the store consumes to open, query, and mutate a Git
// working tree. The store never depends on a concrete implementation — see
// internal/backend/gitcli for the reference one.
package backend

import (
	"context"

	"github.com/gitcore/gitcore/internal/domain"
)

// Repo is one opened repository handle. Every method is synchronous and is
// expected to be called from an executor worker goroutine, never from the
// reducer. Implementations must be safe to call concurrently from multiple
// goroutines against independent clones/handles of the same repository.
type Repo interface {
	Spec() domain.RepoSpec

	CurrentBranch(ctx context.Context) (string, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
	ListRemotes(ctx context.Context) ([]domain.Remote, error)
	ListRemoteBranches(ctx context.Context) ([]domain.RemoteBranch, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	ListWorktrees(ctx context.Context) ([]domain.Worktree, error)
	ListSubmodules(ctx context.Context) ([]domain.Submodule, error)
	ListStashes(ctx context.Context) ([]domain.Stash, error)
	Status(ctx context.Context) (*domain.RepoStatus, error)
	UpstreamDivergence(ctx context.Context) (domain.UpstreamDivergence, error)
	ReflogHead(ctx context.Context, limit int) ([]domain.ReflogEntry, error)

	LogHeadPage(ctx context.Context, limit int, cursor *string) (*domain.LogPage, error)
	LogAllBranchesPage(ctx context.Context, limit int, cursor *string) (*domain.LogPage, error)
	LogFilePage(ctx context.Context, path string, limit int, cursor *string) (*domain.LogPage, error)

	CommitDetails(ctx context.Context, id domain.CommitId) (domain.CommitDetails, error)
	BlameFile(ctx context.Context, path string, rev domain.CommitId) ([]domain.BlameLine, error)

	RebaseInProgress(ctx context.Context) (bool, error)
	MergeCommitMessage(ctx context.Context) (string, error)

	DiffUnified(ctx context.Context, target domain.DiffTarget) (*domain.Diff, error)
	DiffFileText(ctx context.Context, target domain.DiffTarget) (*domain.FileDiffText, error)
	DiffFileImage(ctx context.Context, target domain.DiffTarget) (*domain.FileDiffImage, error)
	ConflictFileStages(ctx context.Context, path string) (map[domain.ConflictSide]string, error)

	// Mutations. Each returns CommandOutput when the operation maps onto a
	// single underlying command so the store can render it to the command
	// log.

	CreateBranch(ctx context.Context, name string, startPoint string) (domain.CommandOutput, error)
	DeleteBranch(ctx context.Context, name string, force bool) (domain.CommandOutput, error)
	CheckoutBranch(ctx context.Context, name string) (domain.CommandOutput, error)
	CheckoutRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error)
	CheckoutCommit(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error)
	CreateTag(ctx context.Context, name string, target domain.CommitId, message string) (domain.CommandOutput, error)
	DeleteTag(ctx context.Context, name string) (domain.CommandOutput, error)
	AddRemote(ctx context.Context, name, url string) (domain.CommandOutput, error)
	RemoveRemote(ctx context.Context, name string) (domain.CommandOutput, error)
	SetRemoteURL(ctx context.Context, name, url string) (domain.CommandOutput, error)
	DeleteRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error)

	StagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error)
	UnstagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error)
	DiscardPaths(ctx context.Context, paths []string) (domain.CommandOutput, error)
	Commit(ctx context.Context, message string) (domain.CommandOutput, error)
	CommitAmend(ctx context.Context, message string) (domain.CommandOutput, error)

	StashSave(ctx context.Context, message string, includeUntracked bool) (domain.CommandOutput, error)
	StashApply(ctx context.Context, index int) (domain.CommandOutput, error)
	StashPop(ctx context.Context, index int) (domain.CommandOutput, error)
	StashDrop(ctx context.Context, index int) (domain.CommandOutput, error)

	CherryPick(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error)
	Revert(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error)
	Merge(ctx context.Context, ref string) (domain.CommandOutput, error)
	Reset(ctx context.Context, target domain.CommitId, mode domain.ResetMode) (domain.CommandOutput, error)

	RebaseInteractive(ctx context.Context, onto domain.CommitId) (domain.CommandOutput, error)
	RebaseContinue(ctx context.Context) (domain.CommandOutput, error)
	RebaseAbort(ctx context.Context) (domain.CommandOutput, error)

	Fetch(ctx context.Context, remote string) (domain.CommandOutput, error)
	Pull(ctx context.Context, remote string, mode domain.PullMode) (domain.CommandOutput, error)
	Push(ctx context.Context, remote, branch string, force, setUpstream bool) (domain.CommandOutput, error)

	ExportPatch(ctx context.Context, target domain.DiffTarget) (string, error)
	ApplyPatchToIndex(ctx context.Context, patch string, reverse bool) (domain.CommandOutput, error)
	ApplyPatchToWorktree(ctx context.Context, patch string, reverse bool) (domain.CommandOutput, error)

	WorktreeAdd(ctx context.Context, path string, branch string) (domain.CommandOutput, error)
	WorktreeRemove(ctx context.Context, path string, force bool) (domain.CommandOutput, error)

	SubmoduleAdd(ctx context.Context, url, path string) (domain.CommandOutput, error)
	SubmoduleUpdate(ctx context.Context, path string) (domain.CommandOutput, error)
	SubmoduleRemove(ctx context.Context, path string) (domain.CommandOutput, error)

	CheckoutConflictSide(ctx context.Context, path string, side domain.ConflictSide) (domain.CommandOutput, error)
}

// Opener resolves a workdir path to an opened Repo handle. It is the only
// backend entry point the executor needs besides Repo itself.
type Opener interface {
	Open(ctx context.Context, workdir string) (Repo, error)
}
