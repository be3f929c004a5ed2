package gitcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitcore/gitcore/internal/domain"
)

func (r *CLIRepo) CreateBranch(ctx context.Context, name, startPoint string) (domain.CommandOutput, error) {
	if startPoint != "" {
		return r.runWrite(ctx, "branch", name, startPoint)
	}
	return r.runWrite(ctx, "branch", name)
}

func (r *CLIRepo) DeleteBranch(ctx context.Context, name string, force bool) (domain.CommandOutput, error) {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return r.runWrite(ctx, "branch", flag, name)
}

func (r *CLIRepo) CheckoutBranch(ctx context.Context, name string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "switch", name)
}

// CheckoutRemoteBranch creates (or reuses) a local tracking branch for
// remote/branch and checks it out. If the local branch already exists,
// falls back to checking it out and pointing its upstream at remote/branch
// instead of failing.
func (r *CLIRepo) CheckoutRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error) {
	upstream := remote + "/" + branch
	out, err := r.runWrite(ctx, "checkout", "--track", "-b", branch, upstream)
	if err == nil {
		return out, nil
	}
	if !strings.Contains(out.Stderr, "already exists") && !strings.Contains(out.Stderr, "fatal: a branch named") {
		return out, err
	}
	if _, err := r.runWrite(ctx, "checkout", branch); err != nil {
		return out, err
	}
	return r.runWrite(ctx, "branch", "--set-upstream-to="+upstream, branch)
}

func (r *CLIRepo) CheckoutCommit(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "checkout", string(id))
}

func (r *CLIRepo) CreateTag(ctx context.Context, name string, target domain.CommitId, message string) (domain.CommandOutput, error) {
	args := []string{"tag"}
	if message != "" {
		args = append(args, "-a", name, "-m", message)
	} else {
		args = append(args, name)
	}
	if target != "" {
		args = append(args, string(target))
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) DeleteTag(ctx context.Context, name string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "tag", "-d", name)
}

func (r *CLIRepo) AddRemote(ctx context.Context, name, url string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "remote", "add", name, url)
}

func (r *CLIRepo) RemoveRemote(ctx context.Context, name string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "remote", "remove", name)
}

func (r *CLIRepo) SetRemoteURL(ctx context.Context, name, url string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "remote", "set-url", name, url)
}

func (r *CLIRepo) DeleteRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "push", remote, "--delete", branch)
}

func (r *CLIRepo) StagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, append([]string{"add", "--"}, paths...)...)
}

func (r *CLIRepo) UnstagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, append([]string{"reset", "HEAD", "--"}, paths...)...)
}

func (r *CLIRepo) DiscardPaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, append([]string{"checkout", "--"}, paths...)...)
}

func (r *CLIRepo) Commit(ctx context.Context, message string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "commit", "-m", message)
}

func (r *CLIRepo) CommitAmend(ctx context.Context, message string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "commit", "--amend", "-m", message)
}

func (r *CLIRepo) StashSave(ctx context.Context, message string, includeUntracked bool) (domain.CommandOutput, error) {
	args := []string{"stash", "push"}
	if includeUntracked {
		args = append(args, "-u")
	}
	if message != "" {
		args = append(args, "-m", message)
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) StashApply(ctx context.Context, index int) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "stash", "apply", fmt.Sprintf("stash@{%d}", index))
}

func (r *CLIRepo) StashPop(ctx context.Context, index int) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "stash", "pop", fmt.Sprintf("stash@{%d}", index))
}

func (r *CLIRepo) StashDrop(ctx context.Context, index int) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "stash", "drop", fmt.Sprintf("stash@{%d}", index))
}

func (r *CLIRepo) CherryPick(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "cherry-pick", string(id))
}

func (r *CLIRepo) Revert(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "revert", "--no-edit", string(id))
}

func (r *CLIRepo) Merge(ctx context.Context, ref string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "merge", ref)
}

func (r *CLIRepo) Reset(ctx context.Context, target domain.CommitId, mode domain.ResetMode) (domain.CommandOutput, error) {
	flag := "--mixed"
	switch mode {
	case domain.ResetSoft:
		flag = "--soft"
	case domain.ResetHard:
		flag = "--hard"
	}
	ref := string(target)
	if ref == "" {
		ref = "HEAD"
	}
	return r.runWrite(ctx, "reset", flag, ref)
}

func (r *CLIRepo) RebaseInteractive(ctx context.Context, onto domain.CommitId) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "rebase", "-i", string(onto))
}

func (r *CLIRepo) RebaseContinue(ctx context.Context) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "rebase", "--continue")
}

func (r *CLIRepo) RebaseAbort(ctx context.Context) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "rebase", "--abort")
}

func (r *CLIRepo) Fetch(ctx context.Context, remote string) (domain.CommandOutput, error) {
	if remote == "" {
		return r.runWrite(ctx, "fetch", "--all")
	}
	return r.runWrite(ctx, "fetch", remote)
}

func (r *CLIRepo) Pull(ctx context.Context, remote string, mode domain.PullMode) (domain.CommandOutput, error) {
	args := []string{"pull"}
	switch mode {
	case domain.PullRebase:
		args = append(args, "--rebase")
	case domain.PullFastForwardOnly:
		args = append(args, "--ff-only")
	}
	if remote != "" {
		args = append(args, remote)
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) Push(ctx context.Context, remote, branch string, force, setUpstream bool) (domain.CommandOutput, error) {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	if force {
		args = append(args, "--force-with-lease")
	}
	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) ExportPatch(ctx context.Context, target domain.DiffTarget) (string, error) {
	out, err := r.run(ctx, r.diffArgsFor(target)...)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (r *CLIRepo) ApplyPatchToIndex(ctx context.Context, patch string, reverse bool) (domain.CommandOutput, error) {
	args := []string{"apply", "--cached"}
	if reverse {
		args = append(args, "-R")
	}
	return r.runWriteStdin(ctx, patch, append(args, "-")...)
}

func (r *CLIRepo) ApplyPatchToWorktree(ctx context.Context, patch string, reverse bool) (domain.CommandOutput, error) {
	args := []string{"apply"}
	if reverse {
		args = append(args, "-R")
	}
	return r.runWriteStdin(ctx, patch, append(args, "-")...)
}

func (r *CLIRepo) WorktreeAdd(ctx context.Context, path string, branch string) (domain.CommandOutput, error) {
	args := []string{"worktree", "add", path}
	if branch != "" {
		args = append(args, branch)
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) WorktreeRemove(ctx context.Context, path string, force bool) (domain.CommandOutput, error) {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) SubmoduleAdd(ctx context.Context, url, path string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "submodule", "add", url, path)
}

func (r *CLIRepo) SubmoduleUpdate(ctx context.Context, path string) (domain.CommandOutput, error) {
	args := []string{"submodule", "update", "--init", "--recursive"}
	if path != "" {
		args = append(args, "--", path)
	}
	return r.runWrite(ctx, args...)
}

func (r *CLIRepo) SubmoduleRemove(ctx context.Context, path string) (domain.CommandOutput, error) {
	return r.runWrite(ctx, "submodule", "deinit", "-f", path)
}

func (r *CLIRepo) CheckoutConflictSide(ctx context.Context, path string, side domain.ConflictSide) (domain.CommandOutput, error) {
	flag := "--ours"
	if side == domain.ConflictSideTheirs {
		flag = "--theirs"
	}
	return r.runWrite(ctx, "checkout", flag, "--", path)
}
