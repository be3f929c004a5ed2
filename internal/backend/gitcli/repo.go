package gitcli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gitcore/gitcore/internal/apperr"
	"github.com/gitcore/gitcore/internal/diffkernel"
	"github.com/gitcore/gitcore/internal/domain"
)

const defaultReflogLimit = 200

// ── Repository info, status ─────────────────────────────────────────────────

func (r *CLIRepo) CurrentBranch(ctx context.Context) (string, error) {
	ref, err := r.run(ctx, "symbolic-ref", "--short", "HEAD")
	if err == nil {
		return strings.TrimSpace(ref), nil
	}
	hash, hashErr := r.run(ctx, "rev-parse", "--short", "HEAD")
	if hashErr != nil {
		return "", apperr.Backend("git symbolic-ref --short HEAD", "", err)
	}
	return strings.TrimSpace(hash), nil
}

func (r *CLIRepo) UpstreamDivergence(ctx context.Context) (domain.UpstreamDivergence, error) {
	upstream, err := r.run(ctx, "rev-parse", "--abbrev-ref", "@{upstream}")
	if err != nil {
		return domain.UpstreamDivergence{}, nil
	}
	out, err := r.run(ctx, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return domain.UpstreamDivergence{Upstream: strings.TrimSpace(upstream)}, nil
	}
	parts := strings.Fields(strings.TrimSpace(out))
	div := domain.UpstreamDivergence{Upstream: strings.TrimSpace(upstream)}
	if len(parts) == 2 {
		_, _ = fmt.Sscan(parts[0], &div.Ahead)
		_, _ = fmt.Sscan(parts[1], &div.Behind)
	}
	return div, nil
}

func (r *CLIRepo) Status(ctx context.Context) (*domain.RepoStatus, error) {
	out, err := r.run(ctx, "status", "--porcelain=v1", "-z", "--no-optional-locks", "--untracked-files=normal")
	if err != nil {
		return nil, apperr.Backend("git status", err.Error(), err)
	}
	return parseStatusOutput(out), nil
}

func (r *CLIRepo) RebaseInProgress(ctx context.Context) (bool, error) {
	for _, sub := range []string{"rebase-merge", "rebase-apply"} {
		if info, err := os.Stat(r.gitDir + "/" + sub); err == nil && info.IsDir() {
			return true, nil
		}
	}
	return false, nil
}

func (r *CLIRepo) MergeCommitMessage(ctx context.Context) (string, error) {
	data, err := os.ReadFile(r.gitDir + "/MERGE_MSG")
	if err != nil {
		return "", nil
	}
	return string(data), nil
}

func (r *CLIRepo) ReflogHead(ctx context.Context, limit int) ([]domain.ReflogEntry, error) {
	if limit <= 0 {
		limit = defaultReflogLimit
	}
	out, err := r.run(ctx, "reflog", "show", fmt.Sprintf("--max-count=%d", limit),
		"--format=%H%x00%gd%x00%at%x00%gs%x01", "--no-optional-locks")
	if err != nil {
		return nil, apperr.Backend("git reflog show", err.Error(), err)
	}
	return parseReflog(out), nil
}

// ── Refs ─────────────────────────────────────────────────────────────────

func (r *CLIRepo) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	out, err := r.run(ctx, "branch", "--format="+branchFormat, "--sort=-committerdate")
	if err != nil {
		return nil, apperr.Backend("git branch", err.Error(), err)
	}
	return parseBranchOutput(out), nil
}

func (r *CLIRepo) ListRemotes(ctx context.Context) ([]domain.Remote, error) {
	out, err := r.run(ctx, "remote", "-v")
	if err != nil {
		return nil, apperr.Backend("git remote -v", err.Error(), err)
	}
	return parseRemoteOutput(out), nil
}

func (r *CLIRepo) ListRemoteBranches(ctx context.Context) ([]domain.RemoteBranch, error) {
	out, err := r.run(ctx, "for-each-ref", "--format=%(objectname) %(refname)", "refs/remotes")
	if err != nil {
		return nil, apperr.Backend("git for-each-ref", err.Error(), err)
	}
	return parseRemoteBranches(out), nil
}

func (r *CLIRepo) ListTags(ctx context.Context) ([]domain.Tag, error) {
	out, err := r.run(ctx, "for-each-ref", "--format=%(refname:short)%00%(objectname)%00%(subject)", "refs/tags")
	if err != nil {
		return nil, apperr.Backend("git for-each-ref", err.Error(), err)
	}
	var tags []domain.Tag
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		parts := strings.SplitN(line, "\x00", 3)
		if len(parts) < 2 {
			continue
		}
		t := domain.Tag{Name: parts[0], Target: domain.CommitId(parts[1])}
		if len(parts) == 3 {
			t.Message = parts[2]
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (r *CLIRepo) ListWorktrees(ctx context.Context) ([]domain.Worktree, error) {
	out, err := r.run(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, apperr.Backend("git worktree list", err.Error(), err)
	}
	return parseWorktreeList(out), nil
}

func (r *CLIRepo) ListSubmodules(ctx context.Context) ([]domain.Submodule, error) {
	out, err := r.run(ctx, "submodule", "status")
	if err != nil {
		return nil, nil
	}
	subs := parseSubmoduleStatus(out)
	for i := range subs {
		url, uerr := r.run(ctx, "config", "-f", ".gitmodules", "--get", "submodule."+subs[i].Path+".url")
		if uerr == nil {
			subs[i].URL = strings.TrimSpace(url)
		}
	}
	return subs, nil
}

func (r *CLIRepo) ListStashes(ctx context.Context) ([]domain.Stash, error) {
	out, err := r.run(ctx, "stash", "list")
	if err != nil {
		return nil, apperr.Backend("git stash list", err.Error(), err)
	}
	return parseStashList(out), nil
}

// ── Log / commit detail ─────────────────────────────────────────────────

func (r *CLIRepo) logPage(ctx context.Context, limit int, cursor *string, extra ...string) (*domain.LogPage, error) {
	if limit <= 0 {
		limit = 200
	}
	args := []string{"log", fmt.Sprintf("--max-count=%d", limit+1), "--no-optional-locks", logFormatFlag()}
	if cursor != nil && *cursor != "" {
		args = append(args, *cursor)
	}
	args = append(args, extra...)
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, apperr.Backend("git log", err.Error(), err)
	}
	commits := parseLogOutput(out)
	page := &domain.LogPage{}
	if len(commits) > limit {
		page.Commits = commits[:limit]
		page.NextCursor = &domain.LogCursor{Token: string(commits[limit].ID)}
	} else {
		page.Commits = commits
	}
	return page, nil
}

func (r *CLIRepo) LogHeadPage(ctx context.Context, limit int, cursor *string) (*domain.LogPage, error) {
	return r.logPage(ctx, limit, cursor, "HEAD")
}

func (r *CLIRepo) LogAllBranchesPage(ctx context.Context, limit int, cursor *string) (*domain.LogPage, error) {
	return r.logPage(ctx, limit, cursor, "--all")
}

func (r *CLIRepo) LogFilePage(ctx context.Context, path string, limit int, cursor *string) (*domain.LogPage, error) {
	return r.logPage(ctx, limit, cursor, "HEAD", "--", path)
}

func (r *CLIRepo) CommitDetails(ctx context.Context, id domain.CommitId) (domain.CommitDetails, error) {
	out, err := r.run(ctx, "log", "-1", "--no-optional-locks", logFormatFlag(), string(id))
	if err != nil {
		return domain.CommitDetails{}, apperr.Backend("git log", err.Error(), err)
	}
	entry := strings.TrimSuffix(strings.TrimSpace(out), "\x01")
	commit, ok := parseCommitEntry(entry)
	if !ok {
		return domain.CommitDetails{}, apperr.Unsupported("malformed commit entry")
	}
	statOut, err := r.run(ctx, "show", "--no-optional-locks", "--format=", "--name-status", string(id))
	var stat []domain.FileStatus
	if err == nil {
		for _, line := range strings.Split(strings.TrimRight(statOut, "\n"), "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			stat = append(stat, domain.FileStatus{Staging: domain.StatusCode(fields[0][0]), Path: fields[1]})
		}
	}
	return domain.CommitDetails{Commit: commit, Stat: stat, ParentIDs: commit.Parents}, nil
}

func (r *CLIRepo) BlameFile(ctx context.Context, path string, rev domain.CommitId) ([]domain.BlameLine, error) {
	args := []string{"blame", "--porcelain", "--no-optional-locks"}
	if rev != "" {
		args = append(args, string(rev))
	}
	args = append(args, "--", path)
	out, err := r.run(ctx, args...)
	if err != nil {
		return nil, apperr.Backend("git blame", err.Error(), err)
	}
	return parseBlame(out, path), nil
}

// ── Diff ─────────────────────────────────────────────────────────────────

func (r *CLIRepo) diffArgsFor(target domain.DiffTarget) []string {
	switch target.Kind {
	case domain.DiffTargetCommit:
		if target.Path != "" {
			return []string{"show", "--color=never", "--no-optional-locks", "--no-ext-diff", "--format=", string(target.Commit), "--", target.Path}
		}
		return []string{"show", "--color=never", "--no-optional-locks", "--no-ext-diff", "--format=", string(target.Commit)}
	case domain.DiffTargetRange:
		args := []string{"diff", "--color=never", "--no-optional-locks", "--no-ext-diff", string(target.From) + ".." + string(target.To)}
		return args
	default:
		args := []string{"diff", "--color=never", "--no-optional-locks", "--no-ext-diff"}
		if target.Staged {
			args = append(args, "--cached")
		}
		if target.Path != "" {
			args = append(args, "--", target.Path)
		}
		return args
	}
}

func (r *CLIRepo) DiffUnified(ctx context.Context, target domain.DiffTarget) (*domain.Diff, error) {
	out, err := r.run(ctx, r.diffArgsFor(target)...)
	if err != nil {
		return nil, apperr.Backend("git diff", err.Error(), err)
	}
	return &domain.Diff{Raw: out}, nil
}

// fileContents resolves the old/new full text of target's file for a
// two-sided text diff, following the same before/after mapping as diffArgsFor.
func (r *CLIRepo) fileContents(ctx context.Context, target domain.DiffTarget) (old, new string, err error) {
	path := target.Path
	switch target.Kind {
	case domain.DiffTargetCommit:
		parentRef := string(target.Commit) + "^"
		old, _ = r.run(ctx, "show", "--no-optional-locks", parentRef+":"+path)
		new, _ = r.run(ctx, "show", "--no-optional-locks", string(target.Commit)+":"+path)
	case domain.DiffTargetRange:
		old, _ = r.run(ctx, "show", "--no-optional-locks", string(target.From)+":"+path)
		new, _ = r.run(ctx, "show", "--no-optional-locks", string(target.To)+":"+path)
	default:
		if target.Staged {
			old, _ = r.run(ctx, "show", "--no-optional-locks", "HEAD:"+path)
			new, _ = r.run(ctx, "show", "--no-optional-locks", ":"+path)
		} else {
			old, _ = r.run(ctx, "show", "--no-optional-locks", ":"+path)
			data, rerr := os.ReadFile(r.root + "/" + path)
			if rerr == nil {
				new = string(data)
			}
		}
	}
	return old, new, nil
}

func (r *CLIRepo) DiffFileText(ctx context.Context, target domain.DiffTarget) (*domain.FileDiffText, error) {
	old, new, err := r.fileContents(ctx, target)
	if err != nil {
		return nil, err
	}
	return &domain.FileDiffText{
		Path: target.Path,
		Old:  old,
		New:  new,
		Rows: diffkernel.SideBySideRows(old, new),
	}, nil
}

func (r *CLIRepo) DiffFileImage(ctx context.Context, target domain.DiffTarget) (*domain.FileDiffImage, error) {
	old, new, err := r.fileContents(ctx, target)
	if err != nil {
		return nil, err
	}
	return &domain.FileDiffImage{
		Path:    target.Path,
		OldData: []byte(old),
		NewData: []byte(new),
	}, nil
}

func (r *CLIRepo) ConflictFileStages(ctx context.Context, path string) (map[domain.ConflictSide]string, error) {
	result := map[domain.ConflictSide]string{}
	for side, stage := range map[domain.ConflictSide]string{
		domain.ConflictSideBase:   "1",
		domain.ConflictSideOurs:   "2",
		domain.ConflictSideTheirs: "3",
	} {
		out, err := r.run(ctx, "show", fmt.Sprintf(":%s:%s", stage, path))
		if err == nil {
			result[side] = out
		}
	}
	return result, nil
}
