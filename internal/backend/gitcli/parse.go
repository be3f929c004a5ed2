package gitcli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gitcore/gitcore/internal/domain"
)

const (
	logFormat    = "%H%x00%h%x00%an%x00%ae%x00%at%x00%s%x00%b%x00%P%x00%D"
	logSeparator = "%x01"
)

func logFormatFlag() string {
	return "--format=" + logFormat + logSeparator
}

func parseLogOutput(out string) []domain.Commit {
	if len(out) == 0 {
		return nil
	}
	est := len(out) / 200
	if est < 8 {
		est = 8
	}
	commits := make([]domain.Commit, 0, est)
	for len(out) > 0 {
		idx := strings.IndexByte(out, '\x01')
		var entry string
		if idx < 0 {
			entry, out = out, ""
		} else {
			entry, out = out[:idx], out[idx+1:]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if c, ok := parseCommitEntry(entry); ok {
			commits = append(commits, c)
		}
	}
	return commits
}

func parseCommitEntry(entry string) (domain.Commit, bool) {
	parts := strings.SplitN(entry, "\x00", 9)
	if len(parts) < 9 {
		return domain.Commit{}, false
	}
	ts, _ := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
	id := domain.CommitId(strings.TrimSpace(parts[0]))
	c := domain.Commit{
		ID:          id,
		ShortID:     strings.TrimSpace(parts[1]),
		Author:      strings.TrimSpace(parts[2]),
		AuthorEmail: strings.TrimSpace(parts[3]),
		Date:        time.Unix(ts, 0),
		Subject:     strings.TrimSpace(parts[5]),
		Body:        strings.TrimSpace(parts[6]),
	}
	if p := strings.TrimSpace(parts[7]); p != "" {
		for _, h := range strings.Fields(p) {
			c.Parents = append(c.Parents, domain.CommitId(h))
		}
	}
	if r := strings.TrimSpace(parts[8]); r != "" {
		c.Refs = parseRefs(r)
	}
	return c, true
}

func parseRefs(raw string) []domain.Ref {
	refs := make([]domain.Ref, 0, 4)
	for _, r := range strings.Split(raw, ", ") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		ref := domain.Ref{Name: r}
		switch {
		case r == "HEAD":
			ref.Kind = domain.RefKindHead
		case strings.HasPrefix(r, "HEAD -> "):
			ref.Name = strings.TrimPrefix(r, "HEAD -> ")
			ref.Kind = domain.RefKindHead
		case strings.HasPrefix(r, "tag: "):
			ref.Name = strings.TrimPrefix(r, "tag: ")
			ref.Kind = domain.RefKindTag
		case strings.Contains(r, "/"):
			ref.Kind = domain.RefKindRemoteBranch
			parts := strings.SplitN(r, "/", 2)
			ref.Remote = parts[0]
			ref.Name = parts[1]
		default:
			ref.Kind = domain.RefKindBranch
		}
		refs = append(refs, ref)
	}
	return refs
}

func parseStatusOutput(out string) *domain.RepoStatus {
	result := &domain.RepoStatus{
		Staged:    make([]domain.FileStatus, 0, 32),
		Unstaged:  make([]domain.FileStatus, 0, 32),
		Untracked: make([]domain.FileStatus, 0, 16),
	}
	for len(out) > 0 {
		nul := strings.IndexByte(out, '\x00')
		var entry string
		if nul < 0 {
			entry, out = out, ""
		} else {
			entry, out = out[:nul], out[nul+1:]
		}
		if len(entry) < 4 {
			continue
		}
		staging := domain.StatusCode(entry[0])
		worktree := domain.StatusCode(entry[1])
		path := entry[3:]
		fs := domain.FileStatus{Staging: staging, Worktree: worktree, Path: path}

		if staging == domain.StatusRenamed || staging == domain.StatusCopied ||
			worktree == domain.StatusRenamed || worktree == domain.StatusCopied {
			nul2 := strings.IndexByte(out, '\x00')
			if nul2 < 0 {
				fs.OrigPath, out = out, ""
			} else {
				fs.OrigPath, out = out[:nul2], out[nul2+1:]
			}
		}

		switch {
		case staging == domain.StatusUntracked && worktree == domain.StatusUntracked:
			result.Untracked = append(result.Untracked, fs)
		case staging == domain.StatusUnmerged || worktree == domain.StatusUnmerged:
			result.Conflicts = append(result.Conflicts, fs)
		default:
			if staging != domain.StatusUnmodified && staging != domain.StatusUntracked {
				result.Staged = append(result.Staged, fs)
			}
			if worktree != domain.StatusUnmodified && worktree != domain.StatusUntracked {
				result.Unstaged = append(result.Unstaged, fs)
			}
		}
	}
	return result
}

const branchFormat = "%(HEAD)%00%(refname:short)%00%(objectname)%00%(upstream:short)%00%(upstream:track)%00%(subject)"

func parseBranchOutput(out string) []domain.Branch {
	if len(out) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	branches := make([]domain.Branch, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "\x00", 6)
		if len(parts) < 6 {
			continue
		}
		b := domain.Branch{
			IsCurrent: strings.TrimSpace(parts[0]) == "*",
			Name:      strings.TrimSpace(parts[1]),
			Head:      domain.CommitId(strings.TrimSpace(parts[2])),
			Upstream:  strings.TrimSpace(parts[3]),
			Subject:   strings.TrimSpace(parts[5]),
		}
		if ab := strings.TrimSpace(parts[4]); ab != "" && ab != "gone" {
			_, _ = fmt.Sscanf(ab, "[ahead %d, behind %d]", &b.Ahead, &b.Behind)
			if b.Ahead == 0 {
				_, _ = fmt.Sscanf(ab, "[ahead %d]", &b.Ahead)
			}
			if b.Behind == 0 {
				_, _ = fmt.Sscanf(ab, "[behind %d]", &b.Behind)
			}
		}
		b.IsRemote = strings.HasPrefix(b.Name, "remotes/")
		if b.IsRemote {
			b.Name = strings.TrimPrefix(strings.TrimPrefix(b.Name, "remotes/"), "origin/")
		}
		branches = append(branches, b)
	}
	return branches
}

func parseStashList(out string) []domain.Stash {
	if len(out) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	entries := make([]domain.Stash, 0, len(lines))
	for _, line := range lines {
		var idx int
		if _, err := fmt.Sscanf(line, "stash@{%d}", &idx); err != nil {
			continue
		}
		msg := line
		if colonIdx := strings.Index(line, ": "); colonIdx != -1 {
			rest := line[colonIdx+2:]
			if second := strings.Index(rest, ": "); second != -1 {
				msg = rest[second+2:]
			} else {
				msg = rest
			}
		}
		branch := ""
		if parts := strings.SplitN(line, "On ", 2); len(parts) == 2 {
			if colonIdx := strings.Index(parts[1], ":"); colonIdx != -1 {
				branch = parts[1][:colonIdx]
			}
		}
		entries = append(entries, domain.Stash{Index: idx, Message: msg, Branch: branch})
	}
	return entries
}

func parseRemoteOutput(out string) []domain.Remote {
	if len(out) == 0 {
		return nil
	}
	seen := map[string]*domain.Remote{}
	var order []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name, url, kind := fields[0], fields[1], strings.Trim(fields[2], "()")
		r, ok := seen[name]
		if !ok {
			r = &domain.Remote{Name: name}
			seen[name] = r
			order = append(order, name)
		}
		switch kind {
		case "fetch":
			r.FetchURL = url
		case "push":
			r.PushURL = url
		}
	}
	remotes := make([]domain.Remote, 0, len(order))
	for _, name := range order {
		remotes = append(remotes, *seen[name])
	}
	return remotes
}

func parseRemoteBranches(out string) []domain.RemoteBranch {
	if len(out) == 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	branches := make([]domain.RemoteBranch, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		full := strings.TrimPrefix(fields[1], "refs/remotes/")
		parts := strings.SplitN(full, "/", 2)
		if len(parts) != 2 || parts[1] == "HEAD" {
			continue
		}
		branches = append(branches, domain.RemoteBranch{
			Remote: parts[0],
			Name:   parts[1],
			Head:   domain.CommitId(fields[0]),
		})
	}
	return branches
}

func parseWorktreeList(out string) []domain.Worktree {
	if len(out) == 0 {
		return nil
	}
	var wts []domain.Worktree
	var cur domain.Worktree
	flush := func() {
		if cur.Path != "" {
			wts = append(wts, cur)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = domain.Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = domain.CommitId(strings.TrimPrefix(line, "HEAD "))
		case strings.HasPrefix(line, "branch "):
			cur.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			cur.Bare = true
		}
	}
	flush()
	return wts
}

func parseSubmoduleStatus(out string) []domain.Submodule {
	if len(out) == 0 {
		return nil
	}
	var subs []domain.Submodule
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-+U "))
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		subs = append(subs, domain.Submodule{Head: domain.CommitId(fields[0]), Path: fields[1]})
	}
	return subs
}

func parseReflog(out string) []domain.ReflogEntry {
	if len(out) == 0 {
		return nil
	}
	var entries []domain.ReflogEntry
	for len(out) > 0 {
		idx := strings.IndexByte(out, '\x01')
		var entry string
		if idx < 0 {
			entry, out = out, ""
		} else {
			entry, out = out[:idx], out[idx+1:]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "\x00", 4)
		if len(parts) < 4 {
			continue
		}
		ts, _ := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		action, message := strings.TrimSpace(parts[3]), ""
		if colonIdx := strings.Index(action, ": "); colonIdx != -1 {
			message = action[colonIdx+2:]
			action = action[:colonIdx]
		}
		entries = append(entries, domain.ReflogEntry{
			ID:      domain.CommitId(strings.TrimSpace(parts[0])),
			Action:  action,
			Message: message,
			Date:    time.Unix(ts, 0),
		})
	}
	return entries
}

func parseBlame(out, path string) []domain.BlameLine {
	if len(out) == 0 {
		return nil
	}
	var lines []domain.BlameLine
	lineNo := 0
	var cur domain.BlameLine
	authors := map[string]string{}
	times := map[string]time.Time{}
	for _, raw := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(raw, "author "):
			authors[string(cur.Commit)] = strings.TrimPrefix(raw, "author ")
		case strings.HasPrefix(raw, "author-time "):
			ts, _ := strconv.ParseInt(strings.TrimPrefix(raw, "author-time "), 10, 64)
			times[string(cur.Commit)] = time.Unix(ts, 0)
		case strings.HasPrefix(raw, "\t"):
			lineNo++
			cur.LineNo = lineNo
			cur.Content = strings.TrimPrefix(raw, "\t")
			cur.Author = authors[string(cur.Commit)]
			cur.Date = times[string(cur.Commit)]
			lines = append(lines, cur)
		default:
			fields := strings.Fields(raw)
			if len(fields) > 0 && len(fields[0]) >= 7 {
				cur.Commit = domain.CommitId(fields[0])
			}
		}
	}
	return lines
}
