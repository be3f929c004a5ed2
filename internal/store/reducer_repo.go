package store

import (
	"path/filepath"

	"github.com/gitcore/gitcore/internal/apperr"
	"github.com/gitcore/gitcore/internal/domain"
)

// idAllocator hands out monotonically increasing RepoIds. The reducer owns
// exactly one, threaded through every Reduce call via the Engine.
type idAllocator struct {
	next uint64
}

func (a *idAllocator) alloc() RepoId {
	a.next++
	return RepoId(a.next)
}

// normalizeRepoPath resolves path to an absolute, symlink-resolved form so
// reopening the same directory by a different relative path still dedups
// against an already-open tab. Falls back to the unresolved absolute path if
// either step fails.
func normalizeRepoPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

func (e *Engine) openRepo(workdir string) []Effect {
	path := normalizeRepoPath(workdir)

	for _, r := range e.state.Repos {
		if r.Spec.Workdir == path {
			e.state.ActiveRepo = &r.ID
			e.persistSession()
			return nil
		}
	}

	id := e.ids.alloc()
	spec := domain.RepoSpec{Workdir: path}
	e.state.Repos = append(e.state.Repos, NewOpeningRepo(id, spec))
	e.state.ActiveRepo = &id

	e.persistSession()
	return []Effect{{Kind: EffectOpenRepo, RepoID: id, Spec: spec}}
}

func (e *Engine) restoreSession(openRepos []string, activeRepo *string) []Effect {
	e.state.Repos = nil
	e.state.ActiveRepo = nil

	var activeRepoNorm *string
	if activeRepo != nil {
		norm := normalizeRepoPath(*activeRepo)
		activeRepoNorm = &norm
	}

	var activeRepoID *RepoId
	var effects []Effect

	for _, raw := range dedupPathsInOrder(openRepos) {
		path := normalizeRepoPath(raw)

		dup := false
		for _, r := range e.state.Repos {
			if r.Spec.Workdir == path {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		id := e.ids.alloc()
		spec := domain.RepoSpec{Workdir: path}

		if activeRepoID == nil && activeRepoNorm != nil && *activeRepoNorm == path {
			idCopy := id
			activeRepoID = &idCopy
		}

		e.state.Repos = append(e.state.Repos, NewOpeningRepo(id, spec))
		effects = append(effects, Effect{Kind: EffectOpenRepo, RepoID: id, Spec: spec})
	}

	if activeRepoID != nil {
		e.state.ActiveRepo = activeRepoID
	} else if len(e.state.Repos) > 0 {
		last := e.state.Repos[len(e.state.Repos)-1].ID
		e.state.ActiveRepo = &last
	}

	e.persistSession()
	return effects
}

func (e *Engine) closeRepo(repoID RepoId) []Effect {
	idx := e.state.repoIndex(repoID)
	if idx < 0 {
		return nil
	}

	wasActive := e.state.ActiveRepo != nil && *e.state.ActiveRepo == repoID
	e.state.Repos = append(e.state.Repos[:idx], e.state.Repos[idx+1:]...)
	delete(e.repos, repoID)

	if wasActive {
		e.state.ActiveRepo = activateNeighbor(e.state.Repos, idx)
	}

	e.persistSession()
	return []Effect{{Kind: EffectCloseRepo, RepoID: repoID}}
}

// activateNeighbor picks the tab to focus after the tab at removedIdx
// closed: the previous tab, or the next one if the closed tab was the
// first.
func activateNeighbor(repos []*RepoState, removedIdx int) *RepoId {
	if len(repos) == 0 {
		return nil
	}
	if removedIdx > 0 {
		id := repos[removedIdx-1].ID
		return &id
	}
	id := repos[0].ID
	return &id
}

func (e *Engine) setActiveRepo(repoID RepoId) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}

	changed := e.state.ActiveRepo == nil || *e.state.ActiveRepo != repoID
	e.state.ActiveRepo = &repoID
	if changed {
		e.persistSession()
	}

	var effects []Effect
	if changed {
		effects = refreshFullEffects(repo)
	} else {
		effects = refreshPrimaryEffects(repo)
	}

	if changed && repo.DiffTarget != nil {
		effects = append(effects, diffReloadEffects(repoID, *repo.DiffTarget)...)
	}

	return effects
}

func (e *Engine) reorderRepoTabs(repoID RepoId, insertBefore *RepoId) {
	idx := e.state.repoIndex(repoID)
	if idx < 0 {
		return
	}
	repo := e.state.Repos[idx]
	rest := append(append([]*RepoState{}, e.state.Repos[:idx]...), e.state.Repos[idx+1:]...)

	target := len(rest)
	if insertBefore != nil {
		for i, r := range rest {
			if r.ID == *insertBefore {
				target = i
				break
			}
		}
	}

	out := make([]*RepoState, 0, len(rest)+1)
	out = append(out, rest[:target]...)
	out = append(out, repo)
	out = append(out, rest[target:]...)
	e.state.Repos = out
	e.persistSession()
}

func (e *Engine) cloneRepo(url, dest string) []Effect {
	e.state.Clone = &CloneOpState{URL: url, Dest: dest, Status: CloneRunning}
	return []Effect{{Kind: EffectCloneRepo, CloneURL: url, CloneDest: dest}}
}

func (e *Engine) cloneRepoProgress(dest, line string) {
	op := e.state.Clone
	if op == nil || op.Status != CloneRunning || op.Dest != dest {
		return
	}
	op.Seq++
	op.pushLine(line)
}

func (e *Engine) cloneRepoFinished(url, dest string, output domain.CommandOutput, err error) {
	op := e.state.Clone
	if op == nil || op.Dest != dest {
		op = &CloneOpState{URL: url, Dest: dest, Seq: 1}
		e.state.Clone = op
	} else {
		op.URL = url
		op.Seq++
	}
	if err != nil {
		op.Status = CloneFinishedErr
		op.ErrMessage = formatErrorForUser(err)
	} else {
		op.Status = CloneFinishedOk
	}
}

func (e *Engine) repoOpenedOk(repoID RepoId, spec domain.RepoSpec) []Effect {
	spec.Workdir = normalizeRepoPath(spec.Workdir)

	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}

	repo.Spec = spec
	repo.Open = NewReady(struct{}{})
	repo.HeadBranch = NewLoading[string]()
	repo.UpstreamDivergence = NewLoading[domain.UpstreamDivergence]()
	repo.Branches = NewLoading[[]domain.Branch]()
	repo.Tags = NewLoading[[]domain.Tag]()
	repo.Remotes = NewLoading[[]domain.Remote]()
	repo.RemoteBranches = NewLoading[[]domain.RemoteBranch]()
	repo.Status = NewLoading[*domain.RepoStatus]()
	repo.Log = NewLoading[*domain.LogPage]()
	repo.LogLoadingMore = false
	repo.Stashes = NewLoading[[]domain.Stash]()
	repo.Reflog = NewLoading[[]domain.ReflogEntry]()
	repo.RebaseInProgress = NewLoading[bool]()
	repo.MergeCommitMessage = NewLoading[string]()
	repo.FileHistoryPath = nil
	repo.FileHistory = Loadable[*domain.LogPage]{}
	repo.BlamePath = nil
	repo.BlameRev = nil
	repo.Blame = Loadable[[]domain.BlameLine]{}
	repo.Worktrees = Loadable[[]domain.Worktree]{}
	repo.Submodules = Loadable[[]domain.Submodule]{}
	repo.SelectedCommit = nil
	repo.CommitDetails = Loadable[domain.CommitDetails]{}
	repo.DiffTarget = nil
	repo.Diff = Loadable[*domain.Diff]{}
	repo.DiffFile = Loadable[*domain.FileDiffText]{}
	repo.DiffFileImage = Loadable[*domain.FileDiffImage]{}
	repo.LastError = nil

	return refreshFullEffects(repo)
}

func (e *Engine) repoOpenedErr(repoID RepoId, spec domain.RepoSpec, err error) []Effect {
	spec.Workdir = normalizeRepoPath(spec.Workdir)

	if be, ok := apperr.As(err, apperr.KindNotARepository); ok {
		e.state.pushNotification(NotificationError, be.Error())

		delete(e.repos, repoID)
		idx := e.state.repoIndex(repoID)
		if idx >= 0 {
			wasActive := e.state.ActiveRepo != nil && *e.state.ActiveRepo == repoID
			e.state.Repos = append(e.state.Repos[:idx], e.state.Repos[idx+1:]...)
			if wasActive {
				if idx > 0 && idx-1 < len(e.state.Repos) {
					id := e.state.Repos[idx-1].ID
					e.state.ActiveRepo = &id
				} else if idx < len(e.state.Repos) {
					id := e.state.Repos[idx].ID
					e.state.ActiveRepo = &id
				} else {
					e.state.ActiveRepo = nil
				}
			}
			e.persistSession()
		}
		return nil
	}

	repo := e.state.findRepo(repoID)
	if repo != nil {
		repo.Spec = spec
		msg := formatErrorForUser(err)
		repo.Open = NewError[struct{}](msg)
		repo.LastError = &msg
		repo.pushDiagnostic(DiagnosticError, msg)
	}
	return nil
}
