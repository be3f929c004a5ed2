package store

import (
	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/cache"
	"github.com/gitcore/gitcore/internal/cache/historygraph"
	"github.com/gitcore/gitcore/internal/domain"
	"github.com/gitcore/gitcore/internal/session"
)

// Engine owns the AppState, the live backend.Repo handles, and the id
// allocator, and exposes the single Reduce entrypoint the executor and
// watcher post messages into. It is not safe for concurrent use: callers
// serialize access to Reduce (normally via a single-goroutine message loop).
type Engine struct {
	state *AppState
	repos map[RepoId]backend.Repo
	ids   idAllocator

	sessionSink session.Sink

	caches     *cache.Caches
	graphCache map[uint64][]historygraph.Row
}

// NewEngine builds an empty Engine. sink may be nil to disable session
// persistence (useful in tests).
func NewEngine(sink session.Sink) *Engine {
	return &Engine{
		state:       &AppState{},
		repos:       make(map[RepoId]backend.Repo),
		sessionSink: sink,
	}
}

// State returns the current AppState for read-only inspection by a UI or
// test. Callers must not mutate the returned value.
func (e *Engine) State() *AppState { return e.state }

// AttachRepo records the opened backend.Repo handle for repoID so future
// effects addressed to it can be dispatched against the right backend.
func (e *Engine) AttachRepo(repoID RepoId, repo backend.Repo) {
	e.repos[repoID] = repo
}

// Repo returns the attached backend.Repo handle for repoID, if any.
func (e *Engine) Repo(repoID RepoId) (backend.Repo, bool) {
	r, ok := e.repos[repoID]
	return r, ok
}

func (e *Engine) persistSession() {
	if e.sessionSink == nil {
		return
	}
	rec := &session.Record{}
	for _, r := range e.state.Repos {
		rec.OpenRepos = append(rec.OpenRepos, r.Spec.Workdir)
	}
	if e.state.ActiveRepo != nil {
		if repo := e.state.findRepo(*e.state.ActiveRepo); repo != nil {
			workdir := repo.Spec.Workdir
			rec.ActiveRepo = &workdir
		}
	}
	_ = e.sessionSink.Save(rec)
}

// Reduce applies msg to the engine's state and returns the effects the
// executor should now run. It is the sole mutation entrypoint; nothing else
// in this package may mutate AppState from outside it.
func (e *Engine) Reduce(msg Msg) []Effect {
	switch msg.Kind {
	case MsgOpenRepo:
		return e.openRepo(msg.Workdir)
	case MsgRestoreSession:
		return e.restoreSession(msg.OpenRepos, msg.ActiveRepo)
	case MsgCloseRepo:
		return e.closeRepo(msg.RepoID)
	case MsgDismissRepoError:
		if repo := e.state.findRepo(msg.RepoID); repo != nil {
			repo.LastError = nil
		}
		return nil
	case MsgSetActiveRepo:
		return e.setActiveRepo(msg.RepoID)
	case MsgReorderRepoTabs:
		e.reorderRepoTabs(msg.RepoID, msg.InsertBefore)
		return nil
	case MsgReloadRepo:
		if repo := e.state.findRepo(msg.RepoID); repo != nil {
			return refreshFullEffects(repo)
		}
		return nil
	case MsgRepoExternallyChanged:
		return e.repoExternallyChanged(msg.RepoID, msg.Change)

	case MsgSetHistoryScope:
		return e.setHistoryScope(msg.RepoID, msg.Scope)
	case MsgLoadMoreHistory:
		return e.loadMoreHistory(msg.RepoID)
	case MsgSelectCommit:
		return e.selectCommit(msg.RepoID, msg.CommitID)
	case MsgClearCommitSelection:
		if repo := e.state.findRepo(msg.RepoID); repo != nil {
			repo.SelectedCommit = nil
			repo.CommitDetails = Loadable[domain.CommitDetails]{}
		}
		return nil
	case MsgSelectDiff:
		return e.selectDiff(msg.RepoID, msg.Target)
	case MsgClearDiffSelection:
		if repo := e.state.findRepo(msg.RepoID); repo != nil {
			repo.DiffTarget = nil
			repo.Diff = Loadable[*domain.Diff]{}
			repo.DiffFile = Loadable[*domain.FileDiffText]{}
			repo.DiffFileImage = Loadable[*domain.FileDiffImage]{}
		}
		return nil

	case MsgCloneRepo:
		return e.cloneRepo(msg.CloneURL, msg.CloneDest)
	case MsgCloneRepoProgress:
		e.cloneRepoProgress(msg.CloneDest, msg.Line)
		return nil
	case MsgCloneRepoFinished:
		e.cloneRepoFinished(msg.CloneURL, msg.CloneDest, msg.ValCommandOutput, msg.Err)
		return nil

	case MsgRepoOpenedOk:
		if msg.Repo != nil {
			e.repos[msg.RepoID] = msg.Repo
		}
		return e.repoOpenedOk(msg.RepoID, msg.RepoSpec)
	case MsgRepoOpenedErr:
		return e.repoOpenedErr(msg.RepoID, msg.RepoSpec, msg.Err)

	default:
		return e.reduceLoadOrCommand(msg)
	}
}
