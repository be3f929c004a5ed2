package store

import (
	"github.com/gitcore/gitcore/internal/domain"
)

func (e *Engine) selectCommit(repoID RepoId, id domain.CommitId) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	repo.SelectedCommit = &id
	repo.CommitDetails = NewLoading[domain.CommitDetails]()
	return []Effect{{Kind: EffectLoadCommitDetails, RepoID: repoID, CommitID: id}}
}

func (e *Engine) selectDiff(repoID RepoId, target domain.DiffTarget) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}
	repo.DiffTarget = &target
	repo.Diff = NewLoading[*domain.Diff]()
	repo.DiffFile = NewLoading[*domain.FileDiffText]()
	repo.DiffFileImage = NewLoading[*domain.FileDiffImage]()
	return diffReloadEffects(repoID, target)
}

func (e *Engine) setHistoryScope(repoID RepoId, scope HistoryScope) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil || repo.HistoryScope == scope {
		return nil
	}

	repo.HistoryScope = scope
	repo.Log = NewLoading[*domain.LogPage]()
	repo.LogLoadingMore = false

	if repo.LoadsInFlight.RequestLog(LogPending{Scope: scope, Limit: logPageSize}) {
		return []Effect{{Kind: EffectLoadLog, RepoID: repoID, Scope: scope, Limit: logPageSize}}
	}
	return nil
}

func (e *Engine) loadMoreHistory(repoID RepoId) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil || repo.LogLoadingMore {
		return nil
	}
	if repo.Log.State != Ready || repo.Log.Value == nil || repo.Log.Value.NextCursor == nil {
		return nil
	}

	cursor := repo.Log.Value.NextCursor.Token
	repo.LogLoadingMore = true

	if repo.LoadsInFlight.RequestLog(LogPending{Scope: repo.HistoryScope, Limit: logPageSize, Cursor: &cursor}) {
		return []Effect{{Kind: EffectLoadLog, RepoID: repoID, Scope: repo.HistoryScope, Limit: logPageSize, Cursor: &cursor}}
	}
	return nil
}

func (e *Engine) repoExternallyChanged(repoID RepoId, change domain.RepoExternalChange) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}

	if e.state.ActiveRepo == nil || *e.state.ActiveRepo != repoID {
		return nil
	}

	var effects []Effect
	switch change {
	case domain.ChangeWorktree:
		if repo.LoadsInFlight.Request(LoadStatus) {
			effects = append(effects, Effect{Kind: EffectLoadStatus, RepoID: repoID})
		}
	default: // ChangeGitState, ChangeBoth
		effects = refreshPrimaryEffects(repo)
	}

	if repo.DiffTarget != nil {
		effects = append(effects, diffReloadEffects(repoID, *repo.DiffTarget)...)
	}
	return effects
}

func (e *Engine) logLoaded(repoID RepoId, scope HistoryScope, cursor *string, page *domain.LogPage, err error) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}

	isLoadMore := cursor != nil

	if repo.HistoryScope != scope {
		if isLoadMore {
			repo.LogLoadingMore = false
		}
		return e.replayNextLog(repo)
	}

	if err != nil {
		repo.pushDiagnostic(DiagnosticError, formatErrorForUser(err))
		if !isLoadMore {
			repo.Log = NewError[*domain.LogPage](formatErrorForUser(err))
		}
	} else if isLoadMore && repo.Log.State == Ready && repo.Log.Value != nil {
		existing := repo.Log.Value
		existing.Commits = append(existing.Commits, page.Commits...)
		existing.NextCursor = page.NextCursor
	} else {
		repo.Log = NewReady(page)
		repo.LogRev++
	}

	if isLoadMore {
		repo.LogLoadingMore = false
	}

	return e.replayNextLog(repo)
}

func (e *Engine) replayNextLog(repo *RepoState) []Effect {
	next := repo.LoadsInFlight.FinishLog()
	if next == nil {
		return nil
	}
	repo.LogLoadingMore = next.Cursor != nil
	return []Effect{{Kind: EffectLoadLog, RepoID: repo.ID, Scope: next.Scope, Limit: next.Limit, Cursor: next.Cursor}}
}

// simpleLoadCompletion is the shared shape of most "refresh" loads: a
// request/finish cycle gated by LoadsInFlight, an apply function mutating
// the field on success, and a diagnostic push plus Errored transition on
// failure.
func (e *Engine) simpleLoadCompletion(repoID RepoId, kind LoadKind, effectKind EffectKind, err error, apply func(repo *RepoState)) []Effect {
	repo := e.state.findRepo(repoID)
	if repo == nil {
		return nil
	}

	if err != nil {
		repo.pushDiagnostic(DiagnosticError, formatErrorForUser(err))
	} else {
		apply(repo)
	}

	var effects []Effect
	if repo.LoadsInFlight.Finish(kind) {
		effects = append(effects, Effect{Kind: effectKind, RepoID: repoID})
	}
	return effects
}
