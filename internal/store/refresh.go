package store

import (
	"path/filepath"
	"strings"

	"github.com/gitcore/gitcore/internal/domain"
)

var supportedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".ico": true, ".svg": true,
}

func isSupportedImagePath(path string) bool {
	return supportedImageExts[strings.ToLower(filepath.Ext(path))]
}

func isSVGPath(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".svg"
}

func diffTargetPath(target domain.DiffTarget) (string, bool) {
	if target.Path == "" {
		return "", false
	}
	return target.Path, true
}

func diffTargetWantsImagePreview(target domain.DiffTarget) bool {
	path, ok := diffTargetPath(target)
	return ok && isSupportedImagePath(path)
}

func diffTargetIsSVG(target domain.DiffTarget) bool {
	path, ok := diffTargetPath(target)
	return ok && isSVGPath(path)
}

// diffReloadEffects builds the set of effects needed to refresh whatever the
// repo's diff view is currently pointed at: the unified diff always reloads,
// plus either the file-image preview or the materialized text diff depending
// on the target's file extension.
func diffReloadEffects(repoID RepoId, target domain.DiffTarget) []Effect {
	effects := []Effect{{Kind: EffectLoadDiff, RepoID: repoID, DiffTarget: target}}

	if diffTargetWantsImagePreview(target) {
		effects = append(effects, Effect{Kind: EffectLoadDiffFileImage, RepoID: repoID, DiffTarget: target})
	}
	if !diffTargetWantsImagePreview(target) || diffTargetIsSVG(target) {
		effects = append(effects, Effect{Kind: EffectLoadDiffFile, RepoID: repoID, DiffTarget: target})
	}

	return effects
}

// refreshPrimaryEffects reloads the handful of things that change on nearly
// every git operation: HEAD, upstream divergence, rebase/merge state, status,
// and the first page of history. Used after a local mutation completes.
func refreshPrimaryEffects(repo *RepoState) []Effect {
	var effects []Effect

	appendGated := func(kind LoadKind, effectKind EffectKind) {
		if repo.LoadsInFlight.Request(kind) {
			effects = append(effects, Effect{Kind: effectKind, RepoID: repo.ID})
		}
	}

	appendGated(LoadHeadBranch, EffectLoadHeadBranch)
	appendGated(LoadUpstreamDivergence, EffectLoadUpstreamDivergence)
	appendGated(LoadRebaseState, EffectLoadRebaseState)
	appendGated(LoadMergeCommitMessage, EffectLoadMergeCommitMessage)
	appendGated(LoadStatus, EffectLoadStatus)

	repo.LogLoadingMore = false
	if repo.LoadsInFlight.RequestLog(LogPending{Scope: repo.HistoryScope, Limit: logPageSize, Cursor: nil}) {
		effects = append(effects, Effect{Kind: EffectLoadLog, RepoID: repo.ID, Scope: repo.HistoryScope, Limit: logPageSize})
	}

	return effects
}

// refreshFullEffects is refreshPrimaryEffects plus the sidebar reference
// lists (branches, tags, remotes, remote-tracking branches, stashes); the
// reflog is not loaded here. The UI-critical loads (head/upstream/status/log) are issued first
// so the executor's FIFO queue drains them before the less time-sensitive
// reference data — queue order materially affects perceived responsiveness.
func refreshFullEffects(repo *RepoState) []Effect {
	var effects []Effect

	appendGated := func(kind LoadKind, effectKind EffectKind) {
		if repo.LoadsInFlight.Request(kind) {
			effects = append(effects, Effect{Kind: effectKind, RepoID: repo.ID})
		}
	}

	appendGated(LoadHeadBranch, EffectLoadHeadBranch)
	appendGated(LoadUpstreamDivergence, EffectLoadUpstreamDivergence)
	appendGated(LoadStatus, EffectLoadStatus)

	repo.LogLoadingMore = false
	if repo.LoadsInFlight.RequestLog(LogPending{Scope: repo.HistoryScope, Limit: logPageSize, Cursor: nil}) {
		effects = append(effects, Effect{Kind: EffectLoadLog, RepoID: repo.ID, Scope: repo.HistoryScope, Limit: logPageSize})
	}

	appendGated(LoadBranches, EffectLoadBranches)
	appendGated(LoadTags, EffectLoadTags)
	appendGated(LoadRemotes, EffectLoadRemotes)
	appendGated(LoadRemoteBranches, EffectLoadRemoteBranches)
	appendGated(LoadStashes, EffectLoadStashes)
	appendGated(LoadRebaseState, EffectLoadRebaseState)
	appendGated(LoadMergeCommitMessage, EffectLoadMergeCommitMessage)

	return effects
}

// dedupPathsInOrder removes duplicate paths, keeping the first occurrence's
// position. Used before issuing Stage/Unstage/Discard effects from a
// multi-select.
func dedupPathsInOrder(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
