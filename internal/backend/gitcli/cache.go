package gitcli

import (
	"context"
	"sync"
	"time"

	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/domain"
)

// maxCacheEntries bounds memory; exceeding it just flushes the whole cache
// rather than tracking per-entry eviction order.
const maxCacheEntries = 64

type cacheEntry struct {
	val    any
	err    error
	expiry time.Time
}

// CachedRepo wraps a CLIRepo with a short TTL cache over its read methods.
// A single refresh cycle issues HeadBranch/Status/Log/Branches/... against
// the same repo; without this, each one spawns its own git subprocess even
// though nothing changed between them.
type CachedRepo struct {
	*CLIRepo
	ttl time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

var _ backend.Repo = (*CachedRepo)(nil)

// NewCached wraps inner with a TTL cache. A TTL of 1-2s is enough to
// coalesce one refresh cycle's reads without serving stale data across
// cycles.
func NewCached(inner *CLIRepo, ttl time.Duration) *CachedRepo {
	return &CachedRepo{CLIRepo: inner, ttl: ttl, cache: make(map[string]cacheEntry, 16)}
}

func (c *CachedRepo) invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry, 16)
	c.mu.Unlock()
}

func (c *CachedRepo) get(key string) (any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || time.Now().After(e.expiry) {
		return nil, false, nil
	}
	return e.val, true, e.err
}

func (c *CachedRepo) set(key string, val any, err error) {
	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		c.cache = make(map[string]cacheEntry, 16)
	}
	c.cache[key] = cacheEntry{val: val, err: err, expiry: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *CachedRepo) CurrentBranch(ctx context.Context) (string, error) {
	if v, ok, err := c.get("head"); ok {
		return v.(string), err
	}
	v, err := c.CLIRepo.CurrentBranch(ctx)
	c.set("head", v, err)
	return v, err
}

func (c *CachedRepo) Status(ctx context.Context) (*domain.RepoStatus, error) {
	if v, ok, err := c.get("status"); ok {
		return v.(*domain.RepoStatus), err
	}
	v, err := c.CLIRepo.Status(ctx)
	c.set("status", v, err)
	return v, err
}

func (c *CachedRepo) UpstreamDivergence(ctx context.Context) (domain.UpstreamDivergence, error) {
	if v, ok, err := c.get("upstream"); ok {
		return v.(domain.UpstreamDivergence), err
	}
	v, err := c.CLIRepo.UpstreamDivergence(ctx)
	c.set("upstream", v, err)
	return v, err
}

func (c *CachedRepo) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	if v, ok, err := c.get("branches"); ok {
		return v.([]domain.Branch), err
	}
	v, err := c.CLIRepo.ListBranches(ctx)
	c.set("branches", v, err)
	return v, err
}

func (c *CachedRepo) ListRemotes(ctx context.Context) ([]domain.Remote, error) {
	if v, ok, err := c.get("remotes"); ok {
		return v.([]domain.Remote), err
	}
	v, err := c.CLIRepo.ListRemotes(ctx)
	c.set("remotes", v, err)
	return v, err
}

func (c *CachedRepo) ListStashes(ctx context.Context) ([]domain.Stash, error) {
	if v, ok, err := c.get("stashes"); ok {
		return v.([]domain.Stash), err
	}
	v, err := c.CLIRepo.ListStashes(ctx)
	c.set("stashes", v, err)
	return v, err
}

func (c *CachedRepo) ListWorktrees(ctx context.Context) ([]domain.Worktree, error) {
	if v, ok, err := c.get("worktrees"); ok {
		return v.([]domain.Worktree), err
	}
	v, err := c.CLIRepo.ListWorktrees(ctx)
	c.set("worktrees", v, err)
	return v, err
}

// Each mutation overridden below invalidates the whole cache on success —
// simpler and safer than trying to know exactly which cached reads a given
// command could have affected. Mutations not overridden here reach the
// embedded CLIRepo directly and leave the cache untouched.

func (c *CachedRepo) invalidated(out domain.CommandOutput, err error) (domain.CommandOutput, error) {
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedRepo) StagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.StagePaths(ctx, paths))
}

func (c *CachedRepo) UnstagePaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.UnstagePaths(ctx, paths))
}

func (c *CachedRepo) DiscardPaths(ctx context.Context, paths []string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.DiscardPaths(ctx, paths))
}

func (c *CachedRepo) Commit(ctx context.Context, message string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.Commit(ctx, message))
}

func (c *CachedRepo) CommitAmend(ctx context.Context, message string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.CommitAmend(ctx, message))
}

func (c *CachedRepo) CheckoutBranch(ctx context.Context, name string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.CheckoutBranch(ctx, name))
}

func (c *CachedRepo) CheckoutRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.CheckoutRemoteBranch(ctx, remote, branch))
}

func (c *CachedRepo) CheckoutCommit(ctx context.Context, id domain.CommitId) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.CheckoutCommit(ctx, id))
}

func (c *CachedRepo) DeleteRemoteBranch(ctx context.Context, remote, branch string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.DeleteRemoteBranch(ctx, remote, branch))
}

func (c *CachedRepo) Fetch(ctx context.Context, remote string) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.Fetch(ctx, remote))
}

func (c *CachedRepo) Pull(ctx context.Context, remote string, mode domain.PullMode) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.Pull(ctx, remote, mode))
}

func (c *CachedRepo) Push(ctx context.Context, remote, branch string, force, setUpstream bool) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.Push(ctx, remote, branch, force, setUpstream))
}

func (c *CachedRepo) Reset(ctx context.Context, target domain.CommitId, mode domain.ResetMode) (domain.CommandOutput, error) {
	return c.invalidated(c.CLIRepo.Reset(ctx, target, mode))
}
