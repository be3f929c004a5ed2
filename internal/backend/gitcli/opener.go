package gitcli

import (
	"context"
	"time"

	"github.com/gitcore/gitcore/internal/backend"
)

const defaultCacheTTL = 1500 * time.Millisecond

// CachedOpener opens repositories as CLIRepo and wraps each in a CachedRepo,
// the reference backend.Opener for production use.
type CachedOpener struct {
	TTL time.Duration
}

var _ backend.Opener = (*CachedOpener)(nil)

func (o *CachedOpener) Open(ctx context.Context, workdir string) (backend.Repo, error) {
	raw, err := Open(ctx, workdir)
	if err != nil {
		return nil, err
	}
	ttl := o.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return NewCached(raw, ttl), nil
}
