// Package executor runs the reducer's Effects against a backend.Repo: a
// fixed-size worker pool draining a single FIFO queue, oblivious to what
// kind of Effect it is handling. Workers never reorder or prioritize work;
// any scheduling the product needs (UI-critical loads before reference
// data) is encoded by the reducer in the order it emits Effects.
package executor

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/store"
)

const minWorkers = 4

// Dispatch runs one Effect against the opened backend.Repo (or the Opener,
// for EffectOpenRepo) and returns the Msg to feed back into the reducer.
type Dispatch func(ctx context.Context, eff store.Effect, repo backend.Repo, opener backend.Opener) store.Msg

// Pool is a fixed-size worker pool draining a single job queue. It is safe
// for concurrent Submit calls.
type Pool struct {
	jobs     chan job
	opener   backend.Opener
	dispatch Dispatch
	results  chan<- store.Msg
	log      *logrus.Entry

	repoMu sync.RWMutex
	repos  map[store.RepoId]backend.Repo

	group  *errgroup.Group
	cancel context.CancelFunc
}

type job struct {
	ctx context.Context
	eff store.Effect
}

// New builds a Pool with size workers (clamped to at least minWorkers) and
// starts them. results receives one Msg per completed Effect; the caller is
// responsible for feeding those into the Engine, normally from a single
// consumer goroutine.
func New(size int, opener backend.Opener, dispatch Dispatch, results chan<- store.Msg, log *logrus.Entry) *Pool {
	if size < minWorkers {
		size = minWorkers
		if n := runtime.NumCPU(); n > size {
			size = n
		}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	p := &Pool{
		jobs:     make(chan job, 256),
		opener:   opener,
		dispatch: dispatch,
		results:  results,
		log:      log,
		repos:    make(map[store.RepoId]backend.Repo),
		group:    g,
		cancel:   cancel,
	}

	for i := 0; i < size; i++ {
		g.Go(func() error {
			p.run(gctx)
			return nil
		})
	}

	return p
}

// AttachRepo registers an already-opened backend.Repo so future Effects
// addressed to repoID dispatch against it.
func (p *Pool) AttachRepo(repoID store.RepoId, repo backend.Repo) {
	p.repoMu.Lock()
	defer p.repoMu.Unlock()
	p.repos[repoID] = repo
}

// DetachRepo drops a closed repo's handle.
func (p *Pool) DetachRepo(repoID store.RepoId) {
	p.repoMu.Lock()
	defer p.repoMu.Unlock()
	delete(p.repos, repoID)
}

func (p *Pool) repoFor(repoID store.RepoId) backend.Repo {
	p.repoMu.RLock()
	defer p.repoMu.RUnlock()
	return p.repos[repoID]
}

// Submit enqueues eff for execution. It blocks only if the queue is full
// (backpressure), never reorders, and never cancels a previously queued
// Effect.
func (p *Pool) Submit(ctx context.Context, eff store.Effect) {
	p.jobs <- job{ctx: ctx, eff: eff}
}

func (p *Pool) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			p.execute(j)
		}
	}
}

func (p *Pool) execute(j job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("effect", j.eff.Kind).Errorf("executor: recovered panic: %v", r)
		}
	}()

	repo := p.repoFor(j.eff.RepoID)
	msg := p.dispatch(j.ctx, j.eff, repo, p.opener)
	p.results <- msg
}

// Close stops accepting new work and waits for in-flight jobs to drain.
// Per the no-cancellation design, already-submitted Effects always run to
// completion; Close only stops the workers once the queue is empty.
func (p *Pool) Close() {
	close(p.jobs)
	_ = p.group.Wait()
	p.cancel()
}
