// Command gitcore wires the reactive engine together: config, the gitcli
// backend, the store's reducer, the executor pool, and the filesystem
// watcher. It has no GUI of its own — it is the thin host the graphical
// client (out of scope here) would otherwise embed — so instead of rendering
// state it logs each completion Msg it reduces, at debug level, through
// obslog, which writes to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitcore/gitcore/internal/backend/gitcli"
	"github.com/gitcore/gitcore/internal/cache"
	"github.com/gitcore/gitcore/internal/config"
	"github.com/gitcore/gitcore/internal/executor"
	"github.com/gitcore/gitcore/internal/obslog"
	"github.com/gitcore/gitcore/internal/session"
	"github.com/gitcore/gitcore/internal/store"
	"github.com/gitcore/gitcore/internal/watch"
)

var version = "dev"

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gitcore",
		Short:         "Reactive engine for a graphical Git client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runApp,
	}
	cmd.Flags().StringP("path", "p", ".", "path to the git repository to open")
	return cmd
}

func runApp(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("path")
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := obslog.New(cfg.LogLevel)
	appLog := obslog.Component(logger, "app")

	host, err := newHost(cfg, logger)
	if err != nil {
		return err
	}
	defer host.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	host.dispatchUserMsg(store.Msg{Kind: store.MsgOpenRepo, Workdir: path})

	appLog.Info("gitcore started")
	host.run(ctx)
	return nil
}

// host owns the Engine, executor Pool, and per-repo watchers, and drives the
// single-goroutine message loop: Msg in, Reduce, Effects out, Submit.
type host struct {
	cfg     *config.Config
	log     *logrus.Entry
	engine  *store.Engine
	opener  *gitcli.CachedOpener
	pool    *executor.Pool
	results chan store.Msg

	watchers map[store.RepoId]*watch.Watcher
	watchLog *logrus.Entry
}

func newHost(cfg *config.Config, logger *logrus.Logger) (*host, error) {
	results := make(chan store.Msg, 256)
	opener := &gitcli.CachedOpener{TTL: cfg.BackendCacheTTL}

	store.SetLimits(store.Limits{
		DiagnosticsCap:   cfg.DiagnosticsCap,
		CommandLogCap:    cfg.CommandLogCap,
		NotificationsCap: cfg.NotificationsCap,
		LogPageSize:      cfg.MaxLogEntries,
	})

	engine := store.NewEngine(session.NewFileSink())
	engine.SetCaches(cache.New())

	h := &host{
		cfg:      cfg,
		results:  results,
		engine:   engine,
		opener:   opener,
		watchers: make(map[store.RepoId]*watch.Watcher),
		log:      obslog.Component(logger, "executor"),
		watchLog: obslog.Component(logger, "watch"),
	}

	h.pool = executor.New(cfg.ExecutorPoolSize, opener, executor.DefaultDispatch, results, h.log)
	return h, nil
}

func (h *host) Close() {
	h.pool.Close()
	for _, w := range h.watchers {
		w.Close()
	}
}

// dispatchUserMsg feeds one externally originated Msg (a CLI-driven intent)
// into the reducer and submits the resulting Effects.
func (h *host) dispatchUserMsg(msg store.Msg) {
	effs := h.engine.Reduce(msg)
	h.submit(effs)
}

func (h *host) submit(effs []store.Effect) {
	for _, eff := range effs {
		h.pool.Submit(context.Background(), eff)
	}
}

// run drains completed Effect results, feeding each back into the reducer
// and submitting whatever new Effects it emits, until ctx is canceled.
func (h *host) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.results:
			h.handleCompletion(msg)
		}
	}
}

func (h *host) handleCompletion(msg store.Msg) {
	switch msg.Kind {
	case store.MsgRepoOpenedOk:
		if msg.Repo != nil {
			h.pool.AttachRepo(msg.RepoID, msg.Repo)
			h.startWatcher(msg.RepoID, msg.RepoSpec.Workdir)
		}
	}

	effs := h.engine.Reduce(msg)
	h.submit(effs)
	h.logTransition(msg)
}

func (h *host) startWatcher(repoID store.RepoId, workdir string) {
	w, err := watch.Open(workdir, watch.Options{
		Debounce: h.cfg.WatchDebounce,
		MaxDelay: h.cfg.WatchMaxDelay,
	}, h.watchLog)
	if err != nil {
		h.watchLog.WithError(err).WithField("repo", repoID).Warn("failed to start filesystem watcher")
		return
	}
	h.watchers[repoID] = w

	go func() {
		for change := range w.Events() {
			h.results <- store.Msg{Kind: store.MsgRepoExternallyChanged, RepoID: repoID, Change: change}
		}
	}()
}

func (h *host) stopWatcher(repoID store.RepoId) {
	if w, ok := h.watchers[repoID]; ok {
		w.Close()
		delete(h.watchers, repoID)
		h.pool.DetachRepo(repoID)
	}
}

func (h *host) logTransition(msg store.Msg) {
	fields := map[string]any{"repo": msg.RepoID}
	if msg.Kind == store.MsgCloseRepo {
		h.stopWatcher(msg.RepoID)
	}
	h.log.WithFields(fields).Debugf("msg: %d", msg.Kind)
}
