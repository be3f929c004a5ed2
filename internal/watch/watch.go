// Package watch monitors a repository's working tree and .git directory for
// changes made outside the store (another process editing files, a second
// git client, a background fetch) and reports them as a classified
// domain.RepoExternalChange on a debounced channel.
//
// Unlike the teacher's internal/watcher package, which watches only a
// handful of .git-internal paths and ignores the working tree entirely,
// this package watches both trees so it can distinguish worktree-only
// changes (only Status needs reloading) from git-state changes (refs,
// HEAD, index — the full refresh set).
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/gitcore/gitcore/internal/domain"
)

const (
	defaultDebounce = 250 * time.Millisecond
	defaultMaxDelay = 2 * time.Second
	idleTick        = 30 * time.Second
)

// Watcher monitors one repository's worktree and git directory.
type Watcher struct {
	workdir string
	gitDir  string
	w       *fsnotify.Watcher
	log     *logrus.Entry

	debounce time.Duration
	maxDelay time.Duration

	stop chan struct{}
	done chan struct{}
}

// Options tunes the debouncer; zero values fall back to the package defaults.
type Options struct {
	Debounce time.Duration
	MaxDelay time.Duration
}

// Open resolves workdir's .git directory (following a `gitdir:` pointer file
// for linked worktrees) and starts watching both trees recursively; a
// directory that can't be read or added (e.g. a permission-restricted
// subdirectory) is skipped and the rest of the tree is still watched.
func Open(workdir string, opts Options, log *logrus.Entry) (*Watcher, error) {
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, err
	}
	gitDir := resolveGitDir(abs)
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watchRecursive(fw, abs, log)
	if gitDir != "" {
		watchRecursive(fw, gitDir, log)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	return &Watcher{
		workdir:  abs,
		gitDir:   gitDir,
		w:        fw,
		log:      log,
		debounce: debounce,
		maxDelay: maxDelay,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// watchRecursive walks root adding every directory to fw. Directories that
// fail to open are skipped rather than aborting the whole walk — a single
// unreadable subtree shouldn't blind the watcher to the rest of the repo.
func watchRecursive(fw *fsnotify.Watcher, root string, log *logrus.Entry) {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != root {
			return filepath.SkipDir
		}
		if addErr := fw.Add(path); addErr != nil {
			log.WithError(addErr).WithField("path", path).Debug("watch: skipping unreadable directory")
		}
		return nil
	})
	if err != nil {
		// Fall back to a single non-recursive watch on the root so we still
		// get some signal even if the tree couldn't be fully walked.
		_ = fw.Add(root)
	}
}

// Events returns a channel of debounced, classified changes. The channel is
// closed when the watcher is closed.
func (w *Watcher) Events() <-chan domain.RepoExternalChange {
	out := make(chan domain.RepoExternalChange, 1)
	go w.run(out)
	return out
}

func (w *Watcher) run(out chan<- domain.RepoExternalChange) {
	defer close(out)
	defer close(w.done)

	debouncer := newDebouncedChange(w.debounce, w.maxDelay)

	send := func(c domain.RepoExternalChange) {
		select {
		case out <- c:
		default:
		}
	}

	for {
		timeout, pending := debouncer.nextTimeout(time.Now())
		if !pending {
			timeout = idleTick
		}
		timer := time.NewTimer(timeout)

		select {
		case <-w.stop:
			timer.Stop()
			return
		case ev, ok := <-w.w.Events:
			timer.Stop()
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.w.Add(ev.Name)
				}
			}
			change := w.classify(ev.Name)
			if flushed, ok := debouncer.push(change, time.Now()); ok {
				send(flushed)
			}
		case _, ok := <-w.w.Errors:
			timer.Stop()
			if !ok {
				return
			}
			if flushed, ok := debouncer.push(domain.ChangeBoth, time.Now()); ok {
				send(flushed)
			}
		case <-timer.C:
			if flushed, ok := debouncer.takeIfDue(time.Now()); ok {
				send(flushed)
			}
		}
	}
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() {
	close(w.stop)
	<-w.done
	_ = w.w.Close()
}

func (w *Watcher) classify(path string) domain.RepoExternalChange {
	if w.isGitRelated(path) {
		return domain.ChangeGitState
	}
	return domain.ChangeWorktree
}

func (w *Watcher) isGitRelated(path string) bool {
	dotGit := filepath.Join(w.workdir, ".git")
	if path == dotGit || strings.HasPrefix(path, dotGit+string(filepath.Separator)) {
		return true
	}
	return w.gitDir != "" && strings.HasPrefix(path, w.gitDir)
}

// resolveGitDir follows a linked-worktree `.git` file's `gitdir:` pointer,
// returning "" if workdir/.git doesn't exist or can't be parsed.
func resolveGitDir(workdir string) string {
	dotGit := filepath.Join(workdir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		return dotGit
	}
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	gitdir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	if gitdir == "" {
		return ""
	}
	if filepath.IsAbs(gitdir) {
		return gitdir
	}
	return filepath.Join(workdir, gitdir)
}

func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swo") ||
		strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return true
	}
	if base == "COMMIT_EDITMSG" {
		return true
	}
	if base == "gc.log" || strings.HasPrefix(base, "fsmonitor") {
		return true
	}
	return false
}
