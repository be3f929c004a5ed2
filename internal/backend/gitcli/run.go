// Package gitcli is the reference backend.Repo implementation: it shells out
// to the git CLI the same way the original TUI's internal/git package did,
// but through backend.Repo's context-aware, domain-typed contract instead of
// a UI-specific Service interface.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gitcore/gitcore/internal/apperr"
	"github.com/gitcore/gitcore/internal/backend"
	"github.com/gitcore/gitcore/internal/domain"
)

var _ backend.Repo = (*CLIRepo)(nil)

// readEnv is appended to every read-only command so optional locks are never
// taken; large repos with concurrent readers/writers don't stall each other.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// CLIRepo implements backend.Repo by shelling out to git. One CLIRepo per
// opened repository; safe for concurrent use since each invocation is an
// independent subprocess.
type CLIRepo struct {
	root   string
	gitDir string
}

// Open resolves path to its repository root and .git directory.
func Open(ctx context.Context, path string) (*CLIRepo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperr.Io("resolving path", err)
	}
	topLevel, err := runGit(ctx, abs, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, apperr.NotARepository(abs)
	}
	gitDir, err := runGit(ctx, abs, nil, "rev-parse", "--git-dir")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "finding .git directory", err)
	}
	gd := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gd) {
		gd = filepath.Join(strings.TrimSpace(topLevel), gd)
	}
	return &CLIRepo{root: strings.TrimSpace(topLevel), gitDir: gd}, nil
}

func (r *CLIRepo) Spec() domain.RepoSpec { return domain.RepoSpec{Workdir: r.root} }

// GitDir returns the resolved .git directory, used by the filesystem watcher.
func (r *CLIRepo) GitDir() string { return r.gitDir }

func (r *CLIRepo) run(ctx context.Context, args ...string) (string, error) {
	return runGit(ctx, r.root, readEnv, args...)
}

func (r *CLIRepo) runWrite(ctx context.Context, args ...string) (domain.CommandOutput, error) {
	out, stderr, err := runGitSplit(ctx, r.root, nil, args...)
	co := domain.CommandOutput{
		Command: "git " + strings.Join(args, " "),
		Stdout:  out,
		Stderr:  stderr,
	}
	if err != nil {
		co.ExitCode = exitCode(err)
		return co, apperr.Backend(co.Command, stderr, err)
	}
	return co, nil
}

// runWriteStdin runs a write command with stdin set to input, used for
// piping a patch into `git apply -`.
func (r *CLIRepo) runWriteStdin(ctx context.Context, input string, args ...string) (domain.CommandOutput, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	cmd.Stdin = strings.NewReader(input)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	runErr := cmd.Run()
	stderr := strings.TrimSpace(errBuf.String())
	co := domain.CommandOutput{
		Command: "git " + strings.Join(args, " "),
		Stdout:  outBuf.String(),
		Stderr:  stderr,
	}
	if runErr != nil {
		co.ExitCode = exitCode(runErr)
		return co, apperr.Backend(co.Command, stderr, runErr)
	}
	return co, nil
}

// runGit runs git and returns stdout, folding stderr into the error on
// failure (mirrors the reference CLI's runGit helper).
func runGit(ctx context.Context, dir string, extraEnv []string, args ...string) (string, error) {
	out, stderr, err := runGitSplit(ctx, dir, extraEnv, args...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = strings.TrimSpace(out)
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
	}
	return out, nil
}

func runGitSplit(ctx context.Context, dir string, extraEnv []string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	runErr := cmd.Run()
	return outBuf.String(), strings.TrimSpace(errBuf.String()), runErr
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}
