package store

import (
	"fmt"
	"strings"

	"github.com/gitcore/gitcore/internal/apperr"
	"github.com/gitcore/gitcore/internal/domain"
)

// summarizeCommand renders a completed command into (command-line, summary)
// for the command log, matching the heuristic, stdout/stderr-content-based
// summaries of the reference implementation.
func summarizeCommand(cmd RepoCommand, output domain.CommandOutput, ok bool, failErr error) (string, string) {
	label := cmd.Kind.failureLabel(cmd)

	if !ok {
		if failErr != nil {
			if gitCmd, details, isGit := tryFormatGitBackendError(failErr); isGit {
				return gitCmd, fmt.Sprintf("%s failed:\n\n%s", label, details)
			}
			return nonEmptyOr(output.Command, label), fmt.Sprintf("%s failed:\n\n%s", label, formatErrorForUser(failErr))
		}
		return nonEmptyOr(output.Command, label), fmt.Sprintf("%s failed", label)
	}

	var summary string
	switch cmd.Kind {
	case CmdFetchAll:
		if strings.TrimSpace(output.Stderr) == "" && strings.TrimSpace(output.Stdout) == "" {
			summary = "Fetch: Already up to date"
		} else {
			summary = "Fetch: Synchronized"
		}
	case CmdPull:
		summary = "Pull: " + pullOutcome(output)
	case CmdPullBranch:
		summary = fmt.Sprintf("Pull %s/%s: %s", cmd.Remote, cmd.Branch, pullOutcome(output))
	case CmdMergeRef:
		summary = fmt.Sprintf("Merge %s: %s", cmd.Ref, mergeOutcome(output))
	case CmdPush:
		if strings.Contains(output.Stderr, "Everything up-to-date") {
			summary = "Push: Everything up-to-date"
		} else {
			summary = "Push: Completed"
		}
	case CmdForcePush:
		if strings.Contains(output.Stderr, "Everything up-to-date") {
			summary = "Force push: Everything up-to-date"
		} else {
			summary = "Force push: Completed"
		}
	case CmdPushSetUpstream:
		base := "Completed"
		if strings.Contains(output.Stderr, "Everything up-to-date") {
			base = "Everything up-to-date"
		}
		summary = fmt.Sprintf("Push -u %s/%s: %s", cmd.Remote, cmd.Branch, base)
	case CmdDeleteRemoteBranch:
		summary = fmt.Sprintf("Remote branch %s/%s: Deleted", cmd.Remote, cmd.Branch)
	case CmdCheckoutConflict:
		if cmd.Side == domain.ConflictSideOurs {
			summary = "Resolved using ours"
		} else {
			summary = "Resolved using theirs"
		}
	case CmdSaveWorktreeFile:
		if cmd.Stage {
			summary = fmt.Sprintf("Saved and staged → %s", cmd.Path)
		} else {
			summary = fmt.Sprintf("Saved → %s", cmd.Path)
		}
	case CmdReset:
		summary = fmt.Sprintf("Reset (--%s) %s: Completed", resetModeName(cmd.Mode), cmd.Target)
	case CmdRebase:
		summary = fmt.Sprintf("Rebase onto %s: Completed", cmd.Onto)
	case CmdRebaseContinue:
		summary = "Rebase: Continued"
	case CmdRebaseAbort:
		summary = "Rebase: Aborted"
	case CmdCreateTag:
		summary = fmt.Sprintf("Tag %s → %s: Created", cmd.Name, cmd.Target)
	case CmdDeleteTag:
		summary = fmt.Sprintf("Tag %s: Deleted", cmd.Name)
	case CmdAddRemote:
		summary = fmt.Sprintf("Remote %s: Added", cmd.Name)
	case CmdRemoveRemote:
		summary = fmt.Sprintf("Remote %s: Removed", cmd.Name)
	case CmdSetRemoteURL:
		summary = fmt.Sprintf("Remote %s: URL updated", cmd.Name)
	case CmdExportPatch:
		summary = fmt.Sprintf("Patch exported → %s", cmd.Path)
	case CmdApplyPatch:
		summary = fmt.Sprintf("Patch applied → %s", cmd.Path)
	case CmdAddWorktree:
		if cmd.Ref != "" {
			summary = fmt.Sprintf("Worktree added → %s (%s)", cmd.Path, cmd.Ref)
		} else {
			summary = fmt.Sprintf("Worktree added → %s", cmd.Path)
		}
	case CmdRemoveWorktree:
		summary = fmt.Sprintf("Worktree removed → %s", cmd.Path)
	case CmdAddSubmodule:
		summary = fmt.Sprintf("Submodule added → %s", cmd.Path)
	case CmdUpdateSubmodules:
		summary = "Submodules: Updated"
	case CmdRemoveSubmodule:
		summary = fmt.Sprintf("Submodule removed → %s", cmd.Path)
	case CmdStageHunk:
		summary = "Hunk staged"
	case CmdUnstageHunk:
		summary = "Hunk unstaged"
	case CmdApplyWorktreePatch:
		if cmd.Reverse {
			summary = "Changes discarded"
		} else {
			summary = "Patch applied"
		}
	default:
		summary = "Completed"
	}

	return output.Command, summary
}

func pullOutcome(output domain.CommandOutput) string {
	switch {
	case strings.Contains(output.Stdout, "Already up to date"):
		return "Already up to date"
	case strings.HasPrefix(output.Stdout, "Updating"):
		return "Fast-forwarded"
	case strings.HasPrefix(output.Stdout, "Merge"):
		return "Merged"
	case strings.Contains(output.Stdout, "Successfully rebased"):
		return "Rebasing complete"
	default:
		return "Completed"
	}
}

func mergeOutcome(output domain.CommandOutput) string {
	switch {
	case strings.Contains(output.Stdout, "Already up to date"):
		return "Already up to date"
	case strings.Contains(output.Stdout, "Fast-forward"), strings.HasPrefix(output.Stdout, "Updating"):
		return "Fast-forwarded"
	case strings.Contains(output.Stdout, "Merge made by"):
		return "Merged"
	default:
		return "Completed"
	}
}

func resetModeName(mode domain.ResetMode) string {
	switch mode {
	case domain.ResetSoft:
		return "soft"
	case domain.ResetMixed:
		return "mixed"
	case domain.ResetHard:
		return "hard"
	default:
		return "mixed"
	}
}

func nonEmptyOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// formatErrorForUser renders a backend error's message verbatim, and falls
// back to err.Error() for every other kind.
func formatErrorForUser(err error) string {
	if be, ok := apperr.As(err, apperr.KindBackend); ok {
		return be.Message
	}
	return err.Error()
}

// formatFailureSummary is the general-purpose (non-RepoCommand) failure
// renderer used outside the command-kind dispatch table, e.g. for load
// failures surfaced to diagnostics.
func formatFailureSummary(label string, err error) string {
	if _, details, isGit := tryFormatGitBackendError(err); isGit {
		return fmt.Sprintf("%s failed:\n\n%s", label, details)
	}
	return fmt.Sprintf("%s failed:\n\n%s", label, formatErrorForUser(err))
}

// tryFormatGitBackendError recognizes a KindBackend error whose message is
// of the canonical "<git ...> failed[: <stderr>]" shape and renders it as a
// fenced command block followed by its captured output.
func tryFormatGitBackendError(err error) (command, rendered string, ok bool) {
	be, isBackend := apperr.As(err, apperr.KindBackend)
	if !isBackend {
		return "", "", false
	}
	cmd, output, matched := parseFailedCommandMessage(be.Message)
	if !matched || !strings.HasPrefix(strings.TrimSpace(cmd), "git ") {
		return "", "", false
	}
	return cmd, renderCommandAndOutput(cmd, output), true
}

func parseFailedCommandMessage(message string) (command string, output string, ok bool) {
	if idx := strings.Index(message, " failed:"); idx >= 0 {
		command = strings.TrimRight(message[:idx], " ")
		rest := message[idx+len(" failed:"):]
		rest = strings.TrimPrefix(rest, " ")
		rest = strings.TrimRight(rest, "\r\n")
		return command, rest, true
	}

	trimmed := strings.TrimRight(message, "\r\n")
	if strings.HasSuffix(trimmed, " failed") {
		return strings.TrimRight(strings.TrimSuffix(trimmed, " failed"), " "), "", true
	}

	return "", "", false
}

func renderCommandAndOutput(command, output string) string {
	command = strings.NewReplacer("\n", " ", "\r", " ").Replace(command)
	command = strings.TrimSpace(command)

	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(command)
	b.WriteString("\n```")

	output = strings.TrimRight(output, "\r\n")
	if output != "" {
		b.WriteString("\n\n")
		b.WriteString(output)
	}
	return b.String()
}

// PushCommandLog renders and appends a completed RepoCommand to the repo's
// command log ring.
func (r *RepoState) PushCommandLog(cmd RepoCommand, output domain.CommandOutput, ok bool, failErr error) {
	commandText, summary := summarizeCommand(cmd, output, ok, failErr)
	stderr := output.Stderr
	if stderr == "" && failErr != nil {
		stderr = formatErrorForUser(failErr)
	}
	r.pushCommandLog(CommandLogEntry{
		OK:      ok,
		Command: commandText,
		Summary: summary,
		Stdout:  output.Stdout,
		Stderr:  stderr,
	})
}

// PushActionLog appends a pre-rendered (non-command-table) log entry, used
// for actions that don't map onto a single RepoCommandKind (e.g. staging a
// path list).
func (r *RepoState) PushActionLog(ok bool, command, summary string, failErr error) {
	stderr := ""
	if failErr != nil {
		stderr = formatErrorForUser(failErr)
	}
	r.pushCommandLog(CommandLogEntry{OK: ok, Command: command, Summary: summary, Stderr: stderr})
}
