package store

import (
	"time"

	"github.com/gitcore/gitcore/internal/conflict"
	"github.com/gitcore/gitcore/internal/domain"
)

// RepoId identifies one open repository within AppState. Allocated
// monotonically; it survives reordering but not a session restore.
type RepoId uint64

// NotificationKind classifies an entry in AppState's notification ring.
type NotificationKind int

const (
	NotificationInfo NotificationKind = iota
	NotificationError
)

// Notification is one user-visible toast.
type Notification struct {
	Time    time.Time
	Kind    NotificationKind
	Message string
}

// DiagnosticKind classifies an entry in a RepoState's diagnostics ring.
type DiagnosticKind int

const (
	DiagnosticInfo DiagnosticKind = iota
	DiagnosticWarning
	DiagnosticError
)

// Diagnostic is one operator-facing record kept per repo.
type Diagnostic struct {
	Time    time.Time
	Kind    DiagnosticKind
	Message string
}

// CommandLogEntry records one executed command for the user-facing log.
type CommandLogEntry struct {
	Time    time.Time
	OK      bool
	Command string
	Summary string
	Stdout  string
	Stderr  string
}

// Defaults for the ring buffers below; SetLimits overrides them from
// config at startup. Kept as package vars rather than an AppState field
// since pushDiagnostic/pushCommandLog/pushNotification run on plain
// *RepoState/*AppState receivers with no config handle of their own.
var (
	diagnosticsCap   = 200
	commandLogCap    = 200
	notificationsCap = 200
	logPageSize      = 200
)

const cloneTailCap = 80

// Limits collects the config-driven caps SetLimits applies. A zero field
// leaves the corresponding default in place.
type Limits struct {
	DiagnosticsCap   int
	CommandLogCap    int
	NotificationsCap int
	LogPageSize      int
}

// SetLimits overrides the package's ring-buffer and log-page-size
// defaults. Call once during startup, before any Engine does real work.
func SetLimits(l Limits) {
	if l.DiagnosticsCap > 0 {
		diagnosticsCap = l.DiagnosticsCap
	}
	if l.CommandLogCap > 0 {
		commandLogCap = l.CommandLogCap
	}
	if l.NotificationsCap > 0 {
		notificationsCap = l.NotificationsCap
	}
	if l.LogPageSize > 0 {
		logPageSize = l.LogPageSize
	}
}

// HistoryScope selects what the log/history graph is built from.
type HistoryScope int

const (
	ScopeCurrentBranch HistoryScope = iota
	ScopeAllBranches
)

// CloneOpStatus is the lifecycle state of an in-progress clone.
type CloneOpStatus int

const (
	CloneRunning CloneOpStatus = iota
	CloneFinishedOk
	CloneFinishedErr
)

// CloneOpState tracks an in-progress (or just-finished) clone operation.
type CloneOpState struct {
	URL        string
	Dest       string
	Status     CloneOpStatus
	ErrMessage string
	Seq        uint64
	OutputTail []string
}

func (c *CloneOpState) pushLine(line string) {
	if line == "" {
		return
	}
	c.OutputTail = append(c.OutputTail, line)
	if len(c.OutputTail) > cloneTailCap {
		c.OutputTail = c.OutputTail[len(c.OutputTail)-cloneTailCap:]
	}
}

// RepoState is the full reactive state of one open repository.
type RepoState struct {
	ID   RepoId
	Spec domain.RepoSpec

	Open Loadable[struct{}]

	HeadBranch        Loadable[string]
	Branches          Loadable[[]domain.Branch]
	Remotes           Loadable[[]domain.Remote]
	RemoteBranches    Loadable[[]domain.RemoteBranch]
	Tags              Loadable[[]domain.Tag]
	Stashes           Loadable[[]domain.Stash]
	Worktrees         Loadable[[]domain.Worktree]
	Submodules        Loadable[[]domain.Submodule]
	UpstreamDivergence Loadable[domain.UpstreamDivergence]

	Status Loadable[*domain.RepoStatus]

	Log            Loadable[*domain.LogPage]
	LogLoadingMore bool
	HistoryScope   HistoryScope

	SelectedCommit *domain.CommitId
	CommitDetails  Loadable[domain.CommitDetails]

	DiffTarget    *domain.DiffTarget
	Diff          Loadable[*domain.Diff]
	DiffFile      Loadable[*domain.FileDiffText]
	DiffFileImage Loadable[*domain.FileDiffImage]

	RebaseInProgress    Loadable[bool]
	MergeCommitMessage  Loadable[string]
	Reflog              Loadable[[]domain.ReflogEntry]

	FileHistoryPath *string
	FileHistory     Loadable[*domain.LogPage]

	BlamePath *string
	BlameRev  *domain.CommitId
	Blame     Loadable[[]domain.BlameLine]

	ConflictFilePath *string
	ConflictFile     Loadable[[]conflict.Segment]

	// Revision counters, incremented on every successful replacement of the
	// corresponding field. Used to fingerprint derived caches.
	HeadBranchRev     uint64
	LogRev            uint64
	BranchesRev       uint64
	TagsRev           uint64
	RemotesRev        uint64
	RemoteBranchesRev uint64
	StashesRev        uint64
	WorktreesRev      uint64
	SubmodulesRev     uint64
	DiffRev           uint64
	DiffFileRev       uint64

	LoadsInFlight RepoLoadsInFlight

	LocalActionsInFlight uint32
	CommitInFlight       uint32
	PullInFlight         uint32
	PushInFlight         uint32

	Diagnostics []Diagnostic
	CommandLog  []CommandLogEntry
	LastError   *string
}

// NewOpeningRepo creates a RepoState in open=Loading, as OpenRepo does.
func NewOpeningRepo(id RepoId, spec domain.RepoSpec) *RepoState {
	return &RepoState{
		ID:   id,
		Spec: spec,
		Open: NewLoading[struct{}](),
	}
}

func (r *RepoState) pushDiagnostic(kind DiagnosticKind, message string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Time: stamp(), Kind: kind, Message: message})
	if len(r.Diagnostics) > diagnosticsCap {
		r.Diagnostics = r.Diagnostics[len(r.Diagnostics)-diagnosticsCap:]
	}
}

func (r *RepoState) pushCommandLog(entry CommandLogEntry) {
	entry.Time = stamp()
	r.CommandLog = append(r.CommandLog, entry)
	if len(r.CommandLog) > commandLogCap {
		r.CommandLog = r.CommandLog[len(r.CommandLog)-commandLogCap:]
	}
}

func (r *RepoState) decLocalActions() {
	if r.LocalActionsInFlight > 0 {
		r.LocalActionsInFlight--
	}
}

func (r *RepoState) decCommit() {
	if r.CommitInFlight > 0 {
		r.CommitInFlight--
	}
}

func (r *RepoState) decPull() {
	if r.PullInFlight > 0 {
		r.PullInFlight--
	}
}

func (r *RepoState) decPush() {
	if r.PushInFlight > 0 {
		r.PushInFlight--
	}
}

// AppState is the entire state owned by the reducer.
type AppState struct {
	Repos           []*RepoState
	ActiveRepo      *RepoId
	Notifications   []Notification
	Clone           *CloneOpState
}

func (s *AppState) findRepo(id RepoId) *RepoState {
	for _, r := range s.Repos {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *AppState) repoIndex(id RepoId) int {
	for i, r := range s.Repos {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) pushNotification(kind NotificationKind, message string) {
	s.Notifications = append(s.Notifications, Notification{Time: stamp(), Kind: kind, Message: message})
	if len(s.Notifications) > notificationsCap {
		s.Notifications = s.Notifications[len(s.Notifications)-notificationsCap:]
	}
}

// stamp is the single clock read in the reducer, isolated so tests can
// observe it's only ever used for display timestamps, never for control
// flow (the reducer's logic never branches on wall-clock time).
var stamp = func() time.Time { return time.Now() }
