package domain

// RepoExternalChange classifies a filesystem mutation observed by the
// watcher. The three values form a join-semilattice under Merge, with Both
// as the top element.
type RepoExternalChange int

const (
	ChangeWorktree RepoExternalChange = iota
	ChangeGitState
	ChangeBoth
)

// Merge computes the least upper bound of two classifications: Both absorbs
// everything, and Worktree ⊔ GitState = Both.
func (c RepoExternalChange) Merge(other RepoExternalChange) RepoExternalChange {
	if c == other {
		return c
	}
	return ChangeBoth
}
