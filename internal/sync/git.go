package sync

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// GitDestination keeps the communications backup as a tracked file in a local
// git clone, committing and pushing whenever the export changed. The repo
// history doubles as the backup history.
type GitDestination struct {
	repo   string // path to the local clone
	file   string // backup file path within the repo
	branch string // branch the backups land on
}

// NewGitDestination builds a destination over an existing local clone. The
// clone must have an "origin" remote the scheduler can push to.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{
		repo:   repo,
		file:   file,
		branch: branch,
	}
}

// Write replaces the backup file and commits it. An export identical to the
// last one produces no commit.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if err := d.git(ctx, "checkout", d.branch); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}

	// Best effort; a fresh remote may not carry the branch yet.
	_ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}

	if err := d.git(ctx, "add", d.file); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if err := d.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		// Export unchanged since the last backup.
		return nil
	}

	msg := fmt.Sprintf("backup: communications export %s", time.Now().UTC().Format("2006-01-02 15:04"))
	if err := d.git(ctx, "commit", "-m", msg); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

func (d *GitDestination) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	// Surface git's own output in the server log.
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
