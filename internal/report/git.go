package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit adds reportPath to the git repository at dir and commits it with a
// dated message. A clean worktree is a no-op; a dir that is not a repository
// is an error the caller can choose to treat as non-fatal.
func Commit(dir, reportPath string, date time.Time) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return fmt.Errorf("results dir %s is not a git repository: %w", dir, err)
		}
		return fmt.Errorf("open results repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("results worktree: %w", err)
	}

	rel, err := filepath.Rel(dir, reportPath)
	if err != nil {
		return fmt.Errorf("report path outside results dir: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("git add %s: %w", rel, err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if status.IsClean() {
		return nil // nothing changed since the last run
	}

	msg := "job results " + date.Format("2006-01-02")
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "jobsearcher",
			Email: "jobsearcher@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}
