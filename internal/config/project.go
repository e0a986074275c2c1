package config

import (
	"os"
	"path/filepath"

	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
)

// FindProjectRoot walks up from dir looking for a .git entry.
// Returns the directory containing .git, or NotInRepoError if none is found.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		// .git is a file in worktrees and submodules.
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .git
			return "", todoerrors.NotInRepoError{}
		}
		dir = parent
	}
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1])) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
