package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitDirPointer parses the content of a linked worktree's .git file.
func gitDirPointer(content string) (string, error) {
	line := strings.TrimSpace(content)
	if !strings.HasPrefix(line, "gitdir: ") {
		return "", fmt.Errorf(".git file has unexpected format: %q", line)
	}
	return strings.TrimPrefix(line, "gitdir: "), nil
}

// CommonDir returns the git common directory shared by every worktree of
// the repository containing path. Session records and the worktree watcher
// live there so that all worktrees see the same state.
//
// For the main checkout .git is a directory and is itself the common dir.
// A linked worktree has a .git file pointing at its private gitdir, which
// holds a "commondir" file with the (usually relative) shared location.
func CommonDir(path string) (string, error) {
	dotGit := filepath.Join(path, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", err
	}
	gitDir, err := gitDirPointer(string(data))
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(path, gitDir)
	}
	gitDir = filepath.Clean(gitDir)

	cd, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		// Not a linked worktree layout; the gitdir is all we have.
		return gitDir, nil
	}
	common := strings.TrimSpace(string(cd))
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common), nil
}

// MainCheckout resolves the main checkout for path, which may be the main
// checkout itself or any of its linked worktrees.
func MainCheckout(path string) (string, error) {
	common, err := CommonDir(path)
	if err != nil {
		return "", err
	}
	if filepath.Base(common) != ".git" {
		return "", fmt.Errorf("bare or unusual repository layout at %s", common)
	}
	return filepath.Dir(common), nil
}
